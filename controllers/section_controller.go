package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/open436/section-service/clients"
	"github.com/open436/section-service/middleware"
	"github.com/open436/section-service/models"
	"github.com/open436/section-service/services"
	"github.com/open436/section-service/utils"
)

// SectionController serves the public and admin section endpoints.
type SectionController struct {
	store      *services.SectionStore
	lifecycle  *services.LifecycleManager
	reorder    *services.ReorderApplier
	statistics *services.StatisticsAggregator
	files      *clients.FileServiceClient
}

// NewSectionController wires the service components over one database handle.
func NewSectionController(db *gorm.DB, files *clients.FileServiceClient) *SectionController {
	store := services.NewSectionStore(db)
	return &SectionController{
		store:      store,
		lifecycle:  services.NewLifecycleManager(store),
		reorder:    services.NewReorderApplier(db),
		statistics: services.NewStatisticsAggregator(db),
		files:      files,
	}
}

// SectionView is the wire representation of a section, with the icon
// URL resolved through the file service.
type SectionView struct {
	ID          uint      `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IconFileID  *string   `json:"icon_file_id"`
	IconURL     *string   `json:"icon_url"`
	Color       string    `json:"color"`
	SortOrder   int       `json:"sort_order"`
	IsEnabled   bool      `json:"is_enabled"`
	PostsCount  int       `json:"posts_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *SectionController) view(ctx *gin.Context, s *models.Section) SectionView {
	var iconURL *string
	if c.files != nil {
		iconURL = c.files.ResolveIconURL(ctx.Request.Context(), s.IconFileID)
	}
	return SectionView{
		ID:          s.ID,
		Slug:        s.Slug,
		Name:        s.Name,
		Description: s.Description,
		IconFileID:  s.IconFileID,
		IconURL:     iconURL,
		Color:       s.Color,
		SortOrder:   s.SortOrder,
		IsEnabled:   s.IsEnabled,
		PostsCount:  s.PostsCount,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ListSections returns a page of sections ordered by (sort_order, id).
// Non-admin callers only see enabled sections.
func (c *SectionController) ListSections(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	enabledOnly := true
	if isAdmin(ctx) {
		enabledOnly = ctx.Query("enabled_only") == "true"
	}

	sections, total, err := c.store.ListPage(page, pageSize, enabledOnly)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	items := make([]SectionView, 0, len(sections))
	for i := range sections {
		items = append(items, c.view(ctx, &sections[i]))
	}

	utils.Success(ctx, gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// GetSection returns one section by numeric id, falling back to slug
// lookup when the path segment is not a number.
func (c *SectionController) GetSection(ctx *gin.Context) {
	key := strings.TrimSpace(ctx.Param("id"))

	var section *models.Section
	var err error
	if id, convErr := strconv.ParseUint(key, 10, 64); convErr == nil {
		section, err = c.store.GetByID(uint(id))
	} else {
		section, err = c.store.GetBySlug(key)
	}
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	if !section.IsEnabled && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusNotFound, "NotFound", "section not found")
		return
	}

	utils.Success(ctx, gin.H{"section": c.view(ctx, section)})
}

// GetSectionBySlug returns one section via the explicit slug route.
func (c *SectionController) GetSectionBySlug(ctx *gin.Context) {
	section, err := c.store.GetBySlug(strings.TrimSpace(ctx.Param("slug")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	if !section.IsEnabled && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusNotFound, "NotFound", "section not found")
		return
	}
	utils.Success(ctx, gin.H{"section": c.view(ctx, section)})
}

// CreateSection creates a new section (admin only).
func (c *SectionController) CreateSection(ctx *gin.Context) {
	var req struct {
		Slug        string `json:"slug" binding:"required"`
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		IconFileID  string `json:"icon_file_id"`
		Color       string `json:"color" binding:"required"`
		SortOrder   int    `json:"sort_order"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "InvalidArgument", "invalid request payload")
		return
	}

	section, err := c.store.Create(services.CreateInput{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		IconFileID:  req.IconFileID,
		Color:       req.Color,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Created(ctx, "section created", gin.H{"section": c.view(ctx, section)})
}

// UpdateSection applies a partial update (admin only). Slug,
// is_enabled and posts_count cannot be changed here.
func (c *SectionController) UpdateSection(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IconFileID  *string `json:"icon_file_id"`
		Color       *string `json:"color"`
		SortOrder   *int    `json:"sort_order"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "InvalidArgument", "invalid request payload")
		return
	}

	section, err := c.store.Update(id, services.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		IconFileID:  req.IconFileID,
		Color:       req.Color,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Respond(ctx, http.StatusOK, "section updated", gin.H{"section": c.view(ctx, section)})
}

// UpdateStatus explicitly enables or disables a section (admin only).
func (c *SectionController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req struct {
		IsEnabled *bool `json:"is_enabled" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "InvalidArgument", "is_enabled is required")
		return
	}

	section, err := c.store.GetByID(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	var message string
	if *req.IsEnabled {
		err = c.lifecycle.Enable(section)
		message = "section enabled"
	} else {
		err = c.lifecycle.Disable(section)
		message = "section disabled"
	}
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Respond(ctx, http.StatusOK, message, gin.H{"section": c.view(ctx, section)})
}

// ToggleSection flips is_enabled (admin only).
func (c *SectionController) ToggleSection(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	section, err := c.store.GetByID(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	if section.IsEnabled {
		err = c.lifecycle.Disable(section)
	} else {
		err = c.lifecycle.Enable(section)
	}
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"section": c.view(ctx, section)})
}

// DeleteSection soft-deletes by default; ?force=true removes the row,
// subject to the lifecycle guards.
func (c *SectionController) DeleteSection(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	section, err := c.store.GetByID(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	if ctx.Query("force") == "true" {
		if err := c.lifecycle.HardDelete(section); err != nil {
			respondServiceError(ctx, err)
			return
		}
		utils.SuccessMessage(ctx, "section deleted")
		return
	}

	if err := c.lifecycle.SoftDelete(section); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, "section disabled")
}

// ReorderSections applies a batch of sort_order assignments atomically
// (admin only).
func (c *SectionController) ReorderSections(ctx *gin.Context) {
	var req struct {
		Sections []services.ReorderEntry `json:"sections" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "InvalidArgument", "invalid request payload")
		return
	}

	processed, err := c.reorder.Apply(req.Sections)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Respond(ctx, http.StatusOK, "sections reordered", gin.H{"updated": processed})
}

// GetStatistics returns the aggregator snapshot (admin only).
func (c *SectionController) GetStatistics(ctx *gin.Context) {
	snapshot, err := c.statistics.Snapshot()
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, snapshot)
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(ctx.Param("id")), 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, "InvalidArgument", "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func isAdmin(ctx *gin.Context) bool {
	id, ok := middleware.GetIdentity(ctx)
	return ok && id.IsAdmin()
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, "NotFound", err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.Error(ctx, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, services.ErrInvalidArgument):
		utils.Error(ctx, http.StatusBadRequest, "InvalidArgument", err.Error())
	case errors.Is(err, services.ErrInvalidOperation):
		utils.Error(ctx, http.StatusBadRequest, "InvalidOperation", err.Error())
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorf("internal error: %v", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, "InternalError", "internal server error")
	}
}
