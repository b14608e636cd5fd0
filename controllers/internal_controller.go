package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/open436/section-service/services"
	"github.com/open436/section-service/utils"
)

// InternalController serves the endpoints called by other services on
// the trusted network, chiefly the content service keeping posts_count
// in sync.
type InternalController struct {
	store   *services.SectionStore
	counter *services.PostCountSynchronizer
}

func NewInternalController(db *gorm.DB) *InternalController {
	return &InternalController{
		store:   services.NewSectionStore(db),
		counter: services.NewPostCountSynchronizer(db),
	}
}

// IncrementPosts adjusts a section's posts_count by the supplied delta
// (default +1). Results below zero clamp at zero.
func (c *InternalController) IncrementPosts(ctx *gin.Context) {
	var req struct {
		Value *int `json:"value"`
	}
	// An empty body means the default delta of +1
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.Error(ctx, http.StatusBadRequest, "InvalidArgument", "value must be an integer")
		return
	}

	delta := 1
	if req.Value != nil {
		delta = *req.Value
	}

	id, ok := parseID(ctx)
	if !ok {
		return
	}

	section, err := c.counter.Increment(id, delta)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Respond(ctx, http.StatusOK, "posts count updated", gin.H{
		"id":          section.ID,
		"slug":        section.Slug,
		"posts_count": section.PostsCount,
	})
}

// ValidateSection reports whether a section exists and is enabled.
// Disabled sections answer 404 so the content service refuses posts
// into them.
func (c *InternalController) ValidateSection(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	section, err := c.store.GetByID(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	if !section.IsEnabled {
		utils.Error(ctx, http.StatusNotFound, "NotFound", "section not found or disabled")
		return
	}

	utils.Respond(ctx, http.StatusOK, "section valid", gin.H{
		"id":         section.ID,
		"slug":       section.Slug,
		"name":       section.Name,
		"is_enabled": section.IsEnabled,
	})
}
