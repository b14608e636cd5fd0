package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/open436/section-service/models"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9_]+$`)
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	// Descriptions accept markdown; strip embedded markup the way the forum does for posts.
	descSanitizer = bluemonday.StrictPolicy()
)

const (
	defaultSortOrder = 100
	minSortOrder     = 1
	maxSortOrder     = 999
)

// SectionStore is the authoritative CRUD layer for sections. It owns
// slug/name uniqueness and field validation; lifecycle invariants live
// in LifecycleManager.
type SectionStore struct {
	db *gorm.DB
}

func NewSectionStore(db *gorm.DB) *SectionStore {
	return &SectionStore{db: db}
}

// DB exposes the underlying handle for components sharing the store's connection.
func (s *SectionStore) DB() *gorm.DB { return s.db }

// CreateInput carries client settable fields for a new section.
type CreateInput struct {
	Slug        string
	Name        string
	Description string
	IconFileID  string
	Color       string
	SortOrder   int
}

// UpdateInput carries optional fields for a partial update; nil means
// "leave unchanged". Slug, is_enabled and posts_count are never
// writable through this path.
type UpdateInput struct {
	Name        *string
	Description *string
	IconFileID  *string
	Color       *string
	SortOrder   *int
}

// Create inserts a new section with is_enabled=true and posts_count=0.
func (s *SectionStore) Create(in CreateInput) (*models.Section, error) {
	slug := strings.TrimSpace(in.Slug)
	if len(slug) < 3 || len(slug) > 20 {
		return nil, invalidArgf("slug must be 3-20 characters")
	}
	if !slugPattern.MatchString(slug) {
		return nil, invalidArgf("slug may only contain lowercase letters, digits and underscores")
	}

	name := strings.TrimSpace(in.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	desc, err := validateDescription(in.Description)
	if err != nil {
		return nil, err
	}

	if !colorPattern.MatchString(in.Color) {
		return nil, invalidArgf("color must be a HEX value like #1976D2")
	}

	sortOrder := in.SortOrder
	if sortOrder == 0 {
		sortOrder = defaultSortOrder
	}
	if sortOrder < minSortOrder || sortOrder > maxSortOrder {
		return nil, invalidArgf("sort_order must be between %d and %d", minSortOrder, maxSortOrder)
	}

	iconID, err := validateIconFileID(in.IconFileID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Section{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check slug uniqueness: %w", err)
	}
	if count > 0 {
		return nil, conflictf("slug already exists")
	}
	if err := s.db.Model(&models.Section{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check name uniqueness: %w", err)
	}
	if count > 0 {
		return nil, conflictf("name already exists")
	}

	section := models.Section{
		Slug:        slug,
		Name:        name,
		Description: desc,
		IconFileID:  iconID,
		Color:       in.Color,
		SortOrder:   sortOrder,
		IsEnabled:   true,
		PostsCount:  0,
	}
	if err := s.db.Create(&section).Error; err != nil {
		// Racing creates slip past the pre-check and land on the unique index
		if isDuplicateKeyErr(err) {
			return nil, conflictf("slug or name already exists")
		}
		return nil, fmt.Errorf("create section: %w", err)
	}
	return &section, nil
}

// GetByID returns the section with the given id.
func (s *SectionStore) GetByID(id uint) (*models.Section, error) {
	var section models.Section
	if err := s.db.First(&section, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("section not found")
		}
		return nil, fmt.Errorf("load section %d: %w", id, err)
	}
	return &section, nil
}

// GetBySlug returns the section with the given slug.
func (s *SectionStore) GetBySlug(slug string) (*models.Section, error) {
	var section models.Section
	if err := s.db.Where("slug = ?", slug).First(&section).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("section not found")
		}
		return nil, fmt.Errorf("load section %q: %w", slug, err)
	}
	return &section, nil
}

// ListPage returns one page of sections ordered by (sort_order, id)
// plus the total matching count. Page starts at 1.
func (s *SectionStore) ListPage(page, pageSize int, enabledOnly bool) ([]models.Section, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := s.db.Model(&models.Section{})
	if enabledOnly {
		query = query.Where("is_enabled = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count sections: %w", err)
	}

	var sections []models.Section
	offset := (page - 1) * pageSize
	if err := query.Order("sort_order ASC, id ASC").Offset(offset).Limit(pageSize).Find(&sections).Error; err != nil {
		return nil, 0, fmt.Errorf("list sections: %w", err)
	}
	return sections, total, nil
}

// Update applies only the supplied fields to an existing section.
func (s *SectionStore) Update(id uint, in UpdateInput) (*models.Section, error) {
	section, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		var count int64
		if err := s.db.Model(&models.Section{}).Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check name uniqueness: %w", err)
		}
		if count > 0 {
			return nil, conflictf("name already exists")
		}
		updates["name"] = name
	}

	if in.Description != nil {
		desc, err := validateDescription(*in.Description)
		if err != nil {
			return nil, err
		}
		updates["description"] = desc
	}

	if in.IconFileID != nil {
		iconID, err := validateIconFileID(*in.IconFileID)
		if err != nil {
			return nil, err
		}
		updates["icon_file_id"] = iconID
	}

	if in.Color != nil {
		if !colorPattern.MatchString(*in.Color) {
			return nil, invalidArgf("color must be a HEX value like #1976D2")
		}
		updates["color"] = *in.Color
	}

	if in.SortOrder != nil {
		if *in.SortOrder < minSortOrder || *in.SortOrder > maxSortOrder {
			return nil, invalidArgf("sort_order must be between %d and %d", minSortOrder, maxSortOrder)
		}
		updates["sort_order"] = *in.SortOrder
	}

	if len(updates) == 0 {
		return section, nil
	}

	if err := s.db.Model(section).Updates(updates).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, conflictf("name already exists")
		}
		return nil, fmt.Errorf("update section %d: %w", id, err)
	}
	return s.GetByID(id)
}

// Delete removes a section. hard=false disables the row instead of
// removing it. Invariant checks are the LifecycleManager's job.
func (s *SectionStore) Delete(id uint, hard bool) error {
	section, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if hard {
		if err := s.db.Delete(section).Error; err != nil {
			return fmt.Errorf("delete section %d: %w", id, err)
		}
		return nil
	}
	if err := s.db.Model(section).Update("is_enabled", false).Error; err != nil {
		return fmt.Errorf("disable section %d: %w", id, err)
	}
	return nil
}

// EnabledCount returns the number of sections with is_enabled=true.
func (s *SectionStore) EnabledCount() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Section{}).Where("is_enabled = ?", true).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count enabled sections: %w", err)
	}
	return count, nil
}

func validateName(name string) error {
	if n := len([]rune(name)); n < 2 || n > 50 {
		return invalidArgf("name must be 2-50 characters")
	}
	return nil
}

func validateDescription(desc string) (string, error) {
	desc = descSanitizer.Sanitize(desc)
	if len([]rune(desc)) > 500 {
		return "", invalidArgf("description must be at most 500 characters")
	}
	return desc, nil
}

// validateIconFileID parses an optional UUID; empty string clears the icon.
func validateIconFileID(raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalidArgf("icon_file_id must be a valid UUID")
	}
	normalized := id.String()
	return &normalized, nil
}

func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}
