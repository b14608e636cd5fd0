package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/open436/section-service/models"
)

const maxReorderBatch = 100

// ReorderEntry assigns a new sort_order to one section.
type ReorderEntry struct {
	ID        uint `json:"id" binding:"required"`
	SortOrder int  `json:"sort_order" binding:"required"`
}

// ReorderApplier applies a batch of sort_order assignments as a single
// transaction so partial application is never observable.
type ReorderApplier struct {
	db *gorm.DB
}

func NewReorderApplier(db *gorm.DB) *ReorderApplier {
	return &ReorderApplier{db: db}
}

// Apply validates the whole batch up front, then updates inside one
// transaction. Unknown ids are silent no-ops. Returns the number of
// entries processed.
func (r *ReorderApplier) Apply(entries []ReorderEntry) (int, error) {
	if len(entries) == 0 {
		return 0, invalidArgf("sections must contain at least one entry")
	}
	if len(entries) > maxReorderBatch {
		return 0, invalidArgf("sections must contain at most %d entries", maxReorderBatch)
	}
	for _, e := range entries {
		if e.ID == 0 {
			return 0, invalidArgf("id must be a positive integer")
		}
		if e.SortOrder < minSortOrder || e.SortOrder > maxSortOrder {
			return 0, invalidArgf("sort_order must be between %d and %d", minSortOrder, maxSortOrder)
		}
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			// UpdateColumn keeps updated_at untouched, matching the filter-then-update semantics
			if err := tx.Model(&models.Section{}).Where("id = ?", e.ID).
				UpdateColumn("sort_order", e.SortOrder).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("apply reorder batch: %w", err)
	}
	return len(entries), nil
}
