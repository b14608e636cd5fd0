package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/open436/section-service/models"
)

// PostCountSynchronizer is the only legitimate write path for
// posts_count. The content service owns the posts themselves and
// reports deltas as posts are created or removed; there is no
// reconciliation job, so drift against the true count is an accepted
// risk.
type PostCountSynchronizer struct {
	db *gorm.DB
}

func NewPostCountSynchronizer(db *gorm.DB) *PostCountSynchronizer {
	return &PostCountSynchronizer{db: db}
}

// Increment adds delta (possibly negative) to the section's
// posts_count. A result below zero clamps at zero: an undercount from
// the content service is recovered from, not rejected.
func (p *PostCountSynchronizer) Increment(sectionID uint, delta int) (*models.Section, error) {
	var section models.Section
	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&section, sectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("section not found")
			}
			return fmt.Errorf("load section %d: %w", sectionID, err)
		}

		if err := tx.Model(&section).
			UpdateColumn("posts_count", gorm.Expr("posts_count + ?", delta)).Error; err != nil {
			return fmt.Errorf("increment posts_count: %w", err)
		}
		if err := tx.Model(&models.Section{}).
			Where("id = ? AND posts_count < 0", sectionID).
			UpdateColumn("posts_count", 0).Error; err != nil {
			return fmt.Errorf("clamp posts_count: %w", err)
		}

		return tx.First(&section, sectionID).Error
	})
	if err != nil {
		return nil, err
	}
	return &section, nil
}
