package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/open436/section-service/models"
)

// SectionSummary is one row of the statistics snapshot.
type SectionSummary struct {
	ID         uint   `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	IsEnabled  bool   `json:"is_enabled"`
	PostsCount int    `json:"posts_count"`
	SortOrder  int    `json:"sort_order"`
}

// StatisticsSnapshot is the read-only aggregate for admin dashboards.
type StatisticsSnapshot struct {
	TotalSections    int64            `json:"total_sections"`
	EnabledSections  int64            `json:"enabled_sections"`
	DisabledSections int64            `json:"disabled_sections"`
	TotalPosts       int64            `json:"total_posts"`
	Sections         []SectionSummary `json:"sections"`
}

// StatisticsAggregator computes counts and sums over the section table.
// No caching; every call reflects current state.
type StatisticsAggregator struct {
	db *gorm.DB
}

func NewStatisticsAggregator(db *gorm.DB) *StatisticsAggregator {
	return &StatisticsAggregator{db: db}
}

// Snapshot runs the aggregate queries and per-section summary in one pass.
func (a *StatisticsAggregator) Snapshot() (*StatisticsSnapshot, error) {
	var total, enabled int64
	if err := a.db.Model(&models.Section{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count sections: %w", err)
	}
	if err := a.db.Model(&models.Section{}).Where("is_enabled = ?", true).Count(&enabled).Error; err != nil {
		return nil, fmt.Errorf("count enabled sections: %w", err)
	}

	var totalPosts int64
	if err := a.db.Model(&models.Section{}).
		Select("COALESCE(SUM(posts_count), 0)").Scan(&totalPosts).Error; err != nil {
		return nil, fmt.Errorf("sum posts_count: %w", err)
	}

	var sections []models.Section
	if err := a.db.Order("sort_order ASC, id ASC").Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	summaries := make([]SectionSummary, 0, len(sections))
	for _, s := range sections {
		summaries = append(summaries, SectionSummary{
			ID:         s.ID,
			Slug:       s.Slug,
			Name:       s.Name,
			IsEnabled:  s.IsEnabled,
			PostsCount: s.PostsCount,
			SortOrder:  s.SortOrder,
		})
	}

	return &StatisticsSnapshot{
		TotalSections:    total,
		EnabledSections:  enabled,
		DisabledSections: total - enabled,
		TotalPosts:       totalPosts,
		Sections:         summaries,
	}, nil
}
