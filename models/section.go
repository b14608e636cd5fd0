package models

import "time"

// Section represents a forum board. Posts themselves are owned by the
// content service; only the denormalized posts_count lives here.
type Section struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:20;uniqueIndex;not null" json:"slug"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	IconFileID  *string   `gorm:"type:char(36)" json:"icon_file_id"` // file-service UUID, no FK enforced
	Color       string    `gorm:"size:7;not null" json:"color"`
	SortOrder   int       `gorm:"not null;default:100" json:"sort_order"`
	IsEnabled   bool      `gorm:"index;default:true" json:"is_enabled"`
	PostsCount  int       `gorm:"not null;default:0" json:"posts_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName keeps the table name aligned with the shared schema.
func (Section) TableName() string {
	return "sections"
}
