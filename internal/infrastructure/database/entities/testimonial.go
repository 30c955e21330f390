package entities

import (
	"time"

	"github.com/google/uuid"
)

// Testimonial represents the persisted testimonial row.
type Testimonial struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:text;not null;default:''"`
	Location     string    `gorm:"type:text;not null;default:''"`
	ProductName  string    `gorm:"type:text;not null;default:''"`
	VideoURL     string    `gorm:"column:video_url;type:text;not null;default:''"`
	ThumbnailURL string    `gorm:"column:thumbnail_url;type:text;not null;default:''"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_testimonials_created_at,sort:desc"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Testimonial) TableName() string {
	return "testimonials"
}
