package testimonial

import "time"

// Object key namespaces. Videos and thumbnails never share a prefix.
const (
	VideoPrefix     = "testimonials/videos"
	ThumbnailPrefix = "testimonials/thumbnails"
)

// Testimonial pairs submitter metadata with a video and its thumbnail.
type Testimonial struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	ProductName  string    `json:"productName"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateInput carries the text fields and the staged local paths of both assets.
type CreateInput struct {
	Name          string `validate:"required"`
	Location      string `validate:"required"`
	ProductName   string `validate:"required"`
	VideoPath     string `validate:"required"`
	ThumbnailPath string `validate:"required"`
}

// UpdateInput carries optional replacements. Blank fields leave the stored value unchanged.
type UpdateInput struct {
	Name          string
	Location      string
	ProductName   string
	VideoPath     string
	ThumbnailPath string
}

// Asset is an object written to the asset store.
type Asset struct {
	URL string
	Key string
}
