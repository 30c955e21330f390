package testimonial

import "context"

// AssetStore is the object-storage backend holding videos and thumbnails.
type AssetStore interface {
	// Upload stores the file at localPath under prefix and returns its public URL and key.
	Upload(ctx context.Context, localPath, prefix string) (Asset, error)
	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
	// KeyFromURL derives the object key from a URL previously returned by Upload.
	KeyFromURL(rawURL string) string
}
