package requests

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// Multipart field names accepted by the testimonial endpoints.
const (
	FieldVideo     = "video"
	FieldThumbnail = "thumbnail"
)

// TestimonialForm holds the text fields of a create or update request.
type TestimonialForm struct {
	Name        string `form:"name" json:"name"`
	Location    string `form:"location" json:"location"`
	ProductName string `form:"productName" json:"productName"`
}

// StagedFiles are uploaded files copied to a private temp directory for the duration of a request.
type StagedFiles struct {
	dir   string
	paths map[string]string
}

// Path returns the local path staged for field, or "" when the field was not supplied.
func (s *StagedFiles) Path(field string) string {
	if s == nil {
		return ""
	}
	return s.paths[field]
}

// Cleanup removes every staged file. Safe to call on nil.
func (s *StagedFiles) Cleanup() error {
	if s == nil || s.dir == "" {
		return nil
	}
	return os.RemoveAll(s.dir)
}

var (
	// ErrBodyTooLarge is returned when the request exceeds the configured upload limit.
	ErrBodyTooLarge = errors.New("request body too large")
	// ErrStaging marks local filesystem failures while staging uploads. These are server faults.
	ErrStaging = errors.New("upload staging failed")
)

// StageFiles copies the first file of each named multipart field into a fresh directory under
// baseDir. Requests that are not multipart yield an empty set.
func StageFiles(c *gin.Context, baseDir string, fields ...string) (*StagedFiles, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return &StagedFiles{paths: map[string]string{}}, nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}

	dir, err := os.MkdirTemp(baseDir, "testimonial-upload-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create staging directory: %w", ErrStaging, err)
	}
	staged := &StagedFiles{dir: dir, paths: make(map[string]string, len(fields))}

	for _, field := range fields {
		files := form.File[field]
		if len(files) == 0 || files[0] == nil || files[0].Size == 0 {
			continue
		}
		header := files[0]
		ext := strings.ToLower(filepath.Ext(filepath.Base(header.Filename)))
		dst := filepath.Join(dir, field+ext)
		if err := c.SaveUploadedFile(header, dst); err != nil {
			_ = staged.Cleanup()
			return nil, fmt.Errorf("%w: stage %s: %w", ErrStaging, field, err)
		}
		staged.paths[field] = dst
	}
	return staged, nil
}
