package storage

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/janhq/testimonial-server/internal/utils/assetid"
)

// stagedFile describes a local file about to be uploaded.
type stagedFile struct {
	key         string
	contentType string
}

// describeFile detects the content type of the file at localPath and builds a fresh object key
// under prefix. The key extension comes from the detected type, else from the file name.
func describeFile(localPath, prefix string) (stagedFile, error) {
	prefix, err := normalizePrefix(prefix)
	if err != nil {
		return stagedFile{}, err
	}

	mt, err := mimetype.DetectFile(localPath)
	if err != nil {
		return stagedFile{}, fmt.Errorf("read staged file: %w", err)
	}
	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(localPath))
	}

	return stagedFile{
		key:         prefix + "/" + assetid.New() + ext,
		contentType: mt.String(),
	}, nil
}

// normalizePrefix cleans a key prefix and rejects absolute or escaping values.
func normalizePrefix(prefix string) (string, error) {
	prefix = strings.ReplaceAll(strings.TrimSpace(prefix), "\\", "/")
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return "", fmt.Errorf("object prefix is required")
	}
	for _, part := range strings.Split(prefix, "/") {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("invalid object prefix %q", prefix)
		}
	}
	return path.Clean(prefix), nil
}

// keyFromURL strips base from rawURL and returns the decoded remainder. A URL outside base
// yields "". Without a base the URL path is used as the key.
func keyFromURL(rawURL, base string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	base = strings.TrimRight(base, "/")
	if base != "" {
		if !strings.HasPrefix(rawURL, base+"/") {
			return ""
		}
		return decodeKey(strings.TrimPrefix(rawURL, base+"/"))
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return decodeKey(strings.TrimPrefix(parsed.Path, "/"))
}

func decodeKey(escaped string) string {
	if i := strings.IndexAny(escaped, "?#"); i >= 0 {
		escaped = escaped[:i]
	}
	key, err := url.PathUnescape(escaped)
	if err != nil {
		return escaped
	}
	return key
}

// encodeKey escapes each key segment for use in a URL path.
func encodeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
