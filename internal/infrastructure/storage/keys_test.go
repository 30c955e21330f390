package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestDescribeFileUsesDetectedExtension(t *testing.T) {
	p := writeFile(t, "upload.bin", pngHeader)

	staged, err := describeFile(p, "testimonials/thumbnails")
	require.NoError(t, err)
	assert.Equal(t, "image/png", staged.contentType)
	assert.True(t, strings.HasPrefix(staged.key, "testimonials/thumbnails/"))
	assert.True(t, strings.HasSuffix(staged.key, ".png"))
}

func TestDescribeFileFallsBackToFileExtension(t *testing.T) {
	p := writeFile(t, "clip.MOV", []byte{0x00, 0x01, 0x02, 0x03, 0xfe, 0xff})

	staged, err := describeFile(p, "testimonials/videos")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", staged.contentType)
	assert.True(t, strings.HasSuffix(staged.key, ".mov"))
}

func TestDescribeFileKeysAreUnique(t *testing.T) {
	p := writeFile(t, "thumb.png", pngHeader)
	a, err := describeFile(p, "testimonials/thumbnails")
	require.NoError(t, err)
	b, err := describeFile(p, "testimonials/thumbnails")
	require.NoError(t, err)
	assert.NotEqual(t, a.key, b.key)
}

func TestDescribeFileMissingFile(t *testing.T) {
	_, err := describeFile(filepath.Join(t.TempDir(), "missing.mp4"), "testimonials/videos")
	require.Error(t, err)
}

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "testimonials/videos", want: "testimonials/videos"},
		{input: "/testimonials/videos/", want: "testimonials/videos"},
		{input: "testimonials\\thumbnails", want: "testimonials/thumbnails"},
		{input: "", wantErr: true},
		{input: "../escape", wantErr: true},
		{input: "safe/../escape", wantErr: true},
		{input: "nested//empty", wantErr: true},
	}
	for _, tt := range tests {
		got, err := normalizePrefix(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		base string
		want string
	}{
		{"empty", "", "https://cdn.example.com", ""},
		{"public base", "https://cdn.example.com/testimonials/videos/abc.mp4", "https://cdn.example.com", "testimonials/videos/abc.mp4"},
		{"path style", "http://minio:9000/media/testimonials/videos/abc.mp4", "http://minio:9000/media", "testimonials/videos/abc.mp4"},
		{"escaped", "https://cdn.example.com/testimonials/videos/my%20clip.mp4", "https://cdn.example.com/", "testimonials/videos/my clip.mp4"},
		{"query dropped", "https://cdn.example.com/testimonials/thumbnails/a.png?v=2", "https://cdn.example.com", "testimonials/thumbnails/a.png"},
		{"foreign host", "https://other.example.com/testimonials/videos/abc.mp4", "https://cdn.example.com", ""},
		{"path style outside public base", "http://minio:9000/media/testimonials/videos/abc.mp4", "https://cdn.example.com", ""},
		{"no base uses path", "http://minio:9000/media/testimonials/videos/abc.mp4", "", "media/testimonials/videos/abc.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyFromURL(tt.raw, tt.base))
		})
	}
}

func TestEncodeKeyRoundTrip(t *testing.T) {
	key := "testimonials/videos/my clip#1.mp4"
	encoded := encodeKey(key)
	assert.Equal(t, "testimonials/videos/my%20clip%231.mp4", encoded)
	assert.Equal(t, key, keyFromURL("https://cdn.example.com/"+encoded, "https://cdn.example.com"))
}
