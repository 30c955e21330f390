package requests

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for field, name := range files {
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/testimonials", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func testContext(req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestStageFilesCopiesAndCleansUp(t *testing.T) {
	base := t.TempDir()
	c := testContext(multipartRequest(t,
		map[string]string{"name": "Ana"},
		map[string]string{FieldVideo: "clip.MP4", FieldThumbnail: "../../thumb.png"},
	))

	staged, err := StageFiles(c, base, FieldVideo, FieldThumbnail)
	require.NoError(t, err)

	videoPath := staged.Path(FieldVideo)
	thumbPath := staged.Path(FieldThumbnail)
	require.NotEmpty(t, videoPath)
	require.NotEmpty(t, thumbPath)
	assert.True(t, strings.HasSuffix(videoPath, "video.mp4"))
	assert.True(t, strings.HasPrefix(thumbPath, base))
	assert.Equal(t, filepath.Dir(videoPath), filepath.Dir(thumbPath))

	data, err := os.ReadFile(videoPath)
	require.NoError(t, err)
	assert.Equal(t, "content of clip.MP4", string(data))

	var form TestimonialForm
	require.NoError(t, c.ShouldBind(&form))
	assert.Equal(t, "Ana", form.Name)

	require.NoError(t, staged.Cleanup())
	_, err = os.Stat(filepath.Dir(videoPath))
	assert.True(t, os.IsNotExist(err))
}

func TestStageFilesSkipsMissingFields(t *testing.T) {
	c := testContext(multipartRequest(t, map[string]string{"name": "Ana"}, map[string]string{FieldThumbnail: "t.jpg"}))

	staged, err := StageFiles(c, t.TempDir(), FieldVideo, FieldThumbnail)
	require.NoError(t, err)
	defer staged.Cleanup()

	assert.Empty(t, staged.Path(FieldVideo))
	assert.NotEmpty(t, staged.Path(FieldThumbnail))
}

func TestStageFilesNonMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/v1/testimonials/1", strings.NewReader("name=Ana"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	staged, err := StageFiles(testContext(req), t.TempDir(), FieldVideo)
	require.NoError(t, err)
	assert.Empty(t, staged.Path(FieldVideo))
	assert.NoError(t, staged.Cleanup())
}

func TestStageFilesBodyTooLarge(t *testing.T) {
	req := multipartRequest(t, nil, map[string]string{FieldVideo: "big.mp4"})
	w := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(w, req.Body, 10)

	_, err := StageFiles(testContext(req), t.TempDir(), FieldVideo)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestNilStagedFiles(t *testing.T) {
	var staged *StagedFiles
	assert.Empty(t, staged.Path(FieldVideo))
	assert.NoError(t, staged.Cleanup())
}

func TestStageFilesMissingBaseDirIsStagingError(t *testing.T) {
	c := testContext(multipartRequest(t, nil, map[string]string{FieldVideo: "clip.mp4"}))

	staged, err := StageFiles(c, filepath.Join(t.TempDir(), "missing", "dir"), FieldVideo)
	assert.Nil(t, staged)
	assert.ErrorIs(t, err, ErrStaging)
	assert.NotErrorIs(t, err, ErrBodyTooLarge)
}

func TestStageFilesMalformedMultipartIsNotStagingError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/testimonials", strings.NewReader("--nope\r\ngarbage"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

	_, err := StageFiles(testContext(req), t.TempDir(), FieldVideo)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStaging)
}
