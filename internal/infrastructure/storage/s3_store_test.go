package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/testimonial-server/internal/config"
)

type fakeUploader struct {
	lastInput *transfermanager.UploadObjectInput
	body      []byte
	err       error
}

func (f *fakeUploader) UploadObject(_ context.Context, input *transfermanager.UploadObjectInput, _ ...func(*transfermanager.Options)) (*transfermanager.UploadObjectOutput, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(input.Body); err != nil {
		return nil, err
	}
	f.body = buf.Bytes()
	return &transfermanager.UploadObjectOutput{}, nil
}

type fakeS3API struct {
	deleteFn func(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	headFn   func(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

func (f *fakeS3API) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteFn == nil {
		return nil, errors.New("unexpected delete object call")
	}
	return f.deleteFn(ctx, params, optFns...)
}

func (f *fakeS3API) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headFn == nil {
		return nil, errors.New("unexpected head bucket call")
	}
	return f.headFn(ctx, params, optFns...)
}

func newTestS3Store(uploader uploaderAPI, api s3API) *S3Store {
	return &S3Store{
		bucket:   "media",
		baseURL:  "https://cdn.example.com",
		client:   api,
		uploader: uploader,
		log:      zerolog.Nop(),
	}
}

func TestS3StoreUpload(t *testing.T) {
	uploader := &fakeUploader{}
	store := newTestS3Store(uploader, &fakeS3API{})
	src := writeFile(t, "thumb.png", pngHeader)

	asset, err := store.Upload(context.Background(), src, "testimonials/thumbnails")
	require.NoError(t, err)

	require.NotNil(t, uploader.lastInput)
	assert.Equal(t, "media", *uploader.lastInput.Bucket)
	assert.Equal(t, asset.Key, *uploader.lastInput.Key)
	assert.Equal(t, "image/png", *uploader.lastInput.ContentType)
	assert.Equal(t, int64(len(pngHeader)), *uploader.lastInput.ContentLength)
	assert.Equal(t, pngHeader, uploader.body)
	assert.True(t, strings.HasPrefix(asset.Key, "testimonials/thumbnails/"))
	assert.Equal(t, "https://cdn.example.com/"+asset.Key, asset.URL)
	assert.Equal(t, asset.Key, store.KeyFromURL(asset.URL))
}

func TestS3StoreUploadFailure(t *testing.T) {
	store := newTestS3Store(&fakeUploader{err: errors.New("boom")}, &fakeS3API{})
	src := writeFile(t, "thumb.png", pngHeader)

	_, err := store.Upload(context.Background(), src, "testimonials/thumbnails")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestS3StoreUploadUnreadableSource(t *testing.T) {
	uploader := &fakeUploader{}
	store := newTestS3Store(uploader, &fakeS3API{})

	_, err := store.Upload(context.Background(), "/definitely/not/here.mp4", "testimonials/videos")
	require.Error(t, err)
	assert.Nil(t, uploader.lastInput)
}

func TestS3StoreDelete(t *testing.T) {
	var deletedKey string
	api := &fakeS3API{
		deleteFn: func(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
			assert.Equal(t, "media", *params.Bucket)
			deletedKey = *params.Key
			return &s3.DeleteObjectOutput{}, nil
		},
	}
	store := newTestS3Store(&fakeUploader{}, api)

	require.NoError(t, store.Delete(context.Background(), "testimonials/videos/a.mp4"))
	assert.Equal(t, "testimonials/videos/a.mp4", deletedKey)

	assert.Error(t, store.Delete(context.Background(), "  "))

	api.deleteFn = func(context.Context, *s3.DeleteObjectInput, ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return nil, errors.New("access denied")
	}
	err := store.Delete(context.Background(), "testimonials/videos/a.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestS3StoreHealth(t *testing.T) {
	api := &fakeS3API{
		headFn: func(_ context.Context, params *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
			assert.Equal(t, "media", *params.Bucket)
			return &s3.HeadBucketOutput{}, nil
		},
	}
	store := newTestS3Store(&fakeUploader{}, api)
	assert.NoError(t, store.Health(context.Background()))
}

func TestNewS3StoreDisabledWithoutCredentials(t *testing.T) {
	store, err := NewS3Store(context.Background(), &config.Config{S3Bucket: "media"}, zerolog.Nop())
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "/tmp/x.mp4", "testimonials/videos")
	assert.ErrorIs(t, err, errStorageDisabled)
	assert.ErrorIs(t, store.Delete(context.Background(), "k"), errStorageDisabled)
	assert.NoError(t, store.Health(context.Background()))
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name      string
		public    string
		endpoint  string
		pathStyle bool
		want      string
	}{
		{"public wins", "https://cdn.example.com/", "http://minio:9000", true, "https://cdn.example.com"},
		{"path style endpoint", "", "http://minio:9000", true, "http://minio:9000/media"},
		{"virtual host endpoint", "", "https://s3.wasabisys.com", false, "https://media.s3.wasabisys.com"},
		{"aws default", "", "", false, "https://media.s3.us-west-2.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBaseURL(tt.public, tt.endpoint, "media", "us-west-2", tt.pathStyle))
		})
	}
}

func TestS3StoreKeyFromURLOutsideBase(t *testing.T) {
	var buf bytes.Buffer
	store := newTestS3Store(&fakeUploader{}, &fakeS3API{})
	store.log = zerolog.New(&buf)

	assert.Equal(t, "", store.KeyFromURL("http://minio:9000/media/testimonials/videos/a.mp4"))
	assert.Contains(t, buf.String(), "asset URL is outside the store base")
	assert.Contains(t, buf.String(), "http://minio:9000/media/testimonials/videos/a.mp4")

	buf.Reset()
	assert.Equal(t, "", store.KeyFromURL(""))
	assert.Empty(t, buf.String())
}
