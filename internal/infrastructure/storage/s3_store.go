package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/janhq/testimonial-server/internal/config"
	domain "github.com/janhq/testimonial-server/internal/domain/testimonial"
	"github.com/janhq/testimonial-server/internal/infrastructure/metrics"
	"github.com/janhq/testimonial-server/internal/infrastructure/observability"
)

const backendS3 = "s3"

var errStorageDisabled = errors.New("asset storage backend is not configured; set ASSET_S3_* to enable uploads")

type uploaderAPI interface {
	UploadObject(ctx context.Context, input *transfermanager.UploadObjectInput, optFns ...func(*transfermanager.Options)) (*transfermanager.UploadObjectOutput, error)
}

type s3API interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Store keeps testimonial assets in an S3-compatible bucket.
type S3Store struct {
	bucket   string
	baseURL  string
	client   s3API
	uploader uploaderAPI
	log      zerolog.Logger
	disabled bool
}

var _ domain.AssetStore = (*S3Store)(nil)

func NewS3Store(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Store, error) {
	logger := log.With().Str("component", "s3-asset-store").Logger()
	store := &S3Store{
		bucket: strings.TrimSpace(cfg.S3Bucket),
		log:    logger,
	}

	accessKey := strings.TrimSpace(cfg.S3AccessKeyID)
	secretKey := strings.TrimSpace(cfg.S3SecretKey)
	if store.bucket == "" || accessKey == "" || secretKey == "" {
		logger.Warn().Msg("ASSET_S3_BUCKET or credentials are not set; testimonial uploads will fail until configured")
		store.disabled = true
		return store, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimRight(cfg.S3Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	store.client = client
	store.uploader = transfermanager.New(client, func(o *transfermanager.Options) {
		o.PartSizeBytes = cfg.S3PartSize()
	})
	store.baseURL = publicBaseURL(cfg.S3PublicBaseURL, endpoint, store.bucket, cfg.S3Region, cfg.S3UsePathStyle)
	return store, nil
}

// publicBaseURL decides how object URLs handed to clients are rooted.
func publicBaseURL(public, endpoint, bucket, region string, pathStyle bool) string {
	if public = strings.TrimRight(strings.TrimSpace(public), "/"); public != "" {
		return public
	}
	if endpoint != "" {
		if pathStyle {
			return endpoint + "/" + bucket
		}
		if scheme, host, ok := strings.Cut(endpoint, "://"); ok {
			return scheme + "://" + bucket + "." + host
		}
		return endpoint + "/" + bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}

func (s *S3Store) ensureEnabled() error {
	if s.disabled {
		return errStorageDisabled
	}
	return nil
}

// Upload streams the staged file to the bucket through the transfer manager.
func (s *S3Store) Upload(ctx context.Context, localPath, prefix string) (asset domain.Asset, err error) {
	start := time.Now()
	ctx, span := observability.StartStorageSpan(ctx, backendS3, "upload", prefix)
	defer func() {
		observability.RecordError(span, err)
		span.End()
		metrics.RecordStorageOperation(backendS3, "upload", status(err), time.Since(start).Seconds())
	}()

	if err := s.ensureEnabled(); err != nil {
		return domain.Asset{}, err
	}
	if s.uploader == nil {
		return domain.Asset{}, errors.New("s3 uploader is not configured")
	}

	staged, err := describeFile(localPath, prefix)
	if err != nil {
		return domain.Asset{}, err
	}

	file, err := os.Open(localPath)
	if err != nil {
		return domain.Asset{}, fmt.Errorf("open staged file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return domain.Asset{}, fmt.Errorf("stat staged file: %w", err)
	}

	_, err = s.uploader.UploadObject(ctx, &transfermanager.UploadObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(staged.key),
		Body:          file,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(staged.contentType),
	})
	if err != nil {
		return domain.Asset{}, fmt.Errorf("upload %s: %w", staged.key, err)
	}

	metrics.RecordUpload(prefix, info.Size())
	s.log.Debug().Str("key", staged.key).Int64("bytes", info.Size()).Msg("asset uploaded")
	return domain.Asset{URL: s.baseURL + "/" + encodeKey(staged.key), Key: staged.key}, nil
}

// Delete removes an object. S3 treats deleting a missing key as success.
func (s *S3Store) Delete(ctx context.Context, key string) (err error) {
	start := time.Now()
	ctx, span := observability.StartStorageSpan(ctx, backendS3, "delete", key)
	defer func() {
		observability.RecordError(span, err)
		span.End()
		metrics.RecordStorageOperation(backendS3, "delete", status(err), time.Since(start).Seconds())
	}()

	if err := s.ensureEnabled(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("object key is required")
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// KeyFromURL derives the object key from a URL this store issued. URLs outside the store's
// base yield "" and are logged, since their objects cannot be located.
func (s *S3Store) KeyFromURL(rawURL string) string {
	key := keyFromURL(rawURL, s.baseURL)
	if key == "" && strings.TrimSpace(rawURL) != "" {
		s.log.Warn().Str("url", rawURL).Str("base_url", s.baseURL).Msg("asset URL is outside the store base; object left in place")
	}
	return key
}

// Health performs a HeadBucket request.
func (s *S3Store) Health(ctx context.Context) error {
	if s.disabled {
		return nil
	}
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
