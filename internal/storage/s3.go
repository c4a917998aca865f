package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tutorlink-backend/internal/errdefs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store uploads blobs to an S3-compatible object store and returns
// a durable download URL for each uploaded object.
type S3Store struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewS3Store creates a new S3-backed blob store
func NewS3Store(ctx context.Context, region, bucket, accessKey, secretKey, endpoint string) (*S3Store, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx,
		awsConfig.WithRegion(region),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:   client,
		bucket:   bucket,
		region:   region,
		endpoint: endpoint,
	}, nil
}

// Upload streams a blob to the store under the given key, invoking the
// progress callback with the transferred percentage as bytes flow. The SDK's
// own retry policy applies underneath; once its attempts are exhausted the
// failure is reported as ErrRetryLimitExceeded so callers can show a
// distinct message.
func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string, progress func(pct float64)) (string, error) {
	reader := body
	if progress != nil && size > 0 {
		reader = &progressReader{r: body, total: size, report: progress}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		var maxAttempts *retry.MaxAttemptsError
		if errors.As(err, &maxAttempts) {
			return "", fmt.Errorf("upload attempts exhausted: %w", errdefs.ErrRetryLimitExceeded)
		}
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return s.objectURL(key), nil
}

func (s *S3Store) objectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// progressReader reports cumulative transfer percentage as it is read
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	report func(pct float64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report(float64(p.read) / float64(p.total) * 100)
	}
	return n, err
}
