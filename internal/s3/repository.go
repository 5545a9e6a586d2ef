package s3

import (
	"bufio"
	"context"
	"io"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"
)

type Option func(*Repository)

func WithRegion(region string) Option {
	return func(r *Repository) {
		r.Region = region
	}
}

func WithBucket(bucket string) Option {
	return func(r *Repository) {
		r.Bucket = bucket
	}
}

func WithPrefix(prefix string) Option {
	return func(r *Repository) {
		r.Prefix = prefix
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) {
		r.logger = l
	}
}

func WithForcePathStyle(forcePathStyle bool) Option {
	return func(r *Repository) {
		r.ForcePathStyle = forcePathStyle
	}
}

func WithEndpoint(endpoint string) Option {
	return func(r *Repository) {
		r.Endpoint = endpoint
	}
}

// Repository stores snapshot artifacts in an S3 bucket.
type Repository struct {
	logger   *zap.Logger
	uploader *s3manager.Uploader

	Endpoint       string
	Region         string
	Bucket         string
	Prefix         string
	ForcePathStyle bool
}

func New(opts ...Option) (*Repository, error) {
	r := &Repository{
		logger: zap.NewNop(),
	}

	for _, o := range opts {
		o(r)
	}

	awsConfig := &aws.Config{
		Region:           aws.String(r.Region),
		S3ForcePathStyle: aws.Bool(r.ForcePathStyle),
	}

	if r.Endpoint != "" {
		awsConfig.Endpoint = aws.String(r.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, err
	}
	r.uploader = s3manager.NewUploader(sess)

	return r, nil
}

func (r *Repository) Write(ctx context.Context, key string, reader io.Reader) error {
	objPath := filepath.Join(
		r.Prefix,
		key,
	)

	r.logger.Debug(
		"s3 write",
		zap.String("key", key),
		zap.String("object_path", objPath),
		zap.String("bucket", r.Bucket),
	)

	// The uploader buffers the reader's bytes per part, so any io.Reader
	// the preserver hands us works here.
	_, err := r.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(r.Bucket),
		Key:    aws.String(objPath),
		Body:   bufio.NewReader(reader),
	})
	return err
}

// Flush is a noop, each Write completes the upload before returning.
func (r *Repository) Flush() error {
	return nil
}
