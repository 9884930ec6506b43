package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the subset of the S3 client used by the backend; a seam for tests.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures the object-store backend. BaseEndpoint supports
// S3-compatible servers such as MinIO.
type S3Options struct {
	User         string
	Password     string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3 stores images in an S3-compatible object store. Images uploaded here
// have no server-local path, so Delete is a no-op.
type S3 struct {
	api    s3API
	opts   S3Options
	urlFmt func(key string) string
}

// NewS3 builds an object-store backend with static credentials against the
// configured endpoint.
func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.User,
			opts.Password,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3WithClient(client, opts), nil
}

func newS3WithClient(api s3API, opts S3Options) *S3 {
	base := strings.TrimRight(opts.BaseEndpoint, "/")
	return &S3{
		api:  api,
		opts: opts,
		urlFmt: func(key string) string {
			return fmt.Sprintf("%s/%s/%s", base, opts.Bucket, key)
		},
	}
}

func (s *S3) Save(ctx context.Context, name string, data []byte) (string, string, error) {
	key := objectKey(name)

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", "", fmt.Errorf("put object: %w", err)
	}

	// object-store images carry no local path
	return s.urlFmt(key), "", nil
}

func (s *S3) Delete(ctx context.Context, localPath string) error {
	// only locally stored images are cleaned up on artefact deletion
	return nil
}
