package publish

import (
	"bytes"
	"context"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/bindery/internal/errors"
)

// PutObjectAPI is the part of *s3.Client the S3 publisher uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 publishes snapshots as objects in one bucket.
type S3 struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3 creates an S3 publisher. Keys are stored below prefix.
func NewS3(client PutObjectAPI, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// Publish uploads body and returns its s3:// location.
func (s *S3) Publish(ctx context.Context, key, contentType string, body []byte) (string, error) {
	key = path.Join(s.prefix, key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"publish-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", errors.New("B500").WithDetail("s3://" + s.bucket + "/" + key).Wrap(err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

// ClientConfig configures NewClient.
type ClientConfig struct {
	Region string

	// Endpoint overrides the S3 endpoint, e.g. for MinIO. Path-style
	// addressing is used when it is set.
	Endpoint string
}

// NewClient builds an S3 client with credentials from the standard
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// variables. The region falls back to AWS_REGION.
func NewClient(cfg ClientConfig) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials(context.Context) (aws.Credentials, error) {
	creds := aws.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return aws.Credentials{}, errors.New("B500").WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are not set")
	}
	return creds, nil
}
