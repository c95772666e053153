package publish

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/spark/internal/errors"
)

// putObjectAPI is the part of the S3 client the publisher uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures an S3Publisher.
type S3Options struct {
	// Bucket is the destination bucket.
	Bucket string

	// Prefix is prepended to every object key (e.g., "site/").
	Prefix string

	// Region is the bucket's AWS region.
	Region string

	// Logger receives publish logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// S3Publisher uploads pages to an S3 bucket.
type S3Publisher struct {
	client putObjectAPI
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Publisher creates a publisher with an S3 client for opts.Region.
// Credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
// AWS_SESSION_TOKEN.
func NewS3Publisher(opts S3Options) *S3Publisher {
	client := s3.New(s3.Options{
		Region:      opts.Region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	})
	return newS3Publisher(client, opts)
}

func newS3Publisher(client putObjectAPI, opts S3Options) *S3Publisher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Publisher{
		client: client,
		bucket: opts.Bucket,
		prefix: opts.Prefix,
		logger: logger,
	}
}

// Publish implements Publisher.
func (p *S3Publisher) Publish(ctx context.Context, name string, page []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	key := p.prefix + name

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(page),
		ContentType:   aws.String("text/html; charset=utf-8"),
		ContentLength: aws.Int64(int64(len(page))),
	})
	if err != nil {
		return errors.New(errors.CodePublishFailed).
			WithDetailf("s3://%s/%s", p.bucket, key).
			Wrap(err)
	}

	p.logger.Info("publish: uploaded page", "bucket", p.bucket, "key", key, "bytes", len(page))
	return nil
}

func envCredentials(ctx context.Context) (aws.Credentials, error) {
	creds := aws.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "EnvironmentVariables",
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return aws.Credentials{}, errors.New(errors.CodePublishFailed).
			WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return creds, nil
}
