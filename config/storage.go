package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
	// PublicURL is the base under which stored objects are reachable.
	PublicURL string
}

// NewS3Config initializes the S3 client from the application configuration.
// Static credentials and a custom endpoint are used when configured, which
// allows S3-compatible stores such as MinIO or R2.
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Config{
		Client:     client,
		BucketName: cfg.S3BucketName,
		PublicURL:  cfg.S3PublicURL(),
	}, nil
}

// S3PublicURL returns the base URL of objects in the configured bucket.
func (c *Config) S3PublicURL() string {
	if c.MediaURL != "" && c.MediaURL != c.PublicURL+"/media" {
		return c.MediaURL
	}
	if c.S3Endpoint != "" {
		return c.S3Endpoint + "/" + c.S3BucketName
	}
	return "https://" + c.S3BucketName + ".s3." + c.AWSRegion + ".amazonaws.com"
}
