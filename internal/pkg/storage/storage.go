// Package storage issues short-lived download links for the original
// uploads kept in an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/intentified/web/internal/config"
)

var (
	ErrDisabled = errors.New("storage: bucket is not configured")
	ErrEmptyKey = errors.New("storage: empty object key")
	defaultTTL  = 15 * time.Minute
)

// Presigner issues presigned GET URLs.
type Presigner interface {
	PresignDownload(ctx context.Context, key, filename string) (string, error)
}

// Client presigns objects of one bucket.
type Client struct {
	bucket  string
	ttl     time.Duration
	presign *s3.PresignClient
}

// New builds a Client. Without a bucket and credentials it returns
// ErrDisabled.
func New(cfg config.StorageConfig) (*Client, error) {
	if cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, ErrDisabled
	}

	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(strings.TrimRight(cfg.Endpoint, "/"))
		}
		o.UsePathStyle = cfg.PathStyle
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Client{
		bucket:  cfg.Bucket,
		ttl:     ttl,
		presign: s3.NewPresignClient(client),
	}, nil
}

// PresignDownload returns a URL that downloads key as filename until the
// configured TTL elapses.
func (c *Client) PresignDownload(ctx context.Context, key, filename string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrEmptyKey
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}
	if filename != "" {
		input.ResponseContentDisposition = aws.String(
			mime.FormatMediaType("attachment", map[string]string{"filename": filename}),
		)
	}

	req, err := c.presign.PresignGetObject(ctx, input, s3.WithPresignExpires(c.ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}
