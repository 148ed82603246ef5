package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrDisabled is returned when object storage is not configured.
var ErrDisabled = fmt.Errorf("object storage not configured")

// Client wraps an S3-compatible endpoint. With an empty endpoint the client
// is disabled and every operation returns ErrDisabled, which keeps local
// development working without credentials.
type Client struct {
	mc        *minio.Client
	bucket    string
	publicURL string
	enabled   bool
}

type Config struct {
	Endpoint  string // e.g. "s3.ap-southeast-1.amazonaws.com" or "minio:9000"
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // CDN or direct bucket URL used in stored file links
	UseSSL    bool
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return &Client{enabled: false}, nil
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &Client{mc: mc, bucket: cfg.Bucket, publicURL: publicURL, enabled: true}, nil
}

func (c *Client) Enabled() bool { return c.enabled }

// PublicURL returns the browser-facing URL for an object key.
func (c *Client) PublicURL(key string) string {
	return c.publicURL + "/" + key
}

func (c *Client) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if !c.enabled {
		return ErrDisabled
	}
	_, err := c.mc.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (c *Client) Delete(ctx context.Context, key string) error {
	if !c.enabled {
		return ErrDisabled
	}
	return c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
}

// PresignPut returns a URL the browser can PUT the file to directly, so large
// uploads skip the API server.
func (c *Client) PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if !c.enabled {
		return "", ErrDisabled
	}
	u, err := c.mc.PresignedPutObject(ctx, c.bucket, key, expiry)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// PresignGet returns a short-lived download URL for private objects.
func (c *Client) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if !c.enabled {
		return "", ErrDisabled
	}
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
