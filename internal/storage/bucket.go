package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPBucket is the primary store: a hosted storage service with a
// REST object API and permanent public download URLs.
type HTTPBucket struct {
	baseURL    string
	bucket     string
	serviceKey string
	client     *http.Client
}

type HTTPBucketConfig struct {
	// BaseURL is the storage API root, e.g. https://project.example.co/storage/v1.
	BaseURL    string
	Bucket     string
	ServiceKey string
	Timeout    time.Duration
}

func NewHTTPBucket(cfg HTTPBucketConfig) *HTTPBucket {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPBucket{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		bucket:     cfg.Bucket,
		serviceKey: cfg.ServiceKey,
		client:     &http.Client{Timeout: timeout},
	}
}

// Store uploads the object with upsert semantics: re-storing a key
// overwrites the previous content instead of erroring.
func (b *HTTPBucket) Store(ctx context.Context, key string, data []byte, contentType string) error {
	endpoint := fmt.Sprintf("%s/object/%s/%s", b.baseURL, b.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+b.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return fmt.Errorf("uploading %s: status %d: %s", key, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}

// ResolveURL returns the permanent public URL for the object. No request is
// made; the bucket is configured public.
func (b *HTTPBucket) ResolveURL(_ context.Context, key string) (string, error) {
	return fmt.Sprintf("%s/object/public/%s/%s", b.baseURL, b.bucket, key), nil
}
