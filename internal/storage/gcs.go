package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gcstorage "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCS is the archive store. Objects are private; reads go through V4
// presigned URLs with a bounded expiry, so callers must not treat resolved
// URLs as permanent.
type GCS struct {
	client    *gcstorage.Client
	bucket    string
	urlExpiry time.Duration

	signerEmail string
	signerKey   []byte
}

type GCSConfig struct {
	Bucket          string
	CredentialsJSON string
	URLExpiry       time.Duration
}

type serviceAccountJSON struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

func NewGCS(ctx context.Context, cfg GCSConfig) (*GCS, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("archive bucket is required")
	}

	if cfg.CredentialsJSON == "" {
		return nil, errors.New("archive credentials are required")
	}

	var key serviceAccountJSON
	if err := json.Unmarshal([]byte(cfg.CredentialsJSON), &key); err != nil {
		return nil, fmt.Errorf("invalid archive credentials: %w", err)
	}

	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, errors.New("archive credentials missing client_email or private_key")
	}

	client, err := gcstorage.NewClient(ctx, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("creating archive client: %w", err)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	return &GCS{
		client:      client,
		bucket:      cfg.Bucket,
		urlExpiry:   expiry,
		signerEmail: key.ClientEmail,
		signerKey:   normalizePrivateKey(key.PrivateKey),
	}, nil
}

func normalizePrivateKey(key string) []byte {
	return []byte(strings.ReplaceAll(key, "\\n", "\n"))
}

// Store writes the object, overwriting any previous content under the key.
func (g *GCS) Store(ctx context.Context, key string, data []byte, contentType string) error {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		w.Close()

		return fmt.Errorf("writing archive object %s: %w", key, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing archive object %s: %w", key, err)
	}

	return nil
}

// ResolveURL returns a presigned GET URL valid for the configured expiry.
func (g *GCS) ResolveURL(_ context.Context, key string) (string, error) {
	url, err := gcstorage.SignedURL(g.bucket, key, &gcstorage.SignedURLOptions{
		Scheme:         gcstorage.SigningSchemeV4,
		Method:         "GET",
		Expires:        time.Now().Add(g.urlExpiry),
		GoogleAccessID: g.signerEmail,
		PrivateKey:     g.signerKey,
	})
	if err != nil {
		return "", fmt.Errorf("signing archive url for %s: %w", key, err)
	}

	return url, nil
}

// List returns all object keys under the prefix.
func (g *GCS) List(ctx context.Context, prefix string) ([]string, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &gcstorage.Query{Prefix: prefix})

	var keys []string

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("listing archive objects under %s: %w", prefix, err)
		}

		keys = append(keys, attrs.Name)
	}

	return keys, nil
}
