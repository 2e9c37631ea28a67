// Package storage adapts the object stores that hold NFSe binary
// documents: a public HTTP bucket serving the dashboard and a GCS archive
// bucket kept for compatibility with the older sync jobs.
package storage

import "context"

// BlobStore is a key-addressed binary store. Store is idempotent: writing
// the same key twice overwrites.
type BlobStore interface {
	Store(ctx context.Context, key string, data []byte, contentType string) error
	ResolveURL(ctx context.Context, key string) (string, error)
}

// Lister enumerates stored keys under a prefix. Only the archive store
// supports it; the store-driven recovery pass depends on it.
type Lister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}

// ContentTypeForKey maps a document key to its MIME type by extension.
func ContentTypeForKey(key string) string {
	if len(key) > 4 && key[len(key)-4:] == ".xml" {
		return "application/xml"
	}

	return "application/pdf"
}
