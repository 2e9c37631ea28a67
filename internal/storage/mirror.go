package storage

import (
	"context"
	"fmt"
)

// Mirror fans writes out to the primary and archive stores. The targets are
// independent: one failing never blocks the other, and the per-target
// outcome is reported so the caller can proceed with partial coverage.
type Mirror struct {
	primary BlobStore
	archive BlobStore
	lister  Lister
}

// MirrorResult is the per-target outcome of one document write.
type MirrorResult struct {
	URL        string
	PrimaryErr error
	ArchiveErr error
}

// Stored reports whether at least one target holds the document.
func (r MirrorResult) Stored() bool {
	return r.PrimaryErr == nil || r.ArchiveErr == nil
}

func NewMirror(primary, archive BlobStore) *Mirror {
	m := &Mirror{primary: primary, archive: archive}

	if l, ok := archive.(Lister); ok {
		m.lister = l
	}

	return m
}

// Put stores the document in both targets and resolves a download URL from
// whichever succeeded, preferring the primary's permanent URL over the
// archive's expiring one.
func (m *Mirror) Put(ctx context.Context, key string, data []byte, contentType string) MirrorResult {
	var res MirrorResult

	res.PrimaryErr = m.primary.Store(ctx, key, data, contentType)
	res.ArchiveErr = m.archive.Store(ctx, key, data, contentType)

	if res.PrimaryErr == nil {
		if url, err := m.primary.ResolveURL(ctx, key); err == nil {
			res.URL = url

			return res
		}
	}

	if res.ArchiveErr == nil {
		if url, err := m.archive.ResolveURL(ctx, key); err == nil {
			res.URL = url
		}
	}

	return res
}

// ResolveURL resolves a download URL for an already stored key, primary
// first.
func (m *Mirror) ResolveURL(ctx context.Context, key string) (string, error) {
	if url, err := m.primary.ResolveURL(ctx, key); err == nil {
		return url, nil
	}

	return m.archive.ResolveURL(ctx, key)
}

// List enumerates archive keys under the prefix. The primary store has no
// list API.
func (m *Mirror) List(ctx context.Context, prefix string) ([]string, error) {
	if m.lister == nil {
		return nil, fmt.Errorf("archive store does not support listing")
	}

	return m.lister.List(ctx, prefix)
}
