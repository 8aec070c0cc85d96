// Package storage provides object storage backends for generated documents.
package storage

import (
	"context"
	"time"
)

// ObjectStorage is the contract the document pipeline stores rendered
// files through. Keys are opaque to the backend; callers own the naming
// scheme (e.g. "invoices/<id>.pdf").
type ObjectStorage interface {
	// Put writes data under the given key, overwriting any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// PresignDownload returns a time-limited URL for fetching the object.
	// expiresIn <= 0 uses the backend's configured default.
	PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)

	// Exists reports whether an object is stored under the key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
