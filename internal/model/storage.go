package model

import (
	"context"
	"io"
)

// FileStorage stores binary attachments (avatars) in an object store.
type FileStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// URLFor returns the public URL serving the stored object.
	URLFor(key string) string
	// KeyFromURL maps a public URL back to its object key; ok is false
	// when the URL does not point into this store.
	KeyFromURL(url string) (key string, ok bool)
}
