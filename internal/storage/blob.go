package storage

import (
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob not found")

// BlobStore serves static assets such as the export logo.
type BlobStore interface {
	Get(key string) (io.ReadCloser, error) // ErrNotFound when key is absent
}
