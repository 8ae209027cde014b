package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("file not found")

type FileStorage interface {
	// Upload stores file under path and returns the cleaned storage key.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download opens a stored file. Missing files yield ErrNotFound.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	Delete(ctx context.Context, path string) error

	// URL returns a public URL for a stored key.
	URL(path string) string

	Exists(ctx context.Context, path string) (bool, error)
}

// ReadAll downloads a file fully, refusing anything larger than limit bytes.
func ReadAll(ctx context.Context, s FileStorage, path string, limit int64) ([]byte, error) {
	rc, err := s.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errors.New("file exceeds size limit")
	}
	return data, nil
}
