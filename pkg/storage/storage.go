// Package storage keeps archived monthly workbooks.
package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no file is stored under a name.
var ErrNotFound = errors.New("file not found")

// FileInfo contains metadata about a stored file
type FileInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"` // Internal storage path
	CreatedAt   time.Time `json:"created_at"`
}

// Storage defines the interface for file storage operations
type Storage interface {
	// Put stores a file under name, replacing any previous version
	Put(ctx context.Context, name string, contentType string, r io.Reader) (*FileInfo, error)

	// Get retrieves a file by name
	Get(ctx context.Context, name string) (io.ReadCloser, *FileInfo, error)

	// GetInfo returns metadata for a file without opening it
	GetInfo(ctx context.Context, name string) (*FileInfo, error)

	// List returns all stored files, newest first
	List(ctx context.Context) ([]*FileInfo, error)

	// Delete removes a file by name
	Delete(ctx context.Context, name string) error
}

// StorageType identifies the storage backend
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
)

// Config holds storage configuration
type Config struct {
	Type      StorageType
	LocalPath string
}

// New creates a new Storage implementation based on configuration
func New(cfg *Config) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		fallthrough
	default:
		return NewLocalStorage(cfg.LocalPath)
	}
}
