// Package blob is the entry point to artifact storage. It re-exports the
// core abstractions and selects a backend from the environment.
package blob

import (
	"context"
	"fmt"
	"os"
	"strings"

	"herdbook/internal/blob/core"
	"herdbook/internal/infra/blob/fs"
	"herdbook/internal/infra/blob/memory"
	infraS3 "herdbook/internal/infra/blob/s3"
)

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// SignedURLOptions configures URL pre-signing.
	SignedURLOptions = core.SignedURLOptions
	// Info describes stored blob metadata.
	Info = core.Info
	// Store is the interface for blob storage backends.
	Store = core.Store
	// S3Config configures the S3 backend.
	S3Config = infraS3.Config
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrUnsupported = core.ErrUnsupported
	ErrNotFound    = core.ErrNotFound
	ErrExists      = core.ErrExists
	ErrInvalidKey  = core.ErrInvalidKey
)

// Open selects a Store using environment variables:
//
//	HERDBOOK_BLOB_DRIVER: fs|s3|memory (default fs)
//	HERDBOOK_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//
// S3 settings are documented on s3.ConfigFromEnv.
func Open(ctx context.Context) (Store, error) {
	driver := Driver(strings.ToLower(strings.TrimSpace(os.Getenv("HERDBOOK_BLOB_DRIVER"))))
	switch driver {
	case DriverFilesystem, "":
		return NewFilesystem(os.Getenv("HERDBOOK_BLOB_FS_ROOT"))
	case DriverS3:
		store, err := infraS3.OpenFromEnv(ctx)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}

// NewMemory returns an in-memory Store.
func NewMemory() Store { return memory.New() }

// NewFilesystem returns a Store rooted at root.
func NewFilesystem(root string) (Store, error) {
	store, err := fs.New(root)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewS3 returns a Store backed by an S3-compatible bucket.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	store, err := infraS3.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}
