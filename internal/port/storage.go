package port

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a stored file.
type FileInfo struct {
	SizeBytes int64
	ModTime   time.Time
}

// Storage defines file storage operations over named buckets.
type Storage interface {
	InitBucket(bucket string) error
	FileExists(ctx context.Context, bucket, fileKey string) (bool, error)
	StatFile(ctx context.Context, bucket, fileKey string) (FileInfo, error)
	RemoveFile(ctx context.Context, bucket, fileKey string) error
	GetFile(ctx context.Context, bucket, fileKey string) (io.ReadSeekCloser, error)
	// SaveFile writes the whole reader under fileKey; readers never observe a partial file.
	SaveFile(ctx context.Context, bucket, fileKey string, reader io.Reader) (int64, error)
	// RenameFile moves srcKey over dstKey within a bucket, replacing any existing file.
	RenameFile(ctx context.Context, bucket, srcKey, dstKey string) error
	ListFiles(ctx context.Context, bucket, prefix string) ([]string, error)
	// LocalPath resolves a key to a filesystem path usable by external engines.
	LocalPath(bucket, fileKey string) (string, error)
}
