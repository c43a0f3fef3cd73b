package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/port"
	"github.com/fhuszti/medias-transcode-go/internal/usecase/media"
	"github.com/spf13/afero"
)

const tempPrefix = ".tmp-"

// LocalStorage keeps every bucket as a directory under a root. Files are
// addressed by bare names; anything that looks like a path is refused.
type LocalStorage struct {
	fs   afero.Fs
	root string
}

// compile-time check: *LocalStorage must satisfy port.Storage
var _ port.Storage = (*LocalStorage)(nil)

// NewLocalStorage roots a storage on the OS filesystem.
func NewLocalStorage(root string) (*LocalStorage, error) {
	logger.Infof(context.Background(), "initialising local storage under %q...", root)
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, mapFsErr(err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, mapFsErr(err)
	}
	return NewStorageWithFs(afero.NewBasePathFs(afero.NewOsFs(), abs), abs), nil
}

// NewStorageWithFs wraps an already rooted filesystem; root is only used by LocalPath.
func NewStorageWithFs(fs afero.Fs, root string) *LocalStorage {
	return &LocalStorage{fs: fs, root: root}
}

func (s *LocalStorage) InitBucket(bucket string) error {
	if err := checkName(bucket); err != nil {
		return err
	}
	ok, err := afero.DirExists(s.fs, bucket)
	if err != nil {
		return mapFsErr(err)
	}
	if !ok {
		logger.Infof(context.Background(), "bucket %q does not exist, creating it...", bucket)
		if err := s.fs.MkdirAll(bucket, 0o755); err != nil {
			return mapFsErr(err)
		}
	}
	return nil
}

func (s *LocalStorage) FileExists(ctx context.Context, bucket, fileKey string) (bool, error) {
	name, err := s.key(bucket, fileKey)
	if err != nil {
		return false, err
	}
	ok, err := afero.Exists(s.fs, name)
	if err != nil {
		return false, mapFsErr(err)
	}
	return ok, nil
}

func (s *LocalStorage) StatFile(ctx context.Context, bucket, fileKey string) (port.FileInfo, error) {
	logger.Debugf(ctx, "getting stats on file %q in bucket %q...", fileKey, bucket)

	name, err := s.key(bucket, fileKey)
	if err != nil {
		return port.FileInfo{}, err
	}
	info, err := s.fs.Stat(name)
	if err != nil {
		return port.FileInfo{}, mapFsErr(err)
	}
	if info.IsDir() {
		return port.FileInfo{}, fmt.Errorf("%w: %q is a directory", media.ErrNotFound, fileKey)
	}
	return port.FileInfo{SizeBytes: info.Size(), ModTime: info.ModTime()}, nil
}

func (s *LocalStorage) RemoveFile(ctx context.Context, bucket, fileKey string) error {
	logger.Debugf(ctx, "removing file %q from bucket %q...", fileKey, bucket)

	name, err := s.key(bucket, fileKey)
	if err != nil {
		return err
	}
	return mapFsErr(s.fs.Remove(name))
}

func (s *LocalStorage) GetFile(ctx context.Context, bucket, fileKey string) (io.ReadSeekCloser, error) {
	logger.Debugf(ctx, "getting file %q from bucket %q...", fileKey, bucket)

	name, err := s.key(bucket, fileKey)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(name)
	if err != nil {
		return nil, mapFsErr(err)
	}
	return f, nil
}

// SaveFile streams into a temp file next to the target and renames it into
// place, so a concurrent reader sees either the old or the new content.
func (s *LocalStorage) SaveFile(ctx context.Context, bucket, fileKey string, reader io.Reader) (int64, error) {
	logger.Debugf(ctx, "saving file %q into bucket %q...", fileKey, bucket)

	name, err := s.key(bucket, fileKey)
	if err != nil {
		return 0, err
	}

	tmp, err := afero.TempFile(s.fs, bucket, tempPrefix+fileKey+"-*")
	if err != nil {
		return 0, mapFsErr(err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			if err := s.fs.Remove(tmpName); err != nil {
				logger.Warnf(ctx, "failed to remove temp file %q: %v", tmpName, err)
			}
		}
	}()

	n, err := io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, mapFsErr(err)
	}
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", media.ErrIOFailure, err)
	}

	if err := s.fs.Rename(tmpName, name); err != nil {
		return 0, mapFsErr(err)
	}
	committed = true
	return n, nil
}

func (s *LocalStorage) RenameFile(ctx context.Context, bucket, srcKey, dstKey string) error {
	logger.Debugf(ctx, "renaming %q to %q in bucket %q...", srcKey, dstKey, bucket)

	src, err := s.key(bucket, srcKey)
	if err != nil {
		return err
	}
	dst, err := s.key(bucket, dstKey)
	if err != nil {
		return err
	}
	if err := s.fs.Rename(src, dst); err != nil {
		return mapFsErr(err)
	}
	return nil
}

// ListFiles returns the names in a bucket starting with prefix, sorted.
// Temp files of in-flight saves are skipped.
func (s *LocalStorage) ListFiles(ctx context.Context, bucket, prefix string) ([]string, error) {
	if err := checkName(bucket); err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(s.fs, bucket)
	if err != nil {
		return nil, mapFsErr(err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *LocalStorage) LocalPath(bucket, fileKey string) (string, error) {
	if _, err := s.key(bucket, fileKey); err != nil {
		return "", err
	}
	return filepath.Join(s.root, bucket, fileKey), nil
}

func (s *LocalStorage) key(bucket, fileKey string) (string, error) {
	if err := checkName(bucket); err != nil {
		return "", err
	}
	if err := checkName(fileKey); err != nil {
		return "", err
	}
	return filepath.Join(bucket, fileKey), nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: invalid storage name %q", media.ErrNotFound, name)
	}
	return nil
}
