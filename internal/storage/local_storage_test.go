package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fhuszti/medias-transcode-go/internal/usecase/media"
	"github.com/spf13/afero"
)

func newMemStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s := NewStorageWithFs(afero.NewMemMapFs(), "/srv/data")
	for _, b := range []string{media.UploadsBucket, media.OutputsBucket} {
		if err := s.InitBucket(b); err != nil {
			t.Fatalf("InitBucket(%q) error: %v", b, err)
		}
	}
	return s
}

func TestLocalStorage_SaveGetStatRemove(t *testing.T) {
	ctx := context.Background()
	s := newMemStorage(t)

	n, err := s.SaveFile(ctx, media.OutputsBucket, "a_tiktok.mp4", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("SaveFile() error: %v", err)
	}
	if n != 5 {
		t.Errorf("SaveFile() wrote %d bytes; want 5", n)
	}

	ok, err := s.FileExists(ctx, media.OutputsBucket, "a_tiktok.mp4")
	if err != nil || !ok {
		t.Fatalf("FileExists() = %v, %v", ok, err)
	}

	info, err := s.StatFile(ctx, media.OutputsBucket, "a_tiktok.mp4")
	if err != nil || info.SizeBytes != 5 {
		t.Fatalf("StatFile() = %+v, %v", info, err)
	}

	f, err := s.GetFile(ctx, media.OutputsBucket, "a_tiktok.mp4")
	if err != nil {
		t.Fatalf("GetFile() error: %v", err)
	}
	data, _ := io.ReadAll(f)
	_ = f.Close()
	if string(data) != "hello" {
		t.Errorf("GetFile() content = %q", data)
	}

	// overwrite in place
	if _, err := s.SaveFile(ctx, media.OutputsBucket, "a_tiktok.mp4", strings.NewReader("bye")); err != nil {
		t.Fatalf("second SaveFile() error: %v", err)
	}
	names, _ := s.ListFiles(ctx, media.OutputsBucket, "")
	if !reflect.DeepEqual(names, []string{"a_tiktok.mp4"}) {
		t.Errorf("ListFiles() after overwrite = %v", names)
	}

	if err := s.RemoveFile(ctx, media.OutputsBucket, "a_tiktok.mp4"); err != nil {
		t.Fatalf("RemoveFile() error: %v", err)
	}
	if err := s.RemoveFile(ctx, media.OutputsBucket, "a_tiktok.mp4"); !errors.Is(err, media.ErrNotFound) {
		t.Errorf("second RemoveFile() = %v; want ErrNotFound", err)
	}
	if _, err := s.GetFile(ctx, media.OutputsBucket, "a_tiktok.mp4"); !errors.Is(err, media.ErrNotFound) {
		t.Errorf("GetFile() after remove = %v; want ErrNotFound", err)
	}
	if _, err := s.StatFile(ctx, media.OutputsBucket, "a_tiktok.mp4"); !errors.Is(err, media.ErrNotFound) {
		t.Errorf("StatFile() after remove = %v; want ErrNotFound", err)
	}
	if ok, _ := s.FileExists(ctx, media.OutputsBucket, "a_tiktok.mp4"); ok {
		t.Error("FileExists() after remove should be false")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalStorage_SaveFailureLeavesNothing(t *testing.T) {
	ctx := context.Background()
	s := newMemStorage(t)

	_, err := s.SaveFile(ctx, media.UploadsBucket, "x.png", io.MultiReader(strings.NewReader("partial"), failingReader{}))
	if !errors.Is(err, media.ErrIOFailure) {
		t.Fatalf("SaveFile() = %v; want ErrIOFailure", err)
	}
	entries, _ := afero.ReadDir(s.fs, media.UploadsBucket)
	if len(entries) != 0 {
		t.Errorf("expected no leftovers, got %d entries", len(entries))
	}
}

func TestLocalStorage_ListFilesByPrefix(t *testing.T) {
	ctx := context.Background()
	s := newMemStorage(t)
	for _, name := range []string{"abc_tiktok.mp4", "abc_custom.jpg", "abcd_tiktok.mp4", "zzz_youtube.mp4"} {
		if _, err := s.SaveFile(ctx, media.OutputsBucket, name, strings.NewReader("x")); err != nil {
			t.Fatalf("SaveFile(%q) error: %v", name, err)
		}
	}
	// an in-flight save must not be listed
	if err := afero.WriteFile(s.fs, filepath.Join(media.OutputsBucket, tempPrefix+"abc_youtube.mp4-1"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := s.ListFiles(ctx, media.OutputsBucket, "abc_")
	if err != nil {
		t.Fatalf("ListFiles() error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"abc_custom.jpg", "abc_tiktok.mp4"}) {
		t.Errorf("ListFiles() = %v", names)
	}
}

func TestLocalStorage_RenameFile(t *testing.T) {
	ctx := context.Background()
	s := newMemStorage(t)
	for name, body := range map[string]string{".part-a_tiktok.mp4": "new", "a_tiktok.mp4": "old"} {
		if _, err := s.SaveFile(ctx, media.OutputsBucket, name, strings.NewReader(body)); err != nil {
			t.Fatalf("SaveFile(%q) error: %v", name, err)
		}
	}

	if err := s.RenameFile(ctx, media.OutputsBucket, ".part-a_tiktok.mp4", "a_tiktok.mp4"); err != nil {
		t.Fatalf("RenameFile() error: %v", err)
	}
	data, err := afero.ReadFile(s.fs, filepath.Join(media.OutputsBucket, "a_tiktok.mp4"))
	if err != nil || string(data) != "new" {
		t.Errorf("renamed content = %q, %v", data, err)
	}
	if ok, _ := s.FileExists(ctx, media.OutputsBucket, ".part-a_tiktok.mp4"); ok {
		t.Error("source should be gone after rename")
	}

	if err := s.RenameFile(ctx, media.OutputsBucket, "missing.mp4", "b.mp4"); !errors.Is(err, media.ErrNotFound) {
		t.Errorf("missing source: expected ErrNotFound, got %v", err)
	}
	if err := s.RenameFile(ctx, media.OutputsBucket, "a_tiktok.mp4", "../escape.mp4"); !errors.Is(err, media.ErrNotFound) {
		t.Errorf("path target: expected ErrNotFound, got %v", err)
	}
}

func TestLocalStorage_RejectsPaths(t *testing.T) {
	ctx := context.Background()
	s := newMemStorage(t)

	for _, key := range []string{"", ".", "..", "../secret", "a/b", `a\b`} {
		if _, err := s.SaveFile(ctx, media.OutputsBucket, key, strings.NewReader("x")); !errors.Is(err, media.ErrNotFound) {
			t.Errorf("SaveFile(%q) = %v; want ErrNotFound", key, err)
		}
		if _, err := s.GetFile(ctx, media.OutputsBucket, key); !errors.Is(err, media.ErrNotFound) {
			t.Errorf("GetFile(%q) = %v; want ErrNotFound", key, err)
		}
		if _, err := s.LocalPath(media.OutputsBucket, key); err == nil {
			t.Errorf("LocalPath(%q) should fail", key)
		}
	}
	if err := s.InitBucket("../up"); err == nil {
		t.Error("InitBucket() should refuse a path")
	}
}

func TestLocalStorage_LocalPath(t *testing.T) {
	s := newMemStorage(t)
	got, err := s.LocalPath(media.UploadsBucket, "f.mov")
	if err != nil {
		t.Fatalf("LocalPath() error: %v", err)
	}
	if want := filepath.Join("/srv/data", "uploads", "f.mov"); got != want {
		t.Errorf("LocalPath() = %q; want %q", got, want)
	}
}

func TestNewLocalStorage_OnDisk(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	if err != nil {
		t.Fatalf("NewLocalStorage() error: %v", err)
	}
	if err := s.InitBucket(media.OutputsBucket); err != nil {
		t.Fatalf("InitBucket() error: %v", err)
	}
	if _, err := s.SaveFile(ctx, media.OutputsBucket, "x_custom.jpg", strings.NewReader("jpeg")); err != nil {
		t.Fatalf("SaveFile() error: %v", err)
	}

	p, _ := s.LocalPath(media.OutputsBucket, "x_custom.jpg")
	data, err := afero.ReadFile(afero.NewOsFs(), p)
	if err != nil || string(data) != "jpeg" {
		t.Errorf("file on disk = %q, %v", data, err)
	}
}
