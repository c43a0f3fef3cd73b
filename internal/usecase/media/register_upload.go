package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
)

const maxExtensionLen = 10

type uploadRegistrarSrv struct {
	store port.JobStore
	strg  port.Storage
	genID port.UUIDGen
	now   func() time.Time
}

// compile-time check: *uploadRegistrarSrv must satisfy port.UploadRegistrar
var _ port.UploadRegistrar = (*uploadRegistrarSrv)(nil)

// NewUploadRegistrar constructs an UploadRegistrar implementation.
func NewUploadRegistrar(store port.JobStore, strg port.Storage, genID port.UUIDGen) port.UploadRegistrar {
	return &uploadRegistrarSrv{store: store, strg: strg, genID: genID, now: time.Now}
}

// RegisterUpload stores the source under a collision-free name and creates its job.
// The media kind comes from the declared MIME type only.
func (s *uploadRegistrarSrv) RegisterUpload(ctx context.Context, in port.RegisterUploadInput) (port.RegisterUploadOutput, error) {
	if in.Body == nil {
		return port.RegisterUploadOutput{}, fmt.Errorf("%w: no file uploaded", ErrInvalidRequest)
	}
	mimeType := strings.TrimSpace(in.MimeType)
	if mimeType == "" {
		return port.RegisterUploadOutput{}, fmt.Errorf("%w: missing mime type", ErrInvalidRequest)
	}

	filename := s.genID().String() + safeExtension(in.OriginalName)
	size, err := s.strg.SaveFile(ctx, UploadsBucket, filename, in.Body)
	if err != nil {
		return port.RegisterUploadOutput{}, fmt.Errorf("saving upload %q: %w", filename, err)
	}

	sourcePath, err := s.strg.LocalPath(UploadsBucket, filename)
	if err != nil {
		return port.RegisterUploadOutput{}, fmt.Errorf("%w: resolving path of %q: %v", ErrIOFailure, filename, err)
	}

	job := &model.Job{
		ID:           s.genID(),
		Filename:     filename,
		OriginalName: in.OriginalName,
		MimeType:     mimeType,
		Kind:         model.KindFromMimeType(mimeType),
		SourcePath:   sourcePath,
		SizeBytes:    size,
		CreatedAt:    s.now().UTC(),
		Attempts:     map[string]model.Attempt{},
	}
	if err := s.store.Create(ctx, job); err != nil {
		if rmErr := s.strg.RemoveFile(ctx, UploadsBucket, filename); rmErr != nil {
			logger.Warnf(ctx, "failed to remove orphan upload %q: %v", filename, rmErr)
		}
		return port.RegisterUploadOutput{}, fmt.Errorf("creating job: %w", err)
	}

	logger.Infof(ctx, "📥  Registered upload %q as job #%s (%s, %d bytes)", in.OriginalName, job.ID, job.Kind, size)

	return port.RegisterUploadOutput{
		JobID:        job.ID,
		OriginalName: job.OriginalName,
		MimeType:     job.MimeType,
		Kind:         job.Kind,
	}, nil
}

// safeExtension keeps the original extension when it is short and alphanumeric.
func safeExtension(originalName string) string {
	ext := path.Ext(path.Base(strings.ReplaceAll(originalName, `\`, "/")))
	if len(ext) < 2 || len(ext) > maxExtensionLen+1 {
		return ""
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return ext
}
