package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/fhuszti/medias-transcode-go/internal/api_context"
	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/port"
)

const UploadField = "media"

// UploadMediaHandler streams the multipart field "media" into the registrar
// without buffering the whole file. Other parts are skipped.
func UploadMediaHandler(svc port.UploadRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if err != nil {
			WriteError(w, http.StatusBadRequest, "multipart/form-data body expected", err)
			return
		}

		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				WriteError(w, http.StatusBadRequest, "no file uploaded in field \""+UploadField+"\"", nil)
				return
			}
			if err != nil {
				if !writeTooLarge(w, err) {
					WriteError(w, http.StatusBadRequest, "malformed multipart body", err)
				}
				return
			}
			if part.FormName() != UploadField || part.FileName() == "" {
				_ = part.Close()
				continue
			}

			mimeType := part.Header.Get("Content-Type")
			if mimeType == "" || mimeType == "application/octet-stream" {
				if byExt := mime.TypeByExtension(filepath.Ext(part.FileName())); byExt != "" {
					mimeType = byExt
				}
			}

			out, err := svc.RegisterUpload(r.Context(), port.RegisterUploadInput{
				OriginalName: part.FileName(),
				MimeType:     mimeType,
				Body:         part,
			})
			_ = part.Close()
			if err != nil {
				if !writeTooLarge(w, err) {
					WriteServiceError(w, r, "could not register upload", err)
				}
				return
			}

			RespondJSON(w, http.StatusCreated, out)
			ctx := api_context.WithJobID(r.Context(), out.JobID)
			logger.Infof(ctx, "✅  Successfully uploaded %q", out.OriginalName)
			return
		}
	}
}

func writeTooLarge(w http.ResponseWriter, err error) bool {
	var tooLarge *http.MaxBytesError
	if !errors.As(err, &tooLarge) {
		return false
	}
	WriteError(w, http.StatusRequestEntityTooLarge, "file exceeds the upload limit", err)
	return true
}
