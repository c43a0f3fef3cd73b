package api

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"net/http"

	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
)

// ListPresetsHandler serves the catalog keyed by platform, with a quoted
// CRC32 ETag so clients can revalidate with If-None-Match.
func ListPresetsHandler(svc port.PresetLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		presets := svc.ListPresets(r.Context())
		out := make(map[string]model.Preset, len(presets))
		for _, p := range presets {
			out[p.Key] = p
		}

		raw, err := json.Marshal(out)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to encode presets", err)
			return
		}
		etag := fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(raw))

		w.Header().Set("Cache-Control", "public, max-age=300")
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		RespondRawJSON(w, http.StatusOK, raw)
	}
}
