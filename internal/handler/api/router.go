package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fhuszti/medias-transcode-go/internal/port"
)

type RouterDeps struct {
	Presets   port.PresetLister
	Uploads   port.UploadRegistrar
	Processor port.MediaProcessor
	Jobs      port.JobGetter
	Cleaner   port.JobCleaner
	Outputs   port.OutputGetter
	Bus       port.EventBus
	GenID     port.UUIDGen

	MaxUploadBytes int64
	Heartbeat      time.Duration
}

func NewRouter(d RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(NotFoundHandler())
	r.MethodNotAllowed(MethodNotAllowedHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/presets", ListPresetsHandler(d.Presets))
		r.With(WithBodyLimit(d.MaxUploadBytes)).
			Post("/upload", UploadMediaHandler(d.Uploads))
		r.With(WithBodyLimit(1<<20)).
			Post("/process", ProcessMediaHandler(d.Processor))
		r.With(WithBodyLimit(1<<20)).
			Post("/cleanup", CleanupJobHandler(d.Cleaner))
		r.With(WithJobID()).
			Get("/jobs/{id}", GetJobHandler(d.Jobs))
		r.With(WithJobID()).
			Delete("/jobs/{id}", DeleteJobHandler(d.Cleaner))
		r.Get("/events", EventsHandler(d.Bus, d.GenID, d.Heartbeat))
	})
	r.Get("/download/{filename}", DownloadOutputHandler(d.Outputs))

	return r
}
