package media

import (
	"context"

	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

type jobGetterSrv struct {
	store port.JobStore
}

// compile-time check: *jobGetterSrv must satisfy port.JobGetter
var _ port.JobGetter = (*jobGetterSrv)(nil)

func NewJobGetter(store port.JobStore) port.JobGetter {
	return &jobGetterSrv{store: store}
}

func (s *jobGetterSrv) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	return s.store.Get(ctx, id)
}
