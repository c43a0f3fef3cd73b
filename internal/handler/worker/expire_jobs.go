package worker

import (
	"context"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/port"
	"github.com/fhuszti/medias-transcode-go/internal/task"
	"github.com/fhuszti/medias-transcode-go/internal/validation"
)

// ExpireJobsHandler handles an expire-jobs run.
// It validates the incoming payload and delegates the call to the service.
func ExpireJobsHandler(ctx context.Context, p task.ExpireJobsPayload, svc port.JobExpirer) error {
	if err := validation.ValidateStruct(p); err != nil {
		logger.Errorf(ctx, "❌  Payload validation failed: %v", err)
		return err
	}

	n, err := svc.ExpireJobs(ctx, p.Before)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to expire jobs created before %s: %v", p.Before.Format("2006-01-02 15:04:05"), err)
		return err
	}

	if n > 0 {
		logger.Infof(ctx, "✅  Expired %d job(s) created before %s", n, p.Before.Format("2006-01-02 15:04:05"))
	}
	return nil
}
