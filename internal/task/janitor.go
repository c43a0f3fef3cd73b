package task

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
)

// Janitor runs a function on a cron schedule. A run still in progress when
// the next one is due makes the next one skip.
type Janitor struct {
	cron *cron.Cron
}

// NewJanitor accepts standard five-field specs and descriptors such as
// "@every 10m" or "@hourly".
func NewJanitor(schedule string, run func(ctx context.Context, now time.Time)) (*Janitor, error) {
	cl := cronLogger{}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl), cron.Recover(cl)))
	if _, err := c.AddFunc(schedule, func() {
		run(context.Background(), time.Now())
	}); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	return &Janitor{cron: c}, nil
}

func (j *Janitor) Start() {
	logger.Info(context.Background(), "🧹 Janitor started")
	j.cron.Start()
}

// Stop prevents further runs and waits for a running one until ctx is done.
func (j *Janitor) Stop(ctx context.Context) error {
	done := j.cron.Stop()
	select {
	case <-done.Done():
		logger.Info(ctx, "✅  Janitor stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("janitor did not stop in time: %w", ctx.Err())
	}
}

// cronLogger sends cron's own messages to the service logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug(context.Background(), "cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error(context.Background(), "❌  cron: "+msg, append(keysAndValues, "error", err)...)
}
