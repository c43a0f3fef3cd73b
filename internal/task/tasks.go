package task

import (
	"time"
)

const TypeExpireJobs = "jobs:expire"

// ExpireJobsPayload asks for every idle job created before Before to be cleaned.
type ExpireJobsPayload struct {
	Before time.Time `json:"before" validate:"required"`
}

// NewExpireJobsPayload builds the payload for a run at now with the given
// retention.
func NewExpireJobsPayload(now time.Time, retention time.Duration) ExpireJobsPayload {
	return ExpireJobsPayload{Before: now.Add(-retention)}
}
