package memory

import (
	"sort"
	"sync"

	"github.com/fhuszti/medias-transcode-go/internal/port"
	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

// RunRegistry holds the cancel handle of every running attempt.
type RunRegistry struct {
	mu   sync.Mutex
	runs map[uuid.UUID]map[string]func()
}

// compile-time check: *RunRegistry must satisfy port.RunRegistry
var _ port.RunRegistry = (*RunRegistry)(nil)

func NewRunRegistry() *RunRegistry {
	return &RunRegistry{runs: make(map[uuid.UUID]map[string]func())}
}

func (r *RunRegistry) Register(jobID uuid.UUID, outputName string, cancel func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	byOutput, ok := r.runs[jobID]
	if !ok {
		byOutput = make(map[string]func())
		r.runs[jobID] = byOutput
	}
	if _, running := byOutput[outputName]; running {
		return false
	}
	byOutput[outputName] = cancel
	return true
}

func (r *RunRegistry) Release(jobID uuid.UUID, outputName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byOutput, ok := r.runs[jobID]
	if !ok {
		return
	}
	delete(byOutput, outputName)
	if len(byOutput) == 0 {
		delete(r.runs, jobID)
	}
}

// Running lists the output names of the job's running attempts, sorted.
func (r *RunRegistry) Running(jobID uuid.UUID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.runs[jobID]))
	for name := range r.runs[jobID] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *RunRegistry) CancelAll(jobID uuid.UUID) int {
	r.mu.Lock()
	byOutput := r.runs[jobID]
	delete(r.runs, jobID)
	r.mu.Unlock()

	// cancel outside the lock, handles may call back into Release
	for _, cancel := range byOutput {
		if cancel != nil {
			cancel()
		}
	}
	return len(byOutput)
}

// Shutdown cancels every running attempt of every job.
func (r *RunRegistry) Shutdown() int {
	r.mu.Lock()
	all := r.runs
	r.runs = make(map[uuid.UUID]map[string]func())
	r.mu.Unlock()

	n := 0
	for _, byOutput := range all {
		for _, cancel := range byOutput {
			if cancel != nil {
				cancel()
			}
			n++
		}
	}
	return n
}
