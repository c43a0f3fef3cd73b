package mock

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

// MockPresetLister implements port.PresetLister for tests.
type MockPresetLister struct {
	Out []model.Preset
}

func (m *MockPresetLister) ListPresets(ctx context.Context) []model.Preset {
	return m.Out
}

// MockUploadRegistrar implements port.UploadRegistrar for tests. The body is
// read fully so handler limits can be exercised.
type MockUploadRegistrar struct {
	Out    port.RegisterUploadOutput
	Err    error
	Called bool
	In     port.RegisterUploadInput
	Body   []byte
}

func (m *MockUploadRegistrar) RegisterUpload(ctx context.Context, in port.RegisterUploadInput) (port.RegisterUploadOutput, error) {
	m.Called = true
	m.In = in
	if in.Body != nil {
		data, err := io.ReadAll(in.Body)
		if err != nil {
			return port.RegisterUploadOutput{}, err
		}
		m.Body = data
	}
	return m.Out, m.Err
}

// MockMediaProcessor implements port.MediaProcessor for tests.
type MockMediaProcessor struct {
	Out    port.ProcessMediaOutput
	Err    error
	Called bool
	In     port.ProcessMediaInput
}

func (m *MockMediaProcessor) ProcessMedia(ctx context.Context, in port.ProcessMediaInput) (port.ProcessMediaOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// MockJobGetter implements port.JobGetter for tests.
type MockJobGetter struct {
	Out *model.Job
	Err error
	ID  uuid.UUID
}

func (m *MockJobGetter) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	m.ID = id
	return m.Out, m.Err
}

// MockJobCleaner implements port.JobCleaner for tests.
type MockJobCleaner struct {
	Err    error
	Called bool
	ID     uuid.UUID
}

func (m *MockJobCleaner) CleanupJob(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.ID = id
	return m.Err
}

// MockJobExpirer implements port.JobExpirer for tests.
type MockJobExpirer struct {
	mu     sync.Mutex
	Out    int
	Err    error
	Calls  int
	Before time.Time
}

func (m *MockJobExpirer) ExpireJobs(ctx context.Context, before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.Before = before
	return m.Out, m.Err
}

func (m *MockJobExpirer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockOutputGetter implements port.OutputGetter for tests.
type MockOutputGetter struct {
	Out  *port.GetOutputOutput
	Err  error
	Name string
}

func (m *MockOutputGetter) GetOutput(ctx context.Context, name string) (*port.GetOutputOutput, error) {
	m.Name = name
	return m.Out, m.Err
}
