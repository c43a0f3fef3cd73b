package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

type mockStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*model.Job

	getErr    error
	createErr error
	deleteErr error
	listErr   error
	listIDs   []uuid.UUID

	created *model.Job
	deleted []uuid.UUID
}

func newMockStore(jobs ...*model.Job) *mockStore {
	m := &mockStore{jobs: map[uuid.UUID]*model.Job{}}
	for _, j := range jobs {
		if j.Attempts == nil {
			j.Attempts = map[string]model.Attempt{}
		}
		m.jobs[j.ID] = j
	}
	return m
}

func (m *mockStore) Create(ctx context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = job
	if m.createErr != nil {
		return m.createErr
	}
	m.jobs[job.ID] = job.Clone()
	return nil
}
func (m *mockStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	j, ok := m.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	return j.Clone(), nil
}
func (m *mockStore) SaveAttempt(ctx context.Context, id uuid.UUID, a model.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	j.Attempts[a.OutputName] = a
	return nil
}
func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.jobs[id]; !ok {
		return fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	delete(m.jobs, id)
	return nil
}
func (m *mockStore) ListCreatedBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	return m.listIDs, m.listErr
}

func (m *mockStore) attempt(id uuid.UUID, outputName string) (model.Attempt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return model.Attempt{}, false
	}
	a, ok := j.Attempts[outputName]
	return a, ok
}

type mockRuns struct {
	mu      sync.Mutex
	cancels map[string]func()
	running map[uuid.UUID][]string
}

func newMockRuns() *mockRuns {
	return &mockRuns{cancels: map[string]func(){}, running: map[uuid.UUID][]string{}}
}

func (m *mockRuns) key(id uuid.UUID, name string) string { return id.String() + "/" + name }

func (m *mockRuns) Register(id uuid.UUID, name string, cancel func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cancels[m.key(id, name)]; ok {
		return false
	}
	m.cancels[m.key(id, name)] = cancel
	return true
}
func (m *mockRuns) Release(id uuid.UUID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cancels, m.key(id, name))
}
func (m *mockRuns) Running(id uuid.UUID) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if names, ok := m.running[id]; ok {
		return names
	}
	var out []string
	for k := range m.cancels {
		if strings.HasPrefix(k, id.String()+"/") {
			out = append(out, strings.TrimPrefix(k, id.String()+"/"))
		}
	}
	return out
}
func (m *mockRuns) CancelAll(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, cancel := range m.cancels {
		if strings.HasPrefix(k, id.String()+"/") {
			cancel()
			delete(m.cancels, k)
			n++
		}
	}
	return n
}

type mockStorage struct {
	mu    sync.Mutex
	files map[string][]byte

	saveErr   error
	getErr    error
	statErr   error
	listErr   error
	pathErr   error
	renameErr error
	removeErr map[string]error

	// afterSave runs once a SaveFile call has stored its data
	afterSave func()

	saved   []string
	removed []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{files: map[string][]byte{}, removeErr: map[string]error{}}
}

type nopSeekCloser struct{ *bytes.Reader }

func (nopSeekCloser) Close() error { return nil }

func (m *mockStorage) put(bucket, key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[bucket+"/"+key] = data
}
func (m *mockStorage) has(bucket, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[bucket+"/"+key]
	return ok
}
func (m *mockStorage) count(bucket string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.files {
		if strings.HasPrefix(k, bucket+"/") {
			n++
		}
	}
	return n
}

func (m *mockStorage) InitBucket(bucket string) error { return nil }
func (m *mockStorage) FileExists(ctx context.Context, bucket, key string) (bool, error) {
	return m.has(bucket, key), nil
}
func (m *mockStorage) StatFile(ctx context.Context, bucket, key string) (port.FileInfo, error) {
	if m.statErr != nil {
		return port.FileInfo{}, m.statErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[bucket+"/"+key]
	if !ok {
		return port.FileInfo{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return port.FileInfo{SizeBytes: int64(len(data)), ModTime: time.Unix(0, 0)}, nil
}
func (m *mockStorage) RemoveFile(ctx context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, bucket+"/"+key)
	if err := m.removeErr[bucket+"/"+key]; err != nil {
		return err
	}
	if _, ok := m.files[bucket+"/"+key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(m.files, bucket+"/"+key)
	return nil
}
func (m *mockStorage) GetFile(ctx context.Context, bucket, key string) (io.ReadSeekCloser, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nopSeekCloser{bytes.NewReader(data)}, nil
}
func (m *mockStorage) SaveFile(ctx context.Context, bucket, key string, r io.Reader) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	m.files[bucket+"/"+key] = data
	m.saved = append(m.saved, bucket+"/"+key)
	hook := m.afterSave
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return int64(len(data)), nil
}
func (m *mockStorage) RenameFile(ctx context.Context, bucket, src, dst string) error {
	if m.renameErr != nil {
		return m.renameErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[bucket+"/"+src]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, src)
	}
	delete(m.files, bucket+"/"+src)
	m.files[bucket+"/"+dst] = data
	return nil
}
func (m *mockStorage) ListFiles(ctx context.Context, bucket, prefix string) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.files {
		if name, ok := strings.CutPrefix(k, bucket+"/"); ok && strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}
func (m *mockStorage) LocalPath(bucket, key string) (string, error) {
	if m.pathErr != nil {
		return "", m.pathErr
	}
	return "/data/" + bucket + "/" + key, nil
}

type mockImageEngine struct {
	mu    sync.Mutex
	info  model.ImageInfo
	err   error
	calls int
	opts  model.ImageOptions
}

func (m *mockImageEngine) Resize(r io.Reader, w io.Writer, opts model.ImageOptions) (model.ImageInfo, error) {
	m.mu.Lock()
	m.calls++
	m.opts = opts
	m.mu.Unlock()
	if m.err != nil {
		return model.ImageInfo{}, m.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return model.ImageInfo{}, err
	}
	_, _ = w.Write([]byte("encoded"))
	return m.info, nil
}

type mockRun struct {
	desc      string
	signals   chan model.EngineSignal
	mu        sync.Mutex
	cancelled bool
}

func newMockRun() *mockRun {
	return &mockRun{desc: "ffmpeg -i in out", signals: make(chan model.EngineSignal, 16)}
}

func (r *mockRun) Description() string { return r.desc }
func (r *mockRun) Signals() <-chan model.EngineSignal { return r.signals }
func (r *mockRun) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = true
}

func (r *mockRun) progress(frame int64) {
	r.signals <- model.EngineSignal{Type: model.SignalProgress, Progress: model.Progress{Frame: frame}}
}
func (r *mockRun) end() {
	r.signals <- model.EngineSignal{Type: model.SignalEnd}
}
func (r *mockRun) fail(err error) {
	r.signals <- model.EngineSignal{Type: model.SignalError, Err: err}
}

type mockVideoEngine struct {
	mu       sync.Mutex
	run      *mockRun
	queued   []*mockRun // handed out before run, one per Start
	startErr error
	calls    int
	job      model.VideoJob
	ctx      context.Context
}

func (m *mockVideoEngine) Start(ctx context.Context, job model.VideoJob) (port.VideoRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.job = job
	m.ctx = ctx
	if m.startErr != nil {
		return nil, m.startErr
	}
	if len(m.queued) > 0 {
		r := m.queued[0]
		m.queued = m.queued[1:]
		return r, nil
	}
	return m.run, nil
}

func (m *mockVideoEngine) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockBus struct {
	mu      sync.Mutex
	events  []model.ProcessingEvent
	ctxErrs []error // ctx.Err() seen by each Publish
	ch      chan model.ProcessingEvent
	err     error
}

func newMockBus() *mockBus {
	return &mockBus{ch: make(chan model.ProcessingEvent, 64)}
}

func (m *mockBus) Publish(ctx context.Context, ev model.ProcessingEvent) error {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	m.mu.Unlock()
	m.ch <- ev
	return m.err
}
func (m *mockBus) Subscribe(ctx context.Context, channel string) (port.Subscription, error) {
	return nil, fmt.Errorf("not supported")
}

func (m *mockBus) snapshot() []model.ProcessingEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ProcessingEvent(nil), m.events...)
}

// next waits for the next published event.
func (m *mockBus) next(t *testing.T) model.ProcessingEvent {
	t.Helper()
	select {
	case ev := <-m.ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return model.ProcessingEvent{}
	}
}

// quiet asserts nothing else gets published for a short while.
func (m *mockBus) quiet(t *testing.T) {
	t.Helper()
	select {
	case ev := <-m.ch:
		t.Fatalf("unexpected event %s after terminal event", ev.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func types(evs []model.ProcessingEvent) []model.EventType {
	out := make([]model.EventType, len(evs))
	for i, ev := range evs {
		out[i] = ev.Type
	}
	return out
}
