package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
)

const (
	signalBuffer = 16
	stderrTail   = 4 << 10
)

var commandContext = exec.CommandContext

type Engine struct {
	ffmpegPath  string
	ffprobePath string
	preset      string
}

// compile-time check: *Engine must satisfy port.VideoEngine
var _ port.VideoEngine = (*Engine)(nil)

// NewEngine returns an ffmpeg-backed video engine. An empty ffprobePath
// disables the duration probe, so progress carries no percent.
func NewEngine(ffmpegPath, ffprobePath, preset string) *Engine {
	return &Engine{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath, preset: preset}
}

// Start launches ffmpeg and returns as soon as the process runs. The process
// lives as long as ctx or until Cancel is called.
func (e *Engine) Start(ctx context.Context, job model.VideoJob) (port.VideoRun, error) {
	p := job.Profile
	if p.Width <= 0 || p.Height <= 0 || p.FPS <= 0 || p.VideoBitrateKbps <= 0 || p.AudioBitrateKbps <= 0 {
		return nil, fmt.Errorf("ffmpeg: invalid profile %+v", p)
	}
	if job.InputPath == "" || job.OutputPath == "" {
		return nil, errors.New("ffmpeg: input and output paths are required")
	}

	total := e.probeDuration(ctx, job.InputPath)

	runCtx, cancel := context.WithCancel(ctx)
	args := BuildArgs(job, e.preset)
	cmd := commandContext(runCtx, e.ffmpegPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("ffmpeg: stdout pipe: %w", err)
	}
	tail := newTailBuffer(stderrTail)
	cmd.Stderr = tail

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("ffmpeg: failed to start: %w", err)
	}

	r := &run{
		desc:    CommandLine(e.ffmpegPath, args),
		signals: make(chan model.EngineSignal, signalBuffer),
		cancel:  cancel,
	}
	go r.wait(runCtx, cmd, stdout, tail, total)
	return r, nil
}

// probeDuration asks ffprobe for the input duration in seconds; 0 when unknown.
func (e *Engine) probeDuration(ctx context.Context, input string) float64 {
	if e.ffprobePath == "" {
		return 0
	}
	out, err := commandContext(ctx, e.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		input,
	).Output()
	if err != nil {
		logger.Warnf(ctx, "⚠️ ffprobe failed on %s: %v", input, err)
		return 0
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
