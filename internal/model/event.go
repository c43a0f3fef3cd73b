package model

import (
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

type EventType string

const (
	EventStarted  EventType = "processing_started"
	EventProgress EventType = "processing_progress"
	EventDone     EventType = "processing_done"
	EventError    EventType = "processing_error"
)

// Progress is whatever the video engine reported; Percent is only set when the
// input duration is known.
type Progress struct {
	Percent        *float64 `json:"percent,omitempty"`
	OutTimeSeconds float64  `json:"out_time_seconds"`
	Frame          int64    `json:"frame"`
	FPS            float64  `json:"fps,omitempty"`
	Speed          string   `json:"speed,omitempty"`
}

// ProcessingEvent is addressed to a single channel and never stored.
type ProcessingEvent struct {
	Type        EventType `json:"type"`
	JobID       uuid.UUID `json:"job_id"`
	Channel     string    `json:"channel"`
	Platform    string    `json:"platform,omitempty"`
	Description string    `json:"description,omitempty"`
	Progress    *Progress `json:"progress,omitempty"`
	OutputName  string    `json:"output_name,omitempty"`
	URL         string    `json:"url,omitempty"`
	Message     string    `json:"message,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e ProcessingEvent) IsTerminal() bool {
	return e.Type == EventDone || e.Type == EventError
}

// VideoJob is what the video engine needs to run one attempt.
type VideoJob struct {
	InputPath  string
	OutputPath string
	Profile    OutputProfile
}

type SignalType string

const (
	SignalProgress SignalType = "progress"
	SignalEnd      SignalType = "end"
	SignalError    SignalType = "error"
)

// EngineSignal is emitted by a running video engine.
type EngineSignal struct {
	Type     SignalType
	Progress Progress
	Err      error
}
