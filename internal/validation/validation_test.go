package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/fhuszti/medias-transcode-go/internal/model"
)

func TestValidateStructAndErrorsToJson(t *testing.T) {
	type Input struct {
		JobID   string `validate:"required,uuid" json:"job_id"`
		Channel string `validate:"omitempty,max=8" json:"channel"`
	}

	tests := []struct {
		name        string
		in          Input
		wantErr     bool
		wantJsonMap map[string]string
	}{
		{
			name:    "success",
			in:      Input{JobID: "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", Channel: "abc"},
			wantErr: false,
		},
		{
			name:    "missing job id",
			in:      Input{},
			wantErr: true,
			wantJsonMap: map[string]string{
				"job_id": "required",
			},
		},
		{
			name:    "bad uuid and long channel",
			in:      Input{JobID: "nope", Channel: "123456789"},
			wantErr: true,
			wantJsonMap: map[string]string{
				"job_id":  "uuid",
				"channel": "max",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}

			// convert and unmarshal for comparison
			js, jerr := ErrorsToJson(err)
			if jerr != nil {
				t.Fatalf("ErrorsToJson() error = %v", jerr)
			}
			var got map[string]string
			if err := json.Unmarshal([]byte(js), &got); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			for field, tag := range tt.wantJsonMap {
				if got[field] != tag {
					t.Errorf("field %q: got %q, want %q", field, got[field], tag)
				}
			}
		})
	}
}

func TestProfileOverridesRules(t *testing.T) {
	intp := func(v int) *int { return &v }
	fp := func(v float64) *float64 { return &v }
	sp := func(v string) *string { return &v }

	tests := []struct {
		name      string
		in        model.ProfileOverrides
		wantField string
		wantTag   string
	}{
		{name: "empty overrides are valid", in: model.ProfileOverrides{}},
		{name: "valid width", in: model.ProfileOverrides{Width: intp(500)}},
		{name: "zero width", in: model.ProfileOverrides{Width: intp(0)}, wantField: "width", wantTag: "gt"},
		{name: "negative width", in: model.ProfileOverrides{Width: intp(-10)}, wantField: "width", wantTag: "gt"},
		{name: "zero fps", in: model.ProfileOverrides{FPS: fp(0)}, wantField: "fps", wantTag: "gt"},
		{name: "negative audio bitrate", in: model.ProfileOverrides{AudioBitrateKbps: intp(-1)}, wantField: "audio_bitrate_kbps", wantTag: "gt"},
		{name: "unsupported container", in: model.ProfileOverrides{Container: sp("xyz")}, wantField: "container", wantTag: "oneof"},
		{name: "empty container", in: model.ProfileOverrides{Container: sp("")}, wantField: "container", wantTag: "oneof"},
		{name: "webm container", in: model.ProfileOverrides{Container: sp("webm")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			got := FieldErrors(err)
			if got[tt.wantField] != tt.wantTag {
				t.Errorf("field %q: got %q, want %q (all: %v)", tt.wantField, got[tt.wantField], tt.wantTag, got)
			}
		})
	}
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	if got := FieldErrors(errors.New("boom")); got != nil {
		t.Errorf("expected nil map, got %v", got)
	}
	js, err := ErrorsToJson(errors.New("boom"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if js != `{"_":"boom"}` {
		t.Errorf("ErrorsToJson = %s", js)
	}
}
