package ffmpeg

import (
	"strconv"
	"strings"

	"github.com/fhuszti/medias-transcode-go/internal/model"
)

type codecs struct {
	video string
	audio string
}

var containerCodecs = map[string]codecs{
	"mp4":  {video: "libx264", audio: "aac"},
	"mov":  {video: "libx264", audio: "aac"},
	"mkv":  {video: "libx264", audio: "aac"},
	"webm": {video: "libvpx-vp9", audio: "libopus"},
}

// BuildArgs returns the ffmpeg argument list for one transcode. Progress is
// reported as key=value blocks on stdout.
func BuildArgs(job model.VideoJob, preset string) []string {
	p := job.Profile
	c, ok := containerCodecs[p.Container]
	if !ok {
		c = containerCodecs["mp4"]
	}

	args := []string{
		"-hide_banner", "-y",
		"-i", job.InputPath,
		"-c:v", c.video,
	}
	if c.video == "libx264" && preset != "" {
		args = append(args, "-preset", preset)
	}
	args = append(args,
		"-vf", "scale="+strconv.Itoa(p.Width)+":"+strconv.Itoa(p.Height),
		"-r", strconv.FormatFloat(p.FPS, 'f', -1, 64),
		"-b:v", strconv.Itoa(p.VideoBitrateKbps)+"k",
		"-c:a", c.audio,
		"-b:a", strconv.Itoa(p.AudioBitrateKbps)+"k",
		"-pix_fmt", "yuv420p",
	)
	if p.Container == "mp4" || p.Container == "mov" {
		args = append(args, "-movflags", "+faststart")
	}
	return append(args, "-progress", "pipe:1", "-nostats", job.OutputPath)
}

// CommandLine renders binary and args the way a shell user would type them.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{binary}, args...) {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
