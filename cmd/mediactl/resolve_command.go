package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fhuszti/medias-transcode-go/internal/engine/ffmpeg"
	"github.com/fhuszti/medias-transcode-go/internal/model"
	mediaSvc "github.com/fhuszti/medias-transcode-go/internal/usecase/media"
)

type resolveOutput struct {
	Platform     string              `json:"platform"`
	Kind         model.MediaKind     `json:"kind"`
	Profile      model.OutputProfile `json:"profile"`
	OutputName   string              `json:"output_name"`
	ImageQuality int                 `json:"image_quality,omitempty"`
	Command      string              `json:"command,omitempty"`
}

func newResolveCommand() *cobra.Command {
	var (
		kind         string
		source       string
		ffmpegPath   string
		ffmpegPreset string
		asJSON       bool
		width        int
		height       int
		fps          float64
		videoKbps    int
		audioKbps    int
		container    string
	)

	cmd := &cobra.Command{
		Use:   "resolve <platform>",
		Short: "Show the effective output profile for a platform and overrides",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform := ""
			if len(args) == 1 {
				platform = args[0]
			}

			overrides := &model.ProfileOverrides{}
			flags := cmd.Flags()
			if flags.Changed("width") {
				overrides.Width = &width
			}
			if flags.Changed("height") {
				overrides.Height = &height
			}
			if flags.Changed("fps") {
				overrides.FPS = &fps
			}
			if flags.Changed("video-kbps") {
				overrides.VideoBitrateKbps = &videoKbps
			}
			if flags.Changed("audio-kbps") {
				overrides.AudioBitrateKbps = &audioKbps
			}
			if flags.Changed("container") {
				overrides.Container = &container
			}

			mediaKind := model.MediaKind(kind)
			if mediaKind != model.MediaKindImage && mediaKind != model.MediaKindVideo {
				return fmt.Errorf("--kind must be image or video, got %q", kind)
			}

			res, err := mediaSvc.Resolve(platform, overrides)
			if err != nil {
				return err
			}
			ext, err := res.Extension(mediaKind)
			if err != nil {
				return err
			}

			out := resolveOutput{
				Platform:   res.Platform,
				Kind:       mediaKind,
				Profile:    res.Profile,
				OutputName: mediaSvc.OutputName(filepath.Base(source), res.Platform, ext),
			}
			if mediaKind == model.MediaKindImage {
				out.ImageQuality = mediaSvc.ImageQuality(res.Profile.VideoBitrateKbps)
			} else {
				out.Command = ffmpeg.CommandLine(ffmpegPath, ffmpeg.BuildArgs(model.VideoJob{
					InputPath:  source,
					OutputPath: filepath.Join(filepath.Dir(source), out.OutputName),
					Profile:    res.Profile,
				}, ffmpegPreset))
			}

			if asJSON {
				return writeJSON(cmd, out)
			}

			p := out.Profile
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Platform:  %s\n", out.Platform)
			fmt.Fprintf(w, "Size:      %dx%d\n", p.Width, p.Height)
			fmt.Fprintf(w, "FPS:       %g\n", p.FPS)
			fmt.Fprintf(w, "Bitrates:  video %dk, audio %dk\n", p.VideoBitrateKbps, p.AudioBitrateKbps)
			fmt.Fprintf(w, "Container: %s\n", p.Container)
			fmt.Fprintf(w, "Output:    %s\n", out.OutputName)
			if out.ImageQuality > 0 {
				fmt.Fprintf(w, "Quality:   %d\n", out.ImageQuality)
			}
			if out.Command != "" {
				fmt.Fprintf(w, "Command:   %s\n", out.Command)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&kind, "kind", string(model.MediaKindVideo), "Media kind: image or video")
	flags.StringVar(&source, "source", "source.mp4", "Source file name used to derive the output name")
	flags.StringVar(&ffmpegPath, "ffmpeg", "ffmpeg", "ffmpeg binary shown in the command line")
	flags.StringVar(&ffmpegPreset, "ffmpeg-preset", "medium", "x264 preset shown in the command line")
	flags.BoolVar(&asJSON, "json", false, "Print the resolution as JSON")
	flags.IntVar(&width, "width", 0, "Override the target width")
	flags.IntVar(&height, "height", 0, "Override the target height")
	flags.Float64Var(&fps, "fps", 0, "Override the frame rate")
	flags.IntVar(&videoKbps, "video-kbps", 0, "Override the video bitrate in kbps")
	flags.IntVar(&audioKbps, "audio-kbps", 0, "Override the audio bitrate in kbps")
	flags.StringVar(&container, "container", "", "Override the container")

	return cmd
}
