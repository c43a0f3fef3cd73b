package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/preset"
)

func newPresetsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the platform presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := preset.All()
			if asJSON {
				out := make(map[string]model.Preset, len(presets))
				for _, p := range presets {
					out[p.Key] = p
				}
				return writeJSON(cmd, out)
			}

			rows := make([][]string, 0, len(presets))
			for _, p := range presets {
				r := p.Recommended
				rows = append(rows, []string{
					p.Key,
					p.Display,
					fmt.Sprintf("%dx%d", r.Width, r.Height),
					strconv.FormatFloat(r.FPS, 'f', -1, 64),
					strconv.Itoa(r.VideoBitrateKbps) + "k",
					strconv.Itoa(r.AudioBitrateKbps) + "k",
					r.Container,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "Platform", "Size", "FPS", "Video", "Audio", "Container"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")
	return cmd
}
