package cli

import (
	"github.com/spf13/cobra"
)

func NewTranscribeCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <recording-dir>",
		Short: "Transcribe a finished recording",
		Long:  "Run speech recognition over system.wav and mic.wav in the given recording directory and write the merged transcript.json next to them.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transcribeDir(cmd.Context(), deps, args[0])
		},
	}
}
