// Package cli defines the command surface of the meetlog-capture binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/meetlog/meetlog-capture/internal/app"
	"github.com/meetlog/meetlog-capture/internal/config"
	"github.com/meetlog/meetlog-capture/internal/progress"
	"github.com/meetlog/meetlog-capture/internal/version"
)

// Dependencies carries the shared objects commands operate on.
type Dependencies struct {
	App    *app.App
	Config *config.Config
	Sink   *progress.ChannelSink
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "meetlog-capture",
		Short: "Record meetings and produce speaker-tagged transcripts",
		Long:  "Records system audio and microphone into per-source WAV files, mixes them into a single track and transcribes both sides into one chronological transcript.",
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewTranscribeCmd(deps))
	rootCmd.AddCommand(NewDevicesCmd(deps))

	return rootCmd
}
