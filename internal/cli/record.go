package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/meetlog/meetlog-capture/internal/progress"
	"github.com/meetlog/meetlog-capture/internal/transcribe"
)

// statsInterval controls how often live counters are printed while the
// recording runs.
const statsInterval = 5 * time.Second

func NewRecordCmd(deps *Dependencies) *cobra.Command {
	var runTranscribe bool

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record until interrupted, then mix the session",
		Long:  "Start capturing system audio and microphone. Press Ctrl+C to stop; the per-source files are finalized and mixed into mixed.wav.",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := deps.App.StartRecording()
			if err != nil {
				return err
			}
			fmt.Printf("Recording to %s (Ctrl+C to stop)\n", session.Dir)

			done := make(chan struct{})
			go printProgress(deps.Sink, done)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			ticker := time.NewTicker(statsInterval)
			defer ticker.Stop()

		loop:
			for {
				select {
				case <-ticker.C:
					if stats, ok := deps.App.RecordingStats(); ok {
						fmt.Printf("  %s elapsed, %d system / %d mic samples written\n",
							stats.Duration.Round(time.Second), stats.SystemSamples, stats.MicSamples)
					}
				case <-sigCh:
					break loop
				}
			}
			signal.Stop(sigCh)

			fmt.Println("Stopping...")
			out, stopErr := deps.App.StopRecording()
			close(done)
			if out != nil {
				fmt.Println(out)
			}
			if stopErr != nil {
				return stopErr
			}

			if runTranscribe {
				return transcribeDir(cmd.Context(), deps, out.Directory)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&runTranscribe, "transcribe", false, "Transcribe the session after recording stops")

	return cmd
}

func transcribeDir(ctx context.Context, deps *Dependencies, dir string) error {
	done := make(chan struct{})
	go printProgress(deps.Sink, done)
	defer close(done)

	t, err := deps.App.TranscribeRecording(ctx, dir)
	if err != nil {
		return err
	}
	fmt.Printf("Transcript with %d segments saved to %s\n",
		len(t.Segments), transcribe.TranscriptFile)
	return nil
}

// printProgress renders sink events until done is closed. Dropped events are
// acceptable; only the latest position matters to the reader.
func printProgress(sink *progress.ChannelSink, done <-chan struct{}) {
	if sink == nil {
		return
	}
	for {
		select {
		case ev := <-sink.Events():
			switch {
			case ev.Mixing != nil:
				fmt.Printf("\rMixing: %.0f%%", ev.Mixing.Percent)
				if ev.Mixing.Percent >= 100 {
					fmt.Println()
				}
			case ev.Transcription != nil:
				fmt.Printf("\rTranscribing (%s): %.0f%%", ev.Transcription.Phase, ev.Transcription.OverallPercent)
				if ev.Transcription.OverallPercent >= 100 {
					fmt.Println()
				}
			}
		case <-done:
			return
		}
	}
}
