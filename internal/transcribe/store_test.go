package transcribe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()

	original := Merge(
		[]Segment{{Text: "hello", Start: 0, End: 1.2, Speaker: SpeakerParticipants}},
		[]Segment{{Text: "hi", Start: 1.5, End: 2.0, Speaker: SpeakerOperator, SpeakerName: "Dana"}},
		0,
	)
	require.NoError(t, Save(dir, TranscriptFile, original))

	loaded, err := Load(dir, TranscriptFile)
	require.NoError(t, err)
	require.Equal(t, original, loaded)
}

func TestSpeakerWireLabels(t *testing.T) {
	dir := t.TempDir()

	tr := Merge(
		[]Segment{{Text: "a", Start: 0, End: 1, Speaker: SpeakerParticipants}},
		[]Segment{{Text: "b", Start: 2, End: 3, Speaker: SpeakerOperator}},
		0,
	)
	require.NoError(t, Save(dir, TranscriptFile, tr))

	data, err := os.ReadFile(filepath.Join(dir, TranscriptFile))
	require.NoError(t, err)
	require.Contains(t, string(data), `"speaker": "Meeting"`)
	require.Contains(t, string(data), `"speaker": "Me"`)
	require.NotContains(t, string(data), `"speaker_name"`)
}

func TestLoadRejectsUnknownSpeakerLabel(t *testing.T) {
	dir := t.TempDir()
	payload := `{"segments":[{"id":"seg_0","text":"x","start_time":0,"end_time":1,"speaker":"Narrator"}],"full_text":"","duration":1}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, TranscriptFile), []byte(payload), 0o644))

	_, err := Load(dir, TranscriptFile)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Narrator")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir(), TranscriptFile)
	require.Error(t, err)
}

func TestSaveEditedRederivesBeforeWriting(t *testing.T) {
	dir := t.TempDir()

	edited := &Transcript{
		Segments: []Segment{
			{ID: "seg_0", Text: "second", Start: 4, End: 5, Speaker: SpeakerOperator},
			{ID: "seg_1", Text: "first", Start: 0, End: 1, Speaker: SpeakerParticipants},
		},
		FullText: "tampered",
		Duration: 999,
	}
	require.NoError(t, SaveEdited(dir, edited))

	loaded, err := Load(dir, EditedTranscriptFile)
	require.NoError(t, err)
	require.Equal(t, "first", loaded.Segments[0].Text)
	require.Equal(t, "[Meeting] first\n[Me] second", loaded.FullText)
	require.Equal(t, 5.0, loaded.Duration)

	// The original transcript file is untouched.
	_, err = os.Stat(filepath.Join(dir, TranscriptFile))
	require.True(t, os.IsNotExist(err))
}
