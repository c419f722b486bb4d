package transcribe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File names persisted inside a recording directory.
const (
	TranscriptFile       = "transcript.json"
	EditedTranscriptFile = "transcript_edited.json"
)

// Save persists a transcript under the given name in a recording directory.
func Save(dir, name string, t *Transcript) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize transcript: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Load reads a previously persisted transcript.
func Load(dir, name string) (*Transcript, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &t, nil
}

// SaveEdited persists a manually edited transcript. The ordering invariant is
// re-established and derived fields are rebuilt before writing; the caller's
// full_text and duration are discarded.
func SaveEdited(dir string, t *Transcript) error {
	t.Rederive()
	return Save(dir, EditedTranscriptFile, t)
}
