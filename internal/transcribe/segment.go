// Package transcribe turns per-source speech-to-text output into a single
// chronologically ordered, speaker-tagged transcript. The speech-to-text
// engine itself is external; this package consumes its segments through the
// Engine interface.
package transcribe

import (
	"encoding/json"
	"fmt"
)

// Speaker is a closed variant keyed to which physical capture path produced a
// segment. It is never inferred from audio content. Renaming a speaker to a
// real name is a textual override carried separately (SpeakerName).
type Speaker int

const (
	// SpeakerParticipants tags segments from the loopback/system file.
	SpeakerParticipants Speaker = iota
	// SpeakerOperator tags segments from the input-device file.
	SpeakerOperator
)

const (
	participantsLabel = "Meeting"
	operatorLabel     = "Me"
)

func (s Speaker) String() string {
	if s == SpeakerOperator {
		return operatorLabel
	}
	return participantsLabel
}

// MarshalJSON renders the speaker under its wire label.
func (s Speaker) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the two wire labels.
func (s *Speaker) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case operatorLabel:
		*s = SpeakerOperator
	case participantsLabel:
		*s = SpeakerParticipants
	default:
		return fmt.Errorf("unknown speaker label %q (rename speakers via speaker_name)", label)
	}
	return nil
}

// Segment is one timestamped utterance. Times are seconds from the start of
// the recording.
type Segment struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	Start       float64 `json:"start_time"`
	End         float64 `json:"end_time"`
	Speaker     Speaker `json:"speaker"`
	SpeakerName string  `json:"speaker_name,omitempty"`
}

// DisplaySpeaker returns the user-facing speaker label, honoring a rename.
func (s Segment) DisplaySpeaker() string {
	if s.SpeakerName != "" {
		return s.SpeakerName
	}
	return s.Speaker.String()
}

// Transcript is an ordered sequence of segments (non-decreasing start time)
// plus derived full text and total duration in seconds.
type Transcript struct {
	Segments []Segment `json:"segments"`
	FullText string    `json:"full_text"`
	Duration float64   `json:"duration"`
}
