package transcribe

import (
	"fmt"
	"sort"
	"strings"
)

// Merge combines two pre-sorted, homogeneously-labeled segment lists into one
// transcript ordered by start time. It is a linear two-way merge: within-list
// order is never resorted, and on an exact start-time tie the system-list
// segment is emitted first. Either list may be empty. fallbackDuration is
// used as the total duration when no segments exist (the longer of the two
// source recordings).
func Merge(system, operator []Segment, fallbackDuration float64) *Transcript {
	merged := make([]Segment, 0, len(system)+len(operator))

	i, j := 0, 0
	for i < len(system) && j < len(operator) {
		if system[i].Start <= operator[j].Start {
			merged = append(merged, system[i])
			i++
		} else {
			merged = append(merged, operator[j])
			j++
		}
	}
	merged = append(merged, system[i:]...)
	merged = append(merged, operator[j:]...)

	t := &Transcript{Segments: merged, Duration: fallbackDuration}
	for idx := range t.Segments {
		t.Segments[idx].ID = fmt.Sprintf("seg_%d", idx)
	}
	t.deriveFields(fallbackDuration)
	return t
}

// Rederive re-establishes the transcript invariants after manual edits:
// segments are stably re-sorted by start time and the derived full text and
// duration are rebuilt. Caller-supplied derived fields are never trusted.
func (t *Transcript) Rederive() {
	sort.SliceStable(t.Segments, func(a, b int) bool {
		return t.Segments[a].Start < t.Segments[b].Start
	})
	t.deriveFields(t.Duration)
}

func (t *Transcript) deriveFields(fallbackDuration float64) {
	var b strings.Builder
	maxEnd := 0.0
	for idx, seg := range t.Segments {
		if idx > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%s] %s", seg.DisplaySpeaker(), seg.Text)
		if seg.End > maxEnd {
			maxEnd = seg.End
		}
	}
	t.FullText = b.String()
	if len(t.Segments) > 0 {
		t.Duration = maxEnd
	} else {
		t.Duration = fallbackDuration
	}
}
