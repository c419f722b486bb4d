package transcribe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func seg(text string, start, end float64, speaker Speaker) Segment {
	return Segment{Text: text, Start: start, End: end, Speaker: speaker}
}

func TestMergeInterleavesByStartTime(t *testing.T) {
	system := []Segment{
		seg("welcome everyone", 0.0, 2.0, SpeakerParticipants),
		seg("any questions", 10.0, 11.5, SpeakerParticipants),
	}
	operator := []Segment{
		seg("thanks for having me", 2.5, 4.0, SpeakerOperator),
		seg("yes one", 12.0, 12.8, SpeakerOperator),
	}

	tr := Merge(system, operator, 0)
	require.Len(t, tr.Segments, 4)
	require.Equal(t, "welcome everyone", tr.Segments[0].Text)
	require.Equal(t, "thanks for having me", tr.Segments[1].Text)
	require.Equal(t, "any questions", tr.Segments[2].Text)
	require.Equal(t, "yes one", tr.Segments[3].Text)
}

func TestMergeAssignsSequentialIDs(t *testing.T) {
	tr := Merge(
		[]Segment{seg("a", 0, 1, SpeakerParticipants)},
		[]Segment{seg("b", 2, 3, SpeakerOperator), seg("c", 4, 5, SpeakerOperator)},
		0,
	)
	require.Equal(t, "seg_0", tr.Segments[0].ID)
	require.Equal(t, "seg_1", tr.Segments[1].ID)
	require.Equal(t, "seg_2", tr.Segments[2].ID)
}

func TestMergeTieGoesToSystem(t *testing.T) {
	system := []Segment{seg("system side", 5.0, 6.0, SpeakerParticipants)}
	operator := []Segment{seg("operator side", 5.0, 6.0, SpeakerOperator)}

	tr := Merge(system, operator, 0)
	require.Equal(t, "system side", tr.Segments[0].Text)
	require.Equal(t, "operator side", tr.Segments[1].Text)
}

func TestMergeWithOneEmptyList(t *testing.T) {
	operator := []Segment{seg("only me", 1.0, 2.0, SpeakerOperator)}

	tr := Merge(nil, operator, 0)
	require.Len(t, tr.Segments, 1)
	require.Equal(t, "only me", tr.Segments[0].Text)

	tr = Merge(operator, nil, 0)
	require.Len(t, tr.Segments, 1)
}

func TestMergeDerivesFullText(t *testing.T) {
	system := []Segment{seg("hello", 0, 1, SpeakerParticipants)}
	operator := []Segment{seg("hi there", 1.5, 2.5, SpeakerOperator)}

	tr := Merge(system, operator, 0)
	require.Equal(t, "[Meeting] hello\n[Me] hi there", tr.FullText)
}

func TestMergeFullTextHonorsSpeakerRename(t *testing.T) {
	operator := []Segment{{Text: "hi", Start: 0, End: 1, Speaker: SpeakerOperator, SpeakerName: "Dana"}}

	tr := Merge(nil, operator, 0)
	require.Equal(t, "[Dana] hi", tr.FullText)
}

func TestMergeDurationIsMaxEnd(t *testing.T) {
	system := []Segment{seg("a", 0, 7.5, SpeakerParticipants)}
	operator := []Segment{seg("b", 1, 3.0, SpeakerOperator)}

	tr := Merge(system, operator, 99)
	require.Equal(t, 7.5, tr.Duration)
}

func TestMergeEmptyUsesFallbackDuration(t *testing.T) {
	tr := Merge(nil, nil, 42.5)
	require.Empty(t, tr.Segments)
	require.Empty(t, tr.FullText)
	require.Equal(t, 42.5, tr.Duration)
}

func TestRederiveRestoresOrderAndDerivedFields(t *testing.T) {
	tr := &Transcript{
		Segments: []Segment{
			{ID: "seg_0", Text: "later", Start: 5, End: 6, Speaker: SpeakerOperator},
			{ID: "seg_1", Text: "earlier", Start: 1, End: 2, Speaker: SpeakerParticipants},
		},
		FullText: "stale",
		Duration: 0,
	}

	tr.Rederive()
	require.Equal(t, "earlier", tr.Segments[0].Text)
	require.Equal(t, "later", tr.Segments[1].Text)
	require.Equal(t, "[Meeting] earlier\n[Me] later", tr.FullText)
	require.Equal(t, 6.0, tr.Duration)
}
