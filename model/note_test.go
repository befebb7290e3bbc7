package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pitchAt(step string, midi int, pos float64) PitchData {
	return PitchData{Pitch: Pitch{Step: step, Octave: 4}, MidiCode: midi, Position: &pos}
}

func TestAddChordMemberSortsByPosition(t *testing.T) {
	c4 := pitchAt("C", 60, 4.5)
	n := &Note{Body: Single{Pitch: &c4}}

	require.NoError(t, n.AddChordMember(pitchAt("G", 67, 2.5)))
	require.NoError(t, n.AddChordMember(pitchAt("E", 64, 3.5)))
	require.NoError(t, n.AddChordMember(PitchData{Pitch: Pitch{Step: "B"}, MidiCode: 71}))

	assert.Equal(t, ViewChord, n.View())

	var steps []string
	for _, p := range n.Data() {
		steps = append(steps, p.Pitch.Step)
	}
	assert.Equal(t, []string{"G", "E", "C", "B"}, steps)
}

func TestRestsAndUnpitchedNotesDoNotAnchorChords(t *testing.T) {
	rest := &Note{Body: Rest{}}
	assert.ErrorIs(t, rest.AddChordMember(pitchAt("C", 60, 4.5)), ErrNotChordable)
	assert.Equal(t, ViewRest, rest.View())

	unpitched := &Note{Body: Single{}}
	assert.ErrorIs(t, unpitched.AddChordMember(pitchAt("C", 60, 4.5)), ErrNotChordable)
}

func TestNoteJSON(t *testing.T) {
	c4, e4 := pitchAt("C", 60, 4.5), pitchAt("E", 64, 3.5)
	n := &Note{ID: "N_1", MeasureID: "M_1", Staff: ClefTreble, Type: Quarter, Body: Single{Pitch: &c4}}
	require.NoError(t, n.AddChordMember(e4))
	n.Time = &TimeWindow{Duration: 1000, End: 1000, StartRange: -50, EndRange: 950}

	b, err := json.Marshal(n)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "chord", raw["view"])
	assert.Len(t, raw["data"], 2)
	assert.Equal(t, "treble", raw["staff"])

	var back Note
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, n.Body, back.Body)
	assert.Equal(t, *n.Time, *back.Time)

	rest, err := json.Marshal(&Note{ID: "N_2", Body: Rest{}})
	require.NoError(t, err)
	assert.Contains(t, string(rest), `"view":"rest","data":[]`)
}
