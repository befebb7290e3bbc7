package calc

import (
	"testing"

	"github.com/jsphweid/scoreline/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteTypeFractions(t *testing.T) {
	for typ, want := range map[model.NoteType]int{
		model.Whole:       1,
		model.Quarter:     4,
		model.Sixteenth:   16,
		model.SixtyFourth: 64,
	} {
		f, err := NoteTypeToFraction(typ)
		require.NoError(t, err)
		assert.Equal(t, want, f)

		back, err := FractionToNoteType(f)
		require.NoError(t, err)
		assert.Equal(t, typ, back)
	}

	_, err := NoteTypeToFraction("breve")
	assert.ErrorIs(t, err, ErrUnknownNoteType)
	_, err = FractionToNoteType(3)
	assert.ErrorIs(t, err, ErrUnknownNoteType)
}

func TestBeatTime(t *testing.T) {
	assert.Equal(t, 1000.0, BeatTimeMs(60, 4, 4))
	assert.Equal(t, 500.0, BeatTimeMs(120, 4, 4))
	// eighth-note beats at a quarter-note tempo of 60
	assert.Equal(t, 500.0, BeatTimeMs(60, 8, 4))

	unit, err := UnitFraction(model.Quarter, true)
	require.NoError(t, err)
	assert.InDelta(t, 8.0/3, unit, 1e-9)
	// dotted quarter = 60 in 6/8: one eighth is a third of a second
	assert.InDelta(t, 1000.0/3, BeatTimeMs(60, 8, unit), 1e-9)
}

func TestNoteDuration(t *testing.T) {
	meter := Meter{BPM: 60, UnitFraction: 4, Beats: 4, BeatType: 4}

	cases := []struct {
		name  string
		d     Duration
		speed float64
		want  float64
	}{
		{"quarter", Duration{Type: model.Quarter}, 1, 1000},
		{"whole", Duration{Type: model.Whole}, 1, 4000},
		{"dotted half", Duration{Type: model.Half, Dot: model.SingleDot}, 1, 3000},
		{"double dotted quarter", Duration{Type: model.Quarter, Dot: model.DoubleDot}, 1, 1750},
		{"double speed", Duration{Type: model.Quarter}, 2, 500},
		{"zero speed is normal", Duration{Type: model.Quarter}, 0, 1000},
		{"whole measure rest", Duration{WholeMeasure: true}, 1, 4000},
		{
			"dotted triplet eighth at double speed",
			Duration{Type: model.Eighth, Dot: model.SingleDot, TimeModification: &model.TimeModification{ActualNotes: 3, NormalNotes: 2}},
			2,
			500 * (2.0 / 3) * 1.5 / 2,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := NoteDuration(c.d, meter, c.speed)
			require.NoError(t, err)
			assert.InDelta(t, c.want, got, 1e-9)
		})
	}

	_, err := NoteDuration(Duration{Type: "maxima"}, meter, 1)
	assert.ErrorIs(t, err, ErrUnknownNoteType)
}

func TestWholeMeasureFollowsTimeSignature(t *testing.T) {
	got, err := NoteDuration(Duration{WholeMeasure: true}, Meter{BPM: 60, UnitFraction: 4, Beats: 3, BeatType: 4}, 1)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, got)
}

func TestTupletRatio(t *testing.T) {
	assert.Equal(t, 1.0, TupletRatio(nil))
	assert.InDelta(t, 2.0/3, TupletRatio(&model.TimeModification{ActualNotes: 3, NormalNotes: 2}), 1e-12)
	assert.Equal(t, 0.8, TupletRatio(&model.TimeModification{ActualNotes: 5, NormalNotes: 4}))
	assert.Equal(t, 1.0, TupletRatio(&model.TimeModification{}))
}

func TestWindow(t *testing.T) {
	w := Window(1000, 333.3333333)
	assert.Equal(t, model.TimeWindow{
		Start:      1000,
		StartRange: 950,
		Duration:   333.333,
		End:        1333.333,
		EndRange:   1283.333,
	}, w)
}

func TestStaffPosition(t *testing.T) {
	cases := []struct {
		step   string
		octave int
		clef   model.Clef
		want   float64
	}{
		{"E", 5, model.ClefTreble, 0},
		{"F", 5, model.ClefTreble, -0.5},
		{"C", 4, model.ClefTreble, 4.5},
		{"E", 4, model.ClefTreble, 3.5},
		{"A", 5, model.ClefTreble, -1.5},
		{"G", 3, model.ClefBass, 0},
		{"C", 4, model.ClefBass, -1.5},
		{"E", 2, model.ClefBass, 4.5},
	}
	for _, c := range cases {
		got, err := StaffPosition(c.step, c.octave, c.clef)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "%s%d %s", c.step, c.octave, c.clef)
	}

	_, err := StaffPosition("C", 4, "alto")
	assert.ErrorIs(t, err, ErrUnknownClef)
	_, err = StaffPosition("H", 4, model.ClefTreble)
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestIsLegerLine(t *testing.T) {
	assert.False(t, IsLegerLine(-1))
	assert.False(t, IsLegerLine(5))
	assert.True(t, IsLegerLine(-1.5))
	assert.True(t, IsLegerLine(5.5))
}

func TestMidiCode(t *testing.T) {
	cases := []struct {
		step   string
		octave int
		alter  int
		want   int
	}{
		{"C", 4, 0, 60},
		{"A", 4, 0, 69},
		{"F", 4, 1, 66},
		{"B", 4, -1, 70},
		{"C", 4, -1, 59},
		{"C", -1, 0, 0},
	}
	for _, c := range cases {
		got, err := MidiCode(c.step, c.octave, c.alter)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	_, err := MidiCode("X", 4, 0)
	assert.ErrorIs(t, err, ErrInvalidPitch)
}

func TestParseOctave(t *testing.T) {
	v, err := ParseOctave(" 5 ")
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	_, err = ParseOctave("five")
	assert.ErrorIs(t, err, ErrInvalidPitch)
}
