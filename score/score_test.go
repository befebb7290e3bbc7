package score

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/jsphweid/scoreline/locate"
	"github.com/jsphweid/scoreline/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() Options {
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func load(t *testing.T, opts Options) *Score {
	t.Helper()
	b, err := os.ReadFile("testdata/minuet.musicxml")
	require.NoError(t, err)
	s, err := Parse(string(b), opts)
	require.NoError(t, err)
	return s
}

func TestMetadata(t *testing.T) {
	s := load(t, quiet())

	assert.Equal(t, Metadata{
		DocumentVersion: "1.0",
		ScoreVersion:    "3.1",
		ScoreVariant:    locate.Partwise,
		Title:           "Minuet",
		Parts:           []string{"P1", "P2"},
	}, s.Metadata)
}

func TestTimeline(t *testing.T) {
	s := load(t, quiet())

	require.Len(t, s.Measures, 3)
	// P1 has 4 + 1 notes in measure 1 (the bass chord is one note), 3 in
	// measure 2; the drum part adds one
	require.Len(t, s.Notes, 9)

	m1 := s.Measures[0]
	assert.Equal(t, "M_1", m1.ID)
	assert.Equal(t, 120.0, m1.BPM)
	assert.Equal(t, model.Dynamics("mf"), m1.Dynamics)
	assert.Equal(t, []model.Clef{model.ClefTreble, model.ClefBass}, m1.Staffs)
	// two staves written one after the other: 1500 + 1500
	assert.Equal(t, 3000.0, m1.Time.Duration)

	first := s.Notes[0]
	assert.Equal(t, model.Staccato, first.Notations.Articulation)
	assert.Equal(t, model.Stem("down"), first.Stem)

	bass, ok := s.NoteByID("N_5")
	require.True(t, ok)
	assert.Equal(t, model.ViewChord, bass.View())
	assert.Equal(t, model.ClefBass, bass.Staff)
	assert.Equal(t, model.SingleDot, bass.Dot)
	assert.Equal(t, 1500.0, bass.Time.Duration)
	assert.Equal(t, []int{58, 55}, []int{bass.Data()[0].MidiCode, bass.Data()[1].MidiCode})

	rest, ok := s.NoteByID("N_7")
	require.True(t, ok)
	assert.Equal(t, model.ViewRest, rest.View())
	assert.Equal(t, 500.0, rest.Time.Duration)

	drum := s.Notes[8]
	assert.Equal(t, "M_1", drum.MeasureID)
	assert.Empty(t, drum.Data())
	assert.Equal(t, s.Measures[2].Time.End, s.TotalDuration)
	assert.Equal(t, 6000.0, s.TotalDuration)
}

func TestPitchedPartsOnly(t *testing.T) {
	opts := quiet()
	opts.PitchedPartsOnly = true
	s := load(t, opts)

	assert.Equal(t, []string{"P1"}, s.Metadata.Parts)
	assert.Len(t, s.Measures, 2)
	assert.Len(t, s.Notes, 8)
	assert.Equal(t, 4500.0, s.TotalDuration)
}

func TestLookups(t *testing.T) {
	s := load(t, quiet())

	m, ok := s.MeasureByID("M_2")
	require.True(t, ok)
	assert.Equal(t, "2", m.Number)

	_, ok = s.MeasureByID("M_99")
	assert.False(t, ok)
	_, ok = s.NoteByID("N_0")
	assert.False(t, ok)

	notes := s.NotesByMeasureID("M_2")
	require.Len(t, notes, 3)
	for _, n := range notes {
		assert.Equal(t, "M_2", n.MeasureID)
	}

	empty := s.NotesByMeasureID("M_99")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSpeed(t *testing.T) {
	opts := quiet()
	opts.Speed = 2
	fast := load(t, opts)
	normal := load(t, quiet())

	assert.Equal(t, normal.TotalDuration/2, fast.TotalDuration)
	assert.Equal(t, normal.Notes[0].Time.Duration/2, fast.Notes[0].Time.Duration)
}

func TestDecodingIsIdempotent(t *testing.T) {
	a, err := load(t, quiet()).JSON()
	require.NoError(t, err)
	b, err := load(t, quiet()).JSON()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMalformedDocumentGivesEmptyScore(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	s := New(`<score-partwise><part id="P1"><measure number="1"></part>`, opts)

	require.NotNil(t, s)
	assert.True(t, s.Empty())
	assert.Empty(t, s.Measures)
	assert.Empty(t, s.Notes)
	assert.Equal(t, 0.0, s.TotalDuration)
	assert.Equal(t, Metadata{}, s.Metadata)
	assert.Contains(t, buf.String(), "rejected document")

	_, err := Parse("not xml at all <", opts)
	assert.Error(t, err)
}

func TestEmptyScoresSerializeEmptyLists(t *testing.T) {
	for name, doc := range map[string]string{
		"malformed":    `<score-partwise><part>`,
		"unknown root": `<opus><title>x</title></opus>`,
	} {
		t.Run(name, func(t *testing.T) {
			b, err := New(doc, quiet()).JSON()
			require.NoError(t, err)
			assert.Contains(t, string(b), `"measures":[]`)
			assert.Contains(t, string(b), `"notes":[]`)
		})
	}
}

func TestUnknownRootGivesEmptyTimeline(t *testing.T) {
	s := New(`<opus><title>x</title></opus>`, quiet())

	assert.True(t, s.Empty())
	assert.Equal(t, locate.Variant(""), s.Metadata.ScoreVariant)
}

func TestSummary(t *testing.T) {
	s := load(t, quiet())

	sum := s.Summary()
	assert.Equal(t, model.ScoreSummary{
		Title:         "Minuet",
		Version:       "3.1",
		Variant:       "partwise",
		Parts:         2,
		Measures:      3,
		Notes:         9,
		Chords:        1,
		Rests:         1,
		TotalDuration: 6000,
	}, sum)
}

func TestJSONShape(t *testing.T) {
	b, err := load(t, quiet()).JSON()
	require.NoError(t, err)

	var raw struct {
		Measures []map[string]any `json:"measures"`
		Notes    []map[string]any `json:"notes"`
		Meta     map[string]any   `json:"scoreMetadata"`
	}
	require.NoError(t, json.Unmarshal(b, &raw))

	assert.Equal(t, "partwise", raw.Meta["scoreVariant"])
	assert.Equal(t, "chord", raw.Notes[4]["view"])
	assert.Len(t, raw.Notes[4]["data"], 2)
	assert.Equal(t, []any{}, raw.Notes[6]["data"])
	assert.Contains(t, raw.Measures[0], "time")
}

func TestDebugLogsScore(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Debug = true
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	b, err := os.ReadFile("testdata/minuet.musicxml")
	require.NoError(t, err)
	New(string(b), opts)

	assert.Contains(t, buf.String(), "decoded score")
}
