// Package score is the entry point: it turns a MusicXML document into a
// decoded timeline and answers lookups over it.
package score

import (
	"encoding/json"
	"log/slog"

	"github.com/jsphweid/scoreline/decode"
	"github.com/jsphweid/scoreline/locate"
	"github.com/jsphweid/scoreline/model"
	"github.com/jsphweid/scoreline/tree"
)

// Options configures a decode. The zero value is usable.
type Options struct {
	// Speed > 1 plays faster.
	Speed float64
	// BPMUnit is the note type a metronome mark counts when the mark
	// itself names none.
	BPMUnit model.NoteType
	// BPM, Beats and BeatType apply until the score declares its own.
	BPM      float64
	Beats    int
	BeatType int
	// Debug logs the whole decoded score.
	Debug bool
	// PitchedPartsOnly drops parts without a G or F clef.
	PitchedPartsOnly bool
	Logger           *slog.Logger
}

func DefaultOptions() Options {
	return Options{Speed: 1, BPMUnit: model.Quarter}
}

type Metadata struct {
	DocumentVersion string         `json:"documentVersion"`
	ScoreVersion    string         `json:"scoreVersion"`
	ScoreVariant    locate.Variant `json:"scoreVariant"`
	Title           string         `json:"title,omitempty"`
	Parts           []string       `json:"parts,omitempty"`
}

// Score is a decoded document. A rejected document has empty measure and
// note lists and zero values elsewhere.
type Score struct {
	Measures      []*model.Measure `json:"measures"`
	Notes         []*model.Note    `json:"notes"`
	TotalDuration float64          `json:"totalDuration"`
	Metadata      Metadata         `json:"scoreMetadata"`
}

// New decodes xml and never fails: a malformed document is logged and
// yields an empty score.
func New(xml string, opts Options) *Score {
	s, err := Parse(xml, opts)
	if err != nil {
		logger(opts).Error("rejected document", "err", err)
		return &Score{Measures: []*model.Measure{}, Notes: []*model.Note{}}
	}
	return s
}

// Parse is New with the rejection reason returned.
func Parse(xml string, opts Options) (*Score, error) {
	log := logger(opts)

	root, err := tree.Parse(xml)
	if err != nil {
		return nil, err
	}

	parts := locate.FindParts(root)
	if opts.PitchedPartsOnly {
		parts = locate.PitchedOnly(parts)
	}

	res := decode.Decode(locate.Measures(parts), decode.Config{
		Speed:    opts.Speed,
		BPMUnit:  opts.BPMUnit,
		BPM:      opts.BPM,
		Beats:    opts.Beats,
		BeatType: opts.BeatType,
		Logger:   log,
	})

	s := &Score{
		Measures:      res.Measures,
		Notes:         res.Notes,
		TotalDuration: res.TotalDuration,
		Metadata: Metadata{
			DocumentVersion: locate.DocumentVersion(root),
			ScoreVersion:    locate.ScoreVersion(root),
			ScoreVariant:    locate.ScoreVariant(root),
			Title:           locate.Title(root),
		},
	}
	for _, p := range parts {
		s.Metadata.Parts = append(s.Metadata.Parts, p.ID)
	}

	if opts.Debug {
		b, _ := s.JSON()
		log.Info("decoded score", "score", string(b))
	}
	return s, nil
}

// Empty reports a score with nothing decoded, which is how rejected
// documents show up.
func (s *Score) Empty() bool {
	return len(s.Measures) == 0 && len(s.Notes) == 0
}

func (s *Score) MeasureByID(id string) (*model.Measure, bool) {
	for _, m := range s.Measures {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

func (s *Score) NoteByID(id string) (*model.Note, bool) {
	for _, n := range s.Notes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

func (s *Score) NotesByMeasureID(measureID string) []*model.Note {
	res := make([]*model.Note, 0)
	for _, n := range s.Notes {
		if n.MeasureID == measureID {
			res = append(res, n)
		}
	}
	return res
}

func (s *Score) Summary() model.ScoreSummary {
	sum := model.ScoreSummary{
		Title:         s.Metadata.Title,
		Version:       s.Metadata.ScoreVersion,
		Variant:       string(s.Metadata.ScoreVariant),
		Parts:         len(s.Metadata.Parts),
		Measures:      len(s.Measures),
		Notes:         len(s.Notes),
		TotalDuration: s.TotalDuration,
	}
	for _, n := range s.Notes {
		switch n.View() {
		case model.ViewChord:
			sum.Chords++
		case model.ViewRest:
			sum.Rests++
		}
	}
	return sum
}

func (s *Score) JSON() ([]byte, error) {
	return json.Marshal(s)
}

func logger(opts Options) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.Default()
}
