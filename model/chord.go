package model

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var ErrNotChordable = errors.New("note cannot anchor a chord")

// NoteBody is the view-specific part of a Note. Exactly three
// implementations exist: Single, Chord and Rest.
type NoteBody interface {
	View() NoteView
	Pitches() []PitchData
	isNoteBody()
}

// Single is one pitched (or unpitched, when Pitch is nil) note.
type Single struct {
	Pitch *PitchData
}

func (Single) View() NoteView { return ViewSingle }

func (s Single) Pitches() []PitchData {
	if s.Pitch == nil {
		return nil
	}
	return []PitchData{*s.Pitch}
}

func (Single) isNoteBody() {}

// Chord holds two or more pitches sorted by staff position ascending.
type Chord struct {
	Members []PitchData
}

func (Chord) View() NoteView { return ViewChord }

func (c Chord) Pitches() []PitchData { return c.Members }

func (Chord) isNoteBody() {}

// Rest never carries pitch data. WholeMeasure is set for rests that fill
// the measure regardless of their written type.
type Rest struct {
	WholeMeasure bool
}

func (Rest) View() NoteView { return ViewRest }

func (Rest) Pitches() []PitchData { return nil }

func (Rest) isNoteBody() {}

// WithMember returns the chord formed by adding p to body.
func WithMember(body NoteBody, p PitchData) (Chord, error) {
	var members []PitchData
	switch b := body.(type) {
	case Single:
		if b.Pitch == nil {
			return Chord{}, ErrNotChordable
		}
		members = []PitchData{*b.Pitch, p}
	case Chord:
		members = append(slices.Clone(b.Members), p)
	default:
		return Chord{}, ErrNotChordable
	}

	SortByPosition(members)
	return Chord{Members: members}, nil
}

// SortByPosition orders pitches by position ascending; unresolved
// positions go last, keeping their relative order.
func SortByPosition(pitches []PitchData) {
	slices.SortStableFunc(pitches, func(a, b PitchData) bool {
		if a.Position == nil {
			return false
		}
		if b.Position == nil {
			return true
		}
		return *a.Position < *b.Position
	})
}
