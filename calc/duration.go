// Package calc holds the pure arithmetic of the decoder: note values,
// beat times, duration modifiers, staff positions and MIDI numbers.
package calc

import (
	"math"

	"github.com/jsphweid/scoreline/constants"
	"github.com/jsphweid/scoreline/model"
	"github.com/pkg/errors"
)

var ErrUnknownNoteType = errors.New("unknown note type")

var fractions = map[model.NoteType]int{
	model.Whole:        1,
	model.Half:         2,
	model.Quarter:      4,
	model.Eighth:       8,
	model.Sixteenth:    16,
	model.ThirtySecond: 32,
	model.SixtyFourth:  64,
}

// Meter is the tempo and time signature in force for a measure.
// UnitFraction is the fraction of the metronome's reference note (4 for a
// quarter, 8/3 for a dotted quarter).
type Meter struct {
	BPM          float64
	UnitFraction float64
	Beats        int
	BeatType     int
}

// Duration describes what a note contributes to the timeline.
type Duration struct {
	Type             model.NoteType
	Dot              model.Dot
	WholeMeasure     bool
	TimeModification *model.TimeModification
}

// NoteTypeToFraction returns the denominator of the note's value: 1 for a
// whole note, 4 for a quarter.
func NoteTypeToFraction(t model.NoteType) (int, error) {
	f, ok := fractions[t]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownNoteType, "%q", t)
	}
	return f, nil
}

func FractionToNoteType(f int) (model.NoteType, error) {
	for t, v := range fractions {
		if v == f {
			return t, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownNoteType, "fraction %d", f)
}

// UnitFraction is the fraction of a metronome reference note, dotted or
// not.
func UnitFraction(t model.NoteType, dotted bool) (float64, error) {
	f, err := NoteTypeToFraction(t)
	if err != nil {
		return 0, err
	}
	if dotted {
		return float64(f) / 1.5, nil
	}
	return float64(f), nil
}

// BeatTimeMs is the length of one beat of the time signature.
func BeatTimeMs(bpm float64, beatType int, unitFraction float64) float64 {
	return 60000 / bpm / (float64(beatType) / unitFraction)
}

// BaseDuration is the unmodified length of a note of the given fraction.
func BaseDuration(fraction, beatType int, beatTime float64) float64 {
	return float64(beatType) / float64(fraction) * beatTime
}

// TupletRatio scales a note inside a tuplet: a triplet (3 in the time of
// 2) gives 2/3.
func TupletRatio(tm *model.TimeModification) float64 {
	if tm == nil || tm.ActualNotes <= 0 || tm.NormalNotes <= 0 {
		return 1
	}
	return float64(tm.NormalNotes) / float64(tm.ActualNotes)
}

func DotMultiplier(d model.Dot) float64 {
	switch d {
	case model.SingleDot:
		return 1.5
	case model.DoubleDot:
		return 1.75
	}
	return 1
}

// NoteDuration composes base length, tuplet ratio, dot multiplier and
// playback speed in that order. The result is not rounded.
func NoteDuration(d Duration, m Meter, speed float64) (float64, error) {
	if speed <= 0 {
		speed = 1
	}
	beatTime := BeatTimeMs(m.BPM, m.BeatType, m.UnitFraction)

	if d.WholeMeasure {
		return beatTime * float64(m.Beats) / speed, nil
	}

	fraction, err := NoteTypeToFraction(d.Type)
	if err != nil {
		return 0, err
	}

	duration := BaseDuration(fraction, m.BeatType, beatTime)
	duration *= TupletRatio(d.TimeModification)
	duration *= DotMultiplier(d.Dot)
	return duration / speed, nil
}

func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Window builds the rounded time window starting at start.
func Window(start, duration float64) model.TimeWindow {
	end := start + duration
	return model.TimeWindow{
		Start:      Round3(start),
		StartRange: Round3(start - constants.HitToleranceMs),
		Duration:   Round3(duration),
		End:        Round3(end),
		EndRange:   Round3(end - constants.HitToleranceMs),
	}
}
