package calc

import (
	"strconv"
	"strings"

	"github.com/jsphweid/scoreline/model"
	"github.com/pkg/errors"
)

var (
	ErrUnknownClef  = errors.New("unknown clef")
	ErrUnknownStep  = errors.New("unknown step")
	ErrInvalidPitch = errors.New("invalid pitch")
)

var steps = []string{"C", "D", "E", "F", "G", "A", "B"}

var pitchClasses = map[string]int{
	"C": 0,
	"D": 2,
	"E": 4,
	"F": 5,
	"G": 7,
	"A": 9,
	"B": 11,
}

// reference pitch of each clef, position 0
var clefReference = map[model.Clef]struct {
	step   int
	octave int
}{
	model.ClefTreble: {step: 2, octave: 5}, // E5
	model.ClefBass:   {step: 4, octave: 3}, // G3
}

// StaffPosition is the distance from the clef's reference pitch in half
// units per diatonic step. Pitches below the reference are positive.
func StaffPosition(step string, octave int, clef model.Clef) (float64, error) {
	ref, ok := clefReference[clef]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownClef, "%q", clef)
	}
	idx := stepIndex(step)
	if idx < 0 {
		return 0, errors.Wrapf(ErrUnknownStep, "%q", step)
	}

	diatonic := (idx - ref.step) + (octave-ref.octave)*len(steps)
	return float64(diatonic) * -0.5, nil
}

// IsLegerLine reports positions outside the five staff lines.
func IsLegerLine(position float64) bool {
	return position < -1 || position > 5
}

// ParseOctave validates the text of an <octave> element.
func ParseOctave(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidPitch, "octave %q", s)
	}
	return v, nil
}

// MidiCode is (octave+1)*12 plus the pitch class of the step shifted by
// the signed alteration, so flats and double alterations resolve too.
func MidiCode(step string, octave, alter int) (int, error) {
	pc, ok := pitchClasses[step]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidPitch, "step %q", step)
	}
	return (octave+1)*12 + pc + alter, nil
}

func stepIndex(step string) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}
