package model

// NoteType is the written value of a note as it appears in <type>.
type NoteType string

const (
	Whole        NoteType = "whole"
	Half         NoteType = "half"
	Quarter      NoteType = "quarter"
	Eighth       NoteType = "eighth"
	Sixteenth    NoteType = "16th"
	ThirtySecond NoteType = "32nd"
	SixtyFourth  NoteType = "64th"
)

type NoteView string

const (
	ViewSingle NoteView = "single"
	ViewChord  NoteView = "chord"
	ViewRest   NoteView = "rest"
)

// Clef identifies the staff a note is written on.
type Clef string

const (
	ClefTreble Clef = "treble"
	ClefBass   Clef = "bass"
)

// ClefFromSign maps a MusicXML <sign> to a pitched clef.
func ClefFromSign(sign string) (Clef, bool) {
	switch sign {
	case "G":
		return ClefTreble, true
	case "F":
		return ClefBass, true
	}
	return "", false
}

type Dot string

const (
	SingleDot Dot = "dot"
	DoubleDot Dot = "doubleDot"
)

type Dynamics string

type Articulation string

const (
	Staccato      Articulation = "staccato"
	Accent        Articulation = "accent"
	Tenuto        Articulation = "tenuto"
	Staccatissimo Articulation = "staccatissimo"
	StrongAccent  Articulation = "strong-accent"
)

type Accidental string

type Stem string

type Beam string

// Continuation is the type tag carried by slurs, ties and tuplets.
type Continuation string

const (
	Start    Continuation = "start"
	Continue Continuation = "continue"
	Stop     Continuation = "stop"
)

type Pitch struct {
	Step   string `json:"step"`
	Octave int    `json:"octave"`
	Alter  int    `json:"alter"`
}

// PitchData is one sounding pitch of a note or chord. Position is nil when
// the clef or step could not be resolved.
type PitchData struct {
	Accidental Accidental `json:"accidental,omitempty"`
	LegerLine  bool       `json:"legerLine"`
	MidiCode   int        `json:"midiCode"`
	Pitch      Pitch      `json:"pitch"`
	Position   *float64   `json:"position"`
}

// TimeWindow values are milliseconds rounded to three decimals.
type TimeWindow struct {
	Start      float64 `json:"start"`
	StartRange float64 `json:"startRange"`
	Duration   float64 `json:"duration"`
	End        float64 `json:"end"`
	EndRange   float64 `json:"endRange"`
}

type Notations struct {
	Articulation Articulation   `json:"articulation,omitempty"`
	Slur         []Continuation `json:"slur,omitempty"`
	Tied         []Continuation `json:"tied,omitempty"`
	Tuplet       []Continuation `json:"tuplet,omitempty"`
}

type TimeModification struct {
	ActualNotes int `json:"actualNotes"`
	NormalNotes int `json:"normalNotes"`
}
