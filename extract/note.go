package extract

import (
	"strconv"
	"strings"

	"github.com/jsphweid/scoreline/model"
	"github.com/jsphweid/scoreline/tree"
)

// RawPitch is the unvalidated content of a <pitch> element.
type RawPitch struct {
	Step   string
	Octave string
	Alter  int
}

var articulationOrder = []model.Articulation{
	model.Staccato,
	model.Accent,
	model.Tenuto,
	model.Staccatissimo,
	model.StrongAccent,
}

// IsChord must be checked before any other classification of a note.
func IsChord(note tree.Node) bool {
	return note.Has("chord")
}

func IsGrace(note tree.Node) bool {
	return note.Has("grace")
}

func IsRest(note tree.Node) bool {
	return note.Has("rest")
}

// IsMeasureRest reports a rest that fills its measure: either flagged
// measure="yes" or written without a type.
func IsMeasureRest(note tree.Node) bool {
	if !IsRest(note) {
		return false
	}
	return note.Child("rest").Attr("measure") == "yes" || Type(note) == ""
}

func Type(note tree.Node) model.NoteType {
	return model.NoteType(strings.TrimSpace(note.Text("type")))
}

func StaffNumber(note tree.Node) string {
	if s := strings.TrimSpace(note.Text("staff")); s != "" {
		return s
	}
	return DefaultStaff
}

// Pitch returns nil for rests and unpitched notes.
func Pitch(note tree.Node) *RawPitch {
	p := note.Child("pitch")
	if len(p) == 0 || !p.Has("step") {
		return nil
	}

	res := &RawPitch{
		Step:   strings.TrimSpace(p.Text("step")),
		Octave: strings.TrimSpace(p.Text("octave")),
	}
	if alter, err := strconv.ParseFloat(strings.TrimSpace(p.Text("alter")), 64); err == nil {
		res.Alter = int(alter)
	}
	return res
}

func Accidental(note tree.Node) model.Accidental {
	return model.Accidental(strings.TrimSpace(note.Text("accidental")))
}

func Dot(note tree.Node) model.Dot {
	switch n := len(note.Values("dot")); {
	case n >= 2:
		return model.DoubleDot
	case n == 1:
		return model.SingleDot
	}
	return ""
}

func Beam(note tree.Node) []model.Beam {
	var res []model.Beam
	for _, b := range note.Nodes("beam") {
		res = append(res, model.Beam(strings.TrimSpace(b.OwnText())))
	}
	return res
}

func Stem(note tree.Node) model.Stem {
	return model.Stem(strings.TrimSpace(note.Text("stem")))
}

func Slur(note tree.Node) []model.Continuation {
	return notationTypes(note, "slur")
}

func Tied(note tree.Node) []model.Continuation {
	return notationTypes(note, "tied")
}

func Tuplet(note tree.Node) []model.Continuation {
	return notationTypes(note, "tuplet")
}

// Articulation returns the first articulation found, checked in a fixed
// priority order.
func Articulation(note tree.Node) model.Articulation {
	for _, a := range articulationOrder {
		if note.Has("notations", "articulations", string(a)) {
			return a
		}
	}
	return ""
}

func TimeModification(note tree.Node) *model.TimeModification {
	tm := note.Child("time-modification")
	actual, ok := tm.Int("actual-notes")
	if !ok || actual <= 0 {
		return nil
	}
	normal, ok := tm.Int("normal-notes")
	if !ok || normal <= 0 {
		return nil
	}
	return &model.TimeModification{ActualNotes: actual, NormalNotes: normal}
}

func notationTypes(note tree.Node, key string) []model.Continuation {
	var res []model.Continuation
	for _, n := range note.Nodes("notations") {
		for _, el := range n.Nodes(key) {
			if t := el.Attr("type"); t != "" {
				res = append(res, model.Continuation(t))
			}
		}
	}
	return res
}
