// Package extract reads single semantic values out of measure and note
// subtrees. Every function is total: a missing element yields the zero
// value (or ok=false), never an error.
package extract

import (
	"strconv"
	"strings"

	"github.com/jsphweid/scoreline/model"
	"github.com/jsphweid/scoreline/tree"
	"golang.org/x/exp/slices"
)

// DefaultStaff is the staff number of clefs and notes that omit one.
const DefaultStaff = "1"

// Tempo is a metronome mark. Unit is empty when the mark names no beat
// unit.
type Tempo struct {
	BPM    float64
	Unit   model.NoteType
	Dotted bool
}

type TimeSignature struct {
	Beats    int
	BeatType int
}

var dynamicMarks = []string{
	"pppppp", "ppppp", "pppp", "ppp", "pp", "p", "mp", "mf",
	"f", "ff", "fff", "ffff", "fffff", "ffffff",
	"sf", "sfz", "sffz", "sfp", "sfpp", "fp", "fz", "rf", "rfz", "pf", "n",
}

func Number(measure tree.Node) string {
	return measure.Attr("number")
}

func Notes(measure tree.Node) []tree.Node {
	return measure.Nodes("note")
}

// Staffs maps staff number to clef for every pitched clef the measure
// declares. Empty when the measure declares none.
func Staffs(measure tree.Node) map[string]model.Clef {
	res := make(map[string]model.Clef)
	for _, attrs := range measure.Nodes("attributes") {
		for _, clef := range attrs.Nodes("clef") {
			c, ok := model.ClefFromSign(strings.TrimSpace(clef.Text("sign")))
			if !ok {
				continue
			}
			num := clef.Attr("number")
			if num == "" {
				num = DefaultStaff
			}
			res[num] = c
		}
	}
	return res
}

// Metronome scans the measure's directions; the last tempo mark wins.
func Metronome(measure tree.Node) (Tempo, bool) {
	var res Tempo
	var found bool
	for _, dir := range measure.Nodes("direction") {
		if t, ok := directionTempo(dir); ok {
			res, found = t, true
		}
	}
	return res, found
}

func directionTempo(dir tree.Node) (Tempo, bool) {
	var res Tempo
	var found bool
	for _, dt := range dir.Nodes("direction-type") {
		for _, m := range dt.Nodes("metronome") {
			bpm, ok := m.Float("per-minute")
			if !ok || bpm <= 0 {
				continue
			}
			res = Tempo{
				BPM:    bpm,
				Unit:   model.NoteType(strings.TrimSpace(m.Text("beat-unit"))),
				Dotted: m.Has("beat-unit-dot"),
			}
			found = true
		}
	}
	if found {
		return res, true
	}

	// <sound tempo> always counts quarter notes
	for _, snd := range dir.Nodes("sound") {
		bpm, err := strconv.ParseFloat(snd.Attr("tempo"), 64)
		if err == nil && bpm > 0 {
			res, found = Tempo{BPM: bpm, Unit: model.Quarter}, true
		}
	}
	return res, found
}

// Time reads the time signature. Additive numerators like "3+2" are
// summed.
func Time(measure tree.Node) (TimeSignature, bool) {
	for _, attrs := range measure.Nodes("attributes") {
		for _, t := range attrs.Nodes("time") {
			beats, ok := parseBeats(t.Text("beats"))
			if !ok {
				continue
			}
			beatType, ok := t.Int("beat-type")
			if !ok || beatType <= 0 {
				continue
			}
			return TimeSignature{Beats: beats, BeatType: beatType}, true
		}
	}
	return TimeSignature{}, false
}

func parseBeats(s string) (int, bool) {
	var total int
	for _, part := range strings.Split(s, "+") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v <= 0 {
			return 0, false
		}
		total += v
	}
	return total, total > 0
}

// Dynamics returns the last dynamics marking among the measure's
// directions, or "".
func Dynamics(measure tree.Node) model.Dynamics {
	var res model.Dynamics
	for _, dir := range measure.Nodes("direction") {
		for _, dt := range dir.Nodes("direction-type") {
			for _, d := range dt.Nodes("dynamics") {
				for _, name := range d.ChildOrder() {
					if slices.Contains(dynamicMarks, name) {
						res = model.Dynamics(name)
					}
				}
			}
		}
	}
	return res
}
