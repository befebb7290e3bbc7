// Package decode walks the measures of a score in document order and
// builds the measure and note timeline.
//
// Clefs, tempo and time signature carry over from the last measure that
// declared them. The running values live in a state record owned by one
// decoder; nothing is shared between calls.
package decode

import (
	"log/slog"
	"strconv"

	"github.com/jsphweid/scoreline/calc"
	"github.com/jsphweid/scoreline/constants"
	"github.com/jsphweid/scoreline/extract"
	"github.com/jsphweid/scoreline/locate"
	"github.com/jsphweid/scoreline/model"
	"github.com/jsphweid/scoreline/tree"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrMissingChordAnchor = errors.New("chord member has no anchor note")

// Config holds the document-level settings of a decode. Zero values fall
// back to the package defaults.
type Config struct {
	Speed    float64
	BPMUnit  model.NoteType
	BPM      float64
	Beats    int
	BeatType int
	Logger   *slog.Logger
}

type Result struct {
	Measures      []*model.Measure
	Notes         []*model.Note
	TotalDuration float64
}

type state struct {
	staffs     map[string]model.Clef
	bpm        float64
	bpmUnit    model.NoteType
	unitDotted bool
	beats      int
	beatType   int
	cumulative float64
	counter    int

	partID    string
	partStart int
	tuplet    tupletGroup

	tempoSet bool
	timeSet  bool
	warned   bool
}

// tupletGroup tracks the open tuplet so its closing note can absorb the
// rounding remainder of the group.
type tupletGroup struct {
	exact    float64
	assigned float64
}

type decoder struct {
	cfg Config
	log *slog.Logger
	st  state
	res Result
}

func (c Config) withDefaults() Config {
	if c.Speed <= 0 {
		c.Speed = constants.DefaultSpeed
	}
	if _, err := calc.NoteTypeToFraction(c.BPMUnit); err != nil {
		c.BPMUnit = model.Quarter
	}
	if c.BPM <= 0 {
		c.BPM = constants.DefaultBPM
	}
	if c.Beats <= 0 {
		c.Beats = constants.DefaultBeats
	}
	if c.BeatType <= 0 {
		c.BeatType = constants.DefaultBeatType
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Decode runs the single pass over measures.
func Decode(measures []locate.PartMeasure, cfg Config) Result {
	cfg = cfg.withDefaults()
	d := &decoder{
		cfg: cfg,
		log: cfg.Logger,
		st: state{
			staffs:   make(map[string]model.Clef),
			bpm:      cfg.BPM,
			bpmUnit:  cfg.BPMUnit,
			beats:    cfg.Beats,
			beatType: cfg.BeatType,
			counter:  1,
		},
		res: Result{Measures: []*model.Measure{}, Notes: []*model.Note{}},
	}

	for i, pm := range measures {
		if pm.Node == nil {
			continue
		}
		if i == 0 || pm.PartID != d.st.partID {
			d.st.partID = pm.PartID
			d.st.partStart = len(d.res.Notes)
			d.st.tuplet = tupletGroup{}
		}
		d.measure(pm)
	}

	d.res.TotalDuration = calc.Round3(d.st.cumulative)
	return d.res
}

func (d *decoder) measure(pm locate.PartMeasure) {
	m := pm.Node
	number := extract.Number(m)
	id := "M_" + number

	for num, clef := range extract.Staffs(m) {
		d.st.staffs[num] = clef
	}
	if t, ok := extract.Metronome(m); ok {
		d.st.bpm = t.BPM
		d.st.tempoSet = true
		if t.Unit != "" {
			d.st.bpmUnit = t.Unit
			d.st.unitDotted = t.Dotted
		}
	}
	if ts, ok := extract.Time(m); ok {
		d.st.beats = ts.Beats
		d.st.beatType = ts.BeatType
		d.st.timeSet = true
	}
	if !d.st.warned && (!d.st.tempoSet || !d.st.timeSet) {
		d.st.warned = true
		d.log.Warn("measure inherits no tempo or time signature, using defaults",
			"measure", id, "bpm", d.st.bpm, "beats", d.st.beats, "beatType", d.st.beatType)
	}

	meter := d.meter(id)

	var offset float64
	for _, n := range extract.Notes(m) {
		offset += d.note(n, id, meter, offset)
	}

	window := calc.Window(d.st.cumulative, offset)
	d.res.Measures = append(d.res.Measures, &model.Measure{
		ID:       id,
		Number:   number,
		PartID:   pm.PartID,
		Staffs:   d.staffList(),
		BPM:      d.st.bpm,
		BPMUnit:  d.st.bpmUnit,
		Beats:    d.st.beats,
		BeatType: d.st.beatType,
		Dynamics: extract.Dynamics(m),
		Time:     &window,
	})
	d.st.cumulative += offset
}

func (d *decoder) meter(measureID string) calc.Meter {
	unit, err := calc.UnitFraction(d.st.bpmUnit, d.st.unitDotted)
	if err != nil {
		d.log.Warn("unknown metronome beat unit, using configured unit",
			"measure", measureID, "unit", d.st.bpmUnit, "err", err)
		d.st.bpmUnit, d.st.unitDotted = d.cfg.BPMUnit, false
		unit, _ = calc.UnitFraction(d.st.bpmUnit, false)
	}
	return calc.Meter{
		BPM:          d.st.bpm,
		UnitFraction: unit,
		Beats:        d.st.beats,
		BeatType:     d.st.beatType,
	}
}

// note handles one <note> and returns the duration it adds to the
// measure. Chord members add nothing.
func (d *decoder) note(n tree.Node, measureID string, meter calc.Meter, offset float64) float64 {
	clef := d.clef(n, measureID)

	if extract.IsChord(n) {
		d.chordMember(n, clef, measureID)
		return 0
	}

	note := &model.Note{
		ID:        "N_" + strconv.Itoa(d.st.counter),
		MeasureID: measureID,
		Staff:     clef,
		Type:      extract.Type(n),
		Dot:       extract.Dot(n),
		Beam:      extract.Beam(n),
		Stem:      extract.Stem(n),
		Notations: model.Notations{
			Articulation: extract.Articulation(n),
			Slur:         extract.Slur(n),
			Tied:         extract.Tied(n),
			Tuplet:       extract.Tuplet(n),
		},
		TimeModification: extract.TimeModification(n),
	}

	wholeMeasure := false
	if extract.IsRest(n) {
		wholeMeasure = extract.IsMeasureRest(n) || note.Type == model.Whole
		note.Body = model.Rest{WholeMeasure: wholeMeasure}
	} else {
		note.Body = model.Single{Pitch: d.pitch(n, clef, note.ID)}
	}

	// grace notes take no time of their own
	var duration float64
	if !extract.IsGrace(n) {
		duration = d.duration(note, wholeMeasure, meter)
	}
	window := calc.Window(d.st.cumulative+offset, duration)
	note.Time = &window

	d.res.Notes = append(d.res.Notes, note)
	d.st.counter++
	return duration
}

func (d *decoder) clef(n tree.Node, measureID string) model.Clef {
	num := extract.StaffNumber(n)
	clef, ok := d.st.staffs[num]
	if !ok {
		d.log.Warn("note on a staff without a pitched clef", "measure", measureID, "staff", num)
	}
	return clef
}

// chordMember attaches the pitch of n to the last note of the current
// part.
func (d *decoder) chordMember(n tree.Node, clef model.Clef, measureID string) {
	if len(d.res.Notes) <= d.st.partStart {
		d.log.Warn("dropping chord member", "measure", measureID, "err", ErrMissingChordAnchor)
		return
	}
	anchor := d.res.Notes[len(d.res.Notes)-1]

	p := d.pitch(n, clef, anchor.ID)
	if p == nil {
		d.log.Warn("chord member without pitch", "measure", measureID, "note", anchor.ID)
		return
	}
	if err := anchor.AddChordMember(*p); err != nil {
		d.log.Warn("dropping chord member", "measure", measureID, "note", anchor.ID,
			"view", anchor.View(), "err", err)
	}
}

func (d *decoder) pitch(n tree.Node, clef model.Clef, noteID string) *model.PitchData {
	raw := extract.Pitch(n)
	if raw == nil {
		return nil
	}
	p, err := PitchData(*raw, extract.Accidental(n), clef)
	if err != nil {
		d.log.Warn("pitch data", "note", noteID, "step", raw.Step, "octave", raw.Octave, "err", err)
	}
	return p
}

func (d *decoder) duration(note *model.Note, wholeMeasure bool, meter calc.Meter) float64 {
	raw, err := calc.NoteDuration(calc.Duration{
		Type:             note.Type,
		Dot:              note.Dot,
		WholeMeasure:     wholeMeasure,
		TimeModification: note.TimeModification,
	}, meter, d.cfg.Speed)
	if err != nil {
		d.log.Warn("note has no duration", "note", note.ID, "type", note.Type, "err", err)
		raw = 0
	}

	if note.TimeModification == nil {
		d.st.tuplet = tupletGroup{}
		return calc.Round3(raw)
	}

	g := &d.st.tuplet
	if slices.Contains(note.Notations.Tuplet, model.Start) {
		*g = tupletGroup{}
	}
	g.exact += raw

	if !slices.Contains(note.Notations.Tuplet, model.Stop) {
		duration := calc.Round3(raw)
		g.assigned += duration
		return duration
	}

	duration := calc.Round3(calc.Round3(g.exact) - g.assigned)
	*g = tupletGroup{}
	return duration
}

// staffList returns the clefs in force ordered by staff number.
func (d *decoder) staffList() []model.Clef {
	nums := maps.Keys(d.st.staffs)
	slices.SortFunc(nums, func(a, b string) bool {
		ai, aerr := strconv.Atoi(a)
		bi, berr := strconv.Atoi(b)
		if aerr != nil || berr != nil {
			return a < b
		}
		return ai < bi
	})

	res := make([]model.Clef, 0, len(nums))
	for _, n := range nums {
		res = append(res, d.st.staffs[n])
	}
	return res
}

// PitchData validates raw and derives position, leger line and MIDI code.
// A nil result means the pitch could not be computed at all. A non-nil
// result with an error has an unresolved position.
func PitchData(raw extract.RawPitch, accidental model.Accidental, clef model.Clef) (*model.PitchData, error) {
	octave, err := calc.ParseOctave(raw.Octave)
	if err != nil {
		return nil, err
	}
	code, err := calc.MidiCode(raw.Step, octave, raw.Alter)
	if err != nil {
		return nil, err
	}

	p := &model.PitchData{
		Accidental: accidental,
		MidiCode:   code,
		Pitch:      model.Pitch{Step: raw.Step, Octave: octave, Alter: raw.Alter},
	}

	pos, err := calc.StaffPosition(raw.Step, octave, clef)
	if err != nil {
		return p, errors.Wrapf(err, "position of %s%d", raw.Step, octave)
	}
	p.Position = &pos
	p.LegerLine = calc.IsLegerLine(pos)
	return p, nil
}
