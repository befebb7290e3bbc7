// Package midi renders a decoded timeline as a Standard MIDI File.
//
// The file uses 1000 ticks per quarter at a fixed 60 bpm, so one tick is
// one millisecond of the timeline and playback speed is already applied.
package midi

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/jsphweid/scoreline/model"
	"github.com/jsphweid/scoreline/score"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	Resolution      = smf.MetricTicks(1000)
	tempo           = 60
	channel         = 0
	defaultVelocity = 80
)

var velocities = map[model.Dynamics]uint8{
	"pppppp": 8, "ppppp": 12, "pppp": 16, "ppp": 24, "pp": 36, "p": 50,
	"mp": 64, "mf": 80, "f": 96, "ff": 110, "fff": 120,
	"ffff": 124, "fffff": 126, "ffffff": 127,
	"sf": 110, "sfz": 112, "sffz": 120, "fz": 110, "rf": 100, "rfz": 104,
	"fp": 96, "sfp": 110, "sfpp": 110, "pf": 60, "n": 1,
}

// sort order of events sharing a tick
const (
	orderMeta = iota
	orderOff
	orderOn
)

type event struct {
	tick  uint32
	order int
	msg   []byte
}

// Build converts s into a single-track SMF. Ties merge into one sounding
// note: a tie stop skips the note-on, a tie start skips the note-off.
func Build(s *score.Score) (*smf.SMF, error) {
	if s == nil || s.Empty() {
		return nil, errors.New("nothing to render")
	}

	var events []event
	events = append(events,
		event{tick: 0, order: orderMeta, msg: smf.MetaTempo(tempo)},
	)
	if s.Metadata.Title != "" {
		events = append(events, event{tick: 0, order: orderMeta, msg: smf.MetaTrackSequenceName(s.Metadata.Title)})
	}

	velocity := uint8(defaultVelocity)
	measureVelocity := make(map[string]uint8)
	var beats, beatType int
	for _, m := range s.Measures {
		if v, ok := velocities[m.Dynamics]; ok {
			velocity = v
		}
		measureVelocity[m.ID] = velocity

		if m.Time != nil && m.Beats > 0 && m.BeatType > 0 && (m.Beats != beats || m.BeatType != beatType) {
			beats, beatType = m.Beats, m.BeatType
			events = append(events, event{
				tick:  ticks(m.Time.Start),
				order: orderMeta,
				msg:   smf.MetaMeter(uint8(beats), uint8(beatType)),
			})
		}
	}

	open := make(map[uint8]bool)
	var last uint32
	for _, n := range s.Notes {
		if n.Time == nil || n.View() == model.ViewRest {
			continue
		}
		start, end := ticks(n.Time.Start), ticks(n.Time.End)
		if end > last {
			last = end
		}
		vel, ok := measureVelocity[n.MeasureID]
		if !ok {
			vel = defaultVelocity
		}
		tieStop := hasTie(n, model.Stop)
		tieStart := hasTie(n, model.Start)

		for _, p := range n.Data() {
			key, ok := keyOf(p)
			if !ok {
				continue
			}
			if !tieStop || !open[key] {
				if open[key] {
					events = append(events, event{tick: start, order: orderOff, msg: gomidi.NoteOff(channel, key)})
				}
				events = append(events, event{tick: start, order: orderOn, msg: gomidi.NoteOn(channel, key, vel)})
			}
			open[key] = true
			if !tieStart {
				events = append(events, event{tick: end, order: orderOff, msg: gomidi.NoteOff(channel, key)})
				open[key] = false
			}
		}
	}
	for key, on := range open {
		if on {
			events = append(events, event{tick: last, order: orderOff, msg: gomidi.NoteOff(channel, key)})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].order < events[j].order
	})

	var tr smf.Track
	var prev uint32
	for _, ev := range events {
		tr.Add(ev.tick-prev, ev.msg)
		prev = ev.tick
	}
	tr.Close(0)

	res := smf.New()
	res.TimeFormat = Resolution
	if err := res.Add(tr); err != nil {
		return nil, errors.Wrap(err, "adding track")
	}
	return res, nil
}

// Write builds s and writes it to w.
func Write(w io.Writer, s *score.Score) error {
	file, err := Build(s)
	if err != nil {
		return err
	}
	if _, err := file.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing midi")
	}
	return nil
}

func Read(r io.Reader) (s *smf.SMF, e error) {
	// smf.ReadFrom panics on some truncated input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			s, e = nil, fmt.Errorf("parsing midi: %v", rec)
		}
	}()

	dat, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading midi")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "parsing midi")
	}
	return res, nil
}

func ticks(ms float64) uint32 {
	if ms <= 0 {
		return 0
	}
	return uint32(math.Round(ms))
}

func keyOf(p model.PitchData) (uint8, bool) {
	if p.MidiCode < 0 || p.MidiCode > 127 {
		return 0, false
	}
	return uint8(p.MidiCode), true
}

func hasTie(n *model.Note, c model.Continuation) bool {
	for _, t := range n.Notations.Tied {
		if t == c {
			return true
		}
	}
	return false
}
