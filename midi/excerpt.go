package midi

import (
	"io"

	"github.com/jsphweid/scoreline/score"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrUnknownMeasure = errors.New("unknown measure")

// Excerpt cuts the ticks [from, to] out of mf and shifts them to start at
// zero. Meta events before from are kept at the start so tempo and meter
// still apply, notes begun before from are dropped and notes still
// sounding at to are released there.
func Excerpt(mf *smf.SMF, from, to uint32) *smf.SMF {
	res := smf.New()
	res.TimeFormat = mf.TimeFormat

	for _, track := range mf.Tracks {
		var newTrack smf.Track
		var absTicks, prev uint32
		add := func(tick uint32, msg smf.Message) {
			if tick < from {
				tick = from
			}
			newTrack.Add(tick-from-prev, msg)
			prev = tick - from
		}

		sounding := make(map[uint8]bool)
	TrackEventLoop:
		for _, evt := range track {
			absTicks += evt.Delta
			if absTicks > to {
				break
			}

			var ch, key, vel uint8
			switch {
			case evt.Message.Is(smf.MetaEndOfTrackMsg):
				break TrackEventLoop
			case evt.Message.GetNoteStart(&ch, &key, &vel):
				if absTicks < from || absTicks == to {
					continue
				}
				add(absTicks, evt.Message)
				sounding[key] = true
			case evt.Message.GetNoteEnd(&ch, &key):
				if !sounding[key] {
					continue
				}
				add(absTicks, evt.Message)
				delete(sounding, key)
			default:
				if absTicks == to {
					continue
				}
				add(absTicks, evt.Message)
			}
		}

		keys := maps.Keys(sounding)
		slices.Sort(keys)
		for _, key := range keys {
			add(to, smf.Message(gomidi.NoteOff(channel, key)))
		}
		newTrack.Close(0)
		res.Tracks = append(res.Tracks, newTrack)
	}

	return res
}

// MeasureRange returns the ticks from the start of measure fromID to the
// end of measure toID. An empty id means the first or last measure.
func MeasureRange(s *score.Score, fromID, toID string) (uint32, uint32, error) {
	if s == nil || len(s.Measures) == 0 {
		return 0, 0, errors.New("nothing to render")
	}

	first, last := s.Measures[0], s.Measures[len(s.Measures)-1]
	if fromID != "" {
		m, ok := s.MeasureByID(fromID)
		if !ok {
			return 0, 0, errors.Wrapf(ErrUnknownMeasure, "%q", fromID)
		}
		first = m
	}
	if toID != "" {
		m, ok := s.MeasureByID(toID)
		if !ok {
			return 0, 0, errors.Wrapf(ErrUnknownMeasure, "%q", toID)
		}
		last = m
	}

	from, to := ticks(first.Time.Start), ticks(last.Time.End)
	if to < from {
		return 0, 0, errors.Errorf("measure %v ends before %v starts", last.ID, first.ID)
	}
	return from, to, nil
}

// WriteExcerpt renders the measures fromID through toID of s to w.
func WriteExcerpt(w io.Writer, s *score.Score, fromID, toID string) error {
	file, err := Build(s)
	if err != nil {
		return err
	}
	from, to, err := MeasureRange(s, fromID, toID)
	if err != nil {
		return err
	}
	if _, err := Excerpt(file, from, to).WriteTo(w); err != nil {
		return errors.Wrap(err, "writing midi")
	}
	return nil
}
