package model

import "encoding/json"

// Note is one performed event. Body decides whether it is a single note,
// a chord or a rest.
type Note struct {
	ID               string
	MeasureID        string
	Staff            Clef
	Type             NoteType
	Body             NoteBody
	Dot              Dot
	Beam             []Beam
	Stem             Stem
	Notations        Notations
	TimeModification *TimeModification
	Time             *TimeWindow
}

func (n *Note) View() NoteView {
	if n.Body == nil {
		return ViewSingle
	}
	return n.Body.View()
}

func (n *Note) Data() []PitchData {
	if n.Body == nil {
		return nil
	}
	return n.Body.Pitches()
}

// AddChordMember turns the note into a chord (or grows an existing one).
func (n *Note) AddChordMember(p PitchData) error {
	c, err := WithMember(n.Body, p)
	if err != nil {
		return err
	}
	n.Body = c
	return nil
}

type noteJSON struct {
	ID               string            `json:"id"`
	MeasureID        string            `json:"measureId"`
	Staff            Clef              `json:"staff,omitempty"`
	Type             NoteType          `json:"type,omitempty"`
	View             NoteView          `json:"view"`
	Data             []PitchData       `json:"data"`
	Dot              Dot               `json:"dot,omitempty"`
	Beam             []Beam            `json:"beam,omitempty"`
	Stem             Stem              `json:"stem,omitempty"`
	Notations        Notations         `json:"notations"`
	TimeModification *TimeModification `json:"timeModification,omitempty"`
	Time             *TimeWindow       `json:"time"`
}

func (n *Note) MarshalJSON() ([]byte, error) {
	data := n.Data()
	if data == nil {
		data = []PitchData{}
	}
	return json.Marshal(noteJSON{
		ID:               n.ID,
		MeasureID:        n.MeasureID,
		Staff:            n.Staff,
		Type:             n.Type,
		View:             n.View(),
		Data:             data,
		Dot:              n.Dot,
		Beam:             n.Beam,
		Stem:             n.Stem,
		Notations:        n.Notations,
		TimeModification: n.TimeModification,
		Time:             n.Time,
	})
}

func (n *Note) UnmarshalJSON(b []byte) error {
	var raw noteJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*n = Note{
		ID:               raw.ID,
		MeasureID:        raw.MeasureID,
		Staff:            raw.Staff,
		Type:             raw.Type,
		Dot:              raw.Dot,
		Beam:             raw.Beam,
		Stem:             raw.Stem,
		Notations:        raw.Notations,
		TimeModification: raw.TimeModification,
		Time:             raw.Time,
	}

	switch raw.View {
	case ViewRest:
		n.Body = Rest{}
	case ViewChord:
		n.Body = Chord{Members: raw.Data}
	default:
		var s Single
		if len(raw.Data) > 0 {
			p := raw.Data[0]
			s.Pitch = &p
		}
		n.Body = s
	}
	return nil
}
