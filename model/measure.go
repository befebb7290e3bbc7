package model

// Measure is one bar. Tempo and time signature are the values in force for
// the bar, inherited from earlier bars when it declares none.
type Measure struct {
	ID       string      `json:"id"`
	Number   string      `json:"number"`
	PartID   string      `json:"partId,omitempty"`
	Staffs   []Clef      `json:"staffs"`
	BPM      float64     `json:"bpm"`
	BPMUnit  NoteType    `json:"bpmUnit"`
	Beats    int         `json:"beats"`
	BeatType int         `json:"beatType"`
	Dynamics Dynamics    `json:"dynamics,omitempty"`
	Time     *TimeWindow `json:"time"`
}
