package model

// ScoreSummary is the condensed view of a decoded score used by reports,
// the index table and the HTTP API.
type ScoreSummary struct {
	Filename      string  `json:"filename,omitempty"`
	Title         string  `json:"title,omitempty"`
	Version       string  `json:"version,omitempty"`
	Variant       string  `json:"variant"`
	Parts         int     `json:"parts"`
	Measures      int     `json:"measures"`
	Notes         int     `json:"notes"`
	Chords        int     `json:"chords"`
	Rests         int     `json:"rests"`
	TotalDuration float64 `json:"totalDuration"`
}
