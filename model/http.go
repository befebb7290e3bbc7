package model

type ScoreCreatedResponse struct {
	ID      string       `json:"id"`
	Summary ScoreSummary `json:"summary"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
