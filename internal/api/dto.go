package api

import "github.com/khanglvm/daily-raffle/internal/history"

// DrawResponse is the JSON shape returned by GET /v1/draw.
type DrawResponse struct {
	Fixed     int    `json:"fixed"`
	Numbers   []int  `json:"numbers"`
	RequestID string `json:"request_id,omitempty"`
}

// HistoryResponse is the JSON shape returned by GET /v1/history. It embeds
// the persisted record so the keys match the history file.
type HistoryResponse struct {
	*history.History
}

type ErrorResponse struct {
	Error string `json:"error"`
}
