package domain

import "time"

// HistoryEntry records one successful download.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Path       string    `json:"path"`
	Quality    Quality   `json:"quality"`
	Videos     int       `json:"videos"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
