package ports

import "github.com/mawi1/oondl/internal/domain"

// HistoryStore persists finished downloads.
type HistoryStore interface {
	Save(entry domain.HistoryEntry) (id string, err error)
	List(limit int) ([]domain.HistoryEntry, error)
}
