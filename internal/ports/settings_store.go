package ports

import "github.com/mawi1/oondl/internal/domain"

// SettingsStore loads and saves the settings remembered between sessions.
type SettingsStore interface {
	Load() (domain.Settings, error)
	Save(s domain.Settings) error
}
