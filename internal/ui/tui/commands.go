package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mawi1/oondl/internal/domain"
)

// listenUpdates waits for the next queue update; the model re-issues it after
// every downloadUpdateMsg.
func listenUpdates(ch <-chan domain.Update) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return downloadUpdateMsg{update: u}
	}
}
