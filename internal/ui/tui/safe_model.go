package tui

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mawi1/oondl/internal/i18n"
)

// safeModel keeps the program alive when the inner model panics. The panic is
// logged and surfaced as the unexpected-error modal.
type safeModel struct {
	m   model
	log *slog.Logger
	// verbose appends the panic value to the modal.
	verbose bool
}

func wrapSafe(m model, log *slog.Logger, verbose bool) safeModel {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return safeModel{m: m, log: log, verbose: verbose}
}

func (s safeModel) Init() tea.Cmd { return s.m.Init() }

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s.m.modal = s.report("tui.update", r)
		tm, cmd = s, nil
		// the listener that delivered this update is gone
		if _, ok := msg.(downloadUpdateMsg); ok {
			cmd = listenUpdates(s.m.updates)
		}
	}()

	inner, c := s.m.Update(msg)
	switch v := inner.(type) {
	case model:
		s.m = v
	case safeModel:
		s = v
	}
	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = s.report("tui.view", r)
		}
	}()
	return s.m.View()
}

func (s safeModel) report(where string, r any) string {
	s.log.Error("panic.recovered",
		"where", where,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
	text := s.m.p.Sprintf(i18n.UnexpectedError)
	if s.verbose {
		text += fmt.Sprintf(" (%v)", r)
	}
	return text
}

var _ tea.Model = safeModel{}
