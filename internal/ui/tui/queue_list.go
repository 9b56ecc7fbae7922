package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mawi1/oondl/internal/domain"
)

// queueHeight is the number of rows the queue card shows per page.
const queueHeight = 5

type queueItem struct {
	domain.QueueItem
}

func (q queueItem) FilterValue() string { return q.Title }

// queueDelegate renders one numbered line per pending request and marks the
// selection while the queue has focus.
type queueDelegate struct {
	focused  bool
	selected lipgloss.Style
}

func (d queueDelegate) Height() int                         { return 1 }
func (d queueDelegate) Spacing() int                        { return 0 }
func (d queueDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d queueDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(queueItem)
	if !ok {
		return
	}
	line := fmt.Sprintf("%d. %s", index+1, it.Title)
	line = clampString(line, m.Width()-2)
	if d.focused && index == m.Index() {
		fmt.Fprint(w, d.selected.Render("> "+line))
		return
	}
	fmt.Fprint(w, "  "+line)
}

func newQueueList(theme Theme) list.Model {
	l := list.New(nil, queueDelegate{selected: theme.Selected}, 0, queueHeight)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// syncQueue mirrors the visible queue of the state into the list, keeping the
// cursor on a valid row.
func (m *model) syncQueue() {
	pending := m.state.Queue()
	items := make([]list.Item, 0, len(pending))
	for _, q := range pending {
		items = append(items, queueItem{q})
	}
	idx := m.queue.Index()
	m.queue.SetItems(items)
	switch {
	case len(items) == 0:
		m.queue.ResetSelected()
		if m.focus == fieldQueue {
			m.setFocus(fieldURL)
		}
	case idx >= len(items):
		m.queue.Select(len(items) - 1)
	}
}

// removeSelected drops the highlighted request if it has not started yet.
func (m *model) removeSelected() {
	it, ok := m.queue.SelectedItem().(queueItem)
	if !ok {
		return
	}
	if m.deps.Downloads == nil || m.deps.Downloads.Remove(it.RequestID) {
		m.log.Info("tui.dequeue", "id", it.RequestID)
		m.state.Remove(it.RequestID)
	}
	m.syncQueue()
}
