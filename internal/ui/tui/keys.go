package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"golang.org/x/text/message"

	"github.com/mawi1/oondl/internal/i18n"
)

type keyMap struct {
	Submit         key.Binding
	Next           key.Binding
	Prev           key.Binding
	QualityPrev    key.Binding
	QualityNext    key.Binding
	CancelDownload key.Binding
	RemoveQueued   key.Binding
	QueueUp        key.Binding
	QueueDown      key.Binding
	Quit           key.Binding
	Retry          key.Binding
	CancelFailed   key.Binding
	Dismiss        key.Binding
}

func newKeyMap(p *message.Printer) keyMap {
	return keyMap{
		Submit:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", p.Sprintf(i18n.HelpDownload))),
		Next:           key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", p.Sprintf(i18n.HelpNextField))),
		Prev:           key.NewBinding(key.WithKeys("shift+tab", "up")),
		QualityPrev:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", p.Sprintf(i18n.HelpQuality))),
		QualityNext:    key.NewBinding(key.WithKeys("right", " ")),
		CancelDownload: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", p.Sprintf(i18n.HelpCancelDownload))),
		RemoveQueued:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", p.Sprintf(i18n.HelpRemoveQueued))),
		QueueUp:        key.NewBinding(key.WithKeys("up", "k")),
		QueueDown:      key.NewBinding(key.WithKeys("down", "j")),
		Quit:           key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", p.Sprintf(i18n.HelpQuit))),
		Retry:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", p.Sprintf(i18n.HelpRetry))),
		CancelFailed:   key.NewBinding(key.WithKeys("c", "esc"), key.WithHelp("c", p.Sprintf(i18n.HelpCancelFailed))),
		Dismiss:        key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", p.Sprintf(i18n.HelpDismiss))),
	}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Next, k.QualityPrev, k.CancelDownload, k.RemoveQueued, k.Quit}
}

func (k keyMap) failedHelp() []key.Binding {
	return []key.Binding{k.Retry, k.CancelFailed}
}

func (k keyMap) modalHelp() []key.Binding {
	return []key.Binding{k.Dismiss}
}
