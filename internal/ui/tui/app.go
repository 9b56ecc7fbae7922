package tui

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"

	"github.com/mawi1/oondl/internal/domain"
	"github.com/mawi1/oondl/internal/i18n"
)

type field int

const (
	fieldURL field = iota
	fieldQuality
	fieldDest
	fieldQueue
	fieldCount
)

// qualityOrder is the left-to-right order of the quality selector.
var qualityOrder = []domain.Quality{domain.QualityHigh, domain.QualityMedium, domain.QualityLow}

type model struct {
	theme Theme
	deps  Deps
	p     *message.Printer
	log   *slog.Logger
	keys  keyMap
	help  help.Model

	state   *domain.State
	updates <-chan domain.Update

	url     textinput.Model
	dest    textinput.Model
	quality domain.Quality
	focus   field

	spin  spinner.Model
	bar   progress.Model
	queue list.Model

	modal string
	width int
}

// Run starts the UI and blocks until the user quits. Quality and destination
// are saved to the settings store on exit.
func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger, deps.Debug), tea.WithAltScreen())
	final, err := p.Run()
	if sm, ok := final.(safeModel); ok {
		sm.m.saveSettings()
	}
	return err
}

func newModel(deps Deps) model {
	p := deps.Printer
	if p == nil {
		p = i18n.Printer(i18n.Default())
	}
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	url := textinput.New()
	url.Prompt = ""
	url.Placeholder = p.Sprintf(i18n.URLHint)
	url.CharLimit = 2048
	url.Focus()

	dest := textinput.New()
	dest.Prompt = ""
	dest.CharLimit = 4096
	dest.SetValue(deps.Config.DestDir)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	theme := DefaultTheme()
	m := model{
		theme:   theme,
		deps:    deps,
		p:       p,
		log:     log,
		keys:    newKeyMap(p),
		help:    help.New(),
		state:   domain.NewState(),
		url:     url,
		dest:    dest,
		quality: deps.Config.Quality,
		spin:    spin,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		queue:   newQueueList(theme),
		modal:   userMessage(p, deps.StartupErr),
	}
	if deps.Downloads != nil {
		m.updates = deps.Downloads.Updates()
	}
	m.resize(0)
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, listenUpdates(m.updates))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil

	case downloadUpdateMsg:
		m.applyUpdate(msg.update)
		return m, listenUpdates(m.updates)

	case updatesClosedMsg:
		m.log.Debug("tui.updates_closed")
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocusedInput(msg)
}

func (m *model) resize(width int) {
	m.width = width
	w := contentWidth(width)
	m.bar.Width = w
	m.url.Width = w - 16
	m.dest.Width = w - 16
	m.queue.SetSize(w, queueHeight)
}

func (m *model) applyUpdate(u domain.Update) {
	m.state.Apply(u)
	switch u := u.(type) {
	case domain.StartedRequest:
		m.syncQueue()
	case domain.Finished:
		m.log.Info("tui.finished", "id", u.RequestID, "path", u.Path)
	case domain.Failed:
		m.log.Debug("tui.failed", "err", u.Err)
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.state.HasError() {
		switch {
		case key.Matches(msg, m.keys.Retry):
			m.deps.Downloads.Retry()
		case key.Matches(msg, m.keys.CancelFailed):
			m.deps.Downloads.CancelOnError()
		}
		return m, nil
	}

	if m.modal != "" {
		if key.Matches(msg, m.keys.Dismiss) {
			m.modal = ""
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		m.submit()
		return m, nil
	case m.focus == fieldQueue && key.Matches(msg, m.keys.RemoveQueued):
		m.removeSelected()
		return m, nil
	case m.focus == fieldQueue && key.Matches(msg, m.keys.QueueUp):
		m.queue.CursorUp()
		return m, nil
	case m.focus == fieldQueue && key.Matches(msg, m.keys.QueueDown):
		m.queue.CursorDown()
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus(m.nextField(1))
	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus(m.nextField(-1))
	case key.Matches(msg, m.keys.CancelDownload):
		if m.state.Phase().Kind != domain.PhaseIdle && m.deps.Downloads != nil {
			m.deps.Downloads.CancelCurrent()
		}
		return m, nil
	case m.focus == fieldQuality && key.Matches(msg, m.keys.QualityPrev):
		m.quality = shiftQuality(m.quality, -1)
		return m, nil
	case m.focus == fieldQuality && key.Matches(msg, m.keys.QualityNext):
		m.quality = shiftQuality(m.quality, 1)
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

// shiftQuality moves along qualityOrder, which lists the qualities from
// high to low; step > 0 moves right.
func shiftQuality(q domain.Quality, step int) domain.Quality {
	if step > 0 {
		return q.Prev()
	}
	return q.Next()
}

// nextField is the field step positions away from the focused one. The queue
// only takes focus while it has entries.
func (m model) nextField(step int) field {
	f := m.focus
	for {
		f = (f + field(step) + fieldCount) % fieldCount
		if f != fieldQueue || len(m.queue.Items()) > 0 {
			return f
		}
	}
}

func (m *model) setFocus(f field) tea.Cmd {
	m.focus = f
	m.url.Blur()
	m.dest.Blur()
	switch f {
	case fieldURL:
		return m.url.Focus()
	case fieldDest:
		return m.dest.Focus()
	}
	return nil
}

func (m model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldURL:
		m.url, cmd = m.url.Update(msg)
	case fieldDest:
		m.dest, cmd = m.dest.Update(msg)
	}
	return m, cmd
}

// submit validates the form and queues the download.
func (m *model) submit() {
	u, err := domain.ParseOonURL(m.url.Value())
	if err != nil {
		m.modal = userMessage(m.p, err)
		return
	}

	dir := strings.TrimSpace(m.dest.Value())
	if m.deps.Writable != nil {
		if err := m.deps.Writable(dir); err != nil {
			m.log.Info("tui.dest_rejected", "dir", dir, "err", err)
			m.modal = userMessage(m.p, err)
			return
		}
	}

	req := domain.NewDownloadRequest(u, m.quality, dir)
	m.state.Enqueue(req.QueueItem())
	m.syncQueue()
	if m.deps.Downloads != nil {
		m.deps.Downloads.Add(req)
	}
	m.log.Info("tui.enqueue", "id", req.ID, "url", u.String(), "quality", m.quality.String(), "dest", dir)
	m.url.SetValue("")
}

func (m model) saveSettings() {
	if m.deps.Settings == nil {
		return
	}
	set := domain.Settings{Quality: m.quality, DestDir: strings.TrimSpace(m.dest.Value())}
	if err := m.deps.Settings.Save(set); err != nil {
		m.log.Warn("settings.save_failed", "err", err)
	}
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("oondl") + "\n" + m.theme.Subtitle.Render("ORF ON")

	if m.state.HasError() {
		return wrap.Render(header + "\n\n" + m.modalView(userMessage(m.p, m.state.Err()), m.keys.failedHelp()))
	}
	if m.modal != "" {
		return wrap.Render(header + "\n\n" + m.modalView(m.modal, m.keys.modalHelp()))
	}

	w := contentWidth(m.width)
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.formView(),
		m.activeView(w),
		m.queueView(),
	)
	return wrap.Render(header + "\n\n" + body + "\n" + m.help.ShortHelpView(m.keys.formHelp()))
}

func (m model) modalView(text string, bindings []key.Binding) string {
	return m.theme.Modal.Render(
		m.theme.Title.Render(m.p.Sprintf(i18n.ErrorTitle)) + "\n\n" +
			text + "\n\n" +
			m.help.ShortHelpView(bindings),
	)
}

func (m model) label(f field, text string) string {
	st := m.theme.Label.Copy()
	if m.focus == f {
		st = st.Inherit(m.theme.Focused)
	}
	return st.Render(text)
}

func (m model) formView() string {
	var opts []string
	for _, q := range qualityOrder {
		name := i18n.QualityName(m.p, q)
		if q == m.quality {
			opts = append(opts, m.theme.Selected.Render("(•) "+name))
		} else {
			opts = append(opts, "( ) "+name)
		}
	}

	rows := []string{
		m.label(fieldURL, m.p.Sprintf(i18n.URLLabel)) + m.url.View(),
		m.label(fieldQuality, m.p.Sprintf(i18n.QualityLabel)) + strings.Join(opts, "  "),
		m.label(fieldDest, m.p.Sprintf(i18n.DestLabel)) + m.dest.View(),
	}
	return m.theme.Card.Render(strings.Join(rows, "\n"))
}

func (m model) activeView(width int) string {
	var b strings.Builder
	phase := m.state.Phase()

	if phase.Kind == domain.PhaseIdle {
		b.WriteString(m.theme.Subtitle.Render(m.p.Sprintf(i18n.NoActiveDownload)))
		if path := m.state.LastFinished(); path != "" {
			b.WriteString("\n")
			b.WriteString(m.theme.Success.Render(clampString(m.p.Sprintf(i18n.Saved, path), width)))
		}
		return m.theme.Card.Render(b.String())
	}

	title, ok := m.state.Title()
	if !ok {
		title = m.p.Sprintf(i18n.TitlePlaceholder)
	}
	b.WriteString(m.theme.Title.Render(clampString(title, width)))
	b.WriteString("\n")

	switch phase.Kind {
	case domain.PhaseAnalyzing:
		b.WriteString(m.spin.View() + " " + m.p.Sprintf(i18n.Analyzing))
	case domain.PhaseDownloading:
		b.WriteString(m.p.Sprintf(i18n.Downloading, phase.Progress*100, phase.VideoNo, phase.TotalVideos))
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(phase.Progress))
	case domain.PhaseMerging:
		b.WriteString(m.spin.View() + " " + m.p.Sprintf(i18n.Merging))
	}
	return m.theme.Card.Render(b.String())
}

func (m model) queueView() string {
	var b strings.Builder
	b.WriteString(m.label(fieldQueue, m.p.Sprintf(i18n.Queue)))
	b.WriteString("\n")

	if len(m.queue.Items()) == 0 {
		b.WriteString(m.theme.Subtitle.Render(m.p.Sprintf(i18n.QueueEmpty)))
		return m.theme.Card.Render(b.String())
	}
	l := m.queue
	l.SetDelegate(queueDelegate{focused: m.focus == fieldQueue, selected: m.theme.Selected})
	b.WriteString(l.View())
	return m.theme.Card.Render(b.String())
}
