// Package tui is the terminal presenter: one slide at a time, driven by the
// same keyboard surface as the browser viewer.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"slidedeck/internal/models"
	"slidedeck/internal/render"
	"slidedeck/internal/viewer"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 4
)

// DocumentMsg replaces the presented document, as after an outside edit
type DocumentMsg struct {
	Document *models.Document
}

// effectDoneMsg clears the effect banner of the slide it was fired for
type effectDoneMsg struct {
	seq int
}

// Model is the bubbletea model of the terminal presenter
type Model struct {
	session  *viewer.Session
	terminal *render.Terminal
	viewport viewport.Model
	options  []glamour.TermRendererOption

	width  int
	height int

	effect    *viewer.EffectEvent
	effectSeq int
	err       error

	styles styles
}

type styles struct {
	status lipgloss.Style
	effect lipgloss.Style
	err    lipgloss.Style
	help   lipgloss.Style
}

// New creates a presenter for doc. opts are passed to the markdown renderer.
func New(doc *models.Document, opts ...glamour.TermRendererOption) Model {
	m := Model{
		session:  viewer.NewSession(doc),
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		options:  opts,
		width:    defaultWidth,
		height:   defaultHeight,
		styles: styles{
			status: lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
			effect: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b")),
			err:    lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")),
			help:   lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af")).Italic(true),
		},
	}
	m.resize(defaultWidth, defaultHeight)
	m.fire(m.session.Start())
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.effectTimeout()
}

// Index returns the current slide index
func (m Model) Index() int {
	return m.session.Index()
}

// Effect returns the effect currently playing, if any
func (m Model) Effect() *viewer.EffectEvent {
	return m.effect
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case DocumentMsg:
		m.fire(m.session.Reset(msg.Document))
		m.refresh()
		return m, m.effectTimeout()

	case effectDoneMsg:
		if msg.seq == m.effectSeq {
			m.effect = nil
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "home":
			t, err := m.session.GoTo(0)
			if err == nil {
				m.fire(t)
			}
			return m, m.effectTimeout()
		case "end":
			t, err := m.session.GoTo(m.session.Len() - 1)
			if err == nil {
				m.fire(t)
			}
			return m, m.effectTimeout()
		}
		if key, ok := viewerKey(msg); ok {
			t, _ := m.session.HandleKey(key)
			m.fire(t)
			return m, m.effectTimeout()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// viewerKey maps terminal keys onto the browser key names the session uses
func viewerKey(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyLeft:
		return viewer.KeyArrowLeft, true
	case tea.KeyRight:
		return viewer.KeyArrowRight, true
	case tea.KeySpace:
		return viewer.KeySpace, true
	}
	switch msg.String() {
	case "h", "p":
		return viewer.KeyArrowLeft, true
	case "l", "n", " ":
		return viewer.KeyArrowRight, true
	}
	return "", false
}

// fire applies a transition: new slide content and, on an edge, the effect
func (m *Model) fire(t viewer.Transition) {
	if t.Changed || t.Effect != nil {
		m.refresh()
		m.viewport.GotoTop()
	}
	if t.Effect != nil {
		m.effect = t.Effect
		m.effectSeq++
	}
}

func (m Model) effectTimeout() tea.Cmd {
	if m.effect == nil {
		return nil
	}
	seq := m.effectSeq
	d := time.Duration(m.effect.Effect.Options.Duration * float64(time.Second))
	if d <= 0 {
		d = 3 * time.Second
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return effectDoneMsg{seq: seq} })
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = width
	m.viewport.Height = max(height-chromeHeight, 1)

	terminal, err := render.NewTerminal(width, m.options...)
	if err != nil {
		m.err = err
		return
	}
	m.terminal = terminal
	m.err = nil
	m.refresh()
}

func (m *Model) refresh() {
	if m.terminal == nil {
		return
	}
	slide, ok := m.session.Current()
	if !ok {
		m.viewport.SetContent(m.styles.status.Render("This presentation has no slides"))
		return
	}
	m.viewport.SetContent(m.terminal.Slide(slide))
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder
	if m.effect != nil {
		b.WriteString(m.styles.effect.Render(effectBanner(*m.effect)))
	}
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.styles.err.Render(m.err.Error()))
	} else if m.terminal != nil {
		b.WriteString(m.terminal.Footer(m.session.Document(), m.session.Index()))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("← → space: navigate · ↑ ↓: scroll · q: quit"))
	return b.String()
}

// effectBanner draws an effect as one line of text
func effectBanner(ev viewer.EffectEvent) string {
	o := ev.Effect.Options
	switch ev.Effect.Type {
	case models.EffectFlyingEmoji:
		return strings.Repeat(o.Emoji+" ", min(o.ParticleCount, viewer.MaxEmojis))
	case models.EffectConfetti:
		return strings.Repeat("✦ ", min(o.ParticleCount/10, 20))
	}
	return ""
}
