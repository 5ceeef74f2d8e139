package landing

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/screens/methodology"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/ui/components"
	"github.com/secandoalei/secando/internal/ui/layout"
	"github.com/secandoalei/secando/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 2500 * time.Millisecond
)

const emblemArt = `      ╭─────────╮
      │    ⚖    │
 ╭────┴─────────┴────╮
 │  ══════════════   │
 │  ═══════════      │
 │  ═════════════    │
 ╰───────────────────╯`

// sparkle frames cycle around the emblem
var sparkleFrames = []string{"★", "✦"}

const (
	tagline = "O seu Personal Trainer de Lei Seca: cronogramas inteligentes e questões inéditas em um só lugar."
	pitch   = "Transformamos textos jurídicos densos em planos de ação práticos com o poder da Inteligência Artificial."
)

type tickMsg time.Time

// Screen is the landing page: a short intro animation followed by the
// main menu.
type Screen struct {
	svc       *services.Services
	menu      components.Menu
	elapsed   time.Duration
	tickCount int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Stateful = (*Screen)(nil)
var _ screen.Resumer = (*Screen)(nil)

// New creates the landing screen.
func New(svc *services.Services) *Screen {
	s := &Screen{svc: svc}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Começar Agora", Action: s.start},
		{Label: "Conheça a Metodologia", Action: s.methodology},
		{Label: "Sair", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

// home rebuilds the landing screen, e.g. after logout.
func (s *Screen) home() screen.Screen { return New(s.svc) }

func (s *Screen) start() tea.Cmd {
	return router.Push(methodology.Start(s.svc, flow.Landing, s.home))
}

func (s *Screen) methodology() tea.Cmd {
	return router.Push(methodology.New(s.svc, s.home))
}

func (s *Screen) State() flow.State { return flow.Landing }

func (s *Screen) Title() string { return "" }

func (s *Screen) Init() tea.Cmd { return s.tick() }

func (s *Screen) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Resume restarts an intro that never ran, e.g. under a restored session.
func (s *Screen) Resume() tea.Cmd {
	if s.Ready() {
		return nil
	}
	return s.tick()
}

// Ready reports whether the intro has finished and the menu is live.
func (s *Screen) Ready() bool { return s.elapsed >= totalDur }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if s.Ready() {
			return s, nil
		}
		s.elapsed += tickInterval
		s.tickCount++
		return s, s.tick()

	case tea.KeyPressMsg:
		// The first key skips the intro.
		if !s.Ready() {
			s.elapsed = totalDur
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Primary).Render(emblemArt)

	if s.elapsed >= phase1End && !s.Ready() {
		sparkle := sparkleFrames[s.tickCount%len(sparkleFrames)]
		s1 := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		s2 := lipgloss.NewStyle().Foreground(theme.Secondary).Render(sparkle)

		lines := strings.Split(rendered, "\n")
		if len(lines) > 1 {
			lines[0] = s1 + "  " + lines[0] + "  " + s2
		}
		if len(lines) > 3 {
			lines[3] = s2 + "  " + lines[3] + "  " + s1
		}
		if len(lines) > 6 {
			lines[6] = s1 + "  " + lines[6] + "  " + s2
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	if s.elapsed >= phase2End {
		cw := components.ContentWidth(width)
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(theme.Text).Bold(true).Render(tagline),
			lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(theme.TextDim).Render(pitch),
		)
	}

	if s.Ready() {
		sections = append(sections, "", s.menu.ButtonView(32))
	} else if s.elapsed >= phase1End {
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("pressione qualquer tecla"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Selecionar"},
		{Key: "Ctrl+C", Description: "Sair"},
	}
}
