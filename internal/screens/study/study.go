package study

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/explain"
	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/plan"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/screens/blockquiz"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/ui/components"
	"github.com/secandoalei/secando/internal/ui/layout"
	"github.com/secandoalei/secando/internal/ui/theme"
)

// sidebarWidth is the width of the assistant panel on wide terminals.
const sidebarWidth = 40

type toggledMsg struct {
	Plan *plan.Plan
	Err  error
}

type explainedMsg struct {
	Term string
	Text string
	Err  error
}

// Screen shows one block for reading, with an assistant panel that
// explains terms typed into it.
type Screen struct {
	svc   *services.Services
	plan  *plan.Plan
	block plan.Block

	reader viewport.Model
	term   components.TextInput

	explaining bool
	spinner    spinner.Model
	asked      string
	insight    string
	errMsg     string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Stateful = (*Screen)(nil)
var _ screen.BackHandler = (*Screen)(nil)

// New creates the study screen for block b of p.
func New(svc *services.Services, p *plan.Plan, b plan.Block) *Screen {
	return &Screen{
		svc:     svc,
		plan:    p,
		block:   b,
		reader:  viewport.New(),
		term:    components.NewTextInput("Termo para explicar", "ex.: vacância", false, 99),
		spinner: components.NewSpinner(),
	}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) State() flow.State { return flow.StudySession }

func (s *Screen) Title() string { return fmt.Sprintf("Dia %d", s.block.Day) }

// Completed reports whether the block's day is checked off.
func (s *Screen) Completed() bool { return s.plan.IsCompleted(s.block.Day) }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case toggledMsg:
		if msg.Err != nil {
			s.svc.Log.Error("toggle day", zap.Int("day", s.block.Day), zap.Error(msg.Err))
			s.errMsg = "Não foi possível salvar o progresso."
			return s, nil
		}
		s.plan = msg.Plan
		return s, nil

	case explainedMsg:
		s.explaining = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.asked, s.insight = msg.Term, msg.Text
		return s, nil

	case spinner.TickMsg:
		if !s.explaining {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.term.Focused() {
			return s.handleInputKey(msg)
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "c":
		return s, s.toggle()
	case "q":
		return s, router.Push(blockquiz.New(s.svc, s.block))
	case "e":
		s.errMsg = ""
		return s, s.term.Focus()
	}
	var cmd tea.Cmd
	s.reader, cmd = s.reader.Update(msg)
	return s, cmd
}

func (s *Screen) handleInputKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "enter" {
		return s, s.explain()
	}
	var cmd tea.Cmd
	s.term, cmd = s.term.Update(msg)
	return s, cmd
}

func (s *Screen) toggle() tea.Cmd {
	plans, owner, id, day := s.svc.Plans, s.svc.Owner(), s.plan.ID, s.block.Day
	return func() tea.Msg {
		p, err := plans.ToggleDay(context.Background(), owner, id, day)
		return toggledMsg{Plan: p, Err: err}
	}
}

func (s *Screen) explain() tea.Cmd {
	term := strings.TrimSpace(s.term.Value())
	s.errMsg = ""
	if !explain.ValidSelection(term) {
		s.errMsg = explain.ErrSelectionLength.Error()
		return nil
	}
	if s.svc.Explainer == nil {
		s.errMsg = services.ErrAIUnavailable.Error()
		return nil
	}

	s.explaining = true
	s.term.Blur()
	explainer, passage := s.svc.Explainer, s.block.Summary
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		text, err := explainer.Message(context.Background(), term, passage)
		if err != nil && !errors.Is(err, explain.ErrSelectionLength) {
			err = errors.New(explain.FallbackMessage)
		}
		return explainedMsg{Term: term, Text: text, Err: err}
	})
}

// OnBack leaves the term input first, then the screen.
func (s *Screen) OnBack() tea.Cmd {
	if s.term.Focused() {
		s.term.Blur()
		return nil
	}
	return router.Pop()
}

func (s *Screen) View(width, height int) string {
	if width >= 100 {
		readerWidth := width - sidebarWidth - 3
		reader := s.renderReader(readerWidth, height)
		side := s.renderSidebar(sidebarWidth, height)
		return lipgloss.JoinHorizontal(lipgloss.Top, reader, " ", side)
	}

	sideHeight := height / 3
	reader := s.renderReader(width, height-sideHeight)
	side := s.renderSidebar(width, sideHeight)
	return lipgloss.JoinVertical(lipgloss.Left, reader, side)
}

func (s *Screen) renderReader(width, height int) string {
	status := theme.Hint.Render("C marca como concluído")
	if s.Completed() {
		status = theme.Done.Render("✓ Dia Concluído")
	}
	head := lipgloss.JoinVertical(lipgloss.Left,
		theme.TabActive.Render(fmt.Sprintf("DIA %d", s.block.Day))+"  "+status,
		theme.Title.Render(s.block.Title),
		theme.Hint.Render(s.block.GroupName()+" · "+s.block.Articles),
		"",
	)

	wrap := lipgloss.NewStyle().Width(width - 2)
	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.Label.Render("Resumo Didático da Lei:"),
		wrap.Foreground(theme.Text).Render(s.block.Summary),
		"",
		wrap.Foreground(theme.Accent).Italic(true).
			Render("Dica de Estudo: digite (E) qualquer palavra ou frase difícil para ver a explicação simplificada do assistente."),
		"",
		theme.Subtitle.Render("Finalizou a leitura? Q testa sua retenção com questões do dia."),
	)

	vh := height - lipgloss.Height(head)
	if vh < 3 {
		vh = 3
	}
	s.reader.SetWidth(width)
	s.reader.SetHeight(vh)
	s.reader.SetContent(body)

	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, head, s.reader.View()))
}

func (s *Screen) renderSidebar(width, height int) string {
	inner := width - 6
	s.term.SetWidth(inner - 2)

	sections := []string{theme.Title.Render("Assistente IA"), "", s.term.View()}

	switch {
	case s.explaining:
		sections = append(sections, "", s.spinner.View()+" "+theme.Hint.Render("Explicando..."))
	case s.errMsg != "":
		sections = append(sections, "", lipgloss.NewStyle().Width(inner).Foreground(theme.Error).Render(s.errMsg))
	case s.insight != "":
		sections = append(sections,
			"",
			theme.Label.Render("Explicação Didática"),
			theme.Hint.Render(fmt.Sprintf("%q", s.asked)),
			lipgloss.NewStyle().Width(inner).Foreground(theme.Text).Render(s.insight),
		)
	default:
		sections = append(sections, "", theme.Hint.Width(inner).Render("Digite um termo do texto para análise da IA."))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2).
		Width(width).
		MaxHeight(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.term.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Explicar"},
			{Key: "Esc", Description: "Fechar"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Rolar"},
		{Key: "C", Description: "Concluir dia"},
		{Key: "Q", Description: "Questões"},
		{Key: "E", Description: "Explicar termo"},
		{Key: "Esc", Description: "Cronograma"},
	}
}
