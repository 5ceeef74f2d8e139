package blockquiz

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/plan"
	"github.com/secandoalei/secando/internal/quiz"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/ui/components"
	"github.com/secandoalei/secando/internal/ui/layout"
	"github.com/secandoalei/secando/internal/ui/theme"
)

type phase int

const (
	phaseLoading phase = iota
	phaseAnswering
	phaseDone
	phaseError
)

type questionsMsg struct {
	Questions []quiz.Question
	Err       error
}

// Screen quizzes the user on one block with immediate feedback.
type Screen struct {
	svc   *services.Services
	block plan.Block

	phase   phase
	session *quiz.Session
	mc      components.MultiChoice
	spinner spinner.Model
	cancel  context.CancelFunc
	errMsg  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Stateful = (*Screen)(nil)
var _ screen.BackHandler = (*Screen)(nil)

// New creates the quiz screen for block b.
func New(svc *services.Services, b plan.Block) *Screen {
	return &Screen{svc: svc, block: b, spinner: components.NewSpinner()}
}

func (s *Screen) State() flow.State { return flow.Quiz }

func (s *Screen) Title() string { return fmt.Sprintf("Questões · Dia %d", s.block.Day) }

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.generate())
}

func (s *Screen) generate() tea.Cmd {
	if s.svc.Quizzes == nil {
		return func() tea.Msg { return questionsMsg{Err: services.ErrAIUnavailable} }
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	gen, b := s.svc.Quizzes, s.block
	return func() tea.Msg {
		defer cancel()
		qs, err := gen.Generate(ctx, b)
		return questionsMsg{Questions: qs, Err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsMsg:
		if msg.Err != nil {
			s.phase = phaseError
			if errors.Is(msg.Err, services.ErrAIUnavailable) {
				s.errMsg = msg.Err.Error()
			} else {
				s.svc.Log.Error("block quiz generation failed", zap.Int("day", s.block.Day), zap.Error(msg.Err))
				s.errMsg = "Não foi possível gerar as questões. Tente novamente."
			}
			return s, nil
		}
		s.session = quiz.NewSession(msg.Questions)
		s.phase = phaseAnswering
		s.resetChoice()
		return s, nil

	case spinner.TickMsg:
		if s.phase != phaseLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch s.phase {
	case phaseAnswering:
		if s.session.Revealed {
			if key == "enter" || key == "space" {
				if !s.session.Advance() {
					s.finish()
					return s, nil
				}
				s.resetChoice()
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.mc, cmd = s.mc.Update(msg)
		if s.mc.Submitted {
			s.session.Choose(s.mc.ChosenIndex)
		}
		return s, cmd

	case phaseDone:
		if key == "enter" {
			return s, router.PopTo(flow.PlanView)
		}

	case phaseError:
		if key == "r" {
			s.phase = phaseLoading
			return s, tea.Batch(s.spinner.Tick, s.generate())
		}
	}
	return s, nil
}

func (s *Screen) resetChoice() {
	q := s.session.Question()
	s.mc = components.NewMultiChoice(q.Text, q.Options, q.Correct)
}

func (s *Screen) finish() {
	s.phase = phaseDone
	s.svc.Log.Info("block quiz finished",
		zap.Int("day", s.block.Day),
		zap.Int("correct", s.session.Correct),
		zap.Int("questions", len(s.session.Questions)),
	)
}

// OnBack abandons the quiz and returns to the plan.
func (s *Screen) OnBack() tea.Cmd {
	if s.cancel != nil {
		s.cancel()
	}
	return router.PopTo(flow.PlanView)
}

func (s *Screen) View(width, height int) string {
	switch s.phase {
	case phaseLoading:
		return components.Loading(width, height, s.spinner.View(), "Gerando questões inéditas sobre a letra da lei...")
	case phaseError:
		return components.ErrorScreen(width, height, s.errMsg, "R tenta novamente · Esc volta ao cronograma")
	case phaseDone:
		return s.renderDone(width, height)
	}
	return s.renderQuestion(width, height)
}

func (s *Screen) renderQuestion(width, height int) string {
	cw := components.ContentWidth(width)

	counter := theme.Label.Render(fmt.Sprintf("Questão %d/%d", s.session.Current+1, len(s.session.Questions)))
	score := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Acertos: %d", s.session.Correct))
	gap := cw - lipgloss.Width(counter) - lipgloss.Width(score)
	if gap < 1 {
		gap = 1
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, counter, lipgloss.NewStyle().Width(gap).Render(""), score)

	mc := s.mc
	mc.Width = cw - 6
	sections := []string{top, "", components.Card(mc.View(), cw)}

	if s.session.Revealed {
		q := s.session.Question()
		verdict := theme.Incorrect.Render("✗ Ops, não foi dessa vez.")
		if q.IsCorrect(s.session.Selected) {
			verdict = theme.Correct.Render("✓ Correto!")
		}
		explanation := lipgloss.NewStyle().Width(cw - 6).Italic(true).Foreground(theme.TextDim).Render(q.Explanation)
		next := "Enter: Próxima Questão"
		if s.session.Last() {
			next = "Enter: Ver Resultado Final"
		}
		sections = append(sections, components.Card(verdict+"\n\n"+explanation, cw), theme.Hint.Render(next))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *Screen) renderDone(width, height int) string {
	cw := components.ContentWidth(width)
	total := len(s.session.Questions)
	pct := 0
	if total > 0 {
		pct = s.session.Correct * 100 / total
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("Questões do Dia Concluídas!"),
		"",
		theme.Correct.Render(fmt.Sprintf("%d de %d acertos (%d%%)", s.session.Correct, total, pct)),
		"",
		theme.Hint.Render("Enter volta ao cronograma"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.CenteredCard(body, cw))
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAnswering:
		if s.session.Revealed {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Próxima"},
				{Key: "Esc", Description: "Sair"},
			}
		}
		return []layout.KeyHint{
			{Key: "A-E", Description: "Responder"},
			{Key: "↑↓", Description: "Navegar"},
			{Key: "Enter", Description: "Confirmar"},
			{Key: "Esc", Description: "Sair"},
		}
	case phaseDone:
		return []layout.KeyHint{{Key: "Enter", Description: "Voltar ao cronograma"}}
	case phaseError:
		return []layout.KeyHint{
			{Key: "R", Description: "Tentar novamente"},
			{Key: "Esc", Description: "Voltar"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Cancelar"}}
}
