package mockexam

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/secandoalei/secando/internal/quiz"
	"github.com/secandoalei/secando/internal/ui/components"
	"github.com/secandoalei/secando/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch s.phase {
	case phaseLoading:
		return components.Loading(width, height, s.spinner.View(), "Montando seu simulado com questões inéditas...")
	case phaseError:
		return components.ErrorScreen(width, height, s.errMsg, "R tenta novamente · Esc volta ao cronograma")
	case phaseResults:
		return s.renderResults(width, height)
	}
	return s.renderExam(width, height)
}

func (s *Screen) renderExam(width, height int) string {
	cw := components.ContentWidth(width)
	q := s.exam.Question()

	counter := theme.Label.Render(fmt.Sprintf("Questão %d de %d", s.exam.Current+1, len(s.exam.Questions)))
	if q.BlockDay > 0 {
		counter += theme.Hint.Render(fmt.Sprintf("  · Foco: Dia %d", q.BlockDay))
	}
	clock := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render("Tempo " + quiz.FormatElapsed(s.exam.Elapsed))
	gap := cw - lipgloss.Width(counter) - lipgloss.Width(clock)
	if gap < 1 {
		gap = 1
	}
	top := counter + strings.Repeat(" ", gap) + clock

	mc := components.NewMultiChoice(q.Text, q.Options, q.Correct)
	mc.Reveal = false
	mc.Width = cw - 6
	if a, ok := s.exam.Answered(s.exam.Current); ok {
		mc.Selected = a
		mc.Submitted = true
		mc.ChosenIndex = a
	} else {
		mc.Selected = -1
	}

	sections := []string{
		top,
		"",
		s.renderNavigator(),
		"",
		components.Card(mc.View(), cw),
		theme.Hint.Render(fmt.Sprintf("Respondidas: %d de %d", len(s.exam.Answers), len(s.exam.Questions))),
	}

	if s.phase == phaseConfirm {
		warn := fmt.Sprintf("Há %d questão(ões) sem resposta. Entregar mesmo assim? (s/n)", s.exam.Unanswered())
		sections = append(sections, "", theme.ErrorText.Render(warn))
	} else if s.notice != "" {
		sections = append(sections, "", components.Notice(s.notice, s.noticeErr))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderNavigator draws one numbered cell per question. The current
// question is highlighted and answered ones are green.
func (s *Screen) renderNavigator() string {
	cells := make([]string, len(s.exam.Questions))
	for i := range s.exam.Questions {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(theme.TextDim)
		if _, ok := s.exam.Answered(i); ok {
			style = style.Foreground(theme.Success)
		}
		if i == s.exam.Current {
			style = style.Foreground(theme.BgDark).Background(theme.Highlight).Bold(true)
		}
		cells[i] = style.Render(fmt.Sprintf("%d", i+1))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (s *Screen) renderResults(width, height int) string {
	cw := components.ContentWidth(width)
	pct := s.exam.Percent()

	scoreStyle := theme.Correct
	if pct < s.svc.Study.PassPercent {
		scoreStyle = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	}
	summary := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("Simulado Finalizado!"),
		"",
		scoreStyle.Render(fmt.Sprintf("%d de %d acertos (%d%%)", s.exam.Score(), len(s.exam.Questions), pct)),
		theme.Subtitle.Render("Tempo total: "+quiz.FormatElapsed(s.exam.Elapsed)),
		"",
		lipgloss.NewStyle().Width(cw-8).Align(lipgloss.Center).Foreground(theme.Text).
			Render(quiz.VerdictAt(pct, s.svc.Study.PassPercent)),
	)
	card := components.CenteredCard(summary, cw)

	notice := components.Notice(s.notice, s.noticeErr)
	reviewHeight := height - lipgloss.Height(card) - 3
	if reviewHeight < 3 {
		reviewHeight = 3
	}
	s.review.SetWidth(cw)
	s.review.SetHeight(reviewHeight)
	s.review.SetContent(s.renderReview(cw))

	content := lipgloss.JoinVertical(lipgloss.Left,
		card,
		theme.Label.Render("Gabarito comentado"),
		s.review.View(),
		notice,
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

// renderReview lists every question with the given answer, the official
// answer and the explanation.
func (s *Screen) renderReview(width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var b strings.Builder
	for i, q := range s.exam.Questions {
		a, ok := s.exam.Answered(i)
		mark := theme.Incorrect.Render("✗")
		if ok && q.IsCorrect(a) {
			mark = theme.Correct.Render("✓")
		}
		b.WriteString(mark + " " + theme.Label.Render(fmt.Sprintf("Questão %d (Foco: Dia %d)", i+1, q.BlockDay)) + "\n")
		b.WriteString(wrap.Render(q.Text) + "\n")

		answer := "Sua resposta: Não respondida"
		if ok {
			answer = "Sua resposta: " + q.Option(a)
		}
		b.WriteString(wrap.Foreground(theme.TextDim).Render(answer) + "\n")
		b.WriteString(wrap.Foreground(theme.Success).Render("Gabarito: "+q.Option(q.Correct)) + "\n")
		b.WriteString(wrap.Italic(true).Foreground(theme.TextDim).Render("Comentário: "+q.Explanation) + "\n\n")
	}
	return b.String()
}
