package dashboard

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/plan"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/screens/newplan"
	"github.com/secandoalei/secando/internal/screens/planview"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/ui/components"
	"github.com/secandoalei/secando/internal/ui/layout"
	"github.com/secandoalei/secando/internal/ui/theme"
)

type plansMsg struct {
	Plans []*plan.Plan
	Err   error
}

type deletedMsg struct {
	ID  string
	Err error
}

// Screen lists the user's plans.
type Screen struct {
	svc  *services.Services
	home screen.Factory

	plans    []*plan.Plan
	loaded   bool
	selected int
	confirm  bool
	errMsg   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Stateful = (*Screen)(nil)
var _ screen.Resumer = (*Screen)(nil)
var _ screen.BackHandler = (*Screen)(nil)

// New creates the dashboard. home builds the screen shown after logout.
func New(svc *services.Services, home screen.Factory) *Screen {
	return &Screen{svc: svc, home: home}
}

func (s *Screen) Init() tea.Cmd { return s.load() }

// Resume reloads the list after a plan was created or studied.
func (s *Screen) Resume() tea.Cmd { return s.load() }

func (s *Screen) State() flow.State { return flow.Dashboard }

func (s *Screen) Title() string { return "Meus Projetos" }

func (s *Screen) load() tea.Cmd {
	plans, owner := s.svc.Plans, s.svc.Owner()
	return func() tea.Msg {
		ps, err := plans.List(context.Background(), owner)
		return plansMsg{Plans: ps, Err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case plansMsg:
		s.loaded = true
		if msg.Err != nil {
			s.svc.Log.Error("list plans", zap.Error(msg.Err))
			s.errMsg = "Não foi possível carregar seus projetos."
			return s, nil
		}
		s.plans = msg.Plans
		if s.selected >= len(s.plans) {
			s.selected = max(len(s.plans)-1, 0)
		}
		return s, nil

	case deletedMsg:
		if msg.Err != nil {
			s.svc.Log.Error("delete plan", zap.String("plan", msg.ID), zap.Error(msg.Err))
			s.errMsg = "Não foi possível excluir o projeto."
			return s, nil
		}
		return s, s.load()

	case tea.KeyMsg:
		if s.confirm {
			return s.handleConfirm(msg.String())
		}
		return s.handleKey(msg.String())
	}
	return s, nil
}

func (s *Screen) handleKey(key string) (screen.Screen, tea.Cmd) {
	s.errMsg = ""
	switch key {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.plans)-1 {
			s.selected++
		}
	case "n":
		return s, router.Push(newplan.New(s.svc))
	case "enter":
		if p := s.current(); p != nil {
			return s, router.Push(planview.New(s.svc, p))
		}
	case "d":
		if s.current() != nil {
			s.confirm = true
		}
	case "L":
		return s, s.logout()
	}
	return s, nil
}

func (s *Screen) handleConfirm(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "s", "y", "enter":
		s.confirm = false
		return s, s.delete(s.current())
	case "n", "esc":
		s.confirm = false
	}
	return s, nil
}

func (s *Screen) current() *plan.Plan {
	if s.selected < 0 || s.selected >= len(s.plans) {
		return nil
	}
	return s.plans[s.selected]
}

func (s *Screen) delete(p *plan.Plan) tea.Cmd {
	plans, owner, id := s.svc.Plans, s.svc.Owner(), p.ID
	return func() tea.Msg {
		return deletedMsg{ID: id, Err: plans.Delete(context.Background(), owner, id)}
	}
}

func (s *Screen) logout() tea.Cmd {
	if err := s.svc.Accounts.LogOut(context.Background()); err != nil {
		s.svc.Log.Error("logout", zap.Error(err))
		s.errMsg = "Não foi possível sair."
		return nil
	}
	s.svc.SetUser(nil)
	return router.Reset(s.home())
}

// OnBack closes the delete prompt, otherwise returns to the landing page
// with the session kept.
func (s *Screen) OnBack() tea.Cmd {
	if s.confirm {
		s.confirm = false
		return nil
	}
	return router.PopTo(flow.Landing)
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	name := ""
	if u := s.svc.User(); u != nil {
		name = u.DisplayName()
	}
	head := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("Olá, "+name+"!"),
		theme.Subtitle.Render("Seus projetos de estudo"),
		"",
	)

	var body string
	switch {
	case !s.loaded:
		body = theme.Hint.Render("Carregando...")
	case len(s.plans) == 0:
		body = components.CenteredCard(lipgloss.JoinVertical(lipgloss.Center,
			theme.Label.Render("Nenhum projeto ainda."),
			theme.Hint.Render("Pressione N para criar seu primeiro cronograma."),
		), cw)
	default:
		body = s.renderPlans(cw, height-lipgloss.Height(head)-4)
	}

	sections := []string{head, body}
	switch {
	case s.confirm:
		p := s.current()
		sections = append(sections, "", theme.ErrorText.Render(
			fmt.Sprintf("Excluir o projeto %q? Esta ação não pode ser desfeita. (s/n)", p.Name)))
	case s.errMsg != "":
		sections = append(sections, "", theme.ErrorText.Render(s.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

// renderPlans draws one card per plan, windowed around the cursor.
func (s *Screen) renderPlans(cw, height int) string {
	const cardHeight = 7
	perPage := max(height/cardHeight, 1)
	start := 0
	if s.selected >= perPage {
		start = s.selected - perPage + 1
	}
	end := min(start+perPage, len(s.plans))

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		p := s.plans[i]
		titleStyle := theme.Unselected
		border := theme.Border
		if i == s.selected {
			titleStyle = theme.Selected
			border = theme.Primary
		}
		bar := components.PlanProgress(p.ProgressPercent(), cw-8)
		bar.Label = fmt.Sprintf("%d/%d dias", len(p.CompletedDays), p.TotalDays)
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(p.Name),
			theme.Hint.Render(p.LawTitle),
			bar.View(),
		)
		cards = append(cards, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Width(cw-2).
			Padding(0, 2).
			Render(content))
	}
	if len(s.plans) > perPage {
		cards = append(cards, theme.Hint.Render(fmt.Sprintf("%d de %d projetos", s.selected+1, len(s.plans))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.confirm {
		return []layout.KeyHint{
			{Key: "S", Description: "Excluir"},
			{Key: "N", Description: "Cancelar"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Abrir"},
		{Key: "N", Description: "Novo projeto"},
		{Key: "D", Description: "Excluir"},
		{Key: "Shift+L", Description: "Sair da conta"},
	}
}
