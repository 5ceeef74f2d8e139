package mocksetup

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/plan"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/screens/mockexam"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/ui/components"
	"github.com/secandoalei/secando/internal/ui/layout"
	"github.com/secandoalei/secando/internal/ui/theme"
)

// Screen lets the user pick which blocks a mock exam covers.
type Screen struct {
	svc    *services.Services
	plan   *plan.Plan
	list   components.Checklist
	errMsg string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Stateful = (*Screen)(nil)

// New creates the selection screen with every block of p checked.
func New(svc *services.Services, p *plan.Plan) *Screen {
	items := make([]string, len(p.Blocks))
	for i, b := range p.Blocks {
		items[i] = fmt.Sprintf("Dia %d · %s", b.Day, b.Title)
	}
	return &Screen{svc: svc, plan: p, list: components.NewChecklist(items)}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) State() flow.State { return flow.MockSetup }

func (s *Screen) Title() string { return "Configurar Simulado" }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "a":
		s.list.SetAll(true)
		s.errMsg = ""
		return s, nil
	case "c":
		s.list.SetAll(false)
		return s, nil
	case "enter":
		return s, s.start()
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	if s.list.Count() > 0 {
		s.errMsg = ""
	}
	return s, cmd
}

func (s *Screen) start() tea.Cmd {
	if _, err := flow.StartMock(s.list.Count()); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	return router.Replace(mockexam.New(s.svc, s.plan, s.Selected()))
}

// Selected returns the checked blocks in plan order.
func (s *Screen) Selected() []plan.Block {
	var out []plan.Block
	for _, i := range s.list.CheckedIndexes() {
		out = append(out, s.plan.Blocks[i])
	}
	return out
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	title := theme.Title.Render("Configurar Simulado")
	sub := theme.Subtitle.Render(fmt.Sprintf("%s · %d de %d blocos selecionados",
		s.plan.Name, s.list.Count(), len(s.plan.Blocks)))

	listHeight := height - 10
	if listHeight < 3 {
		listHeight = 3
	}
	card := components.Card(s.list.View(listHeight), cw)

	sections := []string{title, sub, "", card}
	if s.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(s.errMsg))
	} else {
		sections = append(sections, theme.Hint.Render("As questões indicam o dia de origem de cada tema."))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Espaço", Description: "Marcar"},
		{Key: "A", Description: "Todos"},
		{Key: "C", Description: "Nenhum"},
		{Key: "Enter", Description: "Iniciar"},
		{Key: "Esc", Description: "Voltar"},
	}
}
