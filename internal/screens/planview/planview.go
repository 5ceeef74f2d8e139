package planview

import (
	"context"
	"fmt"
	"io"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/export"
	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/plan"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/screens/mocksetup"
	"github.com/secandoalei/secando/internal/screens/study"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/ui/components"
	"github.com/secandoalei/secando/internal/ui/layout"
	"github.com/secandoalei/secando/internal/ui/theme"
)

type reloadedMsg struct {
	Plan *plan.Plan
	Err  error
}

type exportedMsg struct {
	Path string
	Err  error
}

// Screen shows a plan's blocks grouped in tabs.
type Screen struct {
	svc  *services.Services
	plan *plan.Plan

	groups   []string
	tab      int
	selected int

	notice    string
	noticeErr bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Stateful = (*Screen)(nil)
var _ screen.Resumer = (*Screen)(nil)

// New creates the plan screen for p.
func New(svc *services.Services, p *plan.Plan) *Screen {
	return &Screen{svc: svc, plan: p, groups: p.Groups()}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) State() flow.State { return flow.PlanView }

func (s *Screen) Title() string { return s.plan.Name }

// Resume reloads the plan, picking up days toggled in the study screen.
func (s *Screen) Resume() tea.Cmd {
	plans, owner, id := s.svc.Plans, s.svc.Owner(), s.plan.ID
	return func() tea.Msg {
		p, err := plans.Get(context.Background(), owner, id)
		return reloadedMsg{Plan: p, Err: err}
	}
}

// blocks returns the blocks of the active tab.
func (s *Screen) blocks() []plan.Block {
	return s.plan.BlocksIn(s.groups[s.tab])
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reloadedMsg:
		if msg.Err != nil {
			s.svc.Log.Warn("reload plan", zap.String("plan", s.plan.ID), zap.Error(msg.Err))
			return s, nil
		}
		s.plan = msg.Plan
		s.groups = msg.Plan.Groups()
		if s.tab >= len(s.groups) {
			s.tab = 0
			s.selected = 0
		}
		return s, nil

	case exportedMsg:
		if msg.Err != nil {
			s.svc.Log.Error("export plan", zap.String("plan", s.plan.ID), zap.Error(msg.Err))
			s.notice, s.noticeErr = "Não foi possível exportar o cronograma.", true
		} else {
			s.notice, s.noticeErr = "Cronograma salvo em "+msg.Path, false
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	blocks := s.blocks()
	switch msg.String() {
	case "left", "h":
		if s.tab > 0 {
			s.tab--
			s.selected = 0
		}
	case "right", "l", "tab":
		if s.tab < len(s.groups)-1 {
			s.tab++
			s.selected = 0
		}
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(blocks)-1 {
			s.selected++
		}
	case "enter":
		if len(blocks) > 0 {
			return s, router.Push(study.New(s.svc, s.plan, blocks[s.selected]))
		}
	case "s":
		return s, router.Push(mocksetup.New(s.svc, s.plan))
	case "p":
		return s, s.export(export.PlanFilename(s.plan), export.WritePlanPDF)
	case "x":
		return s, s.export(export.PlanXLSXFilename(s.plan), export.WritePlanXLSX)
	}
	return s, nil
}

func (s *Screen) export(name string, write func(io.Writer, *plan.Plan) error) tea.Cmd {
	path, p := s.svc.ExportPath(name), s.plan
	return func() tea.Msg {
		err := export.WriteFile(path, func(w io.Writer) error { return write(w, p) })
		return exportedMsg{Path: path, Err: err}
	}
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	head := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render(s.plan.Name),
		theme.Subtitle.Render(s.plan.LawTitle),
		theme.Hint.Render(fmt.Sprintf("Cronograma de %d dias gerado por IA", s.plan.TotalDays)),
		"",
		components.PlanProgress(s.plan.ProgressPercent(), cw).View(),
		"",
		s.renderTabs(cw),
	)

	listHeight := height - lipgloss.Height(head) - 5
	if listHeight < 3 {
		listHeight = 3
	}
	sections := []string{head, components.Card(s.renderBlocks(cw-6, listHeight), cw)}
	if s.notice != "" {
		sections = append(sections, components.Notice(s.notice, s.noticeErr))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func (s *Screen) renderTabs(width int) string {
	tabs := make([]string, len(s.groups))
	for i, g := range s.groups {
		if i == s.tab {
			tabs[i] = theme.TabActive.Render(g)
		} else {
			tabs[i] = theme.TabInactive.Render(g)
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderBlocks lists the active tab's blocks, two lines each, windowed
// around the cursor.
func (s *Screen) renderBlocks(width, height int) string {
	blocks := s.blocks()
	if len(blocks) == 0 {
		return theme.Hint.Render("Nenhum bloco neste grupo.")
	}

	perPage := height / 2
	if perPage < 1 {
		perPage = 1
	}
	start := 0
	if s.selected >= perPage {
		start = s.selected - perPage + 1
	}
	end := min(start+perPage, len(blocks))

	var rows []string
	for i := start; i < end; i++ {
		b := blocks[i]
		mark := theme.Hint.Render("○")
		if s.plan.IsCompleted(b.Day) {
			mark = theme.Done.Render("✓")
		}
		titleStyle := theme.Unselected
		cursor := "  "
		if i == s.selected {
			titleStyle = theme.Selected
			cursor = "▸ "
		}
		title := titleStyle.Render(fmt.Sprintf("%sDia %d · %s", cursor, b.Day, b.Title))
		rows = append(rows,
			lipgloss.NewStyle().MaxWidth(width).Render(mark+" "+title),
			lipgloss.NewStyle().MaxWidth(width).Render("     "+theme.Hint.Render("Foco: "+b.Articles)),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Grupos"},
		{Key: "↑↓", Description: "Blocos"},
		{Key: "Enter", Description: "Estudar"},
		{Key: "S", Description: "Simulado"},
		{Key: "P", Description: "PDF"},
		{Key: "X", Description: "Planilha"},
		{Key: "Esc", Description: "Painel"},
	}
}
