package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/screens/dashboard"
	"github.com/secandoalei/secando/internal/screens/landing"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	svc    *services.Services
	router *router.Router
	init   tea.Cmd
	width  int
	height int
}

// newAppModel starts on the landing screen, or on the dashboard when a
// session from a previous run is still open.
func newAppModel(ctx context.Context, svc *services.Services, log *zap.Logger) AppModel {
	home := func() screen.Screen { return landing.New(svc) }
	root := home()
	r := router.New(root, log.Named("router"))

	u, err := svc.Accounts.Current(ctx)
	if err != nil {
		log.Warn("restore session", zap.Error(err))
	}
	if u == nil {
		return AppModel{svc: svc, router: r, init: root.Init()}
	}

	svc.SetUser(u)
	return AppModel{svc: svc, router: r, init: r.Push(dashboard.New(svc, home))}
}

func (m AppModel) Init() tea.Cmd {
	return m.init
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok {
				return m, bh.OnBack()
			}
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) hints() []layout.KeyHint {
	if kp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return kp.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Voltar"},
			{Key: "Ctrl+C", Description: "Sair"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Selecionar"},
		{Key: "Ctrl+C", Description: "Sair"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render lays out header, active screen and footer. It is empty until the
// first WindowSizeMsg arrives.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}
	user := ""
	if u := m.svc.User(); u != nil {
		user = u.DisplayName()
	}

	header := layout.RenderHeader(title, user, m.width)
	footer := layout.RenderFooter(m.hints(), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, svc *services.Services, log *zap.Logger) error {
	p := tea.NewProgram(newAppModel(ctx, svc, log), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Erro ao executar o programa:", err)
		return err
	}
	return nil
}
