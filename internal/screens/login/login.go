package login

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/account"
	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/screens/dashboard"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/ui/components"
	"github.com/secandoalei/secando/internal/ui/layout"
	"github.com/secandoalei/secando/internal/ui/theme"
)

type mode int

const (
	modeLogin mode = iota
	modeSignUp
)

type authMsg struct {
	User *account.User
	Err  error
}

// Screen signs a user in or up.
type Screen struct {
	svc  *services.Services
	home screen.Factory

	mode     mode
	name     components.TextInput
	email    components.TextInput
	password components.TextInput
	focus    int
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Stateful = (*Screen)(nil)

// New creates the login form. home is handed to the dashboard for logout.
func New(svc *services.Services, home screen.Factory) *Screen {
	return &Screen{
		svc:      svc,
		home:     home,
		name:     components.NewTextInput("Nome", "Como quer ser chamado", false, 80),
		email:    components.NewTextInput("E-mail", "voce@exemplo.com", false, 254),
		password: components.NewPasswordInput("Senha", "mínimo 4 caracteres"),
	}
}

func (s *Screen) Init() tea.Cmd { return s.setFocus(0) }

func (s *Screen) State() flow.State { return flow.Login }

func (s *Screen) Title() string {
	if s.mode == modeSignUp {
		return "Criar Conta"
	}
	return "Entrar"
}

// fields returns the inputs of the current mode in tab order.
func (s *Screen) fields() []*components.TextInput {
	if s.mode == modeSignUp {
		return []*components.TextInput{&s.name, &s.email, &s.password}
	}
	return []*components.TextInput{&s.email, &s.password}
}

func (s *Screen) setFocus(i int) tea.Cmd {
	s.name.Blur()
	s.email.Blur()
	s.password.Blur()
	fields := s.fields()
	s.focus = (i + len(fields)) % len(fields)
	return fields[s.focus].Focus()
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = s.describe(msg.Err)
			return s, nil
		}
		s.svc.SetUser(msg.User)
		return s, router.Replace(dashboard.New(s.svc, s.home))

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "ctrl+t":
			if s.mode == modeLogin {
				s.mode = modeSignUp
			} else {
				s.mode = modeLogin
			}
			s.errMsg = ""
			return s, s.setFocus(0)
		case "tab", "down":
			return s, s.setFocus(s.focus + 1)
		case "shift+tab", "up":
			return s, s.setFocus(s.focus - 1)
		case "enter":
			if s.focus < len(s.fields())-1 {
				return s, s.setFocus(s.focus + 1)
			}
			return s, s.submit()
		}

		f := s.fields()[s.focus]
		var cmd tea.Cmd
		*f, cmd = f.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) submit() tea.Cmd {
	s.busy = true
	s.errMsg = ""
	accounts := s.svc.Accounts
	email, password, name, signUp := s.email.Value(), s.password.Value(), s.name.Value(), s.mode == modeSignUp
	return func() tea.Msg {
		ctx := context.Background()
		var (
			u   *account.User
			err error
		)
		if signUp {
			u, err = accounts.SignUp(ctx, email, name, password)
		} else {
			u, err = accounts.LogIn(ctx, email, password)
		}
		return authMsg{User: u, Err: err}
	}
}

func (s *Screen) describe(err error) string {
	for _, known := range []error{account.ErrInvalidCredentials, account.ErrEmailTaken, account.ErrInvalidInput} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	s.svc.Log.Error("authentication failed", zap.Error(err))
	return "Erro ao acessar. Tente novamente."
}

func (s *Screen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 60)
	for _, f := range s.fields() {
		f.SetWidth(cw - 12)
	}

	loginTab, signUpTab := theme.TabActive, theme.TabInactive
	if s.mode == modeSignUp {
		loginTab, signUpTab = theme.TabInactive, theme.TabActive
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, loginTab.Render("Entrar"), " ", signUpTab.Render("Criar Conta"))

	rows := []string{tabs, ""}
	for _, f := range s.fields() {
		rows = append(rows, f.View(), "")
	}

	action := "Entrar"
	if s.mode == modeSignUp {
		action = "Cadastrar"
	}
	if s.busy {
		action = "Aguarde..."
	}
	rows = append(rows, components.Button(action, s.focus == len(s.fields())-1, cw-8))
	if s.errMsg != "" {
		rows = append(rows, "", theme.ErrorText.Render(s.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("Secando a Lei"),
		theme.Subtitle.Render("Sua aprovação começa na letra da lei."),
		"",
		components.Card(lipgloss.JoinVertical(lipgloss.Left, rows...), cw),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	toggle := "Criar conta"
	if s.mode == modeSignUp {
		toggle = "Já tenho conta"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Próximo campo"},
		{Key: "Enter", Description: "Confirmar"},
		{Key: "Ctrl+T", Description: toggle},
		{Key: "Esc", Description: "Voltar"},
	}
}
