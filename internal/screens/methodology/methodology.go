package methodology

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/screens/dashboard"
	"github.com/secandoalei/secando/internal/screens/login"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/ui/components"
	"github.com/secandoalei/secando/internal/ui/layout"
	"github.com/secandoalei/secando/internal/ui/theme"
)

// Start returns the screen "Começar Agora" leads to: the dashboard with
// an open session, the login form otherwise.
func Start(svc *services.Services, from flow.State, home screen.Factory) screen.Screen {
	next, err := flow.Next(from, flow.EventStart, svc.User() != nil)
	if err != nil {
		svc.Log.Warn("start from unexpected state", zap.Stringer("state", from), zap.Error(err))
	}
	if next == flow.Dashboard {
		return dashboard.New(svc, home)
	}
	return login.New(svc, home)
}

type section struct {
	icon, title, body string
}

var pillars = []section{
	{"🧩", "Fragmentação Inteligente",
		"Não adianta ler 100 artigos de uma vez e esquecer os 90 primeiros. O sistema divide a lei em blocos lógicos baseados no seu prazo."},
	{"📖", "Leitura e Aplicação",
		"A melhor forma de fixar a lei seca é o contato direto. Você estuda, por exemplo, do Art. 1º ao 10 e, logo após a leitura, resolve questões focadas nesse intervalo."},
	{"🏗️", "Reforço Imediato",
		"Fazer questões logo após a leitura fecha o ciclo de aprendizagem e transforma a memória de curto prazo em conhecimento consolidado."},
}

const (
	intro = "Muitos alunos se perdem sem saber quando fazer questões: se esperam terminar toda a legislação ou se fazem aos poucos. " +
		"O segredo está na fragmentação e na aplicação imediata."
	system = "O Secando a Lei automatiza esse processo para que você não perca tempo organizando planilhas ou procurando questões perdidas. " +
		"Você insere a legislação e o prazo; nós entregamos o cronograma, os resumos e as questões por artigo."
)

// Screen explains the study method.
type Screen struct {
	svc  *services.Services
	home screen.Factory
	vp   viewport.Model
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Stateful = (*Screen)(nil)

// New creates the methodology screen.
func New(svc *services.Services, home screen.Factory) *Screen {
	return &Screen{svc: svc, home: home, vp: viewport.New()}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) State() flow.State { return flow.Methodology }

func (s *Screen) Title() string { return "Metodologia" }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return s, router.Replace(Start(s.svc, flow.Methodology, s.home))
	}
	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

func (s *Screen) content(width int) string {
	wrap := lipgloss.NewStyle().Width(width).Foreground(theme.Text)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Por que o \"Secando a Lei\" funciona?") + "\n\n")
	b.WriteString(wrap.Render(intro) + "\n\n")
	b.WriteString(theme.Subtitle.Render("O ciclo de Estudo Ativo Segmentado:") + "\n\n")
	for _, p := range pillars {
		b.WriteString(theme.Label.Render(p.icon+"  "+p.title) + "\n")
		b.WriteString(wrap.Foreground(theme.TextDim).Render(p.body) + "\n\n")
	}
	b.WriteString(theme.Title.Render("O Que o Nosso Sistema Faz por Você?") + "\n\n")
	b.WriteString(wrap.Render(system))
	return b.String()
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	button := components.Button("Começar Agora 🚀", true, 30)

	vh := height - lipgloss.Height(button) - 2
	if vh < 3 {
		vh = 3
	}
	s.vp.SetWidth(cw)
	s.vp.SetHeight(vh)
	s.vp.SetContent(s.content(cw))

	content := lipgloss.JoinVertical(lipgloss.Center, s.vp.View(), "", button)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Rolar"},
		{Key: "Enter", Description: "Começar Agora"},
		{Key: "Esc", Description: "Voltar"},
	}
}
