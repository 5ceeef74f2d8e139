package newplan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/plan"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/screens/planview"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/ui/components"
	"github.com/secandoalei/secando/internal/ui/layout"
	"github.com/secandoalei/secando/internal/ui/theme"
)

type field int

const (
	fieldName field = iota
	fieldDays
	fieldText
	fieldFile
	fieldCount
)

// genericError is shown for any failure that has no message of its own.
const genericError = "Erro ao processar lei."

type createdMsg struct {
	Plan *plan.Plan
	Err  error
}

// Screen collects the plan name, length and law material and asks the AI
// for the plan.
type Screen struct {
	svc *services.Services

	name  components.TextInput
	days  components.TextInput
	text  textarea.Model
	file  components.TextInput
	paths []string
	focus field

	generating bool
	spinner    spinner.Model
	cancel     context.CancelFunc
	errMsg     string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Stateful = (*Screen)(nil)
var _ screen.BackHandler = (*Screen)(nil)

// New creates the form with the configured default plan length.
func New(svc *services.Services) *Screen {
	ta := textarea.New()
	ta.Placeholder = "Cole aqui o texto da lei..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0

	s := &Screen{
		svc:     svc,
		name:    components.NewTextInput("Nome do projeto", "ex.: TRF Analista Judiciário", false, 120),
		days:    components.NewTextInput(fmt.Sprintf("Dias de estudo (1-%d)", svc.Study.MaxDays), "15", true, 3),
		text:    ta,
		file:    components.NewTextInput("Anexar PDF ou imagem (caminho + Enter)", "~/Downloads/lei.pdf", false, 0),
		spinner: components.NewSpinner(),
	}
	s.days.SetValue(strconv.Itoa(svc.Study.DefaultDays))
	return s
}

func (s *Screen) Init() tea.Cmd { return s.name.Focus() }

func (s *Screen) State() flow.State { return flow.Config }

func (s *Screen) Title() string { return "Novo Projeto" }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case createdMsg:
		s.generating = false
		if msg.Err != nil {
			s.errMsg = s.describe(msg.Err)
			return s, nil
		}
		return s, router.Replace(planview.New(s.svc, msg.Plan))

	case spinner.TickMsg:
		if !s.generating {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.generating {
			return s, nil
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return s, s.setFocus((s.focus + 1) % fieldCount)
	case "shift+tab":
		return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
	case "ctrl+s":
		return s, s.submit()
	case "ctrl+x":
		if n := len(s.paths); n > 0 {
			s.paths = s.paths[:n-1]
		}
		return s, nil
	case "enter":
		switch s.focus {
		case fieldFile:
			s.addPath()
			return s, nil
		case fieldName, fieldDays:
			return s, s.setFocus(s.focus + 1)
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case fieldName:
		s.name, cmd = s.name.Update(msg)
	case fieldDays:
		s.days, cmd = s.days.Update(msg)
	case fieldText:
		s.text, cmd = s.text.Update(msg)
	case fieldFile:
		s.file, cmd = s.file.Update(msg)
	}
	return s, cmd
}

func (s *Screen) setFocus(f field) tea.Cmd {
	s.name.Blur()
	s.days.Blur()
	s.text.Blur()
	s.file.Blur()
	s.focus = f
	switch f {
	case fieldName:
		return s.name.Focus()
	case fieldDays:
		return s.days.Focus()
	case fieldText:
		return s.text.Focus()
	default:
		return s.file.Focus()
	}
}

func (s *Screen) addPath() {
	path := strings.TrimSpace(s.file.Value())
	if path == "" {
		return
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	info, err := os.Stat(path)
	switch {
	case err != nil:
		s.errMsg = "Arquivo não encontrado: " + path
		return
	case info.IsDir():
		s.errMsg = "Selecione um arquivo, não uma pasta."
		return
	}
	s.paths = append(s.paths, path)
	s.file.SetValue("")
	s.errMsg = ""
}

// request builds the plan request from the form, without attachments.
func (s *Screen) request() plan.Request {
	days, err := s.days.NumericValue()
	if err != nil {
		days = 0
	}
	return plan.Request{
		Owner:  s.svc.Owner(),
		Name:   strings.TrimSpace(s.name.Value()),
		Days:   days,
		Source: plan.Source{Text: s.text.Value()},
	}
}

func (s *Screen) submit() tea.Cmd {
	req := s.request()
	paths := append([]string(nil), s.paths...)

	// Attachments are only read at submit, so a request that has files but
	// no text is checked with a placeholder source.
	check := req
	if len(paths) > 0 {
		check.Source.Text = "anexos"
	}
	if err := plan.ValidateRequest(check, s.svc.Study.MaxDays); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	if !s.svc.AIEnabled() {
		s.errMsg = services.ErrAIUnavailable.Error()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.generating = true
	s.errMsg = ""

	plans := s.svc.Plans
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		defer cancel()
		if len(paths) > 0 {
			atts, err := plan.LoadAttachments(ctx, paths)
			if err != nil {
				return createdMsg{Err: err}
			}
			req.Source.Attachments = atts
		}
		p, err := plans.Create(ctx, req)
		return createdMsg{Plan: p, Err: err}
	})
}

// describe turns a creation error into the line shown under the form.
func (s *Screen) describe(err error) string {
	var unsupported *plan.ErrUnsupportedFile
	switch {
	case errors.Is(err, plan.ErrInvalidRequest), errors.Is(err, services.ErrAIUnavailable):
		return err.Error()
	case errors.As(err, &unsupported):
		return "Arquivo não suportado (use PDF ou imagem): " + filepath.Base(unsupported.Path)
	case errors.Is(err, context.Canceled):
		return "Geração cancelada."
	}
	s.svc.Log.Error("plan creation failed", zap.Error(err))
	return genericError
}

// OnBack cancels a running generation, otherwise leaves the form.
func (s *Screen) OnBack() tea.Cmd {
	if s.generating {
		if s.cancel != nil {
			s.cancel()
		}
		return nil
	}
	return router.Pop()
}

func (s *Screen) View(width, height int) string {
	if s.generating {
		return components.Loading(width, height, s.spinner.View(),
			"O Cérebro IA está lendo a lei e montando seu cronograma...")
	}

	cw := components.ContentWidth(width)
	inner := cw - 6
	s.name.SetWidth(inner - 4)
	s.days.SetWidth(6)
	s.file.SetWidth(inner - 4)
	s.text.SetWidth(inner)
	textHeight := height - 24
	if textHeight < 3 {
		textHeight = 3
	}
	if textHeight > 12 {
		textHeight = 12
	}
	s.text.SetHeight(textHeight)

	textLabel := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.focus == fieldText {
		textLabel = textLabel.Foreground(theme.Accent).Bold(true)
	}

	files := theme.Hint.Render("Nenhum arquivo anexado.")
	if len(s.paths) > 0 {
		lines := make([]string, len(s.paths))
		for i, p := range s.paths {
			lines[i] = lipgloss.NewStyle().Foreground(theme.Success).Render("📎 " + filepath.Base(p))
		}
		files = strings.Join(lines, "\n")
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.name.View(),
		"",
		s.days.View(),
		"",
		textLabel.Render("Texto da lei"),
		s.text.View(),
		"",
		s.file.View(),
		files,
	)

	sections := []string{
		theme.Title.Render("Novo Projeto de Estudo"),
		theme.Subtitle.Render("Envie o texto, PDF ou fotos da lei e a IA divide em blocos diários."),
		"",
		components.Card(form, cw),
	}
	if s.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Foreground(theme.Error).Render(s.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.generating {
		return []layout.KeyHint{{Key: "Esc", Description: "Cancelar"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Próximo campo"},
		{Key: "Enter", Description: "Anexar"},
		{Key: "Ctrl+X", Description: "Remover anexo"},
		{Key: "Ctrl+S", Description: "Gerar cronograma"},
		{Key: "Esc", Description: "Voltar"},
	}
}
