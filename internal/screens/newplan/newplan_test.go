package newplan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/llm"
	"github.com/secandoalei/secando/internal/plan"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/services/servicestest"
)

const planJSON = `{
	"lawTitle": "Lei nº 8.112/90",
	"totalDays": 2,
	"blocks": [
		{"day": 1, "title": "Provimento", "articles": "Arts. 1º a 10", "summary": "Cargos e provimento.", "group": "Parte Geral"},
		{"day": 2, "title": "Posse", "articles": "Arts. 11 a 20", "summary": "Posse e exercício.", "group": "Parte Geral"}
	]
}`

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

var (
	tab   = tea.KeyPressMsg{Code: tea.KeyTab}
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	ctrlS = tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	ctrlX = tea.KeyPressMsg{Code: 'x', Mod: tea.ModCtrl}
)

func typeText(s *Screen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

// created runs the submit command and returns its result, skipping the
// spinner tick.
func created(t *testing.T, cmd tea.Cmd) createdMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	for _, c := range cmd().(tea.BatchMsg) {
		if m, ok := c().(createdMsg); ok {
			return m
		}
	}
	t.Fatal("no createdMsg produced")
	return createdMsg{}
}

func TestDefaultDays(t *testing.T) {
	s := New(servicestest.LoggedIn(t, nil))
	if s.days.Value() != "15" {
		t.Errorf("expected 15 default days, got %q", s.days.Value())
	}
}

func TestFocusCycle(t *testing.T) {
	s := New(servicestest.LoggedIn(t, nil))
	s.Init()

	typeText(s, "TRF")
	s.Update(tab)
	if s.focus != fieldDays {
		t.Fatalf("expected days field, got %d", s.focus)
	}
	// Letters are dropped by the numeric field.
	typeText(s, "x0")
	if s.days.Value() != "150" {
		t.Errorf("expected numeric-only input, got %q", s.days.Value())
	}

	s.Update(tab)
	s.Update(tab)
	s.Update(tab)
	if s.focus != fieldName {
		t.Errorf("expected focus to wrap to the name, got %d", s.focus)
	}
	if s.name.Value() != "TRF" {
		t.Errorf("unexpected name %q", s.name.Value())
	}
}

func TestSubmitRejectsEmptyMaterial(t *testing.T) {
	s := New(servicestest.LoggedIn(t, llm.NewMockProvider()))
	s.Init()
	typeText(s, "TRF")

	_, cmd := s.Update(ctrlS)

	if cmd != nil {
		t.Error("expected no generation without material")
	}
	if s.errMsg != plan.ErrInvalidRequest.Error() {
		t.Errorf("unexpected error %q", s.errMsg)
	}
}

func TestSubmitWithoutProvider(t *testing.T) {
	s := New(servicestest.LoggedIn(t, nil))
	s.Init()
	typeText(s, "TRF")
	s.text.SetValue("Art. 1º Esta Lei institui o Regime Jurídico.")

	_, cmd := s.Update(ctrlS)

	if cmd != nil {
		t.Error("expected no generation without a provider")
	}
	if s.errMsg != services.ErrAIUnavailable.Error() {
		t.Errorf("unexpected error %q", s.errMsg)
	}
}

func TestSubmitCreatesPlan(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(planJSON)})
	svc := servicestest.LoggedIn(t, mock)
	s := New(svc)
	s.Init()
	typeText(s, "TRF Analista")
	s.days.SetValue("2")
	s.text.SetValue("Art. 1º Esta Lei institui o Regime Jurídico.")

	_, cmd := s.Update(ctrlS)
	if !s.generating {
		t.Fatal("expected generating state")
	}
	if !strings.Contains(s.View(100, 40), "montando seu cronograma") {
		t.Error("expected loading view")
	}

	_, next := s.Update(created(t, cmd))
	msg, ok := next().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", next())
	}
	if st := msg.Screen.(screen.Stateful).State(); st != flow.PlanView {
		t.Errorf("expected plan view, got %s", st)
	}

	plans, err := svc.Plans.List(context.Background(), servicestest.Email)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(plans) != 1 || plans[0].Name != "TRF Analista" {
		t.Errorf("expected stored plan, got %+v", plans)
	}
}

func TestAttachments(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "lei.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(servicestest.LoggedIn(t, nil))
	s.setFocus(fieldFile)

	s.file.SetValue(filepath.Join(dir, "faltando.pdf"))
	s.Update(enter)
	if !strings.Contains(s.errMsg, "não encontrado") {
		t.Errorf("expected missing-file error, got %q", s.errMsg)
	}

	s.file.SetValue(pdf)
	s.Update(enter)
	if len(s.paths) != 1 || s.errMsg != "" {
		t.Fatalf("expected one attachment, got %v (%q)", s.paths, s.errMsg)
	}
	if !strings.Contains(s.View(100, 50), "lei.pdf") {
		t.Error("expected attachment listed")
	}

	s.Update(ctrlX)
	if len(s.paths) != 0 {
		t.Errorf("expected attachment removed, got %v", s.paths)
	}
}

func TestDescribeErrors(t *testing.T) {
	s := New(servicestest.LoggedIn(t, nil))

	cases := []struct {
		err  error
		want string
	}{
		{plan.ErrInvalidRequest, plan.ErrInvalidRequest.Error()},
		{&plan.ErrUnsupportedFile{Path: "/tmp/lei.docx", MIMEType: "application/zip"}, "Arquivo não suportado (use PDF ou imagem): lei.docx"},
		{context.Canceled, "Geração cancelada."},
		{errors.New("LLM generation failed: boom"), genericError},
	}
	for _, tc := range cases {
		if got := s.describe(tc.err); got != tc.want {
			t.Errorf("describe(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestOnBackCancelsGeneration(t *testing.T) {
	s := New(servicestest.LoggedIn(t, nil))

	canceled := false
	s.generating = true
	s.cancel = func() { canceled = true }
	if cmd := s.OnBack(); cmd != nil {
		t.Error("expected to stay on the form while canceling")
	}
	if !canceled {
		t.Error("expected generation canceled")
	}

	s.generating = false
	if _, ok := s.OnBack()().(router.PopScreenMsg); !ok {
		t.Error("expected Esc to leave the idle form")
	}
}
