package planview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/services/servicestest"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func newScreen(t *testing.T) (*Screen, *services.Services) {
	t.Helper()
	svc := servicestest.LoggedIn(t, nil)
	p := servicestest.SamplePlan()
	servicestest.SavePlan(t, svc, p)
	return New(svc, p), svc
}

func pushed(t *testing.T, cmd tea.Cmd) flow.State {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	st, ok := msg.Screen.(screen.Stateful)
	if !ok {
		t.Fatalf("pushed screen %T has no state", msg.Screen)
	}
	return st.State()
}

func TestTabsFollowGroups(t *testing.T) {
	s, _ := newScreen(t)

	view := s.View(100, 40)
	for _, want := range []string{"Parte Geral", "Provimento", "Dia 1 · Disposições Preliminares", "Dia 2 · Do Provimento"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
	if strings.Contains(view, "Dia 3 · Da Posse") {
		t.Error("day 3 belongs to the second tab")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if !strings.Contains(s.View(100, 40), "Dia 3 · Da Posse") {
		t.Error("expected second tab to list day 3")
	}

	// Already on the last tab.
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if s.tab != 1 {
		t.Errorf("expected tab 1, got %d", s.tab)
	}
}

func TestEnterOpensSelectedBlock(t *testing.T) {
	s, _ := newScreen(t)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if got := pushed(t, cmd); got != flow.StudySession {
		t.Errorf("expected study session, got %s", got)
	}
}

func TestMockSetup(t *testing.T) {
	s, _ := newScreen(t)

	_, cmd := s.Update(keyPress('s'))
	if got := pushed(t, cmd); got != flow.MockSetup {
		t.Errorf("expected mock setup, got %s", got)
	}
}

func TestResumeReloadsCompletion(t *testing.T) {
	s, svc := newScreen(t)

	if _, err := svc.Plans.ToggleDay(t.Context(), servicestest.Email, "plan-1", 1); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	s.Update(s.Resume()())

	if !s.plan.IsCompleted(1) {
		t.Fatal("expected reloaded plan with day 1 done")
	}
	if !strings.Contains(s.View(100, 40), "33%") {
		t.Error("expected progress 33% after one of three days")
	}
}

func TestExports(t *testing.T) {
	s, svc := newScreen(t)

	for _, tc := range []struct {
		key  rune
		file string
	}{
		{'p', "Cronograma_Lei_8.112.pdf"},
		{'x', "Cronograma_Lei_8.112.xlsx"},
	} {
		_, cmd := s.Update(keyPress(tc.key))
		s.Update(cmd())

		path := filepath.Join(svc.ExportDir, tc.file)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s on disk: %v", tc.file, err)
		}
		if s.noticeErr || !strings.Contains(s.notice, tc.file) {
			t.Errorf("unexpected notice %q", s.notice)
		}
	}
}
