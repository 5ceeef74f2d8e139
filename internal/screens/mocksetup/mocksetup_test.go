package mocksetup

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/services/servicestest"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestAllBlocksSelectedByDefault(t *testing.T) {
	s := New(servicestest.New(t, nil), servicestest.SamplePlan())

	if got := len(s.Selected()); got != 3 {
		t.Errorf("expected 3 selected blocks, got %d", got)
	}
	if !strings.Contains(s.View(100, 30), "3 de 3 blocos selecionados") {
		t.Error("expected selection counter in view")
	}
}

func TestToggleSelection(t *testing.T) {
	s := New(servicestest.New(t, nil), servicestest.SamplePlan())

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeySpace})

	sel := s.Selected()
	if len(sel) != 2 {
		t.Fatalf("expected 2 selected blocks, got %d", len(sel))
	}
	if sel[0].Day != 1 || sel[1].Day != 3 {
		t.Errorf("expected days 1 and 3, got %d and %d", sel[0].Day, sel[1].Day)
	}
}

func TestStartWithEmptySelectionShowsError(t *testing.T) {
	s := New(servicestest.New(t, nil), servicestest.SamplePlan())

	s.Update(keyPress('c'))
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if cmd != nil {
		t.Error("expected no navigation with an empty selection")
	}
	if s.errMsg != flow.ErrEmptySelection.Error() {
		t.Errorf("unexpected error %q", s.errMsg)
	}

	s.Update(keyPress('a'))
	if s.errMsg != "" {
		t.Error("selecting blocks should clear the error")
	}
}

func TestStartReplacesWithExam(t *testing.T) {
	s := New(servicestest.New(t, nil), servicestest.SamplePlan())

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	st, ok := msg.Screen.(screen.Stateful)
	if !ok || st.State() != flow.MockRunning {
		t.Errorf("expected the mock exam screen, got %T", msg.Screen)
	}
}
