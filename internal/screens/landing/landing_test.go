package landing

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/services/servicestest"
)

var (
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	down  = tea.KeyPressMsg{Code: tea.KeyDown}
)

func sendTicks(s *Screen, n int) tea.Cmd {
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		_, cmd = s.Update(tickMsg(time.Now()))
	}
	return cmd
}

func containsBanner(view string) bool {
	return strings.Contains(view, "Personal Trainer de Lei Seca")
}

func TestPhaseTransitions(t *testing.T) {
	s := New(servicestest.New(t, nil))

	if containsBanner(s.View(100, 40)) {
		t.Error("banner should not be visible at start")
	}

	sendTicks(s, 5)
	if s.elapsed != 500*time.Millisecond {
		t.Errorf("expected elapsed 500ms, got %v", s.elapsed)
	}

	sendTicks(s, 10)
	if s.elapsed != 1500*time.Millisecond {
		t.Errorf("expected elapsed 1500ms, got %v", s.elapsed)
	}
	view := s.View(100, 40)
	if !containsBanner(view) {
		t.Error("banner should be visible after phase 2")
	}
	if strings.Contains(view, "Começar Agora") {
		t.Error("menu should wait for the intro to end")
	}

	if cmd := sendTicks(s, 11); cmd != nil {
		t.Error("ticking should stop once the intro ends")
	}
	if !s.Ready() {
		t.Fatal("expected intro finished")
	}
	if !strings.Contains(s.View(100, 40), "Começar Agora") {
		t.Error("expected menu after the intro")
	}
}

func TestKeypressSkipsIntro(t *testing.T) {
	s := New(servicestest.New(t, nil))
	sendTicks(s, 3)

	_, cmd := s.Update(enter)
	if cmd != nil {
		t.Error("skipping the intro should not select a menu item")
	}
	if !s.Ready() {
		t.Error("expected intro skipped")
	}
}

func TestBannerFallsBackWhenNarrow(t *testing.T) {
	if !strings.Contains(RenderBanner(40), bannerCompact) {
		t.Error("expected compact banner on narrow terminals")
	}
	if strings.Contains(RenderBanner(100), bannerCompact) {
		t.Error("expected block banner on wide terminals")
	}
	for _, line := range strings.Split(bannerArt, "\n") {
		if w := len([]rune(line)); w >= bannerMinWidth {
			t.Errorf("banner line is %d columns, want < %d", w, bannerMinWidth)
		}
	}
}

func pushedState(t *testing.T, cmd tea.Cmd) flow.State {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	return msg.Screen.(screen.Stateful).State()
}

func TestMenu(t *testing.T) {
	tests := []struct {
		name     string
		loggedIn bool
		downs    int
		want     flow.State
	}{
		{"start anonymous", false, 0, flow.Login},
		{"start with session", true, 0, flow.Dashboard},
		{"methodology", false, 1, flow.Methodology},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newServices := servicestest.New
			if tt.loggedIn {
				newServices = servicestest.LoggedIn
			}
			s := New(newServices(t, nil))
			s.elapsed = totalDur

			for i := 0; i < tt.downs; i++ {
				s.Update(down)
			}
			_, cmd := s.Update(enter)
			if got := pushedState(t, cmd); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestQuitItem(t *testing.T) {
	s := New(servicestest.New(t, nil))
	s.elapsed = totalDur

	s.Update(down)
	s.Update(down)
	_, cmd := s.Update(enter)
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestResumeRestartsIntro(t *testing.T) {
	s := New(servicestest.New(t, nil))
	if s.Resume() == nil {
		t.Error("expected ticks to restart before the intro ran")
	}

	s.elapsed = totalDur
	if s.Resume() != nil {
		t.Error("expected no ticks once the intro finished")
	}
}
