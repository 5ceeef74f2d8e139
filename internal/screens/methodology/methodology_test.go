package methodology

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/services/servicestest"
)

func TestStartFollowsSession(t *testing.T) {
	tests := []struct {
		name     string
		loggedIn bool
		want     flow.State
	}{
		{"anonymous", false, flow.Login},
		{"logged in", true, flow.Dashboard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newServices := servicestest.New
			if tt.loggedIn {
				newServices = servicestest.LoggedIn
			}
			svc := newServices(t, nil)
			s := New(svc, nil)

			_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
			msg, ok := cmd().(router.ReplaceScreenMsg)
			if !ok {
				t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
			}
			if got := msg.Screen.(screen.Stateful).State(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestContent(t *testing.T) {
	s := New(servicestest.New(t, nil), nil)

	view := s.View(100, 60)
	for _, want := range []string{"Fragmentação Inteligente", "Leitura e Aplicação", "Reforço Imediato", "Começar Agora"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}
