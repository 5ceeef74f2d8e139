package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/services/servicestest"
)

type homeStub struct{}

func (homeStub) Init() tea.Cmd                              { return nil }
func (h homeStub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return h, nil }
func (homeStub) View(int, int) string                       { return "home" }
func (homeStub) Title() string                              { return "home" }
func (homeStub) State() flow.State                          { return flow.Landing }

func home() screen.Screen { return homeStub{} }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func loaded(t *testing.T, svc *services.Services) *Screen {
	t.Helper()
	s := New(svc, home)
	s.Update(s.Init()())
	return s
}

func withTwoPlans(t *testing.T) *services.Services {
	t.Helper()
	svc := servicestest.LoggedIn(t, nil)
	older := servicestest.SamplePlan()
	servicestest.SavePlan(t, svc, older)

	newer := servicestest.SamplePlan()
	newer.ID = "plan-2"
	newer.Name = "Constituição Federal"
	newer.LawTitle = "CF/88"
	newer.CreatedAt = older.CreatedAt.Add(24 * time.Hour)
	newer.CompletedDays = []int{1, 2}
	servicestest.SavePlan(t, svc, newer)
	return svc
}

func TestEmptyState(t *testing.T) {
	s := loaded(t, servicestest.LoggedIn(t, nil))

	view := s.View(100, 40)
	assert.Contains(t, view, "Olá, Ana!")
	assert.Contains(t, view, "Nenhum projeto ainda.")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd, "enter with no plans does nothing")
}

func TestListsNewestFirstWithProgress(t *testing.T) {
	s := loaded(t, withTwoPlans(t))

	require.Len(t, s.plans, 2)
	assert.Equal(t, "plan-2", s.plans[0].ID)

	view := s.View(100, 40)
	assert.Contains(t, view, "Constituição Federal")
	assert.Contains(t, view, "2/3 dias")
	assert.Contains(t, view, "67%")
	assert.Less(t, strings.Index(view, "Constituição Federal"), strings.Index(view, "Lei 8.112"))
}

func TestOpenAndNew(t *testing.T) {
	s := loaded(t, withTwoPlans(t))

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, flow.PlanView, msg.Screen.(screen.Stateful).State())
	assert.Equal(t, "Lei 8.112", msg.Screen.Title())

	_, cmd = s.Update(keyPress('n'))
	msg, ok = cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, flow.Config, msg.Screen.(screen.Stateful).State())
}

func TestDeleteAsksConfirmation(t *testing.T) {
	svc := withTwoPlans(t)
	s := loaded(t, svc)

	s.Update(keyPress('d'))
	require.True(t, s.confirm)
	assert.Contains(t, s.View(100, 40), `Excluir o projeto "Constituição Federal"?`)

	s.Update(keyPress('n'))
	assert.False(t, s.confirm)
	assert.Len(t, s.plans, 2)

	s.Update(keyPress('d'))
	_, cmd := s.Update(keyPress('s'))
	_, reload := s.Update(cmd())
	s.Update(reload())

	require.Len(t, s.plans, 1)
	assert.Equal(t, "plan-1", s.plans[0].ID)

	stored, err := svc.Plans.List(context.Background(), servicestest.Email)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestLogout(t *testing.T) {
	svc := servicestest.LoggedIn(t, nil)
	s := loaded(t, svc)

	_, cmd := s.Update(keyPress('L'))
	msg, ok := cmd().(router.ResetMsg)
	require.True(t, ok)
	assert.Equal(t, "home", msg.Screen.Title())
	assert.Nil(t, svc.User())

	u, err := svc.Accounts.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u, "session cleared")
}

func TestOnBack(t *testing.T) {
	s := loaded(t, withTwoPlans(t))

	s.Update(keyPress('d'))
	assert.Nil(t, s.OnBack(), "first Esc closes the prompt")
	assert.False(t, s.confirm)

	msg, ok := s.OnBack()().(router.PopToMsg)
	require.True(t, ok)
	assert.Equal(t, flow.Landing, msg.State)
}
