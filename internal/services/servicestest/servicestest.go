// Package servicestest builds Services over an in-memory store for screen
// and command tests.
package servicestest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/secandoalei/secando/internal/config"
	"github.com/secandoalei/secando/internal/llm"
	"github.com/secandoalei/secando/internal/plan"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/store"
)

// Email is the address of the user created by LoggedIn.
const Email = "ana@exemplo.com"

// Password is the password of the user created by LoggedIn.
const Password = "segredo"

// New opens a private in-memory store and wires Services on top of it.
// provider may be nil to simulate a missing API key.
func New(t testing.TB, provider llm.Provider) *services.Services {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.Default()
	cfg.Export.Dir = t.TempDir()
	svc := services.New(st, provider, cfg, nil)
	svc.Now = func() time.Time { return time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC) }
	return svc
}

// LoggedIn is New plus a registered user with an open session.
func LoggedIn(t testing.TB, provider llm.Provider) *services.Services {
	t.Helper()
	svc := New(t, provider)
	svc.Accounts.SetHashCost(bcrypt.MinCost)
	u, err := svc.Accounts.SignUp(context.Background(), Email, "Ana", Password)
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	svc.SetUser(u)
	return svc
}

// SamplePlan returns a three-day plan owned by Email with two groups.
func SamplePlan() *plan.Plan {
	return &plan.Plan{
		ID:        "plan-1",
		Owner:     Email,
		Name:      "Lei 8.112",
		LawTitle:  "Lei nº 8.112/1990",
		TotalDays: 3,
		Blocks: []plan.Block{
			{Day: 1, Title: "Disposições Preliminares", Articles: "Arts. 1º a 4º", Summary: "Regime jurídico dos servidores.", Group: "Parte Geral"},
			{Day: 2, Title: "Do Provimento", Articles: "Arts. 5º a 12", Summary: "Requisitos para investidura.", Group: "Parte Geral"},
			{Day: 3, Title: "Da Posse", Articles: "Arts. 13 a 15", Summary: "A posse ocorrerá no prazo de trinta dias.", Group: "Provimento"},
		},
		CompletedDays: []int{},
		CreatedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// SavePlan stores p and fails the test on error.
func SavePlan(t testing.TB, svc *services.Services, p *plan.Plan) {
	t.Helper()
	if err := svc.Plans.Save(context.Background(), p); err != nil {
		t.Fatalf("save plan: %v", err)
	}
}
