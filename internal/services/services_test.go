package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secandoalei/secando/internal/account"
	"github.com/secandoalei/secando/internal/config"
	"github.com/secandoalei/secando/internal/llm"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/services/servicestest"
	"github.com/secandoalei/secando/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:services_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func questions(n int) json.RawMessage {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"id":"q%d","question":"Pergunta %d?","options":["a","b","c","d"],"correctAnswer":0,"explanation":"art. %d"}`, i, i, i)
	}
	return json.RawMessage(`{"questions":[` + strings.Join(items, ",") + `]}`)
}

func TestNew_WithoutProvider(t *testing.T) {
	svc := services.New(openStore(t), nil, config.Default(), nil)

	assert.False(t, svc.AIEnabled())
	assert.Nil(t, svc.Quizzes)
	assert.Nil(t, svc.Mocks)
	assert.Nil(t, svc.Explainer)
	require.NotNil(t, svc.Plans)

	_, err := svc.Plans.List(context.Background(), "ninguem@exemplo.com")
	assert.NoError(t, err)
}

func TestNew_StudyConfigReachesGenerators(t *testing.T) {
	cfg := config.Default()
	cfg.Study.QuizQuestions = 5

	mock := llm.NewMockProvider(llm.MockResponse{Content: questions(5)})
	svc := services.New(openStore(t), mock, cfg, nil)
	require.True(t, svc.AIEnabled())

	qs, err := svc.Quizzes.Generate(context.Background(), servicestest.SamplePlan().Blocks[0])
	require.NoError(t, err)
	assert.Len(t, qs, 5)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "EXATAMENTE 5 questões")
}

func TestUserSession(t *testing.T) {
	svc := servicestest.LoggedIn(t, nil)

	assert.Equal(t, servicestest.Email, svc.Owner())
	assert.Equal(t, "Ana", svc.User().DisplayName())

	svc.SetUser(nil)
	assert.Equal(t, "", svc.Owner())

	u, err := svc.Accounts.LogIn(context.Background(), servicestest.Email, "errada")
	assert.Nil(t, u)
	assert.True(t, errors.Is(err, account.ErrInvalidCredentials))
}

func TestExportPath(t *testing.T) {
	svc := servicestest.New(t, nil)
	got := svc.ExportPath("Cronograma_x.pdf")
	assert.Equal(t, filepath.Join(svc.ExportDir, "Cronograma_x.pdf"), got)

	svc.ExportDir = ""
	assert.Equal(t, "Cronograma_x.pdf", svc.ExportPath("Cronograma_x.pdf"))
}
