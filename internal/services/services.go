// Package services wires the domain services shared by the terminal UI
// screens and the CLI commands.
package services

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/account"
	"github.com/secandoalei/secando/internal/config"
	"github.com/secandoalei/secando/internal/explain"
	"github.com/secandoalei/secando/internal/llm"
	"github.com/secandoalei/secando/internal/plan"
	"github.com/secandoalei/secando/internal/quiz"
	"github.com/secandoalei/secando/internal/store"
)

// ErrAIUnavailable is returned by AI-backed actions when no provider is
// configured.
var ErrAIUnavailable = errors.New("IA indisponível: configure uma chave de API (ex.: GEMINI_API_KEY).")

// Services holds everything a screen or command needs.
type Services struct {
	Accounts  *account.Service
	Plans     *plan.Service
	Quizzes   *quiz.BlockGenerator
	Mocks     *quiz.MockGenerator
	Progress  *quiz.ProgressStore
	Explainer *explain.Explainer
	Events    store.EventRepo

	Study     config.StudyConfig
	ExportDir string
	Log       *zap.Logger
	Now       func() time.Time

	ai bool

	mu   sync.RWMutex
	user *account.User
}

// New builds the services over st. provider may be nil, in which case the
// AI-backed generators are left unset and AIEnabled reports false.
func New(st *store.Store, provider llm.Provider, cfg config.Config, log *zap.Logger) *Services {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Services{
		Accounts:  account.NewService(st.UserRepo(), st.SessionRepo(), log.Named("account")),
		Progress:  quiz.NewProgressStore(st.ProgressRepo()),
		Events:    st.EventRepo(),
		Study:     cfg.Study,
		ExportDir: cfg.Export.Dir,
		Log:       log,
		Now:       time.Now,
		ai:        provider != nil,
	}

	var gen plan.Generator
	if provider != nil {
		planCfg := plan.DefaultConfig()
		planCfg.TextLimit = cfg.Study.PlanTextLimit
		gen = plan.New(provider, planCfg)

		quizCfg := quiz.DefaultQuizConfig()
		quizCfg.Count = cfg.Study.QuizQuestions
		s.Quizzes = quiz.NewBlockGenerator(provider, quizCfg)

		mockCfg := quiz.DefaultMockConfig()
		mockCfg.Count = cfg.Study.MockQuestions
		mockCfg.ContextLimit = cfg.Study.MockContextLimit
		s.Mocks = quiz.NewMockGenerator(provider, mockCfg)

		s.Explainer = explain.New(provider, log.Named("explain"))
	}
	s.Plans = plan.NewService(st.PlanRepo(), gen, cfg.Study.MaxDays, log.Named("plan"))
	return s
}

// AIEnabled reports whether an AI provider is configured.
func (s *Services) AIEnabled() bool {
	return s.ai
}

// User returns the logged-in user, or nil.
func (s *Services) User() *account.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser records the logged-in user. nil logs out.
func (s *Services) SetUser(u *account.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// Owner returns the email of the logged-in user, or "".
func (s *Services) Owner() string {
	if u := s.User(); u != nil {
		return u.Email
	}
	return ""
}

// ExportPath joins name onto the export directory.
func (s *Services) ExportPath(name string) string {
	dir := s.ExportDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name)
}
