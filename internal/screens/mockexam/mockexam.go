package mockexam

import (
	"context"
	"errors"
	"io"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/export"
	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/plan"
	"github.com/secandoalei/secando/internal/quiz"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/screen"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/ui/components"
	"github.com/secandoalei/secando/internal/ui/layout"
)

type phase int

const (
	phaseLoading phase = iota
	phaseRunning
	phaseConfirm
	phaseResults
	phaseError
)

// saveEvery is the number of clock ticks between progress saves.
const saveEvery = 5

const tickInterval = time.Second

// Screen runs a timed mock exam over a block selection. Progress is saved
// as the user goes and restored when the same selection is opened again.
type Screen struct {
	svc    *services.Services
	plan   *plan.Plan
	blocks []plan.Block
	owner  string
	key    string
	store  *persister

	phase      phase
	exam       *quiz.Exam
	restored   bool
	ticks      int
	finishedAt time.Time

	spinner spinner.Model
	review  viewport.Model
	cancel  context.CancelFunc

	errMsg    string
	notice    string
	noticeErr bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Stateful = (*Screen)(nil)
var _ screen.BackHandler = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the exam screen for blocks of p.
func New(svc *services.Services, p *plan.Plan, blocks []plan.Block) *Screen {
	days := make([]int, len(blocks))
	for i, b := range blocks {
		days[i] = b.Day
	}
	owner, key := svc.Owner(), quiz.ProgressKey(days)
	return &Screen{
		svc:     svc,
		plan:    p,
		blocks:  blocks,
		owner:   owner,
		key:     key,
		store:   newPersister(svc.Progress, owner, key),
		spinner: components.NewSpinner(),
		review:  viewport.New(),
	}
}

func (s *Screen) State() flow.State { return flow.MockRunning }

func (s *Screen) Title() string { return "Simulado" }

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.load())
}

// load restores saved questions for this selection, or generates new ones.
func (s *Screen) load() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	svc, owner, key, blocks := s.svc, s.owner, s.key, s.blocks
	return func() tea.Msg {
		defer cancel()
		prog, err := svc.Progress.Load(ctx, owner, key)
		if err != nil {
			svc.Log.Warn("load exam progress", zap.String("key", key), zap.Error(err))
		}
		if prog != nil && len(prog.Questions) > 0 {
			return loadedMsg{Questions: prog.Questions, Progress: prog}
		}
		if svc.Mocks == nil {
			return loadedMsg{Err: services.ErrAIUnavailable}
		}
		qs, err := svc.Mocks.Generate(ctx, blocks)
		return loadedMsg{Questions: qs, Err: err}
	}
}

func (s *Screen) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// save persists a snapshot of the exam taken now. Nothing is written once
// the exam is finished or left.
func (s *Screen) save() tea.Cmd {
	if s.exam == nil || s.exam.Finished {
		return nil
	}
	snap := quiz.Snapshot(s.owner, s.key, s.exam)
	seq, store := s.store.next(), s.store
	return func() tea.Msg {
		return savedMsg{Err: store.save(context.Background(), seq, snap)}
	}
}

func (s *Screen) clear() tea.Cmd {
	store, key, log := s.store, s.key, s.svc.Log
	return func() tea.Msg {
		if err := store.clear(context.Background()); err != nil {
			log.Warn("clear exam progress", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return s.handleLoaded(msg)

	case tickMsg:
		if s.phase != phaseRunning && s.phase != phaseConfirm {
			return s, nil
		}
		s.exam.Tick(tickInterval)
		s.ticks++
		if s.ticks%saveEvery == 0 {
			return s, tea.Batch(s.tick(), s.save())
		}
		return s, s.tick()

	case savedMsg:
		if msg.Err != nil {
			s.svc.Log.Warn("save exam progress", zap.String("key", s.key), zap.Error(msg.Err))
		}
		return s, nil

	case exportedMsg:
		if msg.Err != nil {
			s.svc.Log.Error("export answer sheet", zap.Error(msg.Err))
			s.notice, s.noticeErr = "Não foi possível gerar o PDF.", true
		} else {
			s.notice, s.noticeErr = "Gabarito salvo em "+msg.Path, false
		}
		return s, nil

	case spinner.TickMsg:
		if s.phase != phaseLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.phase = phaseError
		if errors.Is(msg.Err, services.ErrAIUnavailable) {
			s.errMsg = msg.Err.Error()
		} else {
			s.svc.Log.Error("mock exam generation failed", zap.Error(msg.Err))
			s.errMsg = "Erro ao gerar simulado. Tente novamente."
		}
		return s, nil
	}

	s.exam = quiz.NewExam(msg.Questions)
	if msg.Progress != nil {
		s.exam.Restore(msg.Progress)
		s.restored = true
		s.notice, s.noticeErr = "Progresso anterior restaurado.", false
	}
	s.phase = phaseRunning
	return s, tea.Batch(s.tick(), s.save())
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch s.phase {
	case phaseRunning:
		return s.handleRunningKey(key)

	case phaseConfirm:
		switch key {
		case "s", "y", "enter":
			return s, s.finish()
		case "n":
			s.phase = phaseRunning
		}

	case phaseResults:
		switch key {
		case "p":
			return s, s.exportResults()
		case "enter":
			return s, router.PopTo(flow.PlanView)
		default:
			var cmd tea.Cmd
			s.review, cmd = s.review.Update(msg)
			return s, cmd
		}

	case phaseError:
		if key == "r" {
			s.phase = phaseLoading
			return s, tea.Batch(s.spinner.Tick, s.load())
		}
	}
	return s, nil
}

func (s *Screen) handleRunningKey(key string) (screen.Screen, tea.Cmd) {
	s.notice = ""
	switch key {
	case "left", "h":
		s.exam.Prev()
		return s, s.save()
	case "right", "l":
		s.exam.Next()
		return s, s.save()
	case "f":
		if s.exam.Unanswered() > 0 {
			s.phase = phaseConfirm
			return s, nil
		}
		return s, s.finish()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9", "0":
		n := int(key[0] - '0')
		if n == 0 {
			n = 10
		}
		if n <= len(s.exam.Questions) {
			s.exam.Jump(n - 1)
			return s, s.save()
		}
		return s, nil
	}

	if idx := quiz.IndexOf(key); idx >= 0 && idx < len(s.exam.Question().Options) {
		if s.exam.Answer(idx) {
			return s, s.save()
		}
	}
	return s, nil
}

// finish hands the exam in and drops the saved progress.
func (s *Screen) finish() tea.Cmd {
	s.exam.Finish()
	s.phase = phaseResults
	s.finishedAt = s.svc.Now()
	s.review.GotoTop()
	s.svc.Log.Info("mock exam finished",
		zap.String("plan", s.plan.ID),
		zap.Int("score", s.exam.Score()),
		zap.Int("questions", len(s.exam.Questions)),
		zap.Duration("elapsed", s.exam.Elapsed),
	)
	return s.clear()
}

func (s *Screen) exportResults() tea.Cmd {
	result := export.ResultFromExam(s.exam, s.finishedAt)
	path := s.svc.ExportPath(export.ResultsFilename(s.finishedAt))
	return func() tea.Msg {
		err := export.WriteFile(path, func(w io.Writer) error {
			return export.WriteResultsPDF(w, result)
		})
		return exportedMsg{Path: path, Err: err}
	}
}

// OnBack leaves the exam. An unfinished exam's saved progress is
// discarded; Ctrl+C keeps it for the next run.
func (s *Screen) OnBack() tea.Cmd {
	switch s.phase {
	case phaseConfirm:
		s.phase = phaseRunning
		return nil
	case phaseResults:
		return router.PopTo(flow.PlanView)
	case phaseLoading:
		if s.cancel != nil {
			s.cancel()
		}
	}
	return tea.Batch(s.clear(), router.PopTo(flow.PlanView))
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseRunning:
		return []layout.KeyHint{
			{Key: "A-E", Description: "Responder"},
			{Key: "←→", Description: "Navegar"},
			{Key: "1-0", Description: "Ir para"},
			{Key: "F", Description: "Entregar"},
			{Key: "Esc", Description: "Sair"},
		}
	case phaseConfirm:
		return []layout.KeyHint{
			{Key: "S", Description: "Entregar"},
			{Key: "N", Description: "Continuar"},
		}
	case phaseResults:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Rolar"},
			{Key: "P", Description: "Exportar PDF"},
			{Key: "Enter", Description: "Voltar ao cronograma"},
		}
	case phaseError:
		return []layout.KeyHint{
			{Key: "R", Description: "Tentar novamente"},
			{Key: "Esc", Description: "Voltar"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Cancelar"}}
}
