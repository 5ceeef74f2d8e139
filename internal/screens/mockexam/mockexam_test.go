package mockexam

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/llm"
	"github.com/secandoalei/secando/internal/quiz"
	"github.com/secandoalei/secando/internal/router"
	"github.com/secandoalei/secando/internal/services"
	"github.com/secandoalei/secando/internal/services/servicestest"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func mockQuestions(n int, days ...int) []quiz.Question {
	qs := make([]quiz.Question, n)
	for i := range qs {
		qs[i] = quiz.Question{
			ID:          fmt.Sprintf("q%d", i+1),
			Text:        fmt.Sprintf("Conforme a lei, qual o prazo %d?", i+1),
			Options:     []string{"5 dias", "10 dias", "15 dias", "30 dias"},
			Correct:     1,
			Explanation: fmt.Sprintf("Art. %d.", i+1),
			BlockDay:    days[i%len(days)],
		}
	}
	return qs
}

func mockJSON(t *testing.T, qs []quiz.Question) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(map[string]any{"questions": qs})
	if err != nil {
		t.Fatalf("marshal questions: %v", err)
	}
	return data
}

// run executes cmd, expanding batches, and returns the produced messages.
// Only use it on commands that do not include the clock tick.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func newLoadedScreen(t *testing.T, svc *services.Services) *Screen {
	t.Helper()
	p := servicestest.SamplePlan()
	servicestest.SavePlan(t, svc, p)

	s := New(svc, p, p.Blocks[:2])
	s.Update(s.load()())
	if s.phase != phaseRunning {
		t.Fatalf("expected running phase, got %d (err %q)", s.phase, s.errMsg)
	}
	return s
}

func loadProgress(t *testing.T, svc *services.Services) *quiz.Progress {
	t.Helper()
	prog, err := svc.Progress.Load(context.Background(), servicestest.Email, "simulado_progress_1_2")
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	return prog
}

func TestGeneratesAndSavesAnswers(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mockJSON(t, mockQuestions(10, 1, 2))})
	svc := servicestest.LoggedIn(t, mock)
	s := newLoadedScreen(t, svc)

	if len(s.exam.Questions) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(s.exam.Questions))
	}
	if s.restored {
		t.Error("fresh exam must not be marked restored")
	}

	_, cmd := s.Update(keyPress('b'))
	for _, msg := range run(cmd) {
		s.Update(msg)
	}

	prog := loadProgress(t, svc)
	if prog == nil {
		t.Fatal("expected saved progress")
	}
	if prog.Answers[0] != 1 {
		t.Errorf("expected answer B saved for question 1, got %v", prog.Answers)
	}
	if len(prog.Questions) != 10 {
		t.Errorf("expected questions saved with progress, got %d", len(prog.Questions))
	}
}

func TestRestoresSavedProgressWithoutGenerating(t *testing.T) {
	svc := servicestest.LoggedIn(t, nil)
	err := svc.Progress.Save(context.Background(), quiz.Progress{
		Key:       "simulado_progress_1_2",
		Owner:     servicestest.Email,
		Current:   3,
		Answers:   map[int]int{0: 1, 3: 2},
		Elapsed:   65 * time.Second,
		Questions: mockQuestions(10, 1, 2),
	})
	if err != nil {
		t.Fatalf("save progress: %v", err)
	}

	s := newLoadedScreen(t, svc)

	if !s.restored {
		t.Error("expected restored exam")
	}
	if s.exam.Current != 3 {
		t.Errorf("expected current question 4, got %d", s.exam.Current+1)
	}
	if len(s.exam.Answers) != 2 {
		t.Errorf("expected 2 restored answers, got %d", len(s.exam.Answers))
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "1:05") {
		t.Error("expected restored elapsed time in view")
	}
	if !strings.Contains(view, "Questão 4 de 10") {
		t.Error("expected restored question counter in view")
	}
}

func TestWithoutProviderShowsError(t *testing.T) {
	svc := servicestest.LoggedIn(t, nil)
	p := servicestest.SamplePlan()
	s := New(svc, p, p.Blocks)

	s.Update(s.load()())

	if s.phase != phaseError {
		t.Fatalf("expected error phase, got %d", s.phase)
	}
	if s.errMsg != services.ErrAIUnavailable.Error() {
		t.Errorf("unexpected error message %q", s.errMsg)
	}
}

func TestNavigationAndJump(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mockJSON(t, mockQuestions(10, 1, 2))})
	s := newLoadedScreen(t, servicestest.LoggedIn(t, mock))

	s.Update(specialKey(tea.KeyRight))
	s.Update(specialKey(tea.KeyRight))
	if s.exam.Current != 2 {
		t.Errorf("expected question 3, got %d", s.exam.Current+1)
	}
	s.Update(specialKey(tea.KeyLeft))
	if s.exam.Current != 1 {
		t.Errorf("expected question 2, got %d", s.exam.Current+1)
	}
	s.Update(keyPress('0'))
	if s.exam.Current != 9 {
		t.Errorf("expected 0 to jump to question 10, got %d", s.exam.Current+1)
	}
	s.Update(keyPress('7'))
	if s.exam.Current != 6 {
		t.Errorf("expected question 7, got %d", s.exam.Current+1)
	}
}

func TestClockTicksAndSavesPeriodically(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mockJSON(t, mockQuestions(10, 1, 2))})
	s := newLoadedScreen(t, servicestest.LoggedIn(t, mock))

	for i := 0; i < saveEvery; i++ {
		_, cmd := s.Update(tickMsg(time.Now()))
		if cmd == nil {
			t.Fatal("clock must keep ticking")
		}
	}
	if s.exam.Elapsed != saveEvery*time.Second {
		t.Errorf("expected %ds elapsed, got %v", saveEvery, s.exam.Elapsed)
	}
}

func TestFinishAsksConfirmationThenClearsProgress(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mockJSON(t, mockQuestions(10, 1, 2))})
	svc := servicestest.LoggedIn(t, mock)
	s := newLoadedScreen(t, svc)

	for i := 0; i < 7; i++ {
		s.exam.Jump(i)
		_, cmd := s.Update(keyPress('b'))
		for _, msg := range run(cmd) {
			s.Update(msg)
		}
	}

	s.Update(keyPress('f'))
	if s.phase != phaseConfirm {
		t.Fatalf("expected confirmation with unanswered questions, got %d", s.phase)
	}
	if !strings.Contains(s.View(100, 40), "3 questão(ões) sem resposta") {
		t.Error("expected unanswered warning")
	}

	_, cmd := s.Update(keyPress('s'))
	run(cmd)
	if s.phase != phaseResults {
		t.Fatalf("expected results, got %d", s.phase)
	}
	if prog := loadProgress(t, svc); prog != nil {
		t.Error("expected progress cleared after finishing")
	}

	view := s.View(100, 40)
	if !strings.Contains(view, "7 de 10 acertos (70%)") {
		t.Error("expected score line in results")
	}
	if !strings.Contains(view, "Parabéns!") {
		t.Error("expected passing verdict at 70%")
	}
}

func TestSaveFinishingAfterClearIsDropped(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mockJSON(t, mockQuestions(10, 1, 2))})
	svc := servicestest.LoggedIn(t, mock)
	s := newLoadedScreen(t, svc)

	// The save is issued before the exam ends but its goroutine runs last.
	_, pending := s.Update(keyPress('a'))
	if pending == nil {
		t.Fatal("expected a save command")
	}
	s.Update(keyPress('f'))
	if s.phase != phaseConfirm {
		t.Fatalf("expected confirmation, got %d", s.phase)
	}
	_, cmd := s.Update(keyPress('s'))
	run(cmd)
	run(pending)

	if prog := loadProgress(t, svc); prog != nil {
		t.Errorf("expected no progress after finishing, got %+v", prog)
	}
	if _, cmd := s.Update(keyPress('b')); cmd != nil {
		t.Error("finished exam must not save")
	}
}

func TestOlderSnapshotDoesNotOverwriteNewer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mockJSON(t, mockQuestions(10, 1, 2))})
	svc := servicestest.LoggedIn(t, mock)
	s := newLoadedScreen(t, svc)

	_, older := s.Update(keyPress('a'))
	_, newer := s.Update(keyPress('c'))
	run(newer)
	run(older)

	prog := loadProgress(t, svc)
	if prog == nil {
		t.Fatal("expected saved progress")
	}
	if prog.Answers[0] != 2 {
		t.Errorf("expected the latest answer C for question 1, got %v", prog.Answers)
	}
}

func TestConfirmCanBeDeclined(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mockJSON(t, mockQuestions(10, 1, 2))})
	s := newLoadedScreen(t, servicestest.LoggedIn(t, mock))

	s.Update(keyPress('f'))
	s.Update(keyPress('n'))

	if s.phase != phaseRunning {
		t.Errorf("expected exam to continue, got %d", s.phase)
	}
}

func TestExportResults(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mockJSON(t, mockQuestions(10, 1, 2))})
	svc := servicestest.LoggedIn(t, mock)
	s := newLoadedScreen(t, svc)

	s.Update(keyPress('a'))
	s.Update(keyPress('f'))
	s.Update(keyPress('s'))

	_, cmd := s.Update(keyPress('p'))
	msgs := run(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one export message, got %d", len(msgs))
	}
	exported, ok := msgs[0].(exportedMsg)
	if !ok {
		t.Fatalf("expected exportedMsg, got %T", msgs[0])
	}
	if exported.Err != nil {
		t.Fatalf("export: %v", exported.Err)
	}
	if _, err := os.Stat(exported.Path); err != nil {
		t.Errorf("expected answer sheet on disk: %v", err)
	}
	if !strings.HasSuffix(exported.Path, fmt.Sprintf("Resultado_Simulado_%d.pdf", svc.Now().UnixMilli())) {
		t.Errorf("unexpected file name %q", exported.Path)
	}
}

func TestOnBackDiscardsProgress(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: mockJSON(t, mockQuestions(10, 1, 2))})
	svc := servicestest.LoggedIn(t, mock)
	s := newLoadedScreen(t, svc)

	_, cmd := s.Update(keyPress('c'))
	run(cmd)
	if loadProgress(t, svc) == nil {
		t.Fatal("expected progress saved before leaving")
	}

	var popped bool
	for _, msg := range run(s.OnBack()) {
		if m, ok := msg.(router.PopToMsg); ok && m.State == flow.PlanView {
			popped = true
		}
	}
	if !popped {
		t.Error("expected a return to the plan view")
	}
	if loadProgress(t, svc) != nil {
		t.Error("expected progress cleared on exit")
	}
}

func TestState(t *testing.T) {
	svc := servicestest.LoggedIn(t, nil)
	p := servicestest.SamplePlan()
	if got := New(svc, p, p.Blocks).State(); got != flow.MockRunning {
		t.Errorf("expected %s, got %s", flow.MockRunning, got)
	}
}
