package quiz

import (
	"fmt"
	"time"
)

// PassPercent is the score at which the results verdict turns positive.
const PassPercent = 70

const (
	verdictPass = "Parabéns! Seu nível de retenção está excelente para concursos de alto nível."
	verdictFail = "Bom esforço, mas a \"letra da lei\" exige mais revisões constantes."
)

// Verdict returns the results message for a percentage score.
func Verdict(percent int) string {
	return VerdictAt(percent, PassPercent)
}

// VerdictAt is Verdict with a custom pass mark. pass <= 0 means
// PassPercent.
func VerdictAt(percent, pass int) string {
	if pass <= 0 {
		pass = PassPercent
	}
	if percent >= pass {
		return verdictPass
	}
	return verdictFail
}

// FormatElapsed renders d as m:ss.
func FormatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Exam is an in-flight mock exam. Answers maps question index to the
// chosen option index.
type Exam struct {
	Questions []Question
	Answers   map[int]int
	Current   int
	Elapsed   time.Duration
	Finished  bool
}

// NewExam starts an exam at the first question.
func NewExam(qs []Question) *Exam {
	return &Exam{Questions: qs, Answers: make(map[int]int)}
}

// Question returns the current question.
func (e *Exam) Question() Question {
	if e.Current < 0 || e.Current >= len(e.Questions) {
		return Question{}
	}
	return e.Questions[e.Current]
}

// Answer records option for the current question. Ignored once finished
// or when option is out of range.
func (e *Exam) Answer(option int) bool {
	if e.Finished {
		return false
	}
	q := e.Question()
	if option < 0 || option >= len(q.Options) {
		return false
	}
	e.Answers[e.Current] = option
	return true
}

// Next moves forward one question, stopping at the last.
func (e *Exam) Next() { e.Jump(e.Current + 1) }

// Prev moves back one question, stopping at the first.
func (e *Exam) Prev() { e.Jump(e.Current - 1) }

// Jump moves to question i, clamped to the valid range.
func (e *Exam) Jump(i int) {
	if i < 0 {
		i = 0
	}
	if i >= len(e.Questions) {
		i = len(e.Questions) - 1
	}
	if i < 0 {
		i = 0
	}
	e.Current = i
}

// Tick adds d to the clock while the exam is running.
func (e *Exam) Tick(d time.Duration) {
	if !e.Finished {
		e.Elapsed += d
	}
}

// Finish hands the exam in.
func (e *Exam) Finish() { e.Finished = true }

// Score counts answers equal to the correct option.
func (e *Exam) Score() int {
	n := 0
	for i, q := range e.Questions {
		if a, ok := e.Answers[i]; ok && q.IsCorrect(a) {
			n++
		}
	}
	return n
}

// Percent is the rounded-down share of correct answers.
func (e *Exam) Percent() int {
	if len(e.Questions) == 0 {
		return 0
	}
	return e.Score() * 100 / len(e.Questions)
}

// Unanswered counts questions without an answer.
func (e *Exam) Unanswered() int {
	return len(e.Questions) - len(e.Answers)
}

// Answered reports whether question i has an answer, and which.
func (e *Exam) Answered(i int) (int, bool) {
	a, ok := e.Answers[i]
	return a, ok
}

// Restore applies saved progress. Answers for questions that no longer
// exist are dropped.
func (e *Exam) Restore(p *Progress) {
	if p == nil {
		return
	}
	e.Answers = make(map[int]int, len(p.Answers))
	for i, a := range p.Answers {
		if i >= 0 && i < len(e.Questions) {
			e.Answers[i] = a
		}
	}
	e.Elapsed = p.Elapsed
	e.Jump(p.Current)
}

// Session is a block quiz: one question at a time with immediate
// feedback.
type Session struct {
	Questions []Question
	Current   int
	Selected  int
	Revealed  bool
	Correct   int
}

// NewSession starts a quiz at the first question.
func NewSession(qs []Question) *Session {
	return &Session{Questions: qs, Selected: -1}
}

// Question returns the current question.
func (s *Session) Question() Question {
	if s.Current >= len(s.Questions) {
		return Question{}
	}
	return s.Questions[s.Current]
}

// Choose answers the current question and reveals the result. A second
// choice on the same question is ignored.
func (s *Session) Choose(option int) bool {
	q := s.Question()
	if s.Revealed || option < 0 || option >= len(q.Options) {
		return false
	}
	s.Selected = option
	s.Revealed = true
	if q.IsCorrect(option) {
		s.Correct++
	}
	return true
}

// Advance moves to the next question. It reports false when the quiz is
// over.
func (s *Session) Advance() bool {
	if !s.Revealed {
		return true
	}
	if s.Current >= len(s.Questions)-1 {
		return false
	}
	s.Current++
	s.Selected = -1
	s.Revealed = false
	return true
}

// Last reports whether the current question is the final one.
func (s *Session) Last() bool {
	return s.Current >= len(s.Questions)-1
}
