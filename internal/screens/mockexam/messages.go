package mockexam

import (
	"time"

	"github.com/secandoalei/secando/internal/quiz"
)

// loadedMsg carries the exam questions, restored or freshly generated.
type loadedMsg struct {
	Questions []quiz.Question
	Progress  *quiz.Progress
	Err       error
}

// tickMsg advances the exam clock by one second.
type tickMsg time.Time

// savedMsg reports the outcome of a progress save.
type savedMsg struct {
	Err error
}

// exportedMsg reports the outcome of the answer-sheet export.
type exportedMsg struct {
	Path string
	Err  error
}
