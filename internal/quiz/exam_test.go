package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			ID:          Letter(i),
			Text:        "Q",
			Options:     []string{"a", "b", "c", "d"},
			Correct:     i % 4,
			Explanation: "e",
			BlockDay:    1,
		}
	}
	return qs
}

func TestExam_ScoreAndVerdict(t *testing.T) {
	e := NewExam(sampleQuestions(10))

	for i := 0; i < 7; i++ {
		e.Jump(i)
		require.True(t, e.Answer(i%4))
	}
	e.Jump(7)
	require.True(t, e.Answer((7+1)%4))

	assert.Equal(t, 7, e.Score())
	assert.Equal(t, 70, e.Percent())
	assert.Equal(t, 2, e.Unanswered())
	assert.Equal(t, verdictPass, Verdict(e.Percent()))
	assert.Equal(t, verdictFail, Verdict(69))
	assert.Equal(t, verdictFail, VerdictAt(70, 80))
	assert.Equal(t, verdictPass, VerdictAt(70, 0))
}

func TestExam_Navigation(t *testing.T) {
	e := NewExam(sampleQuestions(3))

	e.Prev()
	assert.Equal(t, 0, e.Current)
	e.Next()
	e.Next()
	e.Next()
	assert.Equal(t, 2, e.Current)
	e.Jump(-5)
	assert.Equal(t, 0, e.Current)
	e.Jump(99)
	assert.Equal(t, 2, e.Current)
}

func TestExam_AnswerRules(t *testing.T) {
	e := NewExam(sampleQuestions(2))

	assert.False(t, e.Answer(4), "out of range option")
	assert.True(t, e.Answer(1))
	assert.True(t, e.Answer(2), "answers can be changed before finishing")
	a, ok := e.Answered(0)
	assert.True(t, ok)
	assert.Equal(t, 2, a)

	e.Finish()
	assert.False(t, e.Answer(0), "finished exams are read-only")
}

func TestExam_Tick(t *testing.T) {
	e := NewExam(sampleQuestions(1))
	e.Tick(time.Second)
	e.Tick(time.Second)
	e.Finish()
	e.Tick(time.Minute)
	assert.Equal(t, 2*time.Second, e.Elapsed)
}

func TestExam_Restore(t *testing.T) {
	e := NewExam(sampleQuestions(3))
	e.Restore(&Progress{
		Current: 2,
		Answers: map[int]int{0: 0, 2: 3, 9: 1},
		Elapsed: 95 * time.Second,
	})

	assert.Equal(t, 2, e.Current)
	assert.Equal(t, map[int]int{0: 0, 2: 3}, e.Answers)
	assert.Equal(t, "1:35", FormatElapsed(e.Elapsed))

	e.Restore(nil)
	assert.Equal(t, 2, e.Current)
}

func TestExam_Empty(t *testing.T) {
	e := NewExam(nil)
	e.Next()
	assert.Equal(t, 0, e.Current)
	assert.Equal(t, 0, e.Percent())
	assert.False(t, e.Answer(0))
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{9 * time.Second, "0:09"},
		{61 * time.Second, "1:01"},
		{20*time.Minute + 500*time.Millisecond, "20:00"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestSession_Flow(t *testing.T) {
	s := NewSession(sampleQuestions(2))

	assert.True(t, s.Advance(), "advance before answering keeps the quiz open")
	assert.Equal(t, 0, s.Current)

	require.True(t, s.Choose(0))
	assert.False(t, s.Choose(1), "second choice is ignored")
	assert.Equal(t, 1, s.Correct)

	require.True(t, s.Advance())
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, -1, s.Selected)
	assert.True(t, s.Last())

	require.True(t, s.Choose(3))
	assert.Equal(t, 1, s.Correct)
	assert.False(t, s.Advance(), "quiz ends after the last question")
}

func TestLetters(t *testing.T) {
	assert.Equal(t, "A", Letter(0))
	assert.Equal(t, "D", Letter(3))
	assert.Equal(t, "?", Letter(-1))
	assert.Equal(t, 2, IndexOf("c"))
	assert.Equal(t, 1, IndexOf("B"))
	assert.Equal(t, -1, IndexOf("1"))
	assert.Equal(t, -1, IndexOf("ab"))

	q := Question{Options: []string{"x", "y"}}
	assert.Equal(t, "B) y", q.Option(1))
	assert.Equal(t, "", q.Option(5))
}
