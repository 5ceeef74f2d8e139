package quiz

import "fmt"

// Question is one multiple-choice item.
type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correctAnswer"`
	Explanation string   `json:"explanation"`

	// BlockDay is the plan day a mock exam question was drawn from.
	// Zero for block quizzes.
	BlockDay int `json:"blockId,omitempty"`
}

// IsCorrect reports whether option idx is the right answer.
func (q Question) IsCorrect(idx int) bool {
	return idx == q.Correct
}

// Option returns the option text prefixed with its letter, e.g. "B) texto".
func (q Question) Option(idx int) string {
	if idx < 0 || idx >= len(q.Options) {
		return ""
	}
	return fmt.Sprintf("%s) %s", Letter(idx), q.Options[idx])
}

// Letter maps an option index to A, B, C...
func Letter(idx int) string {
	if idx < 0 || idx > 25 {
		return "?"
	}
	return string(rune('A' + idx))
}

// IndexOf maps a letter (case-insensitive) back to an option index.
// Returns -1 for anything that is not a single letter.
func IndexOf(letter string) int {
	if len(letter) != 1 {
		return -1
	}
	c := letter[0]
	switch {
	case c >= 'a' && c <= 'z':
		return int(c - 'a')
	case c >= 'A' && c <= 'Z':
		return int(c - 'A')
	}
	return -1
}
