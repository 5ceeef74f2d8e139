package plan

import (
	"math"
	"slices"
	"time"

	"github.com/secandoalei/secando/internal/llm"
)

// DefaultGroup labels blocks the AI left without a category.
const DefaultGroup = "Geral"

// Block is one day of study.
type Block struct {
	Day      int    `json:"day"`
	Title    string `json:"title"`
	Articles string `json:"articles"`
	Summary  string `json:"summary,omitempty"`
	Group    string `json:"group,omitempty"`
}

// GroupName returns the block's group, or DefaultGroup when empty.
func (b Block) GroupName() string {
	if b.Group == "" {
		return DefaultGroup
	}
	return b.Group
}

// Plan is a named study plan owned by one user.
type Plan struct {
	ID            string
	Owner         string
	Name          string
	LawTitle      string
	TotalDays     int
	Blocks        []Block
	CompletedDays []int
	CreatedAt     time.Time
}

// IsCompleted reports whether day has been marked done.
func (p *Plan) IsCompleted(day int) bool {
	return slices.Contains(p.CompletedDays, day)
}

// ToggleDay flips the completion marker of day and reports the new state.
func (p *Plan) ToggleDay(day int) bool {
	if i := slices.Index(p.CompletedDays, day); i >= 0 {
		p.CompletedDays = slices.Delete(p.CompletedDays, i, i+1)
		return false
	}
	p.CompletedDays = append(p.CompletedDays, day)
	return true
}

// ProgressPercent is round(completed / totalDays * 100).
func (p *Plan) ProgressPercent() int {
	if p.TotalDays <= 0 {
		return 0
	}
	return int(math.Round(float64(len(p.CompletedDays)) / float64(p.TotalDays) * 100))
}

// Groups returns group names in order of first appearance.
func (p *Plan) Groups() []string {
	var out []string
	for _, b := range p.Blocks {
		g := b.GroupName()
		if !slices.Contains(out, g) {
			out = append(out, g)
		}
	}
	if len(out) == 0 {
		out = append(out, DefaultGroup)
	}
	return out
}

// BlocksIn returns the blocks of group, in plan order.
func (p *Plan) BlocksIn(group string) []Block {
	var out []Block
	for _, b := range p.Blocks {
		if b.GroupName() == group {
			out = append(out, b)
		}
	}
	return out
}

// Block returns the block for day.
func (p *Plan) Block(day int) (Block, bool) {
	for _, b := range p.Blocks {
		if b.Day == day {
			return b, true
		}
	}
	return Block{}, false
}

// Source is the law material the plan is built from.
type Source struct {
	Text        string
	Attachments []llm.Attachment
}

// Empty reports whether the source carries no material at all.
func (s Source) Empty() bool {
	return len(s.Attachments) == 0 && trimmedLen(s.Text) == 0
}

// Request asks for a new plan.
type Request struct {
	Owner  string
	Name   string
	Days   int
	Source Source
}
