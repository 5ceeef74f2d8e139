package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/secandoalei/secando/internal/store"
)

// ProgressKey identifies saved mock exam progress for a block selection,
// e.g. "simulado_progress_1_2_5". Days keep their given order.
func ProgressKey(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return "simulado_progress_" + strings.Join(parts, "_")
}

// Progress is the saved state of an unfinished mock exam.
type Progress struct {
	Key       string
	Owner     string
	Current   int
	Answers   map[int]int
	Elapsed   time.Duration
	Questions []Question
}

// Snapshot captures e for saving.
func Snapshot(owner, key string, e *Exam) Progress {
	return Progress{
		Key:       key,
		Owner:     owner,
		Current:   e.Current,
		Answers:   cloneAnswers(e.Answers),
		Elapsed:   e.Elapsed,
		Questions: slices.Clone(e.Questions),
	}
}

func cloneAnswers(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ProgressStore persists mock exam progress per owner.
type ProgressStore struct {
	repo store.ExamProgressRepo
}

// NewProgressStore wraps the store repository.
func NewProgressStore(repo store.ExamProgressRepo) *ProgressStore {
	return &ProgressStore{repo: repo}
}

// Load returns saved progress, or nil when there is none.
func (s *ProgressStore) Load(ctx context.Context, owner, key string) (*Progress, error) {
	rec, err := s.repo.Load(ctx, owner, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	var qs []Question
	if len(rec.Questions) > 0 {
		if err := json.Unmarshal(rec.Questions, &qs); err != nil {
			return nil, fmt.Errorf("decode saved questions: %w", err)
		}
	}
	return &Progress{
		Key:       rec.Key,
		Owner:     rec.Owner,
		Current:   rec.Current,
		Answers:   rec.Answers,
		Elapsed:   rec.Elapsed,
		Questions: qs,
	}, nil
}

// Save upserts p.
func (s *ProgressStore) Save(ctx context.Context, p Progress) error {
	qs, err := json.Marshal(p.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	return s.repo.Save(ctx, store.ExamProgressRecord{
		Owner:     p.Owner,
		Key:       p.Key,
		Current:   p.Current,
		Answers:   p.Answers,
		Elapsed:   p.Elapsed,
		Questions: qs,
	})
}

// Clear removes saved progress.
func (s *ProgressStore) Clear(ctx context.Context, owner, key string) error {
	return s.repo.Clear(ctx, owner, key)
}
