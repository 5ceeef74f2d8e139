package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/store"
)

// ErrNotFound is returned when a plan does not exist for the owner.
var ErrNotFound = errors.New("plan not found")

// Service ties plan generation to per-owner persistence.
type Service struct {
	repo    store.PlanRepo
	gen     Generator
	maxDays int
	log     *zap.Logger
}

// NewService creates a plan service. gen may be nil when only stored
// plans are accessed.
func NewService(repo store.PlanRepo, gen Generator, maxDays int, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, gen: gen, maxDays: maxDays, log: log}
}

// Create validates req, generates a plan and stores it under req.Owner.
func (s *Service) Create(ctx context.Context, req Request) (*Plan, error) {
	if err := ValidateRequest(req, s.maxDays); err != nil {
		return nil, err
	}
	if s.gen == nil {
		return nil, errors.New("plan generation is not configured")
	}

	s.log.Info("generating plan",
		zap.String("name", req.Name),
		zap.Int("days", req.Days),
		zap.Int("attachments", len(req.Source.Attachments)),
		zap.Int("text_chars", trimmedLen(req.Source.Text)),
	)

	p, err := s.gen.Generate(ctx, req)
	if err != nil {
		s.log.Warn("plan generation failed", zap.Error(err))
		return nil, err
	}
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("plan created",
		zap.String("id", p.ID),
		zap.String("law_title", p.LawTitle),
		zap.Int("blocks", len(p.Blocks)),
	)
	return p, nil
}

// Import stores a plan built from blocks read back from an export, e.g. a
// spreadsheet. lawTitle defaults to name. completed days without a block
// are dropped.
func (s *Service) Import(ctx context.Context, owner, name, lawTitle string, blocks []Block, completed []int) (*Plan, error) {
	if trimmedLen(name) == 0 {
		return nil, ErrInvalidRequest
	}
	if trimmedLen(lawTitle) == 0 {
		lawTitle = name
	}

	p := &Plan{
		ID:            uuid.NewString(),
		Owner:         owner,
		Name:          name,
		LawTitle:      lawTitle,
		TotalDays:     len(blocks),
		Blocks:        blocks,
		CompletedDays: []int{},
		CreatedAt:     time.Now(),
	}
	for _, v := range []Validator{&StructuralValidator{}, &BlocksValidator{}} {
		if verr := v.Validate(p, Request{}); verr != nil {
			return nil, fmt.Errorf("import %s: %w", name, verr)
		}
	}
	for _, day := range completed {
		if _, ok := p.Block(day); ok && !p.IsCompleted(day) {
			p.CompletedDays = append(p.CompletedDays, day)
		}
	}

	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("plan imported", zap.String("id", p.ID), zap.Int("blocks", len(blocks)))
	return p, nil
}

// Save inserts or replaces p.
func (s *Service) Save(ctx context.Context, p *Plan) error {
	rec, err := toRecord(p)
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

// List returns the owner's plans, newest first.
func (s *Service) List(ctx context.Context, owner string) ([]*Plan, error) {
	recs, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	out := make([]*Plan, 0, len(recs))
	for i := range recs {
		p, err := fromRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Get returns one of the owner's plans.
func (s *Service) Get(ctx context.Context, owner, id string) (*Plan, error) {
	rec, err := s.repo.Get(ctx, owner, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return fromRecord(rec)
}

// ToggleDay flips the completion marker of day on the owner's plan,
// persists it and returns the updated plan.
func (s *Service) ToggleDay(ctx context.Context, owner, id string, day int) (*Plan, error) {
	p, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if _, ok := p.Block(day); !ok {
		return nil, fmt.Errorf("plan %s has no day %d", id, day)
	}
	done := p.ToggleDay(day)
	if err := s.repo.SetCompletedDays(ctx, owner, id, p.CompletedDays); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update progress: %w", err)
	}
	s.log.Debug("day toggled", zap.String("plan", id), zap.Int("day", day), zap.Bool("completed", done))
	return p, nil
}

// Delete removes one of the owner's plans.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	err := s.repo.Delete(ctx, owner, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	s.log.Info("plan deleted", zap.String("id", id))
	return nil
}

func toRecord(p *Plan) (store.PlanRecord, error) {
	blocks, err := json.Marshal(p.Blocks)
	if err != nil {
		return store.PlanRecord{}, fmt.Errorf("encode blocks: %w", err)
	}
	completed := p.CompletedDays
	if completed == nil {
		completed = []int{}
	}
	return store.PlanRecord{
		ID:            p.ID,
		Owner:         p.Owner,
		Name:          p.Name,
		LawTitle:      p.LawTitle,
		TotalDays:     p.TotalDays,
		Blocks:        blocks,
		CompletedDays: completed,
		CreatedAt:     p.CreatedAt,
	}, nil
}

func fromRecord(rec *store.PlanRecord) (*Plan, error) {
	var blocks []Block
	if len(rec.Blocks) > 0 {
		if err := json.Unmarshal(rec.Blocks, &blocks); err != nil {
			return nil, fmt.Errorf("decode blocks of plan %s: %w", rec.ID, err)
		}
	}
	completed := rec.CompletedDays
	if completed == nil {
		completed = []int{}
	}
	return &Plan{
		ID:            rec.ID,
		Owner:         rec.Owner,
		Name:          rec.Name,
		LawTitle:      rec.LawTitle,
		TotalDays:     rec.TotalDays,
		Blocks:        blocks,
		CompletedDays: completed,
		CreatedAt:     rec.CreatedAt,
	}, nil
}
