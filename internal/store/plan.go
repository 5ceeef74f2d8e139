package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var planColumns = []string{
	"id", "owner_email", "name", "law_title", "total_days",
	"blocks", "completed_days", "created_at",
}

// planUpdateColumns are rewritten when a plan is saved again. id,
// owner_email and created_at are fixed at insert.
var planUpdateColumns = []string{
	"name", "law_title", "total_days", "blocks", "completed_days",
}

// planRepo implements PlanRepo. JSON columns are stored as TEXT.
type planRepo struct {
	db *sql.DB
}

func (r *planRepo) Save(ctx context.Context, p PlanRecord) error {
	completed := p.CompletedDays
	if completed == nil {
		completed = []int{}
	}
	doneJSON, err := json.Marshal(completed)
	if err != nil {
		return fmt.Errorf("marshal completed days: %w", err)
	}
	blocks := string(p.Blocks)
	if blocks == "" {
		blocks = "[]"
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tablePlans).
		Columns(planColumns...).
		Values(p.ID, p.Owner, p.Name, p.LawTitle, p.TotalDays, blocks, string(doneJSON), toMillis(p.CreatedAt)).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				for _, c := range planUpdateColumns {
					u.SetExcluded(c)
				}
			}),
			entsql.UpdateWhere(entsql.EQ("owner_email", p.Owner)),
		).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	// A conflicting ID owned by someone else is neither inserted nor updated.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("save plan %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *planRepo) List(ctx context.Context, owner string) ([]PlanRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(planColumns...).
		From(entsql.Table(tablePlans)).
		Where(entsql.EQ("owner_email", owner)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var out []PlanRecord
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *planRepo) Get(ctx context.Context, owner, id string) (*PlanRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(planColumns...).
		From(entsql.Table(tablePlans)).
		Where(entsql.And(entsql.EQ("owner_email", owner), entsql.EQ("id", id))).
		Query()

	p, err := scanPlan(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *planRepo) SetCompletedDays(ctx context.Context, owner, id string, days []int) error {
	if days == nil {
		days = []int{}
	}
	doneJSON, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("marshal completed days: %w", err)
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Update(tablePlans).
		Set("completed_days", string(doneJSON)).
		Where(entsql.And(entsql.EQ("owner_email", owner), entsql.EQ("id", id))).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update completed days: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *planRepo) Delete(ctx context.Context, owner, id string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(tablePlans).
		Where(entsql.And(entsql.EQ("owner_email", owner), entsql.EQ("id", id))).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*PlanRecord, error) {
	var (
		p         PlanRecord
		blocks    string
		completed string
		created   int64
	)
	err := row.Scan(&p.ID, &p.Owner, &p.Name, &p.LawTitle, &p.TotalDays, &blocks, &completed, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan plan: %w", err)
	}
	p.Blocks = json.RawMessage(blocks)
	if err := json.Unmarshal([]byte(completed), &p.CompletedDays); err != nil {
		return nil, fmt.Errorf("unmarshal completed days of %s: %w", p.ID, err)
	}
	p.CreatedAt = fromMillis(created)
	return &p, nil
}
