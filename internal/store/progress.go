package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) Load(ctx context.Context, owner, key string) (*ExamProgressRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("current_idx", "answers", "elapsed_secs", "questions", "updated_at").
		From(entsql.Table(tableProgress)).
		Where(entsql.And(entsql.EQ("owner_email", owner), entsql.EQ("progress_key", key))).
		Query()

	var (
		answers   string
		questions string
		elapsed   int64
		updated   int64
		rec       = ExamProgressRecord{Owner: owner, Key: key}
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&rec.Current, &answers, &elapsed, &questions, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query exam progress: %w", err)
	}

	rec.Answers, err = decodeAnswers(answers)
	if err != nil {
		return nil, err
	}
	rec.Elapsed = time.Duration(elapsed) * time.Second
	rec.Questions = json.RawMessage(questions)
	rec.UpdatedAt = fromMillis(updated)
	return &rec, nil
}

func (r *progressRepo) Save(ctx context.Context, p ExamProgressRecord) error {
	answers, err := encodeAnswers(p.Answers)
	if err != nil {
		return err
	}
	questions := string(p.Questions)
	if questions == "" {
		questions = "[]"
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableProgress).
		Columns("owner_email", "progress_key", "current_idx", "answers", "elapsed_secs", "questions", "updated_at").
		Values(p.Owner, p.Key, p.Current, answers, int64(p.Elapsed/time.Second), questions, toMillis(p.UpdatedAt)).
		OnConflict(
			entsql.ConflictColumns("owner_email", "progress_key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save exam progress: %w", err)
	}
	return nil
}

func (r *progressRepo) Clear(ctx context.Context, owner, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(tableProgress).
		Where(entsql.And(entsql.EQ("owner_email", owner), entsql.EQ("progress_key", key))).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear exam progress: %w", err)
	}
	return nil
}

func encodeAnswers(answers map[int]int) (string, error) {
	if answers == nil {
		answers = map[int]int{}
	}
	b, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("marshal answers: %w", err)
	}
	return string(b), nil
}

func decodeAnswers(s string) (map[int]int, error) {
	out := map[int]int{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	return out, nil
}
