package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// currentSessionID is the single row key of the sessions table.
const currentSessionID = "current"

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Current(ctx context.Context) (string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("email").
		From(entsql.Table(tableSessions)).
		Where(entsql.EQ("id", currentSessionID)).
		Query()

	var email string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query session: %w", err)
	}
	return email, nil
}

func (r *sessionRepo) Set(ctx context.Context, email string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSessions).
		Columns("id", "email", "created_at").
		Values(currentSessionID, email, time.Now().UnixMilli()).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Clear(ctx context.Context) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(tableSessions).
		Where(entsql.EQ("id", currentSessionID)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
