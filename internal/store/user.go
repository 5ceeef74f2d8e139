package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// userRepo implements UserRepo with ent's SQL builder.
type userRepo struct {
	db *sql.DB
}

func (r *userRepo) Create(ctx context.Context, u UserRecord) error {
	existing, err := r.Get(ctx, u.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil {
		return ErrDuplicate
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableUsers).
		Columns("email", "name", "password_hash", "created_at").
		Values(u.Email, u.Name, u.PasswordHash, toMillis(u.CreatedAt)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) Get(ctx context.Context, email string) (*UserRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("email", "name", "password_hash", "created_at").
		From(entsql.Table(tableUsers)).
		Where(entsql.EQ("email", email)).
		Query()

	var (
		u       UserRecord
		created int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.Email, &u.Name, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.CreatedAt = fromMillis(created)
	return &u, nil
}

func (r *userRepo) Delete(ctx context.Context, email string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(tableUsers).
		Where(entsql.EQ("email", email)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
