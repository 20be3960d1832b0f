package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/strayhq/shelter/internal/shelter/storage"
)

// CreateUser inserts one user record.
func (q *queries) CreateUser(ctx context.Context, user storage.NewUser) (storage.User, error) {
	if err := ctx.Err(); err != nil {
		return storage.User{}, err
	}
	if q == nil || q.db == nil {
		return storage.User{}, fmt.Errorf("storage is not configured")
	}
	name := strings.TrimSpace(user.Name)
	email := strings.TrimSpace(user.Email)
	if name == "" {
		return storage.User{}, fmt.Errorf("name is required")
	}
	if email == "" {
		return storage.User{}, fmt.Errorf("email is required")
	}
	now := time.Now().UTC()

	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (name, email, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, email, toMillis(now), toMillis(now),
	)
	if err != nil {
		if classified := classifyConstraint(err); classified != err {
			return storage.User{}, classified
		}
		return storage.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storage.User{}, fmt.Errorf("create user id: %w", err)
	}
	return storage.User{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetUser returns one user by id.
func (q *queries) GetUser(ctx context.Context, id int64) (storage.User, error) {
	if err := ctx.Err(); err != nil {
		return storage.User{}, err
	}
	if q == nil || q.db == nil {
		return storage.User{}, fmt.Errorf("storage is not configured")
	}
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at, updated_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns one user by unique email.
func (q *queries) GetUserByEmail(ctx context.Context, email string) (storage.User, error) {
	if err := ctx.Err(); err != nil {
		return storage.User{}, err
	}
	if q == nil || q.db == nil {
		return storage.User{}, fmt.Errorf("storage is not configured")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return storage.User{}, fmt.Errorf("email is required")
	}
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at, updated_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// ListUsers returns every user ordered by creation time descending.
func (q *queries) ListUsers(ctx context.Context) ([]storage.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q == nil || q.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, email, created_at, updated_at FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []storage.User
	for rows.Next() {
		var user storage.User
		var createdAt, updatedAt int64
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user.CreatedAt = fromMillis(createdAt)
		user.UpdatedAt = fromMillis(updatedAt)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// DeleteUser removes one user row. Missing rows map to ErrNotFound.
func (q *queries) DeleteUser(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q == nil || q.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	res, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		if classified := classifyConstraint(err); classified != err {
			return classified
		}
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UserStats returns dependent counts for one user.
func (q *queries) UserStats(ctx context.Context, id int64) (storage.UserStats, error) {
	if err := ctx.Err(); err != nil {
		return storage.UserStats{}, err
	}
	if q == nil || q.db == nil {
		return storage.UserStats{}, fmt.Errorf("storage is not configured")
	}
	var stats storage.UserStats
	err := q.db.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM cats WHERE owner_id = ? AND deleted_at IS NULL),
		   (SELECT COUNT(*) FROM posts WHERE author_id = ?)`,
		id, id,
	).Scan(&stats.ActiveCats, &stats.Posts)
	if err != nil {
		return storage.UserStats{}, fmt.Errorf("user stats: %w", err)
	}
	return stats, nil
}

// ReleaseCatsByOwner clears ownership for every cat owned by the user,
// soft-deleted cats included, and returns the affected count.
func (q *queries) ReleaseCatsByOwner(ctx context.Context, ownerID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if q == nil || q.db == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	res, err := q.db.ExecContext(ctx,
		`UPDATE cats SET owner_id = NULL, updated_at = ? WHERE owner_id = ?`,
		toMillis(time.Now().UTC()), ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("release cats: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("release cats result: %w", err)
	}
	return affected, nil
}

func scanUser(row *sql.Row) (storage.User, error) {
	var user storage.User
	var createdAt, updatedAt int64
	err := row.Scan(&user.ID, &user.Name, &user.Email, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.User{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.User{}, fmt.Errorf("scan user: %w", err)
	}
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)
	return user, nil
}
