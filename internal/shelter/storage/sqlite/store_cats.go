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

const catColumns = `id, name, age, owner_id, deleted_at, created_at, updated_at`

// CreateCat inserts one cat record, optionally owned.
func (q *queries) CreateCat(ctx context.Context, cat storage.NewCat) (storage.Cat, error) {
	if err := ctx.Err(); err != nil {
		return storage.Cat{}, err
	}
	if q == nil || q.db == nil {
		return storage.Cat{}, fmt.Errorf("storage is not configured")
	}
	name := strings.TrimSpace(cat.Name)
	if name == "" {
		return storage.Cat{}, fmt.Errorf("name is required")
	}
	if cat.Age < 0 {
		return storage.Cat{}, fmt.Errorf("age must not be negative")
	}
	now := time.Now().UTC()

	var ownerID sql.NullInt64
	if cat.OwnerID != nil {
		ownerID = sql.NullInt64{Int64: *cat.OwnerID, Valid: true}
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO cats (name, age, owner_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		name, cat.Age, ownerID, toMillis(now), toMillis(now),
	)
	if err != nil {
		if classified := classifyConstraint(err); classified != err {
			return storage.Cat{}, classified
		}
		return storage.Cat{}, fmt.Errorf("create cat: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storage.Cat{}, fmt.Errorf("create cat id: %w", err)
	}
	created := storage.Cat{
		ID:        id,
		Name:      name,
		Age:       cat.Age,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if cat.OwnerID != nil {
		owner := *cat.OwnerID
		created.OwnerID = &owner
	}
	return created, nil
}

// GetCat returns one cat by id, soft-deleted rows included.
func (q *queries) GetCat(ctx context.Context, id int64) (storage.Cat, error) {
	if err := ctx.Err(); err != nil {
		return storage.Cat{}, err
	}
	if q == nil || q.db == nil {
		return storage.Cat{}, fmt.Errorf("storage is not configured")
	}
	row := q.db.QueryRowContext(ctx,
		`SELECT `+catColumns+` FROM cats WHERE id = ?`, id)
	return scanCatRow(row)
}

// GetCatWithOwner returns one cat by id with its owner resolved,
// soft-deleted rows included.
func (q *queries) GetCatWithOwner(ctx context.Context, id int64) (storage.CatWithOwner, error) {
	return q.getCatWithOwner(ctx, id, false)
}

// GetActiveCatWithOwner returns one non-soft-deleted cat by id with its
// owner resolved.
func (q *queries) GetActiveCatWithOwner(ctx context.Context, id int64) (storage.CatWithOwner, error) {
	return q.getCatWithOwner(ctx, id, true)
}

func (q *queries) getCatWithOwner(ctx context.Context, id int64, activeOnly bool) (storage.CatWithOwner, error) {
	if err := ctx.Err(); err != nil {
		return storage.CatWithOwner{}, err
	}
	if q == nil || q.db == nil {
		return storage.CatWithOwner{}, fmt.Errorf("storage is not configured")
	}
	query := `SELECT c.id, c.name, c.age, c.owner_id, c.deleted_at, c.created_at, c.updated_at,
	                 u.id, u.name, u.email
	          FROM cats c
	          LEFT JOIN users u ON u.id = c.owner_id
	          WHERE c.id = ?`
	if activeOnly {
		query += ` AND c.deleted_at IS NULL`
	}
	row := q.db.QueryRowContext(ctx, query, id)

	var cat storage.Cat
	var ownerID, deletedAt sql.NullInt64
	var createdAt, updatedAt int64
	var joinedOwnerID sql.NullInt64
	var ownerName, ownerEmail sql.NullString
	err := row.Scan(&cat.ID, &cat.Name, &cat.Age, &ownerID, &deletedAt, &createdAt, &updatedAt,
		&joinedOwnerID, &ownerName, &ownerEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.CatWithOwner{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.CatWithOwner{}, fmt.Errorf("scan cat with owner: %w", err)
	}
	applyCatNullables(&cat, ownerID, deletedAt, createdAt, updatedAt)

	result := storage.CatWithOwner{Cat: cat}
	if joinedOwnerID.Valid {
		result.Owner = &storage.Owner{
			ID:    joinedOwnerID.Int64,
			Name:  ownerName.String,
			Email: ownerEmail.String,
		}
	}
	return result, nil
}

// SetCatOwner updates one cat's owner reference. Missing rows map to
// ErrNotFound; a dangling owner reference maps to ErrForeignKey.
func (q *queries) SetCatOwner(ctx context.Context, catID int64, ownerID *int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q == nil || q.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	var owner sql.NullInt64
	if ownerID != nil {
		owner = sql.NullInt64{Int64: *ownerID, Valid: true}
	}
	res, err := q.db.ExecContext(ctx,
		`UPDATE cats SET owner_id = ?, updated_at = ? WHERE id = ?`,
		owner, toMillis(time.Now().UTC()), catID,
	)
	if err != nil {
		if classified := classifyConstraint(err); classified != err {
			return classified
		}
		return fmt.Errorf("set cat owner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set cat owner result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SoftDeleteCat marks one cat deleted at the given instant and clears its
// owner reference. Missing rows map to ErrNotFound.
func (q *queries) SoftDeleteCat(ctx context.Context, catID int64, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q == nil || q.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if at.IsZero() {
		return fmt.Errorf("deletion time is required")
	}
	res, err := q.db.ExecContext(ctx,
		`UPDATE cats SET deleted_at = ?, owner_id = NULL, updated_at = ? WHERE id = ?`,
		toMillis(at), toMillis(at), catID,
	)
	if err != nil {
		return fmt.Errorf("soft delete cat: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete cat result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// RestoreCat clears one cat's soft-delete marker. Missing rows map to
// ErrNotFound.
func (q *queries) RestoreCat(ctx context.Context, catID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q == nil || q.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	res, err := q.db.ExecContext(ctx,
		`UPDATE cats SET deleted_at = NULL, updated_at = ? WHERE id = ?`,
		toMillis(time.Now().UTC()), catID,
	)
	if err != nil {
		return fmt.Errorf("restore cat: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("restore cat result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListAvailableCats returns stray, non-deleted cats in creation order.
func (q *queries) ListAvailableCats(ctx context.Context) ([]storage.Cat, error) {
	return q.listCats(ctx,
		`SELECT `+catColumns+` FROM cats WHERE owner_id IS NULL AND deleted_at IS NULL ORDER BY id ASC`)
}

// ListDeletedCats returns soft-deleted cats, most recently deleted first.
func (q *queries) ListDeletedCats(ctx context.Context) ([]storage.Cat, error) {
	return q.listCats(ctx,
		`SELECT `+catColumns+` FROM cats WHERE deleted_at IS NOT NULL ORDER BY deleted_at DESC, id DESC`)
}

// ListCatsByOwner returns the user's non-deleted cats in creation order.
func (q *queries) ListCatsByOwner(ctx context.Context, ownerID int64) ([]storage.Cat, error) {
	return q.listCats(ctx,
		`SELECT `+catColumns+` FROM cats WHERE owner_id = ? AND deleted_at IS NULL ORDER BY id ASC`,
		ownerID)
}

// ListOwnedCatsByName returns the user's non-deleted cats ordered by name,
// the ordering used by the user detail view.
func (q *queries) ListOwnedCatsByName(ctx context.Context, ownerID int64) ([]storage.Cat, error) {
	return q.listCats(ctx,
		`SELECT `+catColumns+` FROM cats WHERE owner_id = ? AND deleted_at IS NULL ORDER BY name ASC`,
		ownerID)
}

// CountActiveCats returns the number of non-deleted cats.
func (q *queries) CountActiveCats(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if q == nil || q.db == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cats WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cats: %w", err)
	}
	return count, nil
}

func (q *queries) listCats(ctx context.Context, query string, args ...any) ([]storage.Cat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q == nil || q.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cats []storage.Cat
	for rows.Next() {
		var cat storage.Cat
		var ownerID, deletedAt sql.NullInt64
		var createdAt, updatedAt int64
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Age, &ownerID, &deletedAt, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan cat: %w", err)
		}
		applyCatNullables(&cat, ownerID, deletedAt, createdAt, updatedAt)
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cats: %w", err)
	}
	return cats, nil
}

func scanCatRow(row *sql.Row) (storage.Cat, error) {
	var cat storage.Cat
	var ownerID, deletedAt sql.NullInt64
	var createdAt, updatedAt int64
	err := row.Scan(&cat.ID, &cat.Name, &cat.Age, &ownerID, &deletedAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Cat{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Cat{}, fmt.Errorf("scan cat: %w", err)
	}
	applyCatNullables(&cat, ownerID, deletedAt, createdAt, updatedAt)
	return cat, nil
}

func applyCatNullables(cat *storage.Cat, ownerID, deletedAt sql.NullInt64, createdAt, updatedAt int64) {
	if ownerID.Valid {
		owner := ownerID.Int64
		cat.OwnerID = &owner
	}
	if deletedAt.Valid {
		deleted := fromMillis(deletedAt.Int64)
		cat.DeletedAt = &deleted
	}
	cat.CreatedAt = fromMillis(createdAt)
	cat.UpdatedAt = fromMillis(updatedAt)
}
