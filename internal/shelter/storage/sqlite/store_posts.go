package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/strayhq/shelter/internal/shelter/storage"
)

// CreatePost inserts one post record.
func (q *queries) CreatePost(ctx context.Context, post storage.NewPost) (storage.Post, error) {
	if err := ctx.Err(); err != nil {
		return storage.Post{}, err
	}
	if q == nil || q.db == nil {
		return storage.Post{}, fmt.Errorf("storage is not configured")
	}
	title := strings.TrimSpace(post.Title)
	if title == "" {
		return storage.Post{}, fmt.Errorf("title is required")
	}
	if post.AuthorID <= 0 {
		return storage.Post{}, fmt.Errorf("author id is required")
	}
	now := time.Now().UTC()

	published := 0
	if post.Published {
		published = 1
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO posts (title, content, published, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		title, post.Content, published, post.AuthorID, toMillis(now), toMillis(now),
	)
	if err != nil {
		if classified := classifyConstraint(err); classified != err {
			return storage.Post{}, classified
		}
		return storage.Post{}, fmt.Errorf("create post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storage.Post{}, fmt.Errorf("create post id: %w", err)
	}
	return storage.Post{
		ID:        id,
		Title:     title,
		Content:   post.Content,
		Published: post.Published,
		AuthorID:  post.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ListPostsByAuthor returns the user's posts, newest first.
func (q *queries) ListPostsByAuthor(ctx context.Context, authorID int64) ([]storage.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q == nil || q.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, title, content, published, author_id, created_at, updated_at
		 FROM posts WHERE author_id = ? ORDER BY created_at DESC, id DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []storage.Post
	for rows.Next() {
		var post storage.Post
		var published int
		var createdAt, updatedAt int64
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &published, &post.AuthorID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		post.Published = published != 0
		post.CreatedAt = fromMillis(createdAt)
		post.UpdatedAt = fromMillis(updatedAt)
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// DeletePostsByAuthor removes every post authored by the user and returns
// the deleted count.
func (q *queries) DeletePostsByAuthor(ctx context.Context, authorID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if q == nil || q.db == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	res, err := q.db.ExecContext(ctx, `DELETE FROM posts WHERE author_id = ?`, authorID)
	if err != nil {
		return 0, fmt.Errorf("delete posts: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete posts result: %w", err)
	}
	return affected, nil
}
