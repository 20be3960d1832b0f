package domain

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/strayhq/shelter/internal/errors"
	"github.com/strayhq/shelter/internal/shelter/storage"
)

// PostService manages blog posts. Posts carry no lifecycle rules of their
// own beyond the cascade applied by a user force-delete.
type PostService struct {
	store storage.Gateway
}

// NewPostService creates a post engine backed by the given gateway.
func NewPostService(store storage.Gateway) *PostService {
	return &PostService{store: store}
}

// Create publishes or drafts a new post for an author.
func (s *PostService) Create(ctx context.Context, authorID int64, title, content string, published bool) (storage.Post, error) {
	if s == nil || s.store == nil {
		return storage.Post{}, fmt.Errorf("post service is not configured")
	}
	post, err := s.store.CreatePost(ctx, storage.NewPost{
		Title:     title,
		Content:   content,
		Published: published,
		AuthorID:  authorID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrForeignKey) {
			return storage.Post{}, apperrors.New(apperrors.CodeAuthorNotFound,
				fmt.Sprintf("author with id %d does not exist", authorID))
		}
		return storage.Post{}, unclassified("create post", authorID, err)
	}
	return post, nil
}

// ByAuthor returns the user's posts, newest first. The user must exist.
func (s *PostService) ByAuthor(ctx context.Context, authorID int64) ([]storage.Post, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("post service is not configured")
	}
	if _, err := s.store.GetUser(ctx, authorID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeUserNotFound,
				fmt.Sprintf("user with id %d does not exist", authorID))
		}
		return nil, unclassified("posts by author", authorID, err)
	}
	return s.store.ListPostsByAuthor(ctx, authorID)
}
