package domain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	apperrors "github.com/strayhq/shelter/internal/errors"
	"github.com/strayhq/shelter/internal/shelter/storage"
)

// UserService enforces safe-delete and force-delete rules for user records.
type UserService struct {
	store storage.Gateway
	clock func() time.Time
}

// NewUserService creates a user lifecycle engine backed by the given gateway.
func NewUserService(store storage.Gateway) *UserService {
	return &UserService{store: store, clock: time.Now}
}

// UserWithDetails pairs a user with its optional nested dependents.
// Cats holds only non-soft-deleted records; Stats counts follow the same
// filter for cats and include every post.
type UserWithDetails struct {
	storage.User
	Cats  []storage.Cat
	Posts []storage.Post
	Stats *storage.UserStats
}

// RemoveUserResult reports the outcome of a safe delete.
type RemoveUserResult struct {
	Message string
	User    storage.User
}

// ForceRemoveResult reports the outcome of a cascading delete.
type ForceRemoveResult struct {
	Message      string
	User         storage.User
	CatsAffected int64
	PostsDeleted int64
}

// FindByID returns one user, optionally with its active cats (ordered by
// name), posts (newest first), and dependent counts.
func (s *UserService) FindByID(ctx context.Context, id int64, includeDetails bool) (UserWithDetails, error) {
	if s == nil || s.store == nil {
		return UserWithDetails{}, fmt.Errorf("user service is not configured")
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return UserWithDetails{}, apperrors.New(apperrors.CodeUserNotFound,
				fmt.Sprintf("user with id %d does not exist", id))
		}
		return UserWithDetails{}, unclassified("find user", id, err)
	}
	result := UserWithDetails{User: user}
	if !includeDetails {
		return result, nil
	}

	cats, err := s.store.ListOwnedCatsByName(ctx, id)
	if err != nil {
		return UserWithDetails{}, unclassified("find user", id, err)
	}
	posts, err := s.store.ListPostsByAuthor(ctx, id)
	if err != nil {
		return UserWithDetails{}, unclassified("find user", id, err)
	}
	stats, err := s.store.UserStats(ctx, id)
	if err != nil {
		return UserWithDetails{}, unclassified("find user", id, err)
	}
	result.Cats = cats
	result.Posts = posts
	result.Stats = &stats
	return result, nil
}

// FindAll returns every user, newest first, optionally with dependent counts.
func (s *UserService) FindAll(ctx context.Context, includeStats bool) ([]UserWithDetails, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("user service is not configured")
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, unclassified("list users", 0, err)
	}
	results := make([]UserWithDetails, 0, len(users))
	for _, user := range users {
		entry := UserWithDetails{User: user}
		if includeStats {
			stats, err := s.store.UserStats(ctx, user.ID)
			if err != nil {
				return nil, unclassified("list users", user.ID, err)
			}
			entry.Stats = &stats
		}
		results = append(results, entry)
	}
	return results, nil
}

// Create registers a new user.
func (s *UserService) Create(ctx context.Context, name, email string) (storage.User, error) {
	if s == nil || s.store == nil {
		return storage.User{}, fmt.Errorf("user service is not configured")
	}
	user, err := s.store.CreateUser(ctx, storage.NewUser{Name: name, Email: email})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return storage.User{}, apperrors.WithMetadata(apperrors.CodeEmailTaken,
				fmt.Sprintf("email %s is already in use", email),
				map[string]string{"email": email})
		}
		return storage.User{}, unclassified("create user", 0, err)
	}
	return user, nil
}

// Remove deletes a user only when it has no dependents. Active cats are
// checked before posts, so a user violating both reports only the cat
// conflict.
func (s *UserService) Remove(ctx context.Context, userID int64, reason string) (RemoveUserResult, error) {
	if s == nil || s.store == nil {
		return RemoveUserResult{}, fmt.Errorf("user service is not configured")
	}
	var result RemoveUserResult
	err := s.store.InTx(ctx, func(q storage.Queries) error {
		user, err := q.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.New(apperrors.CodeUserNotFound,
					fmt.Sprintf("user with id %d does not exist", userID))
			}
			return unclassified("remove user", userID, err)
		}
		stats, err := q.UserStats(ctx, userID)
		if err != nil {
			return unclassified("remove user", userID, err)
		}
		if stats.ActiveCats > 0 {
			return apperrors.WithMetadata(apperrors.CodeUserHasCats,
				fmt.Sprintf("cannot delete user %s: still owns %d cat(s)", user.Name, stats.ActiveCats),
				map[string]string{"userId": fmt.Sprint(userID), "cats": fmt.Sprint(stats.ActiveCats)})
		}
		if stats.Posts > 0 {
			return apperrors.WithMetadata(apperrors.CodeUserHasPosts,
				fmt.Sprintf("cannot delete user %s: still has %d post(s)", user.Name, stats.Posts),
				map[string]string{"userId": fmt.Sprint(userID), "posts": fmt.Sprint(stats.Posts)})
		}
		if err := q.DeleteUser(ctx, userID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.New(apperrors.CodeUserNotFound,
					fmt.Sprintf("user with id %d does not exist", userID))
			}
			return unclassified("remove user", userID, err)
		}
		if err := recordAudit(ctx, q, eventUserDeleted, entityUser, userID, reason, s.clock().UTC()); err != nil {
			return unclassified("remove user", userID, err)
		}
		result = RemoveUserResult{
			Message: fmt.Sprintf("user %s has been deleted", displayName(user)),
			User:    user,
		}
		return nil
	})
	if err != nil {
		return RemoveUserResult{}, err
	}
	return result, nil
}

// ForceRemove deletes a user along with its dependents: every owned cat,
// soft-deleted ones included, goes back to stray and every authored post is
// removed before the user row itself. A missing user reports NotFound; any
// other failure is reported as a single generic force-delete error.
func (s *UserService) ForceRemove(ctx context.Context, userID int64) (ForceRemoveResult, error) {
	if s == nil || s.store == nil {
		return ForceRemoveResult{}, fmt.Errorf("user service is not configured")
	}
	var result ForceRemoveResult
	err := s.store.InTx(ctx, func(q storage.Queries) error {
		user, err := q.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.New(apperrors.CodeUserNotFound,
					fmt.Sprintf("user with id %d does not exist", userID))
			}
			return err
		}
		catsAffected, err := q.ReleaseCatsByOwner(ctx, userID)
		if err != nil {
			return err
		}
		postsDeleted, err := q.DeletePostsByAuthor(ctx, userID)
		if err != nil {
			return err
		}
		if err := q.DeleteUser(ctx, userID); err != nil {
			return err
		}
		if err := recordAudit(ctx, q, eventUserForceDeleted, entityUser, userID, "", s.clock().UTC()); err != nil {
			return err
		}
		result = ForceRemoveResult{
			Message:      fmt.Sprintf("user %s and all associated data have been deleted", displayName(user)),
			User:         user,
			CatsAffected: catsAffected,
			PostsDeleted: postsDeleted,
		}
		return nil
	})
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeUserNotFound) {
			return ForceRemoveResult{}, err
		}
		log.Printf("force remove user %d: %v", userID, err)
		return ForceRemoveResult{}, apperrors.Wrap(apperrors.CodeForceDeleteFailed,
			"force delete user failed", err)
	}
	return result, nil
}

// EmailExists reports whether the email belongs to a user other than
// excludeUserID. It backs "is this email free to take" checks during
// updates; pass nil to check against every user.
func (s *UserService) EmailExists(ctx context.Context, email string, excludeUserID *int64) (bool, error) {
	if s == nil || s.store == nil {
		return false, fmt.Errorf("user service is not configured")
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, unclassified("check email", 0, err)
	}
	if excludeUserID != nil && user.ID == *excludeUserID {
		return false, nil
	}
	return true, nil
}

func displayName(user storage.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}
