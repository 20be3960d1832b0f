package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/strayhq/shelter/internal/errors"
	"github.com/strayhq/shelter/internal/shelter/storage"
)

// CatService enforces adoption, soft-delete, restore, and availability rules
// for cat records.
type CatService struct {
	store storage.Gateway
	clock func() time.Time
}

// NewCatService creates a cat lifecycle engine backed by the given gateway.
func NewCatService(store storage.Gateway) *CatService {
	return &CatService{store: store, clock: time.Now}
}

// DeleteCatResult reports the outcome of a soft delete.
type DeleteCatResult struct {
	Message string
	Cat     storage.CatWithOwner
}

// Adopt assigns a stray cat to a user. The existence checks and the owner
// update run in one transaction so a concurrent adoption or user removal
// cannot produce a dangling owner reference.
func (s *CatService) Adopt(ctx context.Context, catID, userID int64, reason string) (storage.CatWithOwner, error) {
	if s == nil || s.store == nil {
		return storage.CatWithOwner{}, fmt.Errorf("cat service is not configured")
	}
	var adopted storage.CatWithOwner
	err := s.store.InTx(ctx, func(q storage.Queries) error {
		cat, err := q.GetCatWithOwner(ctx, catID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.WithMetadata(apperrors.CodeCatNotFound,
					fmt.Sprintf("cat with id %d does not exist", catID),
					map[string]string{"catId": fmt.Sprint(catID)})
			}
			return unclassified("adopt cat", catID, err)
		}
		if cat.OwnerID != nil {
			ownerName := "unknown"
			if cat.Owner != nil {
				ownerName = cat.Owner.Name
			}
			return apperrors.WithMetadata(apperrors.CodeCatAlreadyAdopted,
				fmt.Sprintf("cat %s is already adopted, current owner: %s", cat.Name, ownerName),
				map[string]string{"catId": fmt.Sprint(catID), "ownerName": ownerName})
		}
		if _, err := q.GetUser(ctx, userID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.WithMetadata(apperrors.CodeUserNotFound,
					fmt.Sprintf("user with id %d does not exist", userID),
					map[string]string{"userId": fmt.Sprint(userID)})
			}
			return unclassified("adopt cat", catID, err)
		}
		if err := q.SetCatOwner(ctx, catID, &userID); err != nil {
			// A write-time signal still maps per this operation: a vanished
			// row means the cat, a foreign-key failure means the user.
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return apperrors.New(apperrors.CodeCatNotFound,
					fmt.Sprintf("cat with id %d does not exist", catID))
			case errors.Is(err, storage.ErrForeignKey):
				return apperrors.New(apperrors.CodeUserNotFound,
					fmt.Sprintf("user with id %d does not exist", userID))
			}
			return unclassified("adopt cat", catID, err)
		}
		if err := recordAudit(ctx, q, eventCatAdopted, entityCat, catID, reason, s.clock().UTC()); err != nil {
			return unclassified("adopt cat", catID, err)
		}
		adopted, err = q.GetCatWithOwner(ctx, catID)
		if err != nil {
			return unclassified("adopt cat", catID, err)
		}
		return nil
	})
	if err != nil {
		return storage.CatWithOwner{}, err
	}
	return adopted, nil
}

// Delete soft-deletes a cat: the deletion timestamp is set and ownership is
// released in the same transaction.
func (s *CatService) Delete(ctx context.Context, catID int64, reason string) (DeleteCatResult, error) {
	if s == nil || s.store == nil {
		return DeleteCatResult{}, fmt.Errorf("cat service is not configured")
	}
	var result DeleteCatResult
	err := s.store.InTx(ctx, func(q storage.Queries) error {
		cat, err := q.GetCatWithOwner(ctx, catID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.New(apperrors.CodeCatNotFound,
					fmt.Sprintf("cat with id %d does not exist", catID))
			}
			return unclassified("delete cat", catID, err)
		}
		if cat.DeletedAt != nil {
			return apperrors.New(apperrors.CodeCatAlreadyDeleted,
				fmt.Sprintf("cat %s is already deleted", cat.Name))
		}
		now := s.clock().UTC()
		if err := q.SoftDeleteCat(ctx, catID, now); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.New(apperrors.CodeCatNotFound,
					fmt.Sprintf("cat with id %d does not exist", catID))
			}
			return unclassified("delete cat", catID, err)
		}
		if err := recordAudit(ctx, q, eventCatSoftDeleted, entityCat, catID, reason, now); err != nil {
			return unclassified("delete cat", catID, err)
		}
		deleted, err := q.GetCatWithOwner(ctx, catID)
		if err != nil {
			return unclassified("delete cat", catID, err)
		}
		result = DeleteCatResult{
			Message: fmt.Sprintf("cat %s has been deleted", deleted.Name),
			Cat:     deleted,
		}
		return nil
	})
	if err != nil {
		return DeleteCatResult{}, err
	}
	return result, nil
}

// Restore clears a cat's soft-delete marker. The cat comes back as a stray;
// its previous ownership is not reinstated.
func (s *CatService) Restore(ctx context.Context, catID int64) (storage.Cat, error) {
	if s == nil || s.store == nil {
		return storage.Cat{}, fmt.Errorf("cat service is not configured")
	}
	var restored storage.Cat
	err := s.store.InTx(ctx, func(q storage.Queries) error {
		cat, err := q.GetCat(ctx, catID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.New(apperrors.CodeCatNotFound,
					fmt.Sprintf("cat with id %d does not exist", catID))
			}
			return unclassified("restore cat", catID, err)
		}
		if cat.DeletedAt == nil {
			return apperrors.New(apperrors.CodeCatNotDeleted,
				fmt.Sprintf("cat %s is not deleted", cat.Name))
		}
		if err := q.RestoreCat(ctx, catID); err != nil {
			return unclassified("restore cat", catID, err)
		}
		if err := recordAudit(ctx, q, eventCatRestored, entityCat, catID, "", s.clock().UTC()); err != nil {
			return unclassified("restore cat", catID, err)
		}
		restored, err = q.GetCat(ctx, catID)
		if err != nil {
			return unclassified("restore cat", catID, err)
		}
		return nil
	})
	if err != nil {
		return storage.Cat{}, err
	}
	return restored, nil
}

// Detail returns one non-deleted cat with its owner resolved.
func (s *CatService) Detail(ctx context.Context, catID int64) (storage.CatWithOwner, error) {
	if s == nil || s.store == nil {
		return storage.CatWithOwner{}, fmt.Errorf("cat service is not configured")
	}
	cat, err := s.store.GetActiveCatWithOwner(ctx, catID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.CatWithOwner{}, apperrors.New(apperrors.CodeCatNotFound,
				fmt.Sprintf("cat with id %d does not exist", catID))
		}
		return storage.CatWithOwner{}, unclassified("cat detail", catID, err)
	}
	return cat, nil
}

// Insert creates a cat, optionally already owned.
func (s *CatService) Insert(ctx context.Context, name string, age int64, ownerID *int64) (storage.Cat, error) {
	if s == nil || s.store == nil {
		return storage.Cat{}, fmt.Errorf("cat service is not configured")
	}
	cat, err := s.store.CreateCat(ctx, storage.NewCat{Name: name, Age: age, OwnerID: ownerID})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			return storage.Cat{}, apperrors.New(apperrors.CodeCatNameTaken,
				fmt.Sprintf("cat name %s already exists", name))
		case errors.Is(err, storage.ErrForeignKey):
			owner := int64(0)
			if ownerID != nil {
				owner = *ownerID
			}
			return storage.Cat{}, apperrors.New(apperrors.CodeOwnerNotFound,
				fmt.Sprintf("owner with id %d does not exist", owner))
		}
		return storage.Cat{}, unclassified("insert cat", 0, err)
	}
	return cat, nil
}

// Deleted returns soft-deleted cats, most recently deleted first.
func (s *CatService) Deleted(ctx context.Context) ([]storage.Cat, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("cat service is not configured")
	}
	return s.store.ListDeletedCats(ctx)
}

// Available returns stray, non-deleted cats in creation order.
func (s *CatService) Available(ctx context.Context) ([]storage.Cat, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("cat service is not configured")
	}
	return s.store.ListAvailableCats(ctx)
}

// ByOwner returns the user's non-deleted cats. The user must exist.
func (s *CatService) ByOwner(ctx context.Context, userID int64) ([]storage.Cat, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("cat service is not configured")
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeUserNotFound,
				fmt.Sprintf("user with id %d does not exist", userID))
		}
		return nil, unclassified("cats by owner", userID, err)
	}
	return s.store.ListCatsByOwner(ctx, userID)
}

// Count returns the number of non-deleted cats.
func (s *CatService) Count(ctx context.Context) (int64, error) {
	if s == nil || s.store == nil {
		return 0, fmt.Errorf("cat service is not configured")
	}
	return s.store.CountActiveCats(ctx)
}
