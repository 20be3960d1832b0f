package domain

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/strayhq/shelter/internal/errors"
	"github.com/strayhq/shelter/internal/shelter/storage"
	"github.com/strayhq/shelter/internal/shelter/storage/sqlite"
)

func TestAdoptStrayCat(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)
	user := mustUser(t, store, "alice@example.com")
	cat := mustCat(t, store, "Ginger", nil)

	adopted, err := cats.Adopt(context.Background(), cat.ID, user.ID, "")
	if err != nil {
		t.Fatalf("adopt: %v", err)
	}
	if adopted.OwnerID == nil || *adopted.OwnerID != user.ID {
		t.Fatalf("owner id = %v, want %d", adopted.OwnerID, user.ID)
	}
	if adopted.Owner == nil || adopted.Owner.Email != "alice@example.com" {
		t.Fatalf("owner = %+v, want resolved owner info", adopted.Owner)
	}
}

func TestAdoptTwiceConflicts(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)
	user := mustUser(t, store, "first@example.com")
	other := mustUser(t, store, "second@example.com")
	cat := mustCat(t, store, "Taken", nil)

	if _, err := cats.Adopt(context.Background(), cat.ID, user.ID, ""); err != nil {
		t.Fatalf("first adopt: %v", err)
	}
	_, err := cats.Adopt(context.Background(), cat.ID, user.ID, "")
	if !apperrors.IsCode(err, apperrors.CodeCatAlreadyAdopted) {
		t.Fatalf("second adopt error = %v, want %s", err, apperrors.CodeCatAlreadyAdopted)
	}
	_, err = cats.Adopt(context.Background(), cat.ID, other.ID, "")
	if !apperrors.IsCode(err, apperrors.CodeCatAlreadyAdopted) {
		t.Fatalf("adopt by other user error = %v, want %s", err, apperrors.CodeCatAlreadyAdopted)
	}
}

func TestAdoptMissingCat(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)
	user := mustUser(t, store, "lonely@example.com")

	_, err := cats.Adopt(context.Background(), 404, user.ID, "")
	if !apperrors.IsCode(err, apperrors.CodeCatNotFound) {
		t.Fatalf("adopt error = %v, want %s", err, apperrors.CodeCatNotFound)
	}
}

func TestAdoptMissingUserLeavesCatStray(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)
	cat := mustCat(t, store, "Stray", nil)

	_, err := cats.Adopt(context.Background(), cat.ID, 9999, "")
	if !apperrors.IsCode(err, apperrors.CodeUserNotFound) {
		t.Fatalf("adopt error = %v, want %s", err, apperrors.CodeUserNotFound)
	}

	got, err := store.GetCat(context.Background(), cat.ID)
	if err != nil {
		t.Fatalf("get cat: %v", err)
	}
	if got.OwnerID != nil {
		t.Fatal("expected failed adoption to leave no partial write")
	}
}

func TestDeleteCatClearsOwnerAndSetsTimestamp(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)
	now := time.Date(2026, time.April, 2, 9, 30, 0, 0, time.UTC)
	cats.clock = func() time.Time { return now }

	user := mustUser(t, store, "owner@example.com")
	cat := mustCat(t, store, "Whiskers", &user.ID)

	result, err := cats.Delete(context.Background(), cat.ID, "moving away")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if result.Cat.OwnerID != nil {
		t.Fatal("expected cleared owner after soft delete")
	}
	if result.Cat.DeletedAt == nil || !result.Cat.DeletedAt.Equal(now) {
		t.Fatalf("deleted_at = %v, want %v", result.Cat.DeletedAt, now)
	}
	if result.Message == "" {
		t.Fatal("expected confirmation message")
	}
}

func TestDeleteCatTwiceConflicts(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)
	cat := mustCat(t, store, "Twice", nil)

	if _, err := cats.Delete(context.Background(), cat.ID, ""); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	_, err := cats.Delete(context.Background(), cat.ID, "")
	if !apperrors.IsCode(err, apperrors.CodeCatAlreadyDeleted) {
		t.Fatalf("second delete error = %v, want %s", err, apperrors.CodeCatAlreadyDeleted)
	}
}

func TestDeleteCatMissing(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)

	_, err := cats.Delete(context.Background(), 404, "")
	if !apperrors.IsCode(err, apperrors.CodeCatNotFound) {
		t.Fatalf("delete error = %v, want %s", err, apperrors.CodeCatNotFound)
	}
}

func TestRestoreCat(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)
	user := mustUser(t, store, "past-owner@example.com")
	cat := mustCat(t, store, "Phoenix", &user.ID)

	if _, err := cats.Delete(context.Background(), cat.ID, ""); err != nil {
		t.Fatalf("delete: %v", err)
	}
	restored, err := cats.Restore(context.Background(), cat.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.DeletedAt != nil {
		t.Fatal("expected cleared deleted_at after restore")
	}
	if restored.OwnerID != nil {
		t.Fatal("expected restored cat to come back as a stray")
	}

	_, err = cats.Restore(context.Background(), cat.ID)
	if !apperrors.IsCode(err, apperrors.CodeCatNotDeleted) {
		t.Fatalf("restore active cat error = %v, want %s", err, apperrors.CodeCatNotDeleted)
	}
}

func TestDetailExcludesDeletedCats(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)
	cat := mustCat(t, store, "Hidden", nil)

	if _, err := cats.Detail(context.Background(), cat.ID); err != nil {
		t.Fatalf("detail before delete: %v", err)
	}
	if _, err := cats.Delete(context.Background(), cat.ID, ""); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err := cats.Detail(context.Background(), cat.ID)
	if !apperrors.IsCode(err, apperrors.CodeCatNotFound) {
		t.Fatalf("detail error = %v, want %s", err, apperrors.CodeCatNotFound)
	}
}

func TestInsertCatConflictsAndMissingOwner(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)
	if _, err := cats.Insert(context.Background(), "Unique", 3, nil); err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err := cats.Insert(context.Background(), "Unique", 1, nil)
	if !apperrors.IsCode(err, apperrors.CodeCatNameTaken) {
		t.Fatalf("duplicate insert error = %v, want %s", err, apperrors.CodeCatNameTaken)
	}

	missing := int64(9999)
	_, err = cats.Insert(context.Background(), "Orphan", 1, &missing)
	if !apperrors.IsCode(err, apperrors.CodeOwnerNotFound) {
		t.Fatalf("insert with missing owner error = %v, want %s", err, apperrors.CodeOwnerNotFound)
	}
}

func TestByOwnerRequiresUser(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)

	_, err := cats.ByOwner(context.Background(), 404)
	if !apperrors.IsCode(err, apperrors.CodeUserNotFound) {
		t.Fatalf("by owner error = %v, want %s", err, apperrors.CodeUserNotFound)
	}
}

func TestAvailableExcludesOwnedAndDeleted(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)
	user := mustUser(t, store, "keeper@example.com")
	stray := mustCat(t, store, "Free", nil)
	mustCat(t, store, "Kept", &user.ID)
	gone := mustCat(t, store, "Gone", nil)
	if _, err := cats.Delete(context.Background(), gone.ID, ""); err != nil {
		t.Fatalf("delete: %v", err)
	}

	available, err := cats.Available(context.Background())
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	for _, cat := range available {
		if cat.OwnerID != nil {
			t.Fatalf("available cat %d has an owner", cat.ID)
		}
		if cat.DeletedAt != nil {
			t.Fatalf("available cat %d is deleted", cat.ID)
		}
	}
	if len(available) != 1 || available[0].ID != stray.ID {
		t.Fatalf("available = %+v, want only cat %d", available, stray.ID)
	}
}

func TestCountSkipsDeleted(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)
	mustCat(t, store, "One", nil)
	gone := mustCat(t, store, "Two", nil)
	if _, err := cats.Delete(context.Background(), gone.ID, ""); err != nil {
		t.Fatalf("delete: %v", err)
	}

	count, err := cats.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

// TestAdoptionLifecycleScenario walks one cat through adoption, a blocked
// second adoption, and soft deletion.
func TestAdoptionLifecycleScenario(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	cats := NewCatService(store)
	user := mustUser(t, store, "scenario@example.com")
	ginger, err := cats.Insert(context.Background(), "Ginger", 2, nil)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	adopted, err := cats.Adopt(context.Background(), ginger.ID, user.ID, "")
	if err != nil {
		t.Fatalf("adopt: %v", err)
	}
	if adopted.Owner == nil || adopted.Owner.ID != user.ID {
		t.Fatalf("owner = %+v, want user %d", adopted.Owner, user.ID)
	}

	if _, err := cats.Adopt(context.Background(), ginger.ID, user.ID, ""); !apperrors.IsCode(err, apperrors.CodeCatAlreadyAdopted) {
		t.Fatalf("re-adopt error = %v, want %s", err, apperrors.CodeCatAlreadyAdopted)
	}

	deleted, err := cats.Delete(context.Background(), ginger.ID, "")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Cat.OwnerID != nil || deleted.Cat.DeletedAt == nil {
		t.Fatalf("deleted cat = %+v, want stray with deleted_at set", deleted.Cat)
	}

	available, err := cats.Available(context.Background())
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	for _, cat := range available {
		if cat.ID == ginger.ID {
			t.Fatal("deleted cat listed as available")
		}
	}
}

func openTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "shelter.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func mustUser(t *testing.T, store *sqlite.Store, email string) storage.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), storage.NewUser{Name: "Test User", Email: email})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func mustCat(t *testing.T, store *sqlite.Store, name string, ownerID *int64) storage.Cat {
	t.Helper()
	cat, err := store.CreateCat(context.Background(), storage.NewCat{Name: name, Age: 2, OwnerID: ownerID})
	if err != nil {
		t.Fatalf("create cat %s: %v", name, err)
	}
	return cat
}
