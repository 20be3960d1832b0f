package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/strayhq/shelter/internal/shelter/storage/sqlite"
)

func TestRunSeedsDemoData(t *testing.T) {
	t.Parallel()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "shelter.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := Run(context.Background(), store); err != nil {
		t.Fatalf("run: %v", err)
	}

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 5 {
		t.Fatalf("users = %d, want 5", len(users))
	}

	count, err := store.CountActiveCats(context.Background())
	if err != nil {
		t.Fatalf("count cats: %v", err)
	}
	if count != 13 {
		t.Fatalf("cats = %d, want 13", count)
	}

	available, err := store.ListAvailableCats(context.Background())
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 5 {
		t.Fatalf("available strays = %d, want 5", len(available))
	}

	alice, err := store.GetUserByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("get alice: %v", err)
	}
	posts, err := store.ListPostsByAuthor(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("alice posts = %d, want 3", len(posts))
	}
}

func TestRunFailsOnSeededStore(t *testing.T) {
	t.Parallel()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "shelter.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := Run(context.Background(), store); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := Run(context.Background(), store); err == nil {
		t.Fatal("expected second run to fail on unique constraints")
	}

	// A failed rerun must not leave partial rows behind.
	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 5 {
		t.Fatalf("users = %d, want 5 after rolled-back rerun", len(users))
	}
}
