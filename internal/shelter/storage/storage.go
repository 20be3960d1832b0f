// Package storage defines persistence contracts for shelter state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate indicates a uniqueness-constrained record already exists.
var ErrDuplicate = errors.New("record already exists")

// ErrForeignKey indicates a referenced record does not exist.
var ErrForeignKey = errors.New("referenced record not found")

// User stores one registered user.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser carries the fields required to create a user.
type NewUser struct {
	Name  string
	Email string
}

// UserStats aggregates a user's dependents. ActiveCats counts cats that are
// not soft-deleted; Posts counts every authored post.
type UserStats struct {
	ActiveCats int64
	Posts      int64
}

// Cat stores one cat record. A nil OwnerID means the cat is a stray; a
// non-nil DeletedAt means the record is soft-deleted and logically absent
// from listing and ownership queries.
type Cat struct {
	ID        int64
	Name      string
	Age       int64
	OwnerID   *int64
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCat carries the fields required to create a cat.
type NewCat struct {
	Name    string
	Age     int64
	OwnerID *int64
}

// Owner is the owner projection attached to cat detail reads.
type Owner struct {
	ID    int64
	Name  string
	Email string
}

// CatWithOwner pairs a cat with its resolved owner, when any.
type CatWithOwner struct {
	Cat
	Owner *Owner
}

// Post stores one blog post authored by a user.
type Post struct {
	ID        int64
	Title     string
	Content   string
	Published bool
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPost carries the fields required to create a post.
type NewPost struct {
	Title     string
	Content   string
	Published bool
	AuthorID  int64
}

// AuditEvent records one destructive lifecycle operation for later review.
type AuditEvent struct {
	ID         string
	EventName  string
	EntityKind string
	EntityID   int64
	Reason     string
	CreatedAt  time.Time
}

// Queries is the set of persistence operations available both on the bare
// gateway and inside a transaction.
type Queries interface {
	// Users
	CreateUser(ctx context.Context, user NewUser) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id int64) error
	UserStats(ctx context.Context, id int64) (UserStats, error)
	ReleaseCatsByOwner(ctx context.Context, ownerID int64) (int64, error)

	// Cats
	CreateCat(ctx context.Context, cat NewCat) (Cat, error)
	GetCat(ctx context.Context, id int64) (Cat, error)
	GetCatWithOwner(ctx context.Context, id int64) (CatWithOwner, error)
	GetActiveCatWithOwner(ctx context.Context, id int64) (CatWithOwner, error)
	SetCatOwner(ctx context.Context, catID int64, ownerID *int64) error
	SoftDeleteCat(ctx context.Context, catID int64, at time.Time) error
	RestoreCat(ctx context.Context, catID int64) error
	ListAvailableCats(ctx context.Context) ([]Cat, error)
	ListDeletedCats(ctx context.Context) ([]Cat, error)
	ListCatsByOwner(ctx context.Context, ownerID int64) ([]Cat, error)
	ListOwnedCatsByName(ctx context.Context, ownerID int64) ([]Cat, error)
	CountActiveCats(ctx context.Context) (int64, error)

	// Posts
	CreatePost(ctx context.Context, post NewPost) (Post, error)
	ListPostsByAuthor(ctx context.Context, authorID int64) ([]Post, error)
	DeletePostsByAuthor(ctx context.Context, authorID int64) (int64, error)

	// Audit
	PutAuditEvent(ctx context.Context, event AuditEvent) error
}

// Gateway is the transactional persistence interface the lifecycle engines
// depend on. InTx runs fn against transaction-scoped queries; any error
// rolls the transaction back, otherwise it commits.
type Gateway interface {
	Queries
	InTx(ctx context.Context, fn func(Queries) error) error
}
