// Package domain implements the shelter lifecycle engines.
//
// Each operation runs as one atomic transaction against the persistence
// gateway: every precondition is checked inside the same transaction that
// would commit the mutation, so no partial write survives a failed check.
// Persistence-layer failures are classified into domain error kinds per
// operation; anything unclassified is logged with the entity id and
// operation, then wrapped without losing the cause.
package domain

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/strayhq/shelter/internal/errors"
	"github.com/strayhq/shelter/internal/shelter/storage"
)

// Entity kinds recorded on audit events.
const (
	entityCat  = "cat"
	entityUser = "user"
)

// Audit event names for destructive lifecycle operations.
const (
	eventCatAdopted       = "cat.adopted"
	eventCatSoftDeleted   = "cat.soft_deleted"
	eventCatRestored      = "cat.restored"
	eventUserDeleted      = "user.deleted"
	eventUserForceDeleted = "user.force_deleted"
)

func recordAudit(ctx context.Context, q storage.Queries, name, kind string, entityID int64, reason string, at time.Time) error {
	return q.PutAuditEvent(ctx, storage.AuditEvent{
		ID:         uuid.NewString(),
		EventName:  name,
		EntityKind: kind,
		EntityID:   entityID,
		Reason:     reason,
		CreatedAt:  at,
	})
}

// unclassified logs an unexpected persistence failure with its operation and
// entity id, then wraps it so the cause stays reachable for callers.
func unclassified(op string, entityID int64, err error) error {
	log.Printf("%s %d: unclassified storage error: %v", op, entityID, err)
	return apperrors.Wrap(apperrors.CodeUnknown, fmt.Sprintf("%s %d failed", op, entityID), err)
}
