package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/strayhq/shelter/internal/shelter/storage"
)

// PutAuditEvent records one lifecycle audit event.
func (q *queries) PutAuditEvent(ctx context.Context, event storage.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q == nil || q.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(event.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	if strings.TrimSpace(event.EventName) == "" {
		return fmt.Errorf("event name is required")
	}
	if strings.TrimSpace(event.EntityKind) == "" {
		return fmt.Errorf("entity kind is required")
	}
	if event.EntityID <= 0 {
		return fmt.Errorf("entity id is required")
	}
	if event.CreatedAt.IsZero() {
		return fmt.Errorf("created at is required")
	}

	_, err := q.db.ExecContext(ctx, `
INSERT INTO audit_events (id, event_name, entity_kind, entity_id, reason, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`,
		strings.TrimSpace(event.ID),
		strings.TrimSpace(event.EventName),
		strings.TrimSpace(event.EntityKind),
		event.EntityID,
		strings.TrimSpace(event.Reason),
		toMillis(event.CreatedAt),
	)
	if err != nil {
		if classified := classifyConstraint(err); classified != err {
			return classified
		}
		return fmt.Errorf("put audit event: %w", err)
	}
	return nil
}
