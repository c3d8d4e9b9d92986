// Package consumer materializes audit events read from Kafka into a
// queryable store.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cavidescun/314q34wefasd/internal/platform/kafka"
	audit "github.com/cavidescun/314q34wefasd/pkg/platform/audit"
)

// IdempotentStore stores an event under its own ID, ignoring duplicates.
type IdempotentStore interface {
	AppendWithID(ctx context.Context, eventID uuid.UUID, event audit.Event) error
}

type Handler struct {
	store  IdempotentStore
	logger *slog.Logger
}

func NewHandler(store IdempotentStore, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Handle decodes one audit record. Malformed records are logged and skipped
// so they never block the partition.
func (h *Handler) Handle(ctx context.Context, msg *kafka.Message) error {
	var event audit.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal audit payload",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	eventID, err := uuid.Parse(event.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit event has no valid id",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"action", event.Action,
		)
		return nil
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if err := h.store.AppendWithID(ctx, eventID, event); err != nil {
		return fmt.Errorf("store audit event: %w", err)
	}

	h.logger.DebugContext(ctx, "stored audit event",
		"event_id", eventID,
		"action", event.Action,
	)
	return nil
}
