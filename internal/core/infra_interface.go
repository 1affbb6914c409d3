package core

import (
	"context"

	"github.com/docenthq/docent/internal/models"
)

// PayloadStore is the ephemeral handoff between the initiation step and the
// streaming step of a chat request. Entries live for a fixed TTL and are
// evicted lazily; a Get past the TTL behaves exactly like a miss.
//
// It abstracts the storage backend so higher layers never depend on a specific
// store: the default is process-local memory (single-instance deployments),
// with a Redis implementation for deployments where initiate and stream may
// land on different instances.
type PayloadStore interface {
	Set(ctx context.Context, id string, payload *models.StreamPayload) error
	Get(ctx context.Context, id string) (*models.StreamPayload, bool, error)
	Delete(ctx context.Context, id string) error
}
