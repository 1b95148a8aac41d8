// Package session stores per-session dialogue context between turns.
// Operations on one session are serialized; sessions are independent of
// each other. Idle sessions are evicted, which drops any pending intent or
// awaiting confirmation; abandoned conversations lose that in-flight state.
package session

import (
	"context"

	"concierge/models"
)

// Store is the per-session context store.
type Store interface {
	// Get returns the session's context, creating an empty one on first access.
	Get(ctx context.Context, sessionID string) (*models.DialogContext, error)
	// Update runs mutate under the session's lock as one read-modify-write.
	// Holding the lock for the whole turn is what keeps a session's turns
	// strictly ordered. The mutated context is returned.
	Update(ctx context.Context, sessionID string, mutate func(*models.DialogContext) error) (*models.DialogContext, error)
	// Clear drops the session's context.
	Clear(ctx context.Context, sessionID string) error
}
