package audit

import "context"

// DefaultRecentLimit bounds listing when the caller does not ask for a limit
const DefaultRecentLimit = 50

// Repository is the append-only audit trail store
type Repository interface {
	Append(ctx context.Context, event *Event) error

	// Recent returns up to limit events, newest first. Non-positive limits
	// fall back to DefaultRecentLimit.
	Recent(ctx context.Context, limit int) ([]*Event, error)
}
