package relation

import (
	"context"

	"devmatch/backend/internal/models"
)

// EdgeMutation mutates the relationship sets of a single user record. It
// must touch only SentRequests, ConnectionRequests and Connections, and it
// must be idempotent so a retried operation can reapply it safely.
type EdgeMutation func(u *models.User)

// Directory is the user store the edge operations run against.
//
// Implementations guarantee that mutations to the same record are observed
// atomically with respect to each other: two concurrent updates of one
// record never interleave and lose a write. Updates to different records
// are not globally atomic; ApplyPairedEdgeUpdate reports a failed second
// write as ErrPartialWrite so callers can retry.
type Directory interface {
	// Get returns the record for id, or ErrUserNotFound.
	Get(ctx context.Context, id uint) (*models.User, error)

	// ApplyEdgeUpdate runs mut against the record for id under the record
	// lock and persists the result.
	ApplyEdgeUpdate(ctx context.Context, id uint, mut EdgeMutation) (*models.User, error)

	// ApplyPairedEdgeUpdate updates two records as one intent. Both ids are
	// resolved before either record is touched; if persisting the second
	// record fails after the first succeeded, the error wraps
	// ErrPartialWrite.
	ApplyPairedEdgeUpdate(ctx context.Context, idA, idB uint, mutA, mutB EdgeMutation) error

	// ListOthers returns a stable-ordered page of all users except
	// excludeID, plus the total count of such users.
	ListOthers(ctx context.Context, excludeID uint, offset, limit int) ([]models.User, int64, error)
}
