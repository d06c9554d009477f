package relation

import (
	"context"
	"errors"

	"devmatch/backend/internal/models"
)

// Service implements the connection-request state machine on top of a
// Directory. Every operation validates its inputs before mutating and
// expresses its effect as idempotent set updates on one or two records, so
// repeated calls (including retries after ErrPartialWrite) are no-ops
// rather than errors.
type Service struct {
	dir Directory
}

func NewService(dir Directory) *Service {
	return &Service{dir: dir}
}

// SendInterest records a pending edge caller->target: target joins the
// caller's sent set and the caller joins the target's incoming set. Calling
// again while the edge is already pending is a no-op.
func (s *Service) SendInterest(ctx context.Context, callerID, targetID uint) error {
	if callerID == targetID {
		return ErrInvalidArgument
	}
	return s.dir.ApplyPairedEdgeUpdate(ctx, callerID, targetID,
		func(caller *models.User) {
			caller.SentRequests.Add(targetID)
		},
		func(target *models.User) {
			target.ConnectionRequests.Add(callerID)
		},
	)
}

// WithdrawInterest clears a pending edge caller->target from both records.
// Withdrawing an edge that does not exist is a no-op. Connections are left
// untouched.
func (s *Service) WithdrawInterest(ctx context.Context, callerID, targetID uint) error {
	if callerID == targetID {
		return ErrInvalidArgument
	}
	return s.dir.ApplyPairedEdgeUpdate(ctx, callerID, targetID,
		func(caller *models.User) {
			caller.SentRequests.Remove(targetID)
		},
		func(target *models.User) {
			target.ConnectionRequests.Remove(callerID)
		},
	)
}

// RejectRequest clears an incoming pending edge requester->caller from both
// records. The mirrored removal from the requester's sent set keeps the
// pending edge symmetric instead of leaving a stale half-edge behind.
func (s *Service) RejectRequest(ctx context.Context, callerID, requesterID uint) error {
	if callerID == requesterID {
		return ErrInvalidArgument
	}
	return s.dir.ApplyPairedEdgeUpdate(ctx, callerID, requesterID,
		func(caller *models.User) {
			caller.ConnectionRequests.Remove(requesterID)
		},
		func(requester *models.User) {
			requester.SentRequests.Remove(callerID)
		},
	)
}

// AcceptRequest converts a pending edge requester->caller into a symmetric
// connection. Both pending directions between the pair are cleared so the
// pair is never Pending and Connected at once, even when both users had
// requested each other.
func (s *Service) AcceptRequest(ctx context.Context, callerID, requesterID uint) error {
	if callerID == requesterID {
		return ErrInvalidArgument
	}

	caller, err := s.dir.Get(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.ConnectionRequests.Contains(requesterID) {
		return ErrNoSuchRequest
	}

	return s.dir.ApplyPairedEdgeUpdate(ctx, callerID, requesterID,
		func(caller *models.User) {
			caller.ConnectionRequests.Remove(requesterID)
			caller.SentRequests.Remove(requesterID)
			caller.Connections.Add(requesterID)
		},
		func(requester *models.User) {
			requester.SentRequests.Remove(callerID)
			requester.ConnectionRequests.Remove(callerID)
			requester.Connections.Add(callerID)
		},
	)
}

// ListIncomingRequests resolves the caller's unresolved incoming requests
// to full records, in the set's stored order.
func (s *Service) ListIncomingRequests(ctx context.Context, userID uint) ([]models.User, error) {
	user, err := s.dir.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, user.ConnectionRequests)
}

// ListConnections resolves the caller's established connections to full
// records, in the set's stored order.
func (s *Service) ListConnections(ctx context.Context, userID uint) ([]models.User, error) {
	user, err := s.dir.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, user.Connections)
}

// ListFeed returns a page of every user except the caller, regardless of
// relationship state, plus the total count.
func (s *Service) ListFeed(ctx context.Context, callerID uint, page, limit int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.dir.ListOthers(ctx, callerID, (page-1)*limit, limit)
}

func (s *Service) resolve(ctx context.Context, ids models.IDSet) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.dir.Get(ctx, id)
		if errors.Is(err, ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}
