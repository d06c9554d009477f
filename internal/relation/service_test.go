package relation_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"devmatch/backend/internal/directory"
	"devmatch/backend/internal/models"
	"devmatch/backend/internal/relation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T, userCount int) (*relation.Service, *directory.Memory, []uint) {
	t.Helper()
	dir := directory.NewMemory()
	ids := make([]uint, userCount)
	for i := range ids {
		ids[i] = dir.Create(&models.User{
			FirstName: fmt.Sprintf("User%d", i),
			LastName:  "Test",
			Email:     fmt.Sprintf("user%d@example.com", i),
		})
	}
	return relation.NewService(dir), dir, ids
}

// checkInvariants asserts the always-true relationship invariants over
// every pair: no self-edges, pending symmetry and connection symmetry.
// Pending/connected mutual exclusion holds right after an accept but a
// later SendInterest may recreate a pending edge over an existing
// connection, so the accept tests assert it directly instead.
func checkInvariants(t *testing.T, dir *directory.Memory, ids []uint) {
	t.Helper()
	ctx := context.Background()

	users := make(map[uint]*models.User, len(ids))
	for _, id := range ids {
		u, err := dir.Get(ctx, id)
		require.NoError(t, err)
		users[id] = u
	}

	for _, a := range ids {
		ua := users[a]
		assert.False(t, ua.SentRequests.Contains(a), "user %d has itself in sentRequests", a)
		assert.False(t, ua.ConnectionRequests.Contains(a), "user %d has itself in connectionRequests", a)
		assert.False(t, ua.Connections.Contains(a), "user %d has itself in connections", a)

		for _, b := range ids {
			if a == b {
				continue
			}
			ub := users[b]

			assert.Equal(t, ua.SentRequests.Contains(b), ub.ConnectionRequests.Contains(a),
				"pending edge %d->%d is not mirrored", a, b)
			assert.Equal(t, ua.Connections.Contains(b), ub.Connections.Contains(a),
				"connection %d<->%d is not symmetric", a, b)
		}
	}
}

func TestSendInterestCreatesPendingEdge(t *testing.T) {
	svc, dir, ids := newFixture(t, 2)
	ctx := context.Background()

	require.NoError(t, svc.SendInterest(ctx, ids[0], ids[1]))

	caller, _ := dir.Get(ctx, ids[0])
	target, _ := dir.Get(ctx, ids[1])
	assert.True(t, caller.SentRequests.Contains(ids[1]))
	assert.True(t, target.ConnectionRequests.Contains(ids[0]))
	assert.Empty(t, caller.Connections)
	assert.Empty(t, target.Connections)

	checkInvariants(t, dir, ids)
}

func TestSendInterestIsIdempotent(t *testing.T) {
	svc, dir, ids := newFixture(t, 2)
	ctx := context.Background()

	require.NoError(t, svc.SendInterest(ctx, ids[0], ids[1]))
	require.NoError(t, svc.SendInterest(ctx, ids[0], ids[1]))

	caller, _ := dir.Get(ctx, ids[0])
	target, _ := dir.Get(ctx, ids[1])
	assert.Equal(t, models.IDSet{ids[1]}, caller.SentRequests)
	assert.Equal(t, models.IDSet{ids[0]}, target.ConnectionRequests)
}

func TestSendInterestToSelfFails(t *testing.T) {
	svc, dir, ids := newFixture(t, 1)

	err := svc.SendInterest(context.Background(), ids[0], ids[0])
	assert.ErrorIs(t, err, relation.ErrInvalidArgument)

	user, _ := dir.Get(context.Background(), ids[0])
	assert.Empty(t, user.SentRequests)
	assert.Empty(t, user.ConnectionRequests)
}

func TestSendInterestToUnknownUserFails(t *testing.T) {
	svc, dir, ids := newFixture(t, 1)

	err := svc.SendInterest(context.Background(), ids[0], 999)
	assert.ErrorIs(t, err, relation.ErrUserNotFound)

	user, _ := dir.Get(context.Background(), ids[0])
	assert.Empty(t, user.SentRequests)
}

func TestWithdrawInterestRestoresPriorState(t *testing.T) {
	svc, dir, ids := newFixture(t, 2)
	ctx := context.Background()

	require.NoError(t, svc.SendInterest(ctx, ids[0], ids[1]))
	require.NoError(t, svc.WithdrawInterest(ctx, ids[0], ids[1]))
	// Withdrawing again is a no-op, not an error.
	require.NoError(t, svc.WithdrawInterest(ctx, ids[0], ids[1]))

	caller, _ := dir.Get(ctx, ids[0])
	target, _ := dir.Get(ctx, ids[1])
	assert.Empty(t, caller.SentRequests)
	assert.Empty(t, target.ConnectionRequests)

	checkInvariants(t, dir, ids)
}

func TestWithdrawDoesNotTouchConnections(t *testing.T) {
	svc, dir, ids := newFixture(t, 2)
	ctx := context.Background()

	require.NoError(t, svc.SendInterest(ctx, ids[0], ids[1]))
	require.NoError(t, svc.AcceptRequest(ctx, ids[1], ids[0]))
	require.NoError(t, svc.WithdrawInterest(ctx, ids[0], ids[1]))

	caller, _ := dir.Get(ctx, ids[0])
	target, _ := dir.Get(ctx, ids[1])
	assert.True(t, caller.Connections.Contains(ids[1]))
	assert.True(t, target.Connections.Contains(ids[0]))
}

func TestRejectClearsBothSides(t *testing.T) {
	svc, dir, ids := newFixture(t, 2)
	ctx := context.Background()

	require.NoError(t, svc.SendInterest(ctx, ids[0], ids[1]))
	require.NoError(t, svc.RejectRequest(ctx, ids[1], ids[0]))

	requester, _ := dir.Get(ctx, ids[0])
	recipient, _ := dir.Get(ctx, ids[1])
	assert.Empty(t, recipient.ConnectionRequests)
	// The mirrored entry must not linger in the requester's sent set.
	assert.Empty(t, requester.SentRequests)
	assert.Empty(t, requester.Connections)
	assert.Empty(t, recipient.Connections)

	checkInvariants(t, dir, ids)
}

func TestAcceptEstablishesSymmetricConnection(t *testing.T) {
	svc, dir, ids := newFixture(t, 2)
	ctx := context.Background()

	require.NoError(t, svc.SendInterest(ctx, ids[0], ids[1]))
	require.NoError(t, svc.AcceptRequest(ctx, ids[1], ids[0]))

	requester, _ := dir.Get(ctx, ids[0])
	recipient, _ := dir.Get(ctx, ids[1])
	assert.True(t, requester.Connections.Contains(ids[1]))
	assert.True(t, recipient.Connections.Contains(ids[0]))
	assert.Empty(t, recipient.ConnectionRequests)
	assert.Empty(t, requester.SentRequests)

	checkInvariants(t, dir, ids)
}

func TestAcceptWithoutRequestFails(t *testing.T) {
	svc, dir, ids := newFixture(t, 2)

	err := svc.AcceptRequest(context.Background(), ids[1], ids[0])
	assert.ErrorIs(t, err, relation.ErrNoSuchRequest)

	recipient, _ := dir.Get(context.Background(), ids[1])
	assert.Empty(t, recipient.Connections)
}

func TestAcceptClearsCrossedRequests(t *testing.T) {
	svc, dir, ids := newFixture(t, 2)
	ctx := context.Background()

	// Both users requested each other before either accepted.
	require.NoError(t, svc.SendInterest(ctx, ids[0], ids[1]))
	require.NoError(t, svc.SendInterest(ctx, ids[1], ids[0]))
	require.NoError(t, svc.AcceptRequest(ctx, ids[1], ids[0]))

	a, _ := dir.Get(ctx, ids[0])
	b, _ := dir.Get(ctx, ids[1])
	assert.True(t, a.Connections.Contains(ids[1]))
	assert.True(t, b.Connections.Contains(ids[0]))
	assert.Empty(t, a.SentRequests)
	assert.Empty(t, a.ConnectionRequests)
	assert.Empty(t, b.SentRequests)
	assert.Empty(t, b.ConnectionRequests)

	checkInvariants(t, dir, ids)
}

func TestAcceptIsDedupSafe(t *testing.T) {
	svc, dir, ids := newFixture(t, 2)
	ctx := context.Background()

	require.NoError(t, svc.SendInterest(ctx, ids[0], ids[1]))
	require.NoError(t, svc.AcceptRequest(ctx, ids[1], ids[0]))

	// A second request after the connection exists, accepted again, must not
	// duplicate the connection entry.
	require.NoError(t, svc.SendInterest(ctx, ids[0], ids[1]))
	require.NoError(t, svc.AcceptRequest(ctx, ids[1], ids[0]))

	a, _ := dir.Get(ctx, ids[0])
	b, _ := dir.Get(ctx, ids[1])
	assert.Equal(t, models.IDSet{ids[1]}, a.Connections)
	assert.Equal(t, models.IDSet{ids[0]}, b.Connections)
}

func TestListIncomingRequests(t *testing.T) {
	svc, _, ids := newFixture(t, 4)
	ctx := context.Background()

	require.NoError(t, svc.SendInterest(ctx, ids[1], ids[0]))
	require.NoError(t, svc.SendInterest(ctx, ids[2], ids[0]))

	incoming, err := svc.ListIncomingRequests(ctx, ids[0])
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	assert.Equal(t, ids[1], incoming[0].ID)
	assert.Equal(t, ids[2], incoming[1].ID)

	_, err = svc.ListIncomingRequests(ctx, 999)
	assert.ErrorIs(t, err, relation.ErrUserNotFound)
}

func TestListConnections(t *testing.T) {
	svc, _, ids := newFixture(t, 3)
	ctx := context.Background()

	require.NoError(t, svc.SendInterest(ctx, ids[1], ids[0]))
	require.NoError(t, svc.AcceptRequest(ctx, ids[0], ids[1]))

	connections, err := svc.ListConnections(ctx, ids[0])
	require.NoError(t, err)
	require.Len(t, connections, 1)
	assert.Equal(t, ids[1], connections[0].ID)

	// The other side sees the mirror image.
	connections, err = svc.ListConnections(ctx, ids[1])
	require.NoError(t, err)
	require.Len(t, connections, 1)
	assert.Equal(t, ids[0], connections[0].ID)
}

func TestListFeedExcludesCaller(t *testing.T) {
	svc, _, ids := newFixture(t, 5)
	ctx := context.Background()

	// Relationship state must not filter the feed.
	require.NoError(t, svc.SendInterest(ctx, ids[0], ids[1]))
	require.NoError(t, svc.SendInterest(ctx, ids[2], ids[0]))
	require.NoError(t, svc.AcceptRequest(ctx, ids[0], ids[2]))

	feed, total, err := svc.ListFeed(ctx, ids[0], 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, feed, 4)
	for _, u := range feed {
		assert.NotEqual(t, ids[0], u.ID)
	}
}

func TestListFeedPaginates(t *testing.T) {
	svc, _, ids := newFixture(t, 6)
	ctx := context.Background()

	page1, total, err := svc.ListFeed(ctx, ids[0], 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)

	page3, _, err := svc.ListFeed(ctx, ids[0], 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)

	page4, _, err := svc.ListFeed(ctx, ids[0], 4, 2)
	require.NoError(t, err)
	assert.Empty(t, page4)
}

func TestConcurrentOperationsKeepInvariants(t *testing.T) {
	svc, dir, ids := newFixture(t, 6)
	ctx := context.Background()

	var wg sync.WaitGroup
	for round := 0; round < 20; round++ {
		for i := range ids {
			for j := range ids {
				if i == j {
					continue
				}
				wg.Add(1)
				go func(a, b uint, round int) {
					defer wg.Done()
					switch round % 4 {
					case 0:
						_ = svc.SendInterest(ctx, a, b)
					case 1:
						_ = svc.AcceptRequest(ctx, b, a)
					case 2:
						_ = svc.WithdrawInterest(ctx, a, b)
					default:
						_ = svc.RejectRequest(ctx, b, a)
					}
				}(ids[i], ids[j], round)
			}
		}
	}
	wg.Wait()

	checkInvariants(t, dir, ids)
}
