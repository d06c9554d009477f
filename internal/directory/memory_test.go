package directory

import (
	"context"
	"sync"
	"testing"

	"devmatch/backend/internal/models"
	"devmatch/backend/internal/relation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetUnknownID(t *testing.T) {
	dir := NewMemory()
	_, err := dir.Get(context.Background(), 1)
	assert.ErrorIs(t, err, relation.ErrUserNotFound)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	dir := NewMemory()
	id := dir.Create(&models.User{Email: "a@example.com"})

	first, err := dir.Get(context.Background(), id)
	require.NoError(t, err)
	first.SentRequests.Add(99)

	second, err := dir.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, second.SentRequests, "mutating a returned record must not change the stored one")
}

func TestMemoryApplyEdgeUpdate(t *testing.T) {
	dir := NewMemory()
	id := dir.Create(&models.User{Email: "a@example.com"})

	updated, err := dir.ApplyEdgeUpdate(context.Background(), id, func(u *models.User) {
		u.SentRequests.Add(7)
	})
	require.NoError(t, err)
	assert.True(t, updated.SentRequests.Contains(7))

	stored, err := dir.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, stored.SentRequests.Contains(7))

	_, err = dir.ApplyEdgeUpdate(context.Background(), 999, func(u *models.User) {})
	assert.ErrorIs(t, err, relation.ErrUserNotFound)
}

func TestMemoryPairedUpdateResolvesBothBeforeMutating(t *testing.T) {
	dir := NewMemory()
	idA := dir.Create(&models.User{Email: "a@example.com"})

	err := dir.ApplyPairedEdgeUpdate(context.Background(), idA, 999,
		func(u *models.User) { u.SentRequests.Add(999) },
		func(u *models.User) {},
	)
	assert.ErrorIs(t, err, relation.ErrUserNotFound)

	a, _ := dir.Get(context.Background(), idA)
	assert.Empty(t, a.SentRequests, "no mutation may apply when the pair does not resolve")
}

func TestMemoryPairedUpdateAppliesBothSides(t *testing.T) {
	dir := NewMemory()
	idA := dir.Create(&models.User{Email: "a@example.com"})
	idB := dir.Create(&models.User{Email: "b@example.com"})

	err := dir.ApplyPairedEdgeUpdate(context.Background(), idA, idB,
		func(u *models.User) { u.SentRequests.Add(idB) },
		func(u *models.User) { u.ConnectionRequests.Add(idA) },
	)
	require.NoError(t, err)

	a, _ := dir.Get(context.Background(), idA)
	b, _ := dir.Get(context.Background(), idB)
	assert.True(t, a.SentRequests.Contains(idB))
	assert.True(t, b.ConnectionRequests.Contains(idA))
}

func TestMemoryConcurrentUpdatesLoseNothing(t *testing.T) {
	dir := NewMemory()
	id := dir.Create(&models.User{Email: "a@example.com"})

	const writers = 100
	var wg sync.WaitGroup
	for i := 1; i <= writers; i++ {
		wg.Add(1)
		go func(peer uint) {
			defer wg.Done()
			_, err := dir.ApplyEdgeUpdate(context.Background(), id, func(u *models.User) {
				u.SentRequests.Add(peer + 1000)
			})
			assert.NoError(t, err)
		}(uint(i))
	}
	wg.Wait()

	stored, err := dir.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, stored.SentRequests, writers)
}

func TestMemoryListOthers(t *testing.T) {
	dir := NewMemory()
	var ids []uint
	for i := 0; i < 4; i++ {
		ids = append(ids, dir.Create(&models.User{Email: "u@example.com"}))
	}

	users, total, err := dir.ListOthers(context.Background(), ids[0], 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 3)
	for _, u := range users {
		assert.NotEqual(t, ids[0], u.ID)
	}

	// Stable order and paging.
	page, total, err := dir.ListOthers(context.Background(), ids[0], 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, users[1].ID, page[0].ID)

	empty, _, err := dir.ListOthers(context.Background(), ids[0], 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
