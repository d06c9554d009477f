package directory

import (
	"context"
	"sort"
	"sync"

	"devmatch/backend/internal/models"
	"devmatch/backend/internal/relation"
)

// Memory is an in-process user directory with the same contract as the
// gorm-backed one. A single mutex serializes all mutations, so a paired
// update is fully atomic here and never reports a partial write. It backs
// the state-machine and handler test suites.
type Memory struct {
	mu     sync.RWMutex
	users  map[uint]*models.User
	nextID uint
}

func NewMemory() *Memory {
	return &Memory{users: make(map[uint]*models.User)}
}

// Create stores a new record, assigns it an id and returns the id.
func (d *Memory) Create(user *models.User) uint {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	user.ID = d.nextID
	d.users[user.ID] = user.Clone()
	return user.ID
}

func (d *Memory) Get(ctx context.Context, id uint) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[id]
	if !ok {
		return nil, relation.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (d *Memory) ApplyEdgeUpdate(ctx context.Context, id uint, mut relation.EdgeMutation) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[id]
	if !ok {
		return nil, relation.ErrUserNotFound
	}
	mut(user)
	return user.Clone(), nil
}

func (d *Memory) ApplyPairedEdgeUpdate(ctx context.Context, idA, idB uint, mutA, mutB relation.EdgeMutation) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	userA, ok := d.users[idA]
	if !ok {
		return relation.ErrUserNotFound
	}
	userB, ok := d.users[idB]
	if !ok {
		return relation.ErrUserNotFound
	}
	mutA(userA)
	mutB(userB)
	return nil
}

func (d *Memory) ListOthers(ctx context.Context, excludeID uint, offset, limit int) ([]models.User, int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	others := make([]models.User, 0, len(d.users))
	for id, user := range d.users {
		if id == excludeID {
			continue
		}
		others = append(others, *user.Clone())
	}
	sort.Slice(others, func(i, j int) bool { return others[i].ID < others[j].ID })

	total := int64(len(others))
	if offset >= len(others) {
		return []models.User{}, total, nil
	}
	end := offset + limit
	if end > len(others) {
		end = len(others)
	}
	return others[offset:end], total, nil
}
