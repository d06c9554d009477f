package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"devmatch/backend/internal/models"
	"devmatch/backend/internal/relation"

	"gorm.io/gorm"
)

const lockStripes = 64

// Gorm is the postgres-backed user directory.
//
// A striped mutex table serializes read-modify-write cycles per record so
// two in-process operations touching the same user never lose an update.
// The two writes of a paired update are separate transactions; a failed
// second write surfaces as relation.ErrPartialWrite per the directory
// contract.
type Gorm struct {
	db    *gorm.DB
	locks [lockStripes]sync.Mutex
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (d *Gorm) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, relation.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Gorm) ApplyEdgeUpdate(ctx context.Context, id uint, mut relation.EdgeMutation) (*models.User, error) {
	stripe := d.stripe(id)
	stripe.Lock()
	defer stripe.Unlock()

	user, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	mut(user)
	if err := d.saveSets(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (d *Gorm) ApplyPairedEdgeUpdate(ctx context.Context, idA, idB uint, mutA, mutB relation.EdgeMutation) error {
	d.lockPair(idA, idB)
	defer d.unlockPair(idA, idB)

	// Resolve both records before mutating either one.
	userA, err := d.Get(ctx, idA)
	if err != nil {
		return err
	}
	userB, err := d.Get(ctx, idB)
	if err != nil {
		return err
	}

	mutA(userA)
	if err := d.saveSets(ctx, userA); err != nil {
		return err
	}

	mutB(userB)
	if err := d.saveSets(ctx, userB); err != nil {
		return fmt.Errorf("%w: second write for user %d: %v", relation.ErrPartialWrite, idB, err)
	}
	return nil
}

func (d *Gorm) ListOthers(ctx context.Context, excludeID uint, offset, limit int) ([]models.User, int64, error) {
	query := d.db.WithContext(ctx).Model(&models.User{}).Where("id <> ?", excludeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// saveSets persists only the relationship columns so concurrent profile
// edits on the same row are never clobbered by an edge operation.
func (d *Gorm) saveSets(ctx context.Context, user *models.User) error {
	return d.db.WithContext(ctx).Model(user).
		Select("SentRequests", "ConnectionRequests", "Connections").
		Updates(user).Error
}

func (d *Gorm) stripe(id uint) *sync.Mutex {
	return &d.locks[id%lockStripes]
}

// lockPair acquires both record locks in stripe order so two paired updates
// over the same users cannot deadlock.
func (d *Gorm) lockPair(idA, idB uint) {
	a, b := idA%lockStripes, idB%lockStripes
	switch {
	case a == b:
		d.locks[a].Lock()
	case a < b:
		d.locks[a].Lock()
		d.locks[b].Lock()
	default:
		d.locks[b].Lock()
		d.locks[a].Lock()
	}
}

func (d *Gorm) unlockPair(idA, idB uint) {
	a, b := idA%lockStripes, idB%lockStripes
	d.locks[a].Unlock()
	if a != b {
		d.locks[b].Unlock()
	}
}
