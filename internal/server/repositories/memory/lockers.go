package memory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
)

type LockerRepository struct {
	v *view
}

func (r *LockerRepository) Create(ctx context.Context, l *models.Locker) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	st := r.v.state()
	if _, ok := st.lockers[l.ID]; ok {
		return common.ErrorAlreadyExists
	}
	st.lockers[l.ID] = l.Clone()
	return nil
}

func (r *LockerRepository) Get(ctx context.Context, id string) (*models.Locker, error) {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	l, ok := r.v.state().lockers[id]
	if !ok || !l.IsActive() {
		return nil, common.ErrorNotFound
	}
	return l.Clone(), nil
}

func (r *LockerRepository) GetForUpdate(ctx context.Context, id string) (*models.Locker, error) {
	return r.Get(ctx, id)
}

func (r *LockerRepository) Update(ctx context.Context, l *models.Locker) error {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	st := r.v.state()
	cur, ok := st.lockers[l.ID]
	if !ok || !cur.IsActive() {
		return common.ErrorNotFound
	}
	next := cur.Clone()
	next.Owner = l.Owner
	next.DepositedAmount = l.DepositedAmount
	next.CurrentUnlockDate = l.CurrentUnlockDate
	next.Status = l.Status
	if l.ClosedAt != nil {
		at := *l.ClosedAt
		next.ClosedAt = &at
	}
	st.lockers[l.ID] = next
	return nil
}

func (r *LockerRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Locker, error) {
	return r.list(func(l *models.Locker) bool { return l.Owner == owner }), nil
}

func (r *LockerRepository) ListByCreator(ctx context.Context, creator string) ([]*models.Locker, error) {
	return r.list(func(l *models.Locker) bool { return l.Creator == creator }), nil
}

func (r *LockerRepository) list(match func(*models.Locker) bool) []*models.Locker {
	r.v.lock.Lock()
	defer r.v.lock.Unlock()

	var result []*models.Locker
	for _, l := range r.v.state().lockers {
		if l.IsActive() && match(l) {
			result = append(result, l.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}
