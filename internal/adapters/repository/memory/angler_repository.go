package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type AnglerRepository struct {
	db *DB
}

func NewAnglerRepository(db *DB) *AnglerRepository {
	return &AnglerRepository{db: db}
}

var (
	_ ports.AnglerRepository    = (*AnglerRepository)(nil)
	_ ports.MembershipDirectory = (*AnglerRepository)(nil)
)

func (r *AnglerRepository) Create(ctx context.Context, angler *domain.Angler) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.anglers[angler.ID] = *angler
	return nil
}

func (r *AnglerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Angler, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.anglers[id]
	if !ok {
		return nil, domain.ErrAnglerNotFound
	}
	return &a, nil
}

func (r *AnglerRepository) List(ctx context.Context) ([]*domain.Angler, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	anglers := make([]*domain.Angler, 0, len(r.db.anglers))
	for _, a := range r.db.anglers {
		a := a
		anglers = append(anglers, &a)
	}
	sort.Slice(anglers, func(i, j int) bool {
		if anglers[i].Name != anglers[j].Name {
			return anglers[i].Name < anglers[j].Name
		}
		return idLess(anglers[i].ID, anglers[j].ID)
	})
	return anglers, nil
}

func (r *AnglerRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.anglers[id]
	if !ok {
		return domain.ErrAnglerNotFound
	}
	a.Active = active
	r.db.anglers[id] = a
	return nil
}

func (r *AnglerRepository) SetLeftAt(ctx context.Context, id uuid.UUID, leftAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.anglers[id]
	if !ok {
		return domain.ErrAnglerNotFound
	}
	a.LeftAt = &leftAt
	r.db.anglers[id] = a
	return nil
}

func (r *AnglerRepository) EligibleAnglers(ctx context.Context, rule domain.EligibilityRule, asOf time.Time) ([]uuid.UUID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var ids []uuid.UUID
	for _, a := range r.db.anglers {
		if rule.Admits(a, asOf) {
			ids = append(ids, a.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return idLess(ids[i], ids[j]) })
	return ids, nil
}
