package careplan

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/beautyai/beautyai-api/internal/audit"
	domain "github.com/beautyai/beautyai-api/internal/domain/careplan"
	"github.com/beautyai/beautyai-api/internal/models"
)

type fakeRepo struct {
	clients  map[uint]*models.Client
	users    map[uint]*models.User
	analyses map[uint]*models.Analysis
	products map[uint]*models.Product

	plans  map[uint]models.CarePlan
	items  []models.CarePlanItem
	nextID uint
	clock  time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		clients:  map[uint]*models.Client{},
		users:    map[uint]*models.User{},
		analyses: map[uint]*models.Analysis{},
		products: map[uint]*models.Product{},
		plans:    map[uint]models.CarePlan{},
		nextID:   100,
		clock:    time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	plans := make(map[uint]models.CarePlan, len(r.plans))
	for k, v := range r.plans {
		plans[k] = v
	}
	items := append([]models.CarePlanItem(nil), r.items...)

	if err := fn(r); err != nil {
		r.plans = plans
		r.items = items
		return err
	}
	return nil
}

func (r *fakeRepo) GetClient(_ context.Context, id uint) (*models.Client, error) {
	if c, ok := r.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) GetClientByUserID(_ context.Context, userID uint) (*models.Client, error) {
	for _, c := range r.clients {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) ListClientIDsForCosmetologist(_ context.Context, id uint) ([]uint, error) {
	var ids []uint
	for _, c := range r.clients {
		if c.AssignedTo(id) {
			ids = append(ids, c.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeRepo) GetAnalysisForClient(_ context.Context, analysisID, clientID uint) (*models.Analysis, error) {
	if a, ok := r.analyses[analysisID]; ok && a.ClientID == clientID {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) CreateCarePlan(_ context.Context, plan *models.CarePlan) error {
	r.nextID++
	r.clock = r.clock.Add(time.Minute)
	plan.ID = r.nextID
	plan.CreatedAt = r.clock
	stored := *plan
	stored.Items = nil
	r.plans[plan.ID] = stored
	return nil
}

func (r *fakeRepo) UpdateCarePlan(_ context.Context, plan *models.CarePlan) error {
	stored, ok := r.plans[plan.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Title = plan.Title
	stored.Description = plan.Description
	stored.ValidUntil = plan.ValidUntil
	r.plans[plan.ID] = stored
	return nil
}

func (r *fakeRepo) DeleteCarePlan(_ context.Context, id uint) error {
	delete(r.plans, id)
	return nil
}

func (r *fakeRepo) GetCarePlan(_ context.Context, id uint) (*models.CarePlan, error) {
	if p, ok := r.plans[id]; ok {
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) GetCarePlanDetail(ctx context.Context, id uint) (*models.CarePlan, error) {
	p, err := r.GetCarePlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if c, ok := r.clients[p.ClientID]; ok {
		cp := *c
		cp.User = r.users[c.UserID]
		p.Client = &cp
	}
	p.Analysis = r.analyses[p.AnalysisID]

	for _, it := range r.itemsOf(id) {
		it.Product = r.products[it.ProductID]
		p.Items = append(p.Items, it)
	}
	// reversed storage order; callers sort
	for i, j := 0, len(p.Items)-1; i < j; i, j = i+1, j-1 {
		p.Items[i], p.Items[j] = p.Items[j], p.Items[i]
	}
	return p, nil
}

func (r *fakeRepo) ListCarePlans(_ context.Context, f domain.ListFilter) ([]models.CarePlan, error) {
	allowed := map[uint]bool{}
	for _, id := range f.ClientIDs {
		allowed[id] = true
	}

	var out []models.CarePlan
	for _, p := range r.plans {
		if f.ClientIDs == nil || allowed[p.ClientID] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if f.Skip >= len(out) {
		return []models.CarePlan{}, nil
	}
	out = out[f.Skip:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *fakeRepo) CreateItems(_ context.Context, items []models.CarePlanItem) error {
	for i := range items {
		r.nextID++
		items[i].ID = r.nextID
		r.items = append(r.items, items[i])
	}
	return nil
}

func (r *fakeRepo) DeleteItems(_ context.Context, planID uint) error {
	kept := r.items[:0]
	for _, it := range r.items {
		if it.CarePlanID != planID {
			kept = append(kept, it)
		}
	}
	r.items = kept
	return nil
}

func (r *fakeRepo) itemsOf(planID uint) []models.CarePlanItem {
	var out []models.CarePlanItem
	for _, it := range r.items {
		if it.CarePlanID == planID {
			out = append(out, it)
		}
	}
	return out
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}
