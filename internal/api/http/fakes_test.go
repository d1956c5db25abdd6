package http

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/repository"
)

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	lookups int
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{byEmail: map[string]*domain.User{}}
	for _, u := range users {
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[user.Email]; ok {
		return repository.ErrDuplicate
	}
	user.ID = "7f0c1a52-2b64-4a53-9a57-3d8f7c2c9e10"
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memUsers) List(context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.User{}
	for _, u := range m.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	all, _ := m.List(ctx)
	out := []domain.User{}
	for _, u := range all {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) UpdateRole(_ context.Context, id string, role domain.Role) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			if u.Role == role {
				return 1, 0, nil
			}
			u.Role = role
			return 1, 1, nil
		}
	}
	return 0, 0, nil
}

func (m *memUsers) Delete(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, u := range m.byEmail {
		if u.ID == id {
			delete(m.byEmail, email)
			return 1, nil
		}
	}
	return 0, nil
}

type memParcels struct {
	mu   sync.Mutex
	byID map[string]*domain.Parcel
}

func newMemParcels(parcels ...*domain.Parcel) *memParcels {
	m := &memParcels{byID: map[string]*domain.Parcel{}}
	for _, p := range parcels {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memParcels) Create(_ context.Context, parcel *domain.Parcel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	parcel.ID = "c1d2e3f4-0000-4000-8000-000000000001"
	m.byID[parcel.ID] = parcel
	return nil
}

func (m *memParcels) GetByID(_ context.Context, id string) (*domain.Parcel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memParcels) filter(keep func(*domain.Parcel) bool) []domain.Parcel {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Parcel{}
	for _, p := range m.byID {
		if keep(p) {
			out = append(out, *p)
		}
	}
	return out
}

func (m *memParcels) List(context.Context) ([]domain.Parcel, error) {
	return m.filter(func(*domain.Parcel) bool { return true }), nil
}

func (m *memParcels) ListByEmail(_ context.Context, email string) ([]domain.Parcel, error) {
	return m.filter(func(p *domain.Parcel) bool { return p.Email == email }), nil
}

func (m *memParcels) ListByDeliveryPerson(_ context.Context, email string) ([]domain.Parcel, error) {
	return m.filter(func(p *domain.Parcel) bool {
		return p.DeliveryPersonEmail != nil && *p.DeliveryPersonEmail == email
	}), nil
}

func (m *memParcels) SearchByRequestedDate(_ context.Context, from, to time.Time) ([]domain.Parcel, error) {
	return m.filter(func(p *domain.Parcel) bool {
		return !p.RequestedDeliveryDate.Before(from) && !p.RequestedDeliveryDate.After(to)
	}), nil
}

func (m *memParcels) Update(_ context.Context, id string, patch domain.ParcelPatch) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return 0, 0, nil
	}
	var modified int64
	if patch.Name != nil && p.Name != *patch.Name {
		p.Name = *patch.Name
		modified = 1
	}
	if patch.Status != nil && p.Status != *patch.Status {
		p.Status = *patch.Status
		modified = 1
	}
	return 1, modified, nil
}

func (m *memParcels) Assign(_ context.Context, id, email string, approx *time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return 0, nil
	}
	p.DeliveryPersonEmail = &email
	p.ApproximateDeliveryDate = approx
	p.Status = domain.ParcelStatusOnTheWay
	return 1, nil
}

func (m *memParcels) UpdateDeliveryStatus(_ context.Context, id, email string, status domain.ParcelStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok || p.DeliveryPersonEmail == nil || *p.DeliveryPersonEmail != email {
		return 0, nil
	}
	p.Status = status
	return 1, nil
}

func (m *memParcels) Delete(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return 0, nil
	}
	delete(m.byID, id)
	return 1, nil
}

type memPayments struct {
	recorded []domain.Payment
}

func (m *memPayments) ListByEmail(_ context.Context, email string) ([]domain.Payment, error) {
	out := []domain.Payment{}
	for _, p := range m.recorded {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayments) Record(_ context.Context, payment *domain.Payment) (int64, error) {
	payment.ID = "9a8b7c6d-0000-4000-8000-000000000002"
	m.recorded = append(m.recorded, *payment)
	return int64(len(payment.ParcelIDs)), nil
}

type staticStats struct{}

func (staticStats) CountUsers(context.Context) (int64, error) { return 3, nil }
func (staticStats) CountUsersByRole(context.Context, domain.Role) (int64, error) {
	return 1, nil
}
func (staticStats) CountParcels(context.Context) (int64, error) { return 4, nil }
func (staticStats) CountParcelsByStatus(context.Context, domain.ParcelStatus) (int64, error) {
	return 2, nil
}
func (staticStats) TotalRevenue(context.Context) (float64, error) { return 42.5, nil }
func (staticStats) BookingsByDay(context.Context) ([]domain.BookingDay, error) {
	return []domain.BookingDay{{Date: "2026-10-01", BookedCount: 2, DeliveredCount: 1}}, nil
}

type stubGateway struct{}

func (stubGateway) CreateIntent(context.Context, int64) (string, error) { return "pi_test_secret", nil }

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }
