package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/events"
	"github.com/spec-kit/parcel-service/internal/repository"
)

type fakeUsers struct {
	byEmail map[string]*domain.User
	created []domain.User
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{byEmail: map[string]*domain.User{}}
	for _, u := range users {
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return repository.ErrDuplicate
	}
	user.ID = "u-new"
	f.byEmail[user.Email] = user
	f.created = append(f.created, *user)
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) List(context.Context) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range f.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsers) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range f.byEmail {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id string, role domain.Role) (int64, int64, error) {
	for _, u := range f.byEmail {
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

func (f *fakeUsers) Delete(_ context.Context, id string) (int64, error) {
	for email, u := range f.byEmail {
		if u.ID == id {
			delete(f.byEmail, email)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeParcels struct {
	byID map[string]*domain.Parcel
	seq  int
}

func newFakeParcels(parcels ...*domain.Parcel) *fakeParcels {
	f := &fakeParcels{byID: map[string]*domain.Parcel{}}
	for _, p := range parcels {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeParcels) Create(_ context.Context, parcel *domain.Parcel) error {
	f.seq++
	parcel.ID = "p-new"
	parcel.CreatedAt = time.Now()
	f.byID[parcel.ID] = parcel
	return nil
}

func (f *fakeParcels) GetByID(_ context.Context, id string) (*domain.Parcel, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeParcels) List(context.Context) ([]domain.Parcel, error) {
	out := []domain.Parcel{}
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeParcels) ListByEmail(_ context.Context, email string) ([]domain.Parcel, error) {
	out := []domain.Parcel{}
	for _, p := range f.byID {
		if p.Email == email {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeParcels) ListByDeliveryPerson(_ context.Context, email string) ([]domain.Parcel, error) {
	out := []domain.Parcel{}
	for _, p := range f.byID {
		if p.DeliveryPersonEmail != nil && *p.DeliveryPersonEmail == email {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeParcels) SearchByRequestedDate(_ context.Context, from, to time.Time) ([]domain.Parcel, error) {
	out := []domain.Parcel{}
	for _, p := range f.byID {
		if !p.RequestedDeliveryDate.Before(from) && !p.RequestedDeliveryDate.After(to) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeParcels) Update(_ context.Context, id string, patch domain.ParcelPatch) (int64, int64, error) {
	p, ok := f.byID[id]
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

func (f *fakeParcels) Assign(_ context.Context, id, email string, approx *time.Time) (int64, error) {
	p, ok := f.byID[id]
	if !ok {
		return 0, nil
	}
	p.DeliveryPersonEmail = &email
	p.ApproximateDeliveryDate = approx
	p.Status = domain.ParcelStatusOnTheWay
	return 1, nil
}

func (f *fakeParcels) UpdateDeliveryStatus(_ context.Context, id, email string, status domain.ParcelStatus) (int64, error) {
	p, ok := f.byID[id]
	if !ok || p.DeliveryPersonEmail == nil || *p.DeliveryPersonEmail != email {
		return 0, nil
	}
	p.Status = status
	return 1, nil
}

func (f *fakeParcels) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

type fakePayments struct {
	recorded []domain.Payment
	err      error
}

func (f *fakePayments) ListByEmail(_ context.Context, email string) ([]domain.Payment, error) {
	out := []domain.Payment{}
	for _, p := range f.recorded {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePayments) Record(_ context.Context, payment *domain.Payment) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	payment.ID = "pay-1"
	f.recorded = append(f.recorded, *payment)
	return int64(len(payment.ParcelIDs)), nil
}

type fakeStats struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeStats) hit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeStats) CountUsers(context.Context) (int64, error) { return 10, f.hit() }
func (f *fakeStats) CountUsersByRole(context.Context, domain.Role) (int64, error) {
	return 2, f.hit()
}
func (f *fakeStats) CountParcels(context.Context) (int64, error) { return 7, f.hit() }
func (f *fakeStats) CountParcelsByStatus(context.Context, domain.ParcelStatus) (int64, error) {
	return 3, f.hit()
}
func (f *fakeStats) TotalRevenue(context.Context) (float64, error) { return 125.5, f.hit() }
func (f *fakeStats) BookingsByDay(context.Context) ([]domain.BookingDay, error) {
	return []domain.BookingDay{{Date: "2026-10-01", BookedCount: 1}}, f.hit()
}

type fakeCache struct {
	stored  *domain.AdminStats
	ttl     time.Duration
	readErr error
}

func (f *fakeCache) GetAdminStats(context.Context) (*domain.AdminStats, bool, error) {
	if f.readErr != nil {
		return nil, false, f.readErr
	}
	if f.stored == nil {
		return nil, false, nil
	}
	return f.stored, true, nil
}

func (f *fakeCache) SetAdminStats(_ context.Context, stats domain.AdminStats, ttl time.Duration) error {
	f.stored = &stats
	f.ttl = ttl
	return nil
}

type fakeGateway struct {
	amount int64
	err    error
}

func (f *fakeGateway) CreateIntent(_ context.Context, amount int64) (string, error) {
	f.amount = amount
	if f.err != nil {
		return "", f.err
	}
	return "pi_secret", nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.published = append(d.published, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, len(d.published))
	for i, e := range d.published {
		out[i] = e.Type
	}
	return out
}

var errStore = errors.New("store unavailable")
