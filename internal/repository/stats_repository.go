package repository

import (
	"context"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// StatsRepository answers the aggregate queries behind the admin dashboard.
type StatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountUsersByRole(ctx context.Context, role domain.Role) (int64, error)
	CountParcels(ctx context.Context) (int64, error)
	CountParcelsByStatus(ctx context.Context, status domain.ParcelStatus) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	BookingsByDay(ctx context.Context) ([]domain.BookingDay, error)
}

type statsRepository struct {
	db DB
}

// NewStatsRepository instantiates repository.
func NewStatsRepository(db DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *statsRepository) CountUsersByRole(ctx context.Context, role domain.Role) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE role=$1`, string(role))
}

func (r *statsRepository) CountParcels(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM parcels`)
}

func (r *statsRepository) CountParcelsByStatus(ctx context.Context, status domain.ParcelStatus) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM parcels WHERE status=$1`, status)
}

func (r *statsRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(price), 0)::float8 FROM payments`).Scan(&total)
	return total, err
}

// BookingsByDay groups live and delivered parcels by booking day, oldest first.
func (r *statsRepository) BookingsByDay(ctx context.Context) ([]domain.BookingDay, error) {
	const query = `
        SELECT to_char(created_at, 'YYYY-MM-DD') AS day,
               COUNT(*) FILTER (WHERE status IN ($1, $2)) AS booked,
               COUNT(*) FILTER (WHERE status = $3) AS delivered
        FROM parcels
        WHERE status IN ($1, $2, $3)
        GROUP BY day
        ORDER BY day`
	rows, err := r.db.Query(ctx, query,
		domain.ParcelStatusPending,
		domain.ParcelStatusOnTheWay,
		domain.ParcelStatusDelivered,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []domain.BookingDay{}
	for rows.Next() {
		var d domain.BookingDay
		if err := rows.Scan(&d.Date, &d.BookedCount, &d.DeliveredCount); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *statsRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}
