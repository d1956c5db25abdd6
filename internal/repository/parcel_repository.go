package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// ParcelRepository encapsulates parcel persistence.
type ParcelRepository interface {
	Create(ctx context.Context, parcel *domain.Parcel) error
	GetByID(ctx context.Context, id string) (*domain.Parcel, error)
	List(ctx context.Context) ([]domain.Parcel, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Parcel, error)
	ListByDeliveryPerson(ctx context.Context, email string) ([]domain.Parcel, error)
	SearchByRequestedDate(ctx context.Context, from, to time.Time) ([]domain.Parcel, error)
	Update(ctx context.Context, id string, patch domain.ParcelPatch) (matched, modified int64, err error)
	Assign(ctx context.Context, id, deliveryPersonEmail string, approximateDate *time.Time) (int64, error)
	UpdateDeliveryStatus(ctx context.Context, id, deliveryPersonEmail string, status domain.ParcelStatus) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type parcelRepository struct {
	db DB
}

// NewParcelRepository instantiates repository.
func NewParcelRepository(db DB) ParcelRepository {
	return &parcelRepository{db: db}
}

const parcelColumns = `id::text, email, name, phone, parcel_type, weight, receiver_name, receiver_phone,
               delivery_address, requested_delivery_date, approximate_delivery_date, latitude, longitude,
               price, status, payment_status, delivery_person_email, created_at, updated_at`

func (r *parcelRepository) Create(ctx context.Context, parcel *domain.Parcel) error {
	const query = `
        INSERT INTO parcels (email, name, phone, parcel_type, weight, receiver_name, receiver_phone,
            delivery_address, requested_delivery_date, latitude, longitude, price, status, payment_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id::text, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		parcel.Email,
		parcel.Name,
		parcel.Phone,
		parcel.ParcelType,
		parcel.Weight,
		parcel.ReceiverName,
		parcel.ReceiverPhone,
		parcel.DeliveryAddress,
		parcel.RequestedDeliveryDate,
		parcel.Latitude,
		parcel.Longitude,
		parcel.Price,
		parcel.Status,
		parcel.PaymentStatus,
	).Scan(&parcel.ID, &parcel.CreatedAt, &parcel.UpdatedAt)
}

func (r *parcelRepository) GetByID(ctx context.Context, id string) (*domain.Parcel, error) {
	query := `SELECT ` + parcelColumns + ` FROM parcels WHERE id=$1`
	return scanParcel(r.db.QueryRow(ctx, query, id))
}

func (r *parcelRepository) List(ctx context.Context) ([]domain.Parcel, error) {
	return r.list(ctx, `SELECT `+parcelColumns+` FROM parcels ORDER BY created_at DESC`)
}

func (r *parcelRepository) ListByEmail(ctx context.Context, email string) ([]domain.Parcel, error) {
	return r.list(ctx, `SELECT `+parcelColumns+` FROM parcels WHERE email=$1 ORDER BY created_at DESC`, email)
}

func (r *parcelRepository) ListByDeliveryPerson(ctx context.Context, email string) ([]domain.Parcel, error) {
	return r.list(ctx, `SELECT `+parcelColumns+` FROM parcels WHERE delivery_person_email=$1 ORDER BY requested_delivery_date`, email)
}

func (r *parcelRepository) SearchByRequestedDate(ctx context.Context, from, to time.Time) ([]domain.Parcel, error) {
	query := `SELECT ` + parcelColumns + ` FROM parcels
        WHERE requested_delivery_date >= $1 AND requested_delivery_date <= $2
        ORDER BY requested_delivery_date`
	return r.list(ctx, query, from, to)
}

// Update applies the non-nil fields of patch. A parcel counts as modified only when at least
// one field differs from the stored value.
func (r *parcelRepository) Update(ctx context.Context, id string, patch domain.ParcelPatch) (int64, int64, error) {
	var (
		sets    []string
		changed []string
		args    []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
		changed = append(changed, fmt.Sprintf("p.%s IS DISTINCT FROM $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.ParcelType != nil {
		add("parcel_type", *patch.ParcelType)
	}
	if patch.Weight != nil {
		add("weight", *patch.Weight)
	}
	if patch.ReceiverName != nil {
		add("receiver_name", *patch.ReceiverName)
	}
	if patch.ReceiverPhone != nil {
		add("receiver_phone", *patch.ReceiverPhone)
	}
	if patch.DeliveryAddress != nil {
		add("delivery_address", *patch.DeliveryAddress)
	}
	if patch.RequestedDeliveryDate != nil {
		add("requested_delivery_date", *patch.RequestedDeliveryDate)
	}
	if patch.Latitude != nil {
		add("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		add("longitude", *patch.Longitude)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if len(sets) == 0 {
		return 0, 0, nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`
        WITH target AS (
            SELECT id FROM parcels WHERE id=$%[3]d
        ), updated AS (
            UPDATE parcels p SET %[1]s, updated_at=NOW()
            FROM target
            WHERE p.id = target.id AND (%[2]s)
            RETURNING p.id
        )
        SELECT (SELECT COUNT(*) FROM target), (SELECT COUNT(*) FROM updated)`,
		strings.Join(sets, ", "), strings.Join(changed, " OR "), len(args))

	var matched, modified int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&matched, &modified); err != nil {
		return 0, 0, fmt.Errorf("update parcel: %w", err)
	}
	return matched, modified, nil
}

func (r *parcelRepository) Assign(ctx context.Context, id, deliveryPersonEmail string, approximateDate *time.Time) (int64, error) {
	const query = `
        UPDATE parcels SET delivery_person_email=$1, approximate_delivery_date=$2, status=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.db.Exec(ctx, query, deliveryPersonEmail, approximateDate, domain.ParcelStatusOnTheWay, id)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// UpdateDeliveryStatus only touches parcels assigned to deliveryPersonEmail.
func (r *parcelRepository) UpdateDeliveryStatus(ctx context.Context, id, deliveryPersonEmail string, status domain.ParcelStatus) (int64, error) {
	const query = `
        UPDATE parcels SET status=$1, updated_at=NOW()
        WHERE id=$2 AND delivery_person_email=$3`
	cmd, err := r.db.Exec(ctx, query, status, id, deliveryPersonEmail)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *parcelRepository) Delete(ctx context.Context, id string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM parcels WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *parcelRepository) list(ctx context.Context, query string, args ...any) ([]domain.Parcel, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parcels := []domain.Parcel{}
	for rows.Next() {
		parcel, err := scanParcel(rows)
		if err != nil {
			return nil, err
		}
		parcels = append(parcels, *parcel)
	}
	return parcels, rows.Err()
}

func scanParcel(row pgx.Row) (*domain.Parcel, error) {
	var parcel domain.Parcel
	if err := row.Scan(
		&parcel.ID,
		&parcel.Email,
		&parcel.Name,
		&parcel.Phone,
		&parcel.ParcelType,
		&parcel.Weight,
		&parcel.ReceiverName,
		&parcel.ReceiverPhone,
		&parcel.DeliveryAddress,
		&parcel.RequestedDeliveryDate,
		&parcel.ApproximateDeliveryDate,
		&parcel.Latitude,
		&parcel.Longitude,
		&parcel.Price,
		&parcel.Status,
		&parcel.PaymentStatus,
		&parcel.DeliveryPersonEmail,
		&parcel.CreatedAt,
		&parcel.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &parcel, nil
}
