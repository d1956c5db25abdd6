package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// PaymentRepository stores completed payments.
type PaymentRepository interface {
	ListByEmail(ctx context.Context, email string) ([]domain.Payment, error)
	Record(ctx context.Context, payment *domain.Payment) (int64, error)
}

type paymentRepository struct {
	db DB
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(db DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) ListByEmail(ctx context.Context, email string) ([]domain.Payment, error) {
	const query = `
        SELECT id::text, email, price, transaction_id, parcel_ids, created_at
        FROM payments WHERE email=$1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.Email, &p.Price, &p.TransactionID, &p.ParcelIDs, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// Record inserts the payment and marks the payer's referenced parcels paid in one
// transaction. It returns the number of parcels marked.
func (r *paymentRepository) Record(ctx context.Context, payment *domain.Payment) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}

	const insert = `
        INSERT INTO payments (email, price, transaction_id, parcel_ids)
        VALUES ($1, $2, $3, $4)
        RETURNING id::text, created_at`
	if err := tx.QueryRow(ctx, insert,
		payment.Email,
		payment.Price,
		payment.TransactionID,
		payment.ParcelIDs,
	).Scan(&payment.ID, &payment.CreatedAt); err != nil {
		_ = tx.Rollback(ctx)
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("insert payment: %w", err)
	}

	var modified int64
	if len(payment.ParcelIDs) > 0 {
		const mark = `
            UPDATE parcels SET payment_status=$1, updated_at=NOW()
            WHERE id::text = ANY($2::text[]) AND email=$3`
		cmd, err := tx.Exec(ctx, mark, domain.PaymentStatusPaid, payment.ParcelIDs, payment.Email)
		if err != nil {
			_ = tx.Rollback(ctx)
			return 0, fmt.Errorf("mark parcels paid: %w", err)
		}
		modified = cmd.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return modified, nil
}
