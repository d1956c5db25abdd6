package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// UserRepository defines persistence access for identity records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (matched, modified int64, err error)
	Delete(ctx context.Context, id string) (int64, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id::text, name, email, photo_url, phone, role, created_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, photo_url, phone, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id::text, created_at`

	err := r.db.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PhotoURL,
		user.Phone,
		nullableString(string(user.Role)),
	).Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	return r.list(ctx, query)
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role=$1 ORDER BY created_at`
	return r.list(ctx, query, string(role))
}

// UpdateRole reports how many records matched id and how many actually changed.
func (r *userRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (int64, int64, error) {
	const query = `
        WITH target AS (
            SELECT id, role FROM users WHERE id=$1
        ), updated AS (
            UPDATE users u SET role=$2
            FROM target
            WHERE u.id = target.id AND target.role IS DISTINCT FROM $2
            RETURNING u.id
        )
        SELECT (SELECT COUNT(*) FROM target), (SELECT COUNT(*) FROM updated)`

	var matched, modified int64
	if err := r.db.QueryRow(ctx, query, id, nullableString(string(role))).Scan(&matched, &modified); err != nil {
		return 0, 0, fmt.Errorf("update role: %w", err)
	}
	return matched, modified, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *userRepository) list(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user domain.User
		role *string
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PhotoURL,
		&user.Phone,
		&role,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	user.Role = domain.Role(derefString(role))
	return &user, nil
}
