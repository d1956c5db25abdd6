package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/events"
	"github.com/spec-kit/parcel-service/internal/repository"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

// UserService manages identity records and role elevation.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// Register stores a new identity without any elevated role. When the email is already
// registered the existing record is returned and created is false.
func (s *UserService) Register(ctx context.Context, user domain.User) (*domain.User, bool, error) {
	user.Email = strings.TrimSpace(user.Email)
	if user.Email == "" {
		return nil, false, apperrors.NewValidationError("email is required", nil)
	}

	existing, err := s.users.GetByEmail(ctx, user.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	user.Role = domain.RoleNone
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &user, true, nil
}

// List returns every registered user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// ListDeliveryPersons returns users holding the deliveryPerson role.
func (s *UserService) ListDeliveryPersons(ctx context.Context) ([]domain.User, error) {
	return s.users.ListByRole(ctx, domain.RoleDeliveryPerson)
}

// HasRole reports whether email is registered with role. Unknown emails report false.
func (s *UserService) HasRole(ctx context.Context, email string, role domain.Role) (bool, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.HasRole(role), nil
}

// SetRole elevates the user identified by id. It reports matched and modified counts.
func (s *UserService) SetRole(ctx context.Context, actor, id string, role domain.Role) (int64, int64, error) {
	if !role.Valid() {
		return 0, 0, apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}
	matched, modified, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return 0, 0, err
	}
	if modified > 0 {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:    events.EventUserRoleChanged,
			Actor:   actor,
			Payload: events.RoleChangedPayload{UserID: id, Role: role},
		})
	}
	return matched, modified, nil
}

// Delete removes the user identified by id and reports how many records were deleted.
func (s *UserService) Delete(ctx context.Context, id string) (int64, error) {
	return s.users.Delete(ctx, id)
}
