package service

import (
	"context"
	"errors"
	"fmt"

	"product-catalog/internal/domain"
	"product-catalog/internal/dto"
	"product-catalog/internal/repository"
	"product-catalog/internal/validation"

	"go.uber.org/zap"
)

// UserService defines account read and mutation operations, plus the
// email lookup consumed by the authentication collaborator.
type UserService interface {
	FindAllPaged(ctx context.Context, page domain.PageRequest) (domain.Page[dto.UserDTO], error)
	FindByID(ctx context.Context, id int64) (dto.UserDTO, error)
	Insert(ctx context.Context, d dto.UserInsertDTO) (dto.UserDTO, error)
	Update(ctx context.Context, id int64, d dto.UserUpdateDTO) (dto.UserDTO, error)
	Delete(ctx context.Context, id int64) error
	LoadByEmail(ctx context.Context, email string) (*domain.User, error)
}

type userService struct {
	users           repository.UserRepository
	roles           repository.RoleRepository
	insertValidator *validation.Validator[dto.UserInsertDTO]
	updateValidator *validation.Validator[dto.UserUpdateDTO]
	hasher          PasswordHasher
	logger          *zap.Logger
}

// NewUserService creates a new instance of UserService
func NewUserService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	insertValidator *validation.Validator[dto.UserInsertDTO],
	updateValidator *validation.Validator[dto.UserUpdateDTO],
	hasher PasswordHasher,
	logger *zap.Logger,
) UserService {
	return &userService{
		users:           users,
		roles:           roles,
		insertValidator: insertValidator,
		updateValidator: updateValidator,
		hasher:          hasher,
		logger:          logger,
	}
}

// FindAllPaged returns one page of users with their role sets hydrated in
// a single batched query.
func (s *userService) FindAllPaged(ctx context.Context, page domain.PageRequest) (domain.Page[dto.UserDTO], error) {
	var empty domain.Page[dto.UserDTO]

	result, err := s.users.FindAll(ctx, page)
	if err != nil {
		return empty, err
	}

	hydrate := make([]*domain.User, len(result.Content))
	for i := range result.Content {
		hydrate[i] = &result.Content[i]
	}
	if err := s.users.HydrateRoles(ctx, hydrate); err != nil {
		return empty, fmt.Errorf("failed to hydrate roles: %w", err)
	}

	return domain.MapPage(result, func(u domain.User) dto.UserDTO {
		return dto.NewUserDTO(&u)
	}), nil
}

// FindByID returns the user with the full role set, or ErrNotFound.
func (s *userService) FindByID(ctx context.Context, id int64) (dto.UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return dto.UserDTO{}, err
	}

	if err := s.users.HydrateRoles(ctx, []*domain.User{user}); err != nil {
		return dto.UserDTO{}, fmt.Errorf("failed to hydrate roles: %w", err)
	}

	return dto.NewUserDTO(user), nil
}

// Insert validates the representation (email uniqueness queries storage),
// hashes the password through the external hasher and persists the
// account. The raw password never reaches storage or the response.
func (s *userService) Insert(ctx context.Context, d dto.UserInsertDTO) (dto.UserDTO, error) {
	violations, err := s.insertValidator.Validate(ctx, d, validation.ForInsert())
	if err != nil {
		return dto.UserDTO{}, fmt.Errorf("user validation failed: %w", err)
	}
	if len(violations) > 0 {
		return dto.UserDTO{}, domain.NewValidationError(violations)
	}

	user, err := s.toEntity(ctx, d.UserDTO)
	if err != nil {
		return dto.UserDTO{}, err
	}

	user.PasswordHash, err = s.hasher.Hash(d.Password)
	if err != nil {
		return dto.UserDTO{}, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return dto.UserDTO{}, err
	}

	return dto.NewUserDTO(user), nil
}

// Update validates against the update rule set, which excludes the user's
// own id from the email uniqueness check, then replaces the scalar fields
// and the entire role set.
func (s *userService) Update(ctx context.Context, id int64, d dto.UserUpdateDTO) (dto.UserDTO, error) {
	violations, err := s.updateValidator.Validate(ctx, d, validation.ForUpdate(id))
	if err != nil {
		return dto.UserDTO{}, fmt.Errorf("user validation failed: %w", err)
	}
	if len(violations) > 0 {
		return dto.UserDTO{}, domain.NewValidationError(violations)
	}

	user, err := s.toEntity(ctx, d.UserDTO)
	if err != nil {
		return dto.UserDTO{}, err
	}

	user.ID = id
	if err := s.users.Update(ctx, user); err != nil {
		return dto.UserDTO{}, err
	}

	return dto.NewUserDTO(user), nil
}

// Delete removes the user; ErrNotFound and ErrIntegrityViolation come back
// from the repository already translated.
func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

// LoadByEmail is the authentication lookup. A miss is reported as
// ErrIdentityNotFound, not the generic ErrNotFound, because the auth
// collaborator treats the two differently. Both outcomes are logged for
// audit.
func (s *userService) LoadByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("User email not found", zap.String("email", email))
			return nil, fmt.Errorf("email %q: %w", email, domain.ErrIdentityNotFound)
		}
		return nil, err
	}

	if err := s.users.HydrateRoles(ctx, []*domain.User{user}); err != nil {
		return nil, fmt.Errorf("failed to hydrate roles: %w", err)
	}

	s.logger.Info("User email found", zap.String("email", email))
	return user, nil
}

// toEntity maps the representation onto a fresh entity, resolving role
// references eagerly: roles are tiny reference data and resolving up front
// lets the response carry authorities without a second fetch.
func (s *userService) toEntity(ctx context.Context, d dto.UserDTO) (*domain.User, error) {
	roles := make([]domain.Role, 0, len(d.Roles))
	for _, id := range d.RoleIDs() {
		role, err := s.roles.Ref(id).Resolve(ctx)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}

	return &domain.User{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Roles:     roles,
	}, nil
}
