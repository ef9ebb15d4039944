package repository

import (
	"context"
	"database/sql"
	"fmt"

	"product-catalog/internal/domain"
)

// RoleRepository defines the interface for role data access. Roles are
// reference data; they are read and attached to users but never owned by
// them.
type RoleRepository interface {
	FindAll(ctx context.Context) ([]domain.Role, error)
	FindByID(ctx context.Context, id int64) (*domain.Role, error)
	Ref(id int64) *domain.Ref[domain.Role]
}

type roleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new instance of RoleRepository
func NewRoleRepository(db *sql.DB) RoleRepository {
	return &roleRepository{db: db}
}

// FindAll retrieves every role ordered by id.
func (r *roleRepository) FindAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, authority FROM roles ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	roles := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Authority); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}

	return roles, nil
}

// FindByID retrieves a role by id.
func (r *roleRepository) FindByID(ctx context.Context, id int64) (*domain.Role, error) {
	role := &domain.Role{}
	err := r.db.QueryRowContext(ctx, `SELECT id, authority FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Authority)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("role %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find role by ID: %w", err)
	}

	return role, nil
}

// Ref returns a lazy reference handle to the role with the given id.
func (r *roleRepository) Ref(id int64) *domain.Ref[domain.Role] {
	return domain.NewRef(id, func(ctx context.Context, id int64) (*domain.Role, error) {
		return r.FindByID(ctx, id)
	})
}
