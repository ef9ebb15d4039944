package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"product-catalog/internal/domain"
)

// UserRepository defines the interface for user data access. FindByEmail is
// the natural-key lookup shared by the authentication path and the email
// uniqueness rule. Create and Update replace the user_roles set wholesale
// inside one transaction.
type UserRepository interface {
	FindAll(ctx context.Context, page domain.PageRequest) (domain.Page[domain.User], error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	HydrateRoles(ctx context.Context, users []*domain.User) error
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

// FindAll retrieves one page of users ordered by id.
func (r *userRepository) FindAll(ctx context.Context, page domain.PageRequest) (domain.Page[domain.User], error) {
	var empty domain.Page[domain.User]

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return empty, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`, userColumns)

	rows, err := r.db.QueryContext(ctx, query, page.Size, page.Offset())
	if err != nil {
		return empty, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return empty, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return empty, fmt.Errorf("error iterating users: %w", err)
	}

	return domain.NewPage(users, page, total), nil
}

// FindByID retrieves a user's scalar columns by id. Callers needing the
// role set follow up with HydrateRoles.
func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	user := &domain.User{}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	if err := scanUser(r.db.QueryRowContext(ctx, query, id), user); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves a user by email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	if err := scanUser(r.db.QueryRowContext(ctx, query, email), user); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %q: %w", email, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return user, nil
}

// HydrateRoles attaches the full role set of every given user in one
// batched query.
func (r *userRepository) HydrateRoles(ctx context.Context, users []*domain.User) error {
	if len(users) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.User, len(users))
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		u.Roles = []domain.Role{}
		byID[u.ID] = u
		ids = append(ids, u.ID)
	}

	query := `
		SELECT ur.user_id, ro.id, ro.authority
		FROM user_roles ur
		INNER JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = ANY($1::bigint[])
		ORDER BY ur.user_id, ro.id
	`

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load user roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var role domain.Role
		if err := rows.Scan(&userID, &role.ID, &role.Authority); err != nil {
			return fmt.Errorf("failed to scan user role: %w", err)
		}
		if u, ok := byID[userID]; ok {
			u.Roles = append(u.Roles, role)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating user roles: %w", err)
	}

	return nil
}

// Create inserts the user and its role associations in one transaction.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err = tx.QueryRowContext(
		ctx,
		query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", translatePgError(err))
	}

	if err := replaceUserRoles(ctx, tx, user.ID, user.RoleIDs()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user create: %w", err)
	}

	return nil
}

// Update replaces the user's scalar columns and its entire role set in one
// transaction. Roles are cleared and repopulated, never merged. The
// password hash is only rewritten when the caller supplies one.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4,
		    password_hash = COALESCE(NULLIF($5, ''), password_hash),
		    updated_at = $6
		WHERE id = $1
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", translatePgError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %d: %w", user.ID, domain.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, user.ID); err != nil {
		return fmt.Errorf("failed to clear user roles: %w", err)
	}

	if err := replaceUserRoles(ctx, tx, user.ID, user.RoleIDs()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user update: %w", err)
	}

	return nil
}

func replaceUserRoles(ctx context.Context, tx *sql.Tx, userID int64, roleIDs []int64) error {
	if len(roleIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, unnest($2::bigint[])
	`

	if _, err := tx.ExecContext(ctx, query, userID, roleIDs); err != nil {
		return fmt.Errorf("failed to attach user roles: %w", translatePgError(err))
	}

	return nil
}

// Delete removes a user by id.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", translatePgError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
