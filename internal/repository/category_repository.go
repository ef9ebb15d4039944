package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"product-catalog/internal/domain"
)

// CategoryRepository defines the interface for category data access.
// FindByName is the natural-key lookup backing the uniqueness rule; Ref
// hands out a lazy reference for callers that only hold a category id.
type CategoryRepository interface {
	FindAll(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Category], error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) error
	Ref(id int64) *domain.Ref[domain.Category]
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// FindAll retrieves one page of categories ordered by name.
func (r *categoryRepository) FindAll(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Category], error) {
	var empty domain.Page[domain.Category]

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return empty, fmt.Errorf("failed to count categories: %w", err)
	}

	query := `
		SELECT id, name, created_at
		FROM categories
		ORDER BY name ASC, id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, page.Size, page.Offset())
	if err != nil {
		return empty, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.CreatedAt); err != nil {
			return empty, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return empty, fmt.Errorf("error iterating categories: %w", err)
	}

	return domain.NewPage(categories, page, total), nil
}

// FindByID retrieves a category by id.
func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	category := &domain.Category{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM categories WHERE id = $1`, id).
		Scan(&category.ID, &category.Name, &category.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// FindByName retrieves a category by its unique name.
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	category := &domain.Category{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM categories WHERE name = $1`, name).
		Scan(&category.ID, &category.Name, &category.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("category %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}

	return category, nil
}

// Create inserts a new category; storage assigns the id.
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	category.CreatedAt = time.Now().UTC()

	err := r.db.QueryRowContext(
		ctx,
		`INSERT INTO categories (name, created_at) VALUES ($1, $2) RETURNING id`,
		category.Name,
		category.CreatedAt,
	).Scan(&category.ID)

	if err != nil {
		return fmt.Errorf("failed to create category: %w", translatePgError(err))
	}

	return nil
}

// Update renames an existing category.
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	result, err := r.db.ExecContext(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, category.ID, category.Name)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", translatePgError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("category %d: %w", category.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a category by id. The product_categories foreign key is
// RESTRICT, so deleting a category still referenced by any product comes
// back as ErrIntegrityViolation and leaves the row intact.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", translatePgError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Ref returns a lazy reference handle to the category with the given id.
// Nothing touches storage until the handle is resolved.
func (r *categoryRepository) Ref(id int64) *domain.Ref[domain.Category] {
	return domain.NewRef(id, func(ctx context.Context, id int64) (*domain.Category, error) {
		return r.FindByID(ctx, id)
	})
}
