package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"product-catalog/internal/domain"
)

// Sort fields accepted by product search, keyed by API name. Requests
// asking for anything else fall back to id order.
var productSortColumns = map[string]string{
	"id":    "p.id",
	"name":  "p.name",
	"price": "p.price",
	"date":  "p.date",
}

// ProductRepository defines the interface for product data access.
//
// Search and HydrateCategories together implement the two-query read path:
// the first query materializes one de-duplicated page of products, the
// second attaches every returned product's category set in a single
// round trip.
type ProductRepository interface {
	Search(ctx context.Context, categoryIDs []int64, name string, page domain.PageRequest) (domain.Page[domain.Product], error)
	HydrateCategories(ctx context.Context, products []*domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Search retrieves one page of products filtered by category membership and
// by case-insensitive name substring. A nil or empty categoryIDs slice means
// no category restriction at all, not "products without categories". The
// join against product_categories would repeat a product once per matching
// category, so both the page query and the count use DISTINCT on product id.
func (r *productRepository) Search(ctx context.Context, categoryIDs []int64, name string, page domain.PageRequest) (domain.Page[domain.Product], error) {
	var empty domain.Page[domain.Product]

	namePattern := "%" + strings.TrimSpace(name) + "%"
	if categoryIDs == nil {
		categoryIDs = []int64{}
	}

	where := `
		FROM products p
		LEFT JOIN product_categories pc ON pc.product_id = p.id
		WHERE (cardinality($1::bigint[]) = 0 OR pc.category_id = ANY($1::bigint[]))
		  AND p.name ILIKE $2
	`

	countQuery := "SELECT COUNT(DISTINCT p.id) " + where

	var total int64
	err := r.db.QueryRowContext(ctx, countQuery, categoryIDs, namePattern).Scan(&total)
	if err != nil {
		return empty, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT p.id, p.name, p.description, p.price, p.img_url, p.date, p.created_at, p.updated_at
		%s
		ORDER BY %s
		LIMIT $3 OFFSET $4
	`, where, buildOrderBy(page.Sort))

	rows, err := r.db.QueryContext(ctx, query, categoryIDs, namePattern, page.Size, page.Offset())
	if err != nil {
		return empty, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var product domain.Product
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.ImgURL,
			&product.Date,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return empty, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return empty, fmt.Errorf("error iterating products: %w", err)
	}

	return domain.NewPage(products, page, total), nil
}

// buildOrderBy renders the whitelisted sort keys into an ORDER BY clause.
// Product id is always appended as the final key so ties are deterministic.
func buildOrderBy(sort []domain.SortKey) string {
	clauses := []string{}
	for _, key := range sort {
		column, ok := productSortColumns[key.Field]
		if !ok {
			continue
		}
		direction := "ASC"
		if key.Descending {
			direction = "DESC"
		}
		clauses = append(clauses, column+" "+direction)
	}
	clauses = append(clauses, "p.id ASC")
	return strings.Join(clauses, ", ")
}

// HydrateCategories attaches the full category set of every given product
// in one batched query, avoiding a per-product fan-out.
func (r *productRepository) HydrateCategories(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Product, len(products))
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		p.Categories = []domain.Category{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	query := `
		SELECT pc.product_id, c.id, c.name, c.created_at
		FROM product_categories pc
		INNER JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id = ANY($1::bigint[])
		ORDER BY pc.product_id, c.id
	`

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load product categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var category domain.Category
		if err := rows.Scan(&productID, &category.ID, &category.Name, &category.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan product category: %w", err)
		}
		if p, ok := byID[productID]; ok {
			p.Categories = append(p.Categories, category)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating product categories: %w", err)
	}

	return nil
}

// FindByID retrieves a product's scalar columns by id. Callers needing the
// category set follow up with HydrateCategories.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, img_url, date, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.ImgURL,
		&product.Date,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// Create inserts the product and its category associations in one
// transaction. Storage assigns the id; a category reference to a
// non-existent id fails here, at save time, as an integrity violation.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	query := `
		INSERT INTO products (name, description, price, img_url, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err = tx.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		product.ImgURL,
		product.Date,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", translatePgError(err))
	}

	if err := replaceProductCategories(ctx, tx, product.ID, product.CategoryIDs()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product create: %w", err)
	}

	return nil
}

// Update replaces the product's scalar columns and its entire category set
// in one transaction. The category set is cleared and repopulated, never
// merged, so the stored set always equals the incoming one exactly.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	product.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, img_url = $5, date = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.ImgURL,
		product.Date,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", translatePgError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %d: %w", product.ID, domain.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_categories WHERE product_id = $1`, product.ID); err != nil {
		return fmt.Errorf("failed to clear product categories: %w", err)
	}

	if err := replaceProductCategories(ctx, tx, product.ID, product.CategoryIDs()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product update: %w", err)
	}

	return nil
}

// replaceProductCategories bulk-inserts the association rows for one
// product with a single statement.
func replaceProductCategories(ctx context.Context, tx *sql.Tx, productID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO product_categories (product_id, category_id)
		SELECT $1, unnest($2::bigint[])
	`

	if _, err := tx.ExecContext(ctx, query, productID, categoryIDs); err != nil {
		return fmt.Errorf("failed to attach product categories: %w", translatePgError(err))
	}

	return nil
}

// Delete removes a product by id. Association rows cascade, so products are
// always deletable; the integrity translation stays in place for parity
// with the other repositories.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", translatePgError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
