package service

import (
	"context"
	"fmt"
	"strings"

	"product-catalog/internal/domain"
	"product-catalog/internal/dto"
	"product-catalog/internal/repository"
	"product-catalog/internal/validation"
)

// ProductService defines the catalog query and mutation operations.
type ProductService interface {
	Search(ctx context.Context, categoryIDs []int64, name string, page domain.PageRequest) (domain.Page[dto.ProductDTO], error)
	FindByID(ctx context.Context, id int64) (dto.ProductDTO, error)
	Insert(ctx context.Context, d dto.ProductDTO) (dto.ProductDTO, error)
	Update(ctx context.Context, id int64, d dto.ProductDTO) (dto.ProductDTO, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	validator  *validation.Validator[dto.ProductDTO]
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	validator *validation.Validator[dto.ProductDTO],
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		validator:  validator,
	}
}

// Search returns one de-duplicated page of products matching the category
// and name filters, with every returned product's category set hydrated in
// a single follow-up query. A nil or empty category filter matches all
// products, and a page index past the data yields an empty page.
func (s *productService) Search(ctx context.Context, categoryIDs []int64, name string, page domain.PageRequest) (domain.Page[dto.ProductDTO], error) {
	var empty domain.Page[dto.ProductDTO]

	result, err := s.products.Search(ctx, categoryIDs, strings.TrimSpace(name), page)
	if err != nil {
		return empty, fmt.Errorf("failed to search products: %w", err)
	}

	hydrate := make([]*domain.Product, len(result.Content))
	for i := range result.Content {
		hydrate[i] = &result.Content[i]
	}
	if err := s.products.HydrateCategories(ctx, hydrate); err != nil {
		return empty, fmt.Errorf("failed to hydrate categories: %w", err)
	}

	return domain.MapPage(result, func(p domain.Product) dto.ProductDTO {
		return dto.NewProductDTO(&p)
	}), nil
}

// FindByID returns the product with its full category set, never a
// partially loaded item.
func (s *productService) FindByID(ctx context.Context, id int64) (dto.ProductDTO, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return dto.ProductDTO{}, err
	}

	if err := s.products.HydrateCategories(ctx, []*domain.Product{product}); err != nil {
		return dto.ProductDTO{}, fmt.Errorf("failed to hydrate categories: %w", err)
	}

	return dto.NewProductDTO(product), nil
}

// Insert validates the representation, persists a new product and returns
// the saved projection carrying the storage-assigned id.
func (s *productService) Insert(ctx context.Context, d dto.ProductDTO) (dto.ProductDTO, error) {
	if err := s.validate(ctx, d, validation.ForInsert()); err != nil {
		return dto.ProductDTO{}, err
	}

	product := s.toEntity(d)
	if err := s.products.Create(ctx, product); err != nil {
		return dto.ProductDTO{}, err
	}

	return s.FindByID(ctx, product.ID)
}

// Update validates the representation, then replaces the product's scalar
// fields and its entire category set. No merge: categories absent from the
// representation are detached, those named are attached.
func (s *productService) Update(ctx context.Context, id int64, d dto.ProductDTO) (dto.ProductDTO, error) {
	if err := s.validate(ctx, d, validation.ForUpdate(id)); err != nil {
		return dto.ProductDTO{}, err
	}

	product := s.toEntity(d)
	product.ID = id
	if err := s.products.Update(ctx, product); err != nil {
		return dto.ProductDTO{}, err
	}

	return s.FindByID(ctx, id)
}

// Delete removes the product. The repository reports ErrNotFound for an
// unknown id and ErrIntegrityViolation when storage refuses the delete.
func (s *productService) Delete(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

func (s *productService) validate(ctx context.Context, d dto.ProductDTO, vctx validation.Context) error {
	violations, err := s.validator.Validate(ctx, d, vctx)
	if err != nil {
		return fmt.Errorf("product validation failed: %w", err)
	}
	if len(violations) > 0 {
		return domain.NewValidationError(violations)
	}
	return nil
}

// toEntity maps the representation onto a fresh entity. Category ids are
// attached through unresolved reference handles: no lookup happens here,
// a reference to a missing category fails at save time instead.
func (s *productService) toEntity(d dto.ProductDTO) *domain.Product {
	categories := make([]domain.Category, 0, len(d.Categories))
	for _, id := range d.CategoryIDs() {
		ref := s.categories.Ref(id)
		categories = append(categories, domain.Category{ID: ref.ID()})
	}

	return &domain.Product{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		ImgURL:      d.ImgURL,
		Date:        d.Date,
		Categories:  categories,
	}
}
