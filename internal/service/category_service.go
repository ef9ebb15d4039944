package service

import (
	"context"
	"fmt"

	"product-catalog/internal/domain"
	"product-catalog/internal/dto"
	"product-catalog/internal/repository"
	"product-catalog/internal/validation"
)

// CategoryService defines category read and mutation operations.
type CategoryService interface {
	FindAllPaged(ctx context.Context, page domain.PageRequest) (domain.Page[dto.CategoryDTO], error)
	FindByID(ctx context.Context, id int64) (dto.CategoryDTO, error)
	Insert(ctx context.Context, d dto.CategoryDTO) (dto.CategoryDTO, error)
	Update(ctx context.Context, id int64, d dto.CategoryDTO) (dto.CategoryDTO, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	categories repository.CategoryRepository
	validator  *validation.Validator[dto.CategoryDTO]
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(
	categories repository.CategoryRepository,
	validator *validation.Validator[dto.CategoryDTO],
) CategoryService {
	return &categoryService{
		categories: categories,
		validator:  validator,
	}
}

// FindAllPaged returns one page of categories.
func (s *categoryService) FindAllPaged(ctx context.Context, page domain.PageRequest) (domain.Page[dto.CategoryDTO], error) {
	result, err := s.categories.FindAll(ctx, page)
	if err != nil {
		return domain.Page[dto.CategoryDTO]{}, err
	}

	return domain.MapPage(result, func(c domain.Category) dto.CategoryDTO {
		return dto.NewCategoryDTO(&c)
	}), nil
}

// FindByID returns the category or ErrNotFound.
func (s *categoryService) FindByID(ctx context.Context, id int64) (dto.CategoryDTO, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return dto.CategoryDTO{}, err
	}
	return dto.NewCategoryDTO(category), nil
}

// Insert validates the representation (the name uniqueness rule queries
// storage) and persists a new category.
func (s *categoryService) Insert(ctx context.Context, d dto.CategoryDTO) (dto.CategoryDTO, error) {
	if err := s.validate(ctx, d, validation.ForInsert()); err != nil {
		return dto.CategoryDTO{}, err
	}

	category := &domain.Category{Name: d.Name}
	if err := s.categories.Create(ctx, category); err != nil {
		return dto.CategoryDTO{}, err
	}

	return dto.NewCategoryDTO(category), nil
}

// Update renames the category. The uniqueness rule excludes the category's
// own id, so re-submitting the current name is not a conflict.
func (s *categoryService) Update(ctx context.Context, id int64, d dto.CategoryDTO) (dto.CategoryDTO, error) {
	if err := s.validate(ctx, d, validation.ForUpdate(id)); err != nil {
		return dto.CategoryDTO{}, err
	}

	category := &domain.Category{ID: id, Name: d.Name}
	if err := s.categories.Update(ctx, category); err != nil {
		return dto.CategoryDTO{}, err
	}

	return s.FindByID(ctx, id)
}

// Delete removes the category. A category still referenced by any product
// is rejected with ErrIntegrityViolation and left intact, never cascaded.
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}

func (s *categoryService) validate(ctx context.Context, d dto.CategoryDTO, vctx validation.Context) error {
	violations, err := s.validator.Validate(ctx, d, vctx)
	if err != nil {
		return fmt.Errorf("category validation failed: %w", err)
	}
	if len(violations) > 0 {
		return domain.NewValidationError(violations)
	}
	return nil
}
