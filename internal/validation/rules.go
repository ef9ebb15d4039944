package validation

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"product-catalog/internal/domain"
	"product-catalog/internal/dto"
)

const (
	productNameMinLen = 5
	productNameMaxLen = 50
	minPrice          = 1.00
	passwordMinLen    = 8
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NaturalKeyLookup resolves a natural key (category name, account email) to
// the id of the record holding it. A miss is reported as
// domain.ErrNotFound; any other error aborts the validation pass.
type NaturalKeyLookup func(ctx context.Context, key string) (int64, error)

func violation(field, message string) *domain.FieldMessage {
	return &domain.FieldMessage{Field: field, Message: message}
}

// ProductName requires a non-blank name of 5 to 50 characters.
func ProductName(_ context.Context, candidate dto.ProductDTO, _ Context) (*domain.FieldMessage, error) {
	name := strings.TrimSpace(candidate.Name)
	if name == "" {
		return violation("name", "name must not be blank"), nil
	}
	if n := utf8.RuneCountInString(name); n < productNameMinLen || n > productNameMaxLen {
		return violation("name", "name must be between 5 and 50 characters"), nil
	}
	return nil, nil
}

// ProductPrice requires a strictly positive price of at least 1.00.
func ProductPrice(_ context.Context, candidate dto.ProductDTO, _ Context) (*domain.FieldMessage, error) {
	if candidate.Price <= 0 {
		return violation("price", "price must be positive"), nil
	}
	if candidate.Price < minPrice {
		return violation("price", "price must be at least 1.00"), nil
	}
	return nil, nil
}

// ProductDate rejects effective dates in the future. A zero date is
// allowed; it means "not specified".
func ProductDate(_ context.Context, candidate dto.ProductDTO, _ Context) (*domain.FieldMessage, error) {
	if !candidate.Date.IsZero() && candidate.Date.After(time.Now()) {
		return violation("date", "date cannot be in the future"), nil
	}
	return nil, nil
}

// CategoryName requires a non-blank category name.
func CategoryName(_ context.Context, candidate dto.CategoryDTO, _ Context) (*domain.FieldMessage, error) {
	if strings.TrimSpace(candidate.Name) == "" {
		return violation("name", "name must not be blank"), nil
	}
	return nil, nil
}

// NonBlank requires the extracted field to contain non-whitespace text.
func NonBlank[T any](get func(T) string, field, message string) Rule[T] {
	return func(_ context.Context, candidate T, _ Context) (*domain.FieldMessage, error) {
		if strings.TrimSpace(get(candidate)) == "" {
			return violation(field, message), nil
		}
		return nil, nil
	}
}

// EmailFormat requires the extracted field to be a well-formed address.
func EmailFormat[T any](get func(T) string, field string) Rule[T] {
	return func(_ context.Context, candidate T, _ Context) (*domain.FieldMessage, error) {
		if !emailPattern.MatchString(get(candidate)) {
			return violation(field, "email must be a valid address"), nil
		}
		return nil, nil
	}
}

// UserPassword requires a password of at least 8 characters on insert.
func UserPassword(_ context.Context, candidate dto.UserInsertDTO, _ Context) (*domain.FieldMessage, error) {
	if utf8.RuneCountInString(candidate.Password) < passwordMinLen {
		return violation("password", "password must be at least 8 characters"), nil
	}
	return nil, nil
}

// UniqueOnInsert flags any record already holding the candidate's natural
// key. It ignores the validation context: on an insert there is no self to
// exclude.
func UniqueOnInsert[T any](lookup NaturalKeyLookup, key func(T) string, field, message string) Rule[T] {
	return func(ctx context.Context, candidate T, _ Context) (*domain.FieldMessage, error) {
		_, err := lookup(ctx, key(candidate))
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return violation(field, message), nil
	}
}

// UniqueExcludingSelf flags a record holding the candidate's natural key
// unless that record is the one being updated. The updated record's id
// comes from the validation context supplied by the caller; when the
// context carries no id the rule behaves like UniqueOnInsert.
func UniqueExcludingSelf[T any](lookup NaturalKeyLookup, key func(T) string, field, message string) Rule[T] {
	return func(ctx context.Context, candidate T, vctx Context) (*domain.FieldMessage, error) {
		existingID, err := lookup(ctx, key(candidate))
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if vctx.HasSelfID && vctx.SelfID == existingID {
			return nil, nil
		}
		return violation(field, message), nil
	}
}
