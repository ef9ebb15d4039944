// Package validation implements the declarative rule engine run before
// mutations. A validator is a rule list attached to one representation
// type; evaluation collects every violation instead of stopping at the
// first, and uniqueness rules reach into storage through a narrow lookup
// port.
package validation

import (
	"context"

	"product-catalog/internal/domain"
)

// Context carries request-scoped facts a rule may need, passed explicitly
// rather than smuggled through ambient request state. SelfID identifies
// the record being updated so uniqueness checks can exclude it.
type Context struct {
	SelfID    int64
	HasSelfID bool
}

// ForInsert returns the validation context for a create request.
func ForInsert() Context {
	return Context{}
}

// ForUpdate returns the validation context for an update of the given id.
func ForUpdate(id int64) Context {
	return Context{SelfID: id, HasSelfID: true}
}

// Rule checks one aspect of a candidate representation. A nil FieldMessage
// means the rule passed. Rules are independent of one another; a returned
// error is an evaluation failure (e.g. a storage lookup broke), not a
// violation.
type Rule[T any] func(ctx context.Context, candidate T, vctx Context) (*domain.FieldMessage, error)

// Validator evaluates a fixed rule list against one representation type.
type Validator[T any] struct {
	rules []Rule[T]
}

// NewValidator builds a validator from its rule list.
func NewValidator[T any](rules ...Rule[T]) *Validator[T] {
	return &Validator[T]{rules: rules}
}

// Validate runs every rule and returns all violations found. The result
// order follows rule registration order; an empty slice means valid.
func (v *Validator[T]) Validate(ctx context.Context, candidate T, vctx Context) ([]domain.FieldMessage, error) {
	violations := []domain.FieldMessage{}
	for _, rule := range v.rules {
		fm, err := rule(ctx, candidate, vctx)
		if err != nil {
			return nil, err
		}
		if fm != nil {
			violations = append(violations, *fm)
		}
	}
	return violations, nil
}
