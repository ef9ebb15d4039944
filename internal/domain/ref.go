package domain

import "context"

// Ref is a lazy reference handle to another entity: an id plus a resolver.
// Resolving is deferred until Resolve is called, so a handle to a
// non-existent id costs nothing until something dereferences it. Write
// paths attach handles without resolving and let the save surface the
// failure; read paths resolve eagerly when they need the full entity.
type Ref[T any] struct {
	id      int64
	resolve func(ctx context.Context, id int64) (*T, error)

	cached *T
}

// NewRef builds a reference handle from an id and a resolver function.
func NewRef[T any](id int64, resolve func(ctx context.Context, id int64) (*T, error)) *Ref[T] {
	return &Ref[T]{id: id, resolve: resolve}
}

// ID returns the referenced id without touching storage.
func (r *Ref[T]) ID() int64 {
	return r.id
}

// Resolve dereferences the handle, caching the result for the lifetime of
// the handle. A handle lives for one request only, so the cache never goes
// stale across calls.
func (r *Ref[T]) Resolve(ctx context.Context) (*T, error) {
	if r.cached != nil {
		return r.cached, nil
	}

	entity, err := r.resolve(ctx, r.id)
	if err != nil {
		return nil, err
	}

	r.cached = entity
	return entity, nil
}
