package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"product-catalog/internal/domain"

	"github.com/go-chi/chi/v5"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// parseIDParam reads the {id} path parameter.
func parseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// parsePageRequest reads page, size and sort query parameters. Page is
// zero-based; sort entries use the "field" or "field,desc" form and may be
// repeated.
func parsePageRequest(r *http.Request) domain.PageRequest {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 0 {
		page = 0
	}

	size, err := strconv.Atoi(query.Get("size"))
	if err != nil || size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	sort := []domain.SortKey{}
	for _, raw := range query["sort"] {
		parts := strings.Split(raw, ",")
		field := strings.TrimSpace(parts[0])
		if field == "" {
			continue
		}
		descending := len(parts) > 1 && strings.EqualFold(strings.TrimSpace(parts[1]), "desc")
		sort = append(sort, domain.SortKey{Field: field, Descending: descending})
	}

	return domain.PageRequest{Page: page, Size: size, Sort: sort}
}

// parseCategoryIDs reads the repeatable categoryId parameter; comma
// separated values within one occurrence are accepted too. A missing or
// empty parameter yields nil, which the search treats as "no restriction".
func parseCategoryIDs(r *http.Request) ([]int64, error) {
	var ids []int64
	for _, raw := range r.URL.Query()["categoryId"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid categoryId %q", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
