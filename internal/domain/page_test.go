package domain

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNewPageDerivesMetadata(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		size       int
		total      int64
		totalPages int
		first      bool
		last       bool
	}{
		{"single full page", 0, 10, 10, 1, true, true},
		{"first of three", 0, 10, 25, 3, true, false},
		{"middle page", 1, 10, 25, 3, false, false},
		{"last partial page", 2, 10, 25, 3, false, true},
		{"past the end", 5, 10, 25, 3, false, true},
		{"empty result", 0, 10, 0, 0, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPage([]int{}, PageRequest{Page: tc.page, Size: tc.size}, tc.total)
			if p.TotalPages != tc.totalPages {
				t.Errorf("expected %d total pages, got %d", tc.totalPages, p.TotalPages)
			}
			if p.First != tc.first {
				t.Errorf("expected first=%v, got %v", tc.first, p.First)
			}
			if p.Last != tc.last {
				t.Errorf("expected last=%v, got %v", tc.last, p.Last)
			}
		})
	}
}

func TestNewPageNilContentBecomesEmptySlice(t *testing.T) {
	p := NewPage[int](nil, PageRequest{Page: 0, Size: 10}, 0)
	if p.Content == nil {
		t.Error("expected non-nil content slice")
	}
	if len(p.Content) != 0 {
		t.Errorf("expected empty content, got %d items", len(p.Content))
	}
}

func TestPageRequestOffset(t *testing.T) {
	req := PageRequest{Page: 3, Size: 12}
	if got := req.Offset(); got != 36 {
		t.Errorf("expected offset 36, got %d", got)
	}
}

func TestMapPagePreservesMetadata(t *testing.T) {
	source := NewPage([]int{1, 2, 3}, PageRequest{Page: 1, Size: 3}, 7)

	mapped := MapPage(source, strconv.Itoa)

	if len(mapped.Content) != 3 || mapped.Content[0] != "1" {
		t.Errorf("unexpected mapped content: %v", mapped.Content)
	}
	if mapped.Number != source.Number ||
		mapped.Size != source.Size ||
		mapped.TotalElements != source.TotalElements ||
		mapped.TotalPages != source.TotalPages ||
		mapped.First != source.First ||
		mapped.Last != source.Last {
		t.Errorf("metadata not preserved: %+v vs %+v", mapped, source)
	}
}

func TestProperty_PageFlagsAreConsistent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("first/last flags agree with number and total pages", prop.ForAll(
		func(page int, size int, total int64) bool {
			p := NewPage([]int{}, PageRequest{Page: page, Size: size}, total)

			if p.First != (page == 0) {
				return false
			}
			if p.TotalPages > 0 && page < p.TotalPages-1 && p.Last {
				return false
			}
			if page >= p.TotalPages-1 && !p.Last {
				return false
			}
			return true
		},
		gen.IntRange(0, 100),
		gen.IntRange(1, 50),
		gen.Int64Range(0, 5000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
