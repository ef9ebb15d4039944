package validation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"product-catalog/internal/domain"
	"product-catalog/internal/dto"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// lookupTable is a NaturalKeyLookup backed by a map, standing in for the
// repository lookups.
func lookupTable(records map[string]int64) NaturalKeyLookup {
	return func(_ context.Context, key string) (int64, error) {
		if id, ok := records[key]; ok {
			return id, nil
		}
		return 0, fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
}

func failingLookup(err error) NaturalKeyLookup {
	return func(_ context.Context, _ string) (int64, error) {
		return 0, err
	}
}

func newTestSet(categories, users map[string]int64) *Set {
	return NewSet(lookupTable(categories), lookupTable(users))
}

func TestProductValidatorAggregatesAllViolations(t *testing.T) {
	set := newTestSet(nil, nil)

	// Blank name, zero price and a future date violate three rules at once
	candidate := dto.ProductDTO{
		Name:  "  ",
		Price: 0,
		Date:  time.Now().Add(24 * time.Hour),
	}

	violations, err := set.Product.Validate(context.Background(), candidate, ForInsert())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %+v", len(violations), violations)
	}
}

func TestProductValidatorAcceptsValidProduct(t *testing.T) {
	set := newTestSet(nil, nil)

	candidate := dto.ProductDTO{
		Name:  "Macbook Pro",
		Price: 1250.00,
		Date:  time.Date(2020, 7, 14, 10, 0, 0, 0, time.UTC),
	}

	violations, err := set.Product.Validate(context.Background(), candidate, ForInsert())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(violations) != 0 {
		t.Errorf("expected no violations, got %+v", violations)
	}
}

func TestProductNameLengthBounds(t *testing.T) {
	cases := []struct {
		name      string
		value     string
		wantViola bool
	}{
		{"too short", "Abcd", true},
		{"minimum length", "Abcde", false},
		{"near maximum", "This name is exactly fifty characters long padded", false},
		{"too long", "This product name runs past fifty characters in length", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := ProductName(context.Background(), dto.ProductDTO{Name: tc.value}, ForInsert())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (msg != nil) != tc.wantViola {
				t.Errorf("value %q: expected violation=%v, got %+v", tc.value, tc.wantViola, msg)
			}
		})
	}
}

func TestCategoryInsertRejectsExistingName(t *testing.T) {
	set := newTestSet(map[string]int64{"Computers": 3}, nil)

	violations, err := set.Category.Validate(context.Background(), dto.CategoryDTO{Name: "Computers"}, ForInsert())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	if violations[0].Field != "name" {
		t.Errorf("expected violation on name, got %s", violations[0].Field)
	}
}

func TestCategoryUpdateAllowsKeepingOwnName(t *testing.T) {
	set := newTestSet(map[string]int64{"Computers": 3}, nil)

	// Category 3 renaming itself to its current name is not a collision
	violations, err := set.Category.Validate(context.Background(), dto.CategoryDTO{Name: "Computers"}, ForUpdate(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(violations) != 0 {
		t.Errorf("expected no violations, got %+v", violations)
	}
}

func TestCategoryUpdateRejectsAnotherCategorysName(t *testing.T) {
	set := newTestSet(map[string]int64{"Computers": 3}, nil)

	violations, err := set.Category.Validate(context.Background(), dto.CategoryDTO{Name: "Computers"}, ForUpdate(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(violations) != 1 {
		t.Errorf("expected 1 violation, got %d", len(violations))
	}
}

func TestUserInsertRejectsRegisteredEmail(t *testing.T) {
	set := newTestSet(nil, map[string]int64{"maria@gmail.com": 2})

	candidate := dto.UserInsertDTO{
		UserDTO: dto.UserDTO{
			FirstName: "Maria",
			Email:     "maria@gmail.com",
		},
		Password: "long-enough-password",
	}

	violations, err := set.UserInsert.Validate(context.Background(), candidate, ForInsert())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d: %+v", len(violations), violations)
	}
	if violations[0].Field != "email" {
		t.Errorf("expected violation on email, got %s", violations[0].Field)
	}
}

func TestUserInsertRejectsShortPassword(t *testing.T) {
	set := newTestSet(nil, nil)

	candidate := dto.UserInsertDTO{
		UserDTO: dto.UserDTO{
			FirstName: "Alex",
			Email:     "alex@gmail.com",
		},
		Password: "short",
	}

	violations, err := set.UserInsert.Validate(context.Background(), candidate, ForInsert())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d: %+v", len(violations), violations)
	}
	if violations[0].Field != "password" {
		t.Errorf("expected violation on password, got %s", violations[0].Field)
	}
}

func TestUserUpdateKeepingOwnEmailPasses(t *testing.T) {
	set := newTestSet(nil, map[string]int64{"maria@gmail.com": 2})

	candidate := dto.UserUpdateDTO{
		UserDTO: dto.UserDTO{
			FirstName: "Maria",
			Email:     "maria@gmail.com",
		},
	}

	violations, err := set.UserUpdate.Validate(context.Background(), candidate, ForUpdate(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(violations) != 0 {
		t.Errorf("expected no violations, got %+v", violations)
	}
}

func TestLookupFailureAbortsValidation(t *testing.T) {
	lookupErr := errors.New("storage unreachable")
	set := NewSet(failingLookup(lookupErr), failingLookup(lookupErr))

	_, err := set.Category.Validate(context.Background(), dto.CategoryDTO{Name: "Computers"}, ForInsert())
	if !errors.Is(err, lookupErr) {
		t.Errorf("expected lookup error to propagate, got %v", err)
	}
}

func TestProperty_UniquenessRulesMirrorEachOther(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("insert flags exactly the taken keys, update spares only the self", prop.ForAll(
		func(takenID int64, selfID int64, key string) bool {
			lookup := lookupTable(map[string]int64{key: takenID})
			get := func(s string) string { return s }

			insertRule := UniqueOnInsert(lookup, get, "key", "taken")
			updateRule := UniqueExcludingSelf(lookup, get, "key", "taken")

			insertMsg, err := insertRule(context.Background(), key, ForInsert())
			if err != nil || insertMsg == nil {
				return false
			}

			updateMsg, err := updateRule(context.Background(), key, ForUpdate(selfID))
			if err != nil {
				return false
			}
			if selfID == takenID {
				return updateMsg == nil
			}
			return updateMsg != nil
		},
		gen.Int64Range(1, 50),
		gen.Int64Range(1, 50),
		gen.RegexMatch(`[a-z]{3,12}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
