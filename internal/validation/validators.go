package validation

import (
	"product-catalog/internal/dto"
)

const (
	msgCategoryExists = "this category already exists, choose another name"
	msgEmailExists    = "this email is already registered, choose another"
)

// Set is the static lookup table of validators, one per representation
// type. Adding a representation type means adding a field and its
// constructor wiring here; existing rules stay untouched.
type Set struct {
	Product    *Validator[dto.ProductDTO]
	Category   *Validator[dto.CategoryDTO]
	UserInsert *Validator[dto.UserInsertDTO]
	UserUpdate *Validator[dto.UserUpdateDTO]
}

// NewSet wires every validator against the natural-key lookups it needs.
func NewSet(categoryByName, userByEmail NaturalKeyLookup) *Set {
	return &Set{
		Product: NewValidator(
			ProductName,
			ProductPrice,
			ProductDate,
		),
		Category: NewValidator(
			CategoryName,
			UniqueExcludingSelf(categoryByName,
				func(d dto.CategoryDTO) string { return d.Name },
				"name", msgCategoryExists),
		),
		UserInsert: NewValidator(
			NonBlank(func(d dto.UserInsertDTO) string { return d.FirstName },
				"first_name", "first name must not be blank"),
			EmailFormat(func(d dto.UserInsertDTO) string { return d.Email }, "email"),
			UserPassword,
			UniqueOnInsert(userByEmail,
				func(d dto.UserInsertDTO) string { return d.Email },
				"email", msgEmailExists),
		),
		UserUpdate: NewValidator(
			NonBlank(func(d dto.UserUpdateDTO) string { return d.FirstName },
				"first_name", "first name must not be blank"),
			EmailFormat(func(d dto.UserUpdateDTO) string { return d.Email }, "email"),
			UniqueExcludingSelf(userByEmail,
				func(d dto.UserUpdateDTO) string { return d.Email },
				"email", msgEmailExists),
		),
	}
}
