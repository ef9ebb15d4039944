// Package dto holds the request/response representations exchanged with
// callers. These are the shapes the validation engine runs against; they
// are distinct from the storage entities in internal/domain.
package dto

import (
	"time"

	"product-catalog/internal/domain"
)

// CategoryDTO is the external shape of a category.
type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewCategoryDTO projects a category entity.
func NewCategoryDTO(category *domain.Category) CategoryDTO {
	return CategoryDTO{ID: category.ID, Name: category.Name}
}

// ProductDTO is the external shape of a catalog item. On writes the
// category list fully replaces the stored set; only the category ids are
// consulted.
type ProductDTO struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	ImgURL      string        `json:"imgUrl"`
	Date        time.Time     `json:"date"`
	Categories  []CategoryDTO `json:"categories"`
}

// NewProductDTO projects a product entity together with its category set.
func NewProductDTO(product *domain.Product) ProductDTO {
	categories := make([]CategoryDTO, 0, len(product.Categories))
	for i := range product.Categories {
		categories = append(categories, NewCategoryDTO(&product.Categories[i]))
	}

	return ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		ImgURL:      product.ImgURL,
		Date:        product.Date,
		Categories:  categories,
	}
}

// CategoryIDs returns the ids named by the representation's category list.
func (d ProductDTO) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(d.Categories))
	for _, c := range d.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// RoleDTO is the external shape of a role.
type RoleDTO struct {
	ID        int64  `json:"id"`
	Authority string `json:"authority"`
}

// UserDTO is the external shape of an account. It never carries password
// material; the insert representation adds that separately.
type UserDTO struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Roles     []RoleDTO `json:"roles"`
}

// NewUserDTO projects a user entity together with its role set.
func NewUserDTO(user *domain.User) UserDTO {
	roles := make([]RoleDTO, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, RoleDTO{ID: r.ID, Authority: r.Authority})
	}

	return UserDTO{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Roles:     roles,
	}
}

// RoleIDs returns the ids named by the representation's role list.
func (d UserDTO) RoleIDs() []int64 {
	ids := make([]int64, 0, len(d.Roles))
	for _, r := range d.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}

// UserInsertDTO is the account creation representation. Password is
// write-only: it is hashed before persistence and never serialized back.
type UserInsertDTO struct {
	UserDTO
	Password string `json:"password"`
}

// UserUpdateDTO is the account update representation. It deliberately has
// no password field; credential changes go through the auth collaborator.
type UserUpdateDTO struct {
	UserDTO
}
