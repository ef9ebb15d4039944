package domain

import (
	"time"
)

// Product represents a catalog item. ID is zero before the first save;
// storage assigns it on insert and it never changes afterwards.
type Product struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	ImgURL      string     `json:"imgUrl" db:"img_url"`
	Date        time.Time  `json:"date" db:"date"`
	Categories  []Category `json:"categories"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// CategoryIDs returns the ids of the product's category set, in the order
// the set was loaded or attached.
func (p *Product) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// Category is a small reference entity attached to products. Name is unique
// across categories; the uniqueness rule enforces it before storage does.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
