package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	Category    *Category       `json:"category,omitempty"`
	DiscountID  *uint           `json:"discount_id" gorm:"index"`
	Discount    *Discount       `json:"discount,omitempty"`
	Stock       int             `json:"stock" gorm:"not null;default:0;check:stock >= 0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Reservations holds only the active reservations when loaded by a store.
	Reservations []Reservation `json:"-" gorm:"foreignKey:ProductID"`
}

// FinalPrice is the price after the linked discount, if any.
func (p *Product) FinalPrice() decimal.Decimal {
	if p.Discount == nil {
		return p.Price
	}
	return p.Discount.Apply(p.Price)
}

// ReservedQuantity sums the active reservations loaded on the product.
func (p *Product) ReservedQuantity() int {
	total := 0
	for _, reservation := range p.Reservations {
		if reservation.Active {
			total += reservation.Quantity
		}
	}
	return total
}

func (p *Product) CanTake(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

// Take removes quantity from stock, failing with ErrNotEnoughStock when the
// product cannot cover it.
func (p *Product) Take(op string, quantity int) error {
	if !p.CanTake(quantity) {
		return NotEnoughStock(op, p.ID, quantity, p.Stock)
	}
	p.Stock -= quantity
	return nil
}

// Restore puts quantity back into stock.
func (p *Product) Restore(quantity int) {
	p.Stock += quantity
}

func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

func (p *Product) DiscountName() *string {
	if p.Discount == nil {
		return nil
	}
	name := p.Discount.Name
	return &name
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  uint    `json:"category_id"`
	Stock       *int    `json:"stock"`
}

func (r *CreateProductRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
}

func (r CreateProductRequest) ToProduct() *Product {
	stock := 0
	if r.Stock != nil {
		stock = *r.Stock
	}
	return &Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       decimal.NewFromFloat(r.Price).Round(2),
		CategoryID:  r.CategoryID,
		Stock:       stock,
	}
}

// UpdateProductRequest is a field patch; nil fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CategoryID  *uint   `json:"category_id"`
	Stock       *int    `json:"stock"`
}

func (r *UpdateProductRequest) Normalize() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Description != nil {
		description := strings.TrimSpace(*r.Description)
		r.Description = &description
	}
}

// Fields returns the patch as column -> value.
func (r UpdateProductRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.CategoryID != nil {
		fields["category_id"] = *r.CategoryID
	}
	if r.Stock != nil {
		fields["stock"] = *r.Stock
	}
	return fields
}

type UpdatePriceRequest struct {
	Price float64 `json:"price"`
}
