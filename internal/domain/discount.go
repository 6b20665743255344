package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Discount struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Percentage  float64   `json:"percentage" gorm:"not null;check:percentage >= 0 AND percentage <= 100"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Apply returns price reduced by the discount percentage.
func (d *Discount) Apply(price decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(d.Percentage).Div(hundred))
	return price.Mul(factor)
}

func ValidPercentage(percentage float64) bool {
	return percentage >= 0 && percentage <= 100
}

type CreateDiscountRequest struct {
	Name        string  `json:"name"`
	Percentage  float64 `json:"percentage"`
	Description *string `json:"description"`
}

func (r *CreateDiscountRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r CreateDiscountRequest) ToDiscount() *Discount {
	return &Discount{
		Name:        r.Name,
		Percentage:  r.Percentage,
		Description: r.Description,
	}
}
