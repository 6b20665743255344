package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sale is immutable once created. DiscountID is a snapshot of the product's
// discount at the moment of purchase.
type Sale struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProductID  uint      `json:"product_id" gorm:"not null;index"`
	Product    *Product  `json:"-"`
	Quantity   int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	DiscountID *uint     `json:"discount_id" gorm:"index"`
	Discount   *Discount `json:"-"`
	SoldAt     time.Time `json:"sold_at" gorm:"not null;index"`
}

func NewSale(product *Product, quantity int) *Sale {
	var discountID *uint
	if product.DiscountID != nil {
		id := *product.DiscountID
		discountID = &id
	}
	return &Sale{
		ProductID:  product.ID,
		Quantity:   quantity,
		DiscountID: discountID,
		SoldAt:     time.Now().UTC(),
	}
}

type BuyRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// Receipt is the composed result of a purchase.
type Receipt struct {
	Sale         *Sale
	ProductName  string
	ProductPrice decimal.Decimal
	FinalPrice   decimal.Decimal
	CategoryID   uint
	CategoryName string
	DiscountName *string
}

func NewReceipt(sale *Sale, product *Product) *Receipt {
	return &Receipt{
		Sale:         sale,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		FinalPrice:   product.FinalPrice(),
		CategoryID:   product.CategoryID,
		CategoryName: product.CategoryName(),
		DiscountName: product.DiscountName(),
	}
}

// Total is the amount charged for the sale.
func (r *Receipt) Total() decimal.Decimal {
	return r.FinalPrice.Mul(decimal.NewFromInt(int64(r.Sale.Quantity))).Round(2)
}

// SaleReportFilter holds the optional, conjunctive report filters.
type SaleReportFilter struct {
	ProductID    *uint
	ProductName  string
	CategoryID   *uint
	CategoryName string
	Start        *time.Time
	End          *time.Time
}

// Matches applies the filter to a sale whose product, category and discount
// are loaded. Stores that cannot push the filter down use it directly.
func (f SaleReportFilter) Matches(sale *Sale) bool {
	product := sale.Product
	if product == nil {
		return false
	}
	if f.ProductID != nil && sale.ProductID != *f.ProductID {
		return false
	}
	if f.ProductName != "" && !containsFold(product.Name, f.ProductName) {
		return false
	}
	if f.CategoryID != nil && product.CategoryID != *f.CategoryID {
		return false
	}
	if f.CategoryName != "" && !containsFold(product.CategoryName(), f.CategoryName) {
		return false
	}
	if f.Start != nil && sale.SoldAt.Before(*f.Start) {
		return false
	}
	if f.End != nil && sale.SoldAt.After(*f.End) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SaleReportRow is a sale flattened with its product, category and discount.
type SaleReportRow struct {
	SaleID       uint
	ProductID    uint
	ProductName  string
	ProductPrice decimal.Decimal
	CategoryID   uint
	CategoryName string
	DiscountID   *uint
	DiscountName *string
	Quantity     int
	SoldAt       time.Time
}

// NewSaleReportRow flattens a sale. The discount is the sale's own snapshot,
// not the product's current one.
func NewSaleReportRow(sale *Sale) SaleReportRow {
	row := SaleReportRow{
		SaleID:     sale.ID,
		ProductID:  sale.ProductID,
		DiscountID: sale.DiscountID,
		Quantity:   sale.Quantity,
		SoldAt:     sale.SoldAt,
	}
	if sale.Product != nil {
		row.ProductName = sale.Product.Name
		row.ProductPrice = sale.Product.Price
		row.CategoryID = sale.Product.CategoryID
		row.CategoryName = sale.Product.CategoryName()
	}
	if sale.Discount != nil {
		name := sale.Discount.Name
		row.DiscountName = &name
	}
	return row
}
