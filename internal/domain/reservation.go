package domain

import "time"

type Reservation struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProductID  uint      `json:"product_id" gorm:"not null;index"`
	Product    *Product  `json:"-"`
	Quantity   int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	Active     bool      `json:"active" gorm:"not null;default:true"`
	ReservedAt time.Time `json:"reserved_at" gorm:"not null"`
}

func NewReservation(productID uint, quantity int) *Reservation {
	return &Reservation{
		ProductID:  productID,
		Quantity:   quantity,
		Active:     true,
		ReservedAt: time.Now().UTC(),
	}
}

// Cancel marks the reservation inactive. It reports false when the
// reservation was already cancelled.
func (r *Reservation) Cancel() bool {
	if !r.Active {
		return false
	}
	r.Active = false
	return true
}

type ReserveRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}
