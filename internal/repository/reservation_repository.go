package repository

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepository struct {
	base
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{base{db: db}}
}

func (r *ReservationRepository) List(ctx context.Context, page domain.Page) ([]*domain.Reservation, error) {
	reservations := []*domain.Reservation{}
	if err := r.conn(ctx).Scopes(paginate(page)).Find(&reservations).Error; err != nil {
		return nil, translateError("reservation.List", err)
	}
	return reservations, nil
}

func (r *ReservationRepository) ListByProduct(ctx context.Context, productID uint, page domain.Page) ([]*domain.Reservation, error) {
	reservations := []*domain.Reservation{}
	err := r.conn(ctx).Scopes(paginate(page)).
		Where("product_id = ?", productID).
		Find(&reservations).Error
	if err != nil {
		return nil, translateError("reservation.ListByProduct", err)
	}
	return reservations, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, reservationID uint) (*domain.Reservation, error) {
	var reservation domain.Reservation
	if err := r.conn(ctx).First(&reservation, reservationID).Error; err != nil {
		return nil, translateError("reservation.GetByID", err)
	}
	return &reservation, nil
}

func (r *ReservationRepository) GetForUpdate(ctx context.Context, reservationID uint) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&reservation, reservationID).Error
	if err != nil {
		return nil, translateError("reservation.GetForUpdate", err)
	}
	return &reservation, nil
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	err := r.conn(ctx).Omit(clause.Associations).Create(reservation).Error
	return translateError("reservation.Create", err)
}

func (r *ReservationRepository) Deactivate(ctx context.Context, reservationID uint) error {
	result := r.conn(ctx).Model(&domain.Reservation{}).
		Where("id = ? AND active", reservationID).
		Update("active", false)
	return affected("reservation.Deactivate", result)
}

func (r *ReservationRepository) DeleteByProducts(ctx context.Context, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	err := r.conn(ctx).Where("product_id IN ?", productIDs).Delete(&domain.Reservation{}).Error
	return translateError("reservation.DeleteByProducts", err)
}
