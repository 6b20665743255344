package memory

import (
	"context"

	"github.com/online-store/store-service/internal/domain"
)

type ReservationRepository struct {
	store *Store
}

func NewReservationRepository(store *Store) *ReservationRepository {
	return &ReservationRepository{store: store}
}

func (r *ReservationRepository) list(p domain.Page, keep func(domain.Reservation) bool) []*domain.Reservation {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := page(s.reservations, p, keep)
	out := make([]*domain.Reservation, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out
}

func (r *ReservationRepository) List(ctx context.Context, p domain.Page) ([]*domain.Reservation, error) {
	return r.list(p, nil), nil
}

func (r *ReservationRepository) ListByProduct(ctx context.Context, productID uint, p domain.Page) ([]*domain.Reservation, error) {
	return r.list(p, func(reservation domain.Reservation) bool {
		return reservation.ProductID == productID
	}), nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, reservationID uint) (*domain.Reservation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.reservations[reservationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (r *ReservationRepository) GetForUpdate(ctx context.Context, reservationID uint) (*domain.Reservation, error) {
	return r.GetByID(ctx, reservationID)
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if reservation.Quantity <= 0 {
		return domain.InvalidInput("reservation.Create", "Value rejected by constraint chk_reservations_quantity.")
	}
	if _, ok := s.products[reservation.ProductID]; !ok {
		return domain.Conflict("reservation.Create", productConstraint)
	}

	s.seq.reservation++
	reservation.ID = s.seq.reservation

	row := *reservation
	row.Product = nil
	s.reservations[row.ID] = row
	return nil
}

func (r *ReservationRepository) Deactivate(ctx context.Context, reservationID uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.reservations[reservationID]
	if !ok || !row.Active {
		return domain.ErrNotFound
	}
	row.Active = false
	s.reservations[reservationID] = row
	return nil
}

func (r *ReservationRepository) DeleteByProducts(ctx context.Context, productIDs []uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, row := range s.reservations {
		if contains(productIDs, row.ProductID) {
			delete(s.reservations, id)
		}
	}
	return nil
}
