package service

import (
	"context"
	"log"

	"github.com/online-store/store-service/internal/domain"
	"github.com/online-store/store-service/shared/events"
)

// ReservationService moves stock between products and reservations. Reserve
// and Cancel each run in a single transaction holding the product row lock.
type ReservationService struct {
	tx           Transactor
	products     ProductRepository
	reservations ReservationRepository
	publisher    EventPublisher
}

func NewReservationService(
	tx Transactor,
	products ProductRepository,
	reservations ReservationRepository,
	publisher EventPublisher,
) *ReservationService {
	return &ReservationService{
		tx:           tx,
		products:     products,
		reservations: reservations,
		publisher:    publisher,
	}
}

func (s *ReservationService) List(ctx context.Context, page domain.Page) ([]*domain.Reservation, error) {
	return s.reservations.List(ctx, page)
}

// ListByProduct fails only when the product is missing; a product without
// reservations yields an empty list.
func (s *ReservationService) ListByProduct(ctx context.Context, productID uint, page domain.Page) ([]*domain.Reservation, error) {
	_, err := s.products.GetByID(ctx, productID)
	if domain.IsNotFound(err) {
		return nil, domain.ProductNotFound("reservation.ListByProduct", productID)
	}
	if err != nil {
		return nil, err
	}
	return s.reservations.ListByProduct(ctx, productID, page)
}

func (s *ReservationService) GetByID(ctx context.Context, reservationID uint) (*domain.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if domain.IsNotFound(err) {
		return nil, domain.ReservationNotFound("reservation.GetByID", reservationID)
	}
	return reservation, err
}

func (s *ReservationService) Reserve(ctx context.Context, request domain.ReserveRequest) (*domain.Reservation, error) {
	const op = "reservation.Reserve"
	log.Printf("Reserve started: ProductID=%d, Quantity=%d", request.ProductID, request.Quantity)

	if request.Quantity <= 0 {
		return nil, domain.InvalidInput(op, "Quantity must be greater than zero.")
	}

	var (
		reservation *domain.Reservation
		remaining   int
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.products.GetForUpdate(ctx, request.ProductID)
		if domain.IsNotFound(err) {
			return domain.ProductNotFound(op, request.ProductID)
		}
		if err != nil {
			return err
		}

		if err := product.Take(op, request.Quantity); err != nil {
			return err
		}
		if err := s.products.SetStock(ctx, product.ID, product.Stock); err != nil {
			return err
		}

		reservation = domain.NewReservation(product.ID, request.Quantity)
		remaining = product.Stock
		return s.reservations.Create(ctx, reservation)
	})
	if err != nil {
		log.Printf("Reserve failed: ProductID=%d, Error=%v", request.ProductID, err)
		return nil, err
	}

	log.Printf("Reservation created: ID=%d, ProductID=%d, RemainingStock=%d", reservation.ID, reservation.ProductID, remaining)
	publish(s.publisher, events.InventoryReservedEvent, events.InventoryReservedPayload{
		ReservationID:  reservation.ID,
		ProductID:      reservation.ProductID,
		Quantity:       reservation.Quantity,
		RemainingStock: remaining,
	})
	return reservation, nil
}

// Cancel returns the reserved quantity to stock and deactivates the
// reservation. Cancelling twice fails with not found.
func (s *ReservationService) Cancel(ctx context.Context, reservationID uint) (*domain.Reservation, error) {
	const op = "reservation.Cancel"
	log.Printf("Cancel started: ReservationID=%d", reservationID)

	var (
		reservation *domain.Reservation
		restored    int
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		reservation, err = s.reservations.GetForUpdate(ctx, reservationID)
		if domain.IsNotFound(err) {
			return domain.ActiveReservationNotFound(op, reservationID)
		}
		if err != nil {
			return err
		}
		if !reservation.Cancel() {
			return domain.ActiveReservationNotFound(op, reservationID)
		}

		product, err := s.products.GetForUpdate(ctx, reservation.ProductID)
		if domain.IsNotFound(err) {
			return domain.ProductNotFound(op, reservation.ProductID)
		}
		if err != nil {
			return err
		}

		product.Restore(reservation.Quantity)
		if err := s.products.SetStock(ctx, product.ID, product.Stock); err != nil {
			return err
		}
		restored = product.Stock
		return s.reservations.Deactivate(ctx, reservation.ID)
	})
	if err != nil {
		log.Printf("Cancel failed: ReservationID=%d, Error=%v", reservationID, err)
		return nil, err
	}

	log.Printf("Reservation cancelled: ID=%d, ProductID=%d, Stock=%d", reservation.ID, reservation.ProductID, restored)
	publish(s.publisher, events.ReservationCancelledEvent, events.ReservationCancelledPayload{
		ReservationID: reservation.ID,
		ProductID:     reservation.ProductID,
		Quantity:      reservation.Quantity,
		RestoredStock: restored,
	})
	return reservation, nil
}
