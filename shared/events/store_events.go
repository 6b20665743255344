package events

import (
	"time"

	"github.com/google/uuid"
)

type StoreEventType string

const (
	// Reservation events
	InventoryReservedEvent    StoreEventType = "inventory.reserved"
	ReservationCancelledEvent StoreEventType = "inventory.reservation_cancelled"

	// Sale events
	SaleCompletedEvent StoreEventType = "sale.completed"

	// Catalog events
	CategoryDeletedEvent StoreEventType = "category.deleted"
)

type StoreEvent struct {
	ID            uuid.UUID      `json:"id"`
	EventType     StoreEventType `json:"event_type"`
	Payload       interface{}    `json:"payload"`
	Timestamp     time.Time      `json:"timestamp"`
	Service       string         `json:"service"`
	CorrelationID uuid.UUID      `json:"correlation_id"`
}

func NewStoreEvent(service string, eventType StoreEventType, payload interface{}) StoreEvent {
	return StoreEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		Service:       service,
		Timestamp:     time.Now().UTC(),
		CorrelationID: uuid.New(),
		Payload:       payload,
	}
}

type InventoryReservedPayload struct {
	ReservationID  uint `json:"reservation_id"`
	ProductID      uint `json:"product_id"`
	Quantity       int  `json:"quantity"`
	RemainingStock int  `json:"remaining_stock"`
}

type ReservationCancelledPayload struct {
	ReservationID uint `json:"reservation_id"`
	ProductID     uint `json:"product_id"`
	Quantity      int  `json:"quantity"`
	RestoredStock int  `json:"restored_stock"`
}

type SaleCompletedPayload struct {
	SaleID         uint      `json:"sale_id"`
	ProductID      uint      `json:"product_id"`
	Quantity       int       `json:"quantity"`
	DiscountID     *uint     `json:"discount_id,omitempty"`
	Total          string    `json:"total"`
	RemainingStock int       `json:"remaining_stock"`
	SoldAt         time.Time `json:"sold_at"`
}

type CategoryDeletedPayload struct {
	CategoryIDs []uint `json:"category_ids"`
	ProductIDs  []uint `json:"product_ids"`
}
