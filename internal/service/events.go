package service

import (
	"log"

	"github.com/online-store/store-service/shared/events"
)

const serviceName = "store-service"

// publish announces a committed change. Failures are logged only: the
// change itself has already been committed.
func publish(publisher EventPublisher, eventType events.StoreEventType, payload interface{}) {
	if publisher == nil {
		return
	}
	event := events.NewStoreEvent(serviceName, eventType, payload)
	if err := publisher.PublishStoreEvent(event); err != nil {
		log.Printf("%s event publish error: %v", eventType, err)
	}
}
