package messaging

import (
	"errors"
	"log"
	"sync"

	"github.com/online-store/store-service/shared/events"
)

var (
	ErrPublisherClosed = errors.New("event publisher is closed")
	ErrQueueFull       = errors.New("event queue is full")
)

// StorePublisher is anything that can deliver a store event.
type StorePublisher interface {
	PublishStoreEvent(event events.StoreEvent) error
}

// AsyncPublisher queues events for a background worker so request handlers
// never wait on the broker. Events that do not fit in the queue are rejected.
type AsyncPublisher struct {
	next   StorePublisher
	queue  chan events.StoreEvent
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

func NewAsyncPublisher(next StorePublisher, buffer int) *AsyncPublisher {
	if buffer < 1 {
		buffer = 1
	}
	p := &AsyncPublisher{
		next:  next,
		queue: make(chan events.StoreEvent, buffer),
		done:  make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for event := range p.queue {
		if err := p.next.PublishStoreEvent(event); err != nil {
			log.Printf("%s event publish error: %v", event.EventType, err)
		}
	}
}

func (p *AsyncPublisher) PublishStoreEvent(event events.StoreEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until the queued ones are handed to
// the underlying publisher.
func (p *AsyncPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
}
