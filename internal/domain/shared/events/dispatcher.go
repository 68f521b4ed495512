package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"srdashboard/internal/shared/goroutine"
	"srdashboard/internal/shared/logger"
)

var (
	ErrDispatcherNotRunning = errors.New("event dispatcher is not running")
	ErrQueueFull            = errors.New("event queue is full")
)

// InMemoryEventDispatcher is a bounded work queue drained by a fixed set of
// workers. Handler errors and panics are logged and never reach the publisher.
type InMemoryEventDispatcher struct {
	handlers       map[string][]EventHandler
	mu             sync.RWMutex
	running        bool
	eventCh        chan DomainEvent
	workers        int
	handlerTimeout time.Duration
	wg             sync.WaitGroup
	logger         logger.Interface
}

// NewInMemoryEventDispatcher creates a dispatcher with a queue of bufferSize
// events and the given number of workers.
func NewInMemoryEventDispatcher(bufferSize, workers int, log logger.Interface) *InMemoryEventDispatcher {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	if workers <= 0 {
		workers = 1
	}

	return &InMemoryEventDispatcher{
		handlers:       make(map[string][]EventHandler),
		eventCh:        make(chan DomainEvent, bufferSize),
		workers:        workers,
		handlerTimeout: 30 * time.Second,
		logger:         log,
	}
}

// Publish enqueues a single event without blocking.
func (d *InMemoryEventDispatcher) Publish(event DomainEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.running {
		return ErrDispatcherNotRunning
	}

	select {
	case d.eventCh <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// PublishAll enqueues events in order, stopping at the first failure.
func (d *InMemoryEventDispatcher) PublishAll(events []DomainEvent) error {
	for _, event := range events {
		if err := d.Publish(event); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", event.GetEventType(), err)
		}
	}
	return nil
}

// Subscribe registers a handler for specific event types
func (d *InMemoryEventDispatcher) Subscribe(eventType string, handler EventHandler) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
	return nil
}

// Start launches the workers.
func (d *InMemoryEventDispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("event dispatcher is already running")
	}
	d.running = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		goroutine.SafeGo(d.logger, fmt.Sprintf("event-worker-%d", i), func() {
			defer d.wg.Done()
			for event := range d.eventCh {
				d.handleEvent(event)
			}
		})
	}

	return nil
}

// Stop refuses new events and waits until queued events are handled.
func (d *InMemoryEventDispatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return ErrDispatcherNotRunning
	}
	d.running = false
	close(d.eventCh)
	d.mu.Unlock()

	d.wg.Wait()
	return nil
}

func (d *InMemoryEventDispatcher) handleEvent(event DomainEvent) {
	d.mu.RLock()
	handlers := d.handlers[event.GetEventType()]
	d.mu.RUnlock()

	for _, h := range handlers {
		goroutine.Run(d.logger, "event:"+event.GetEventType(), func() {
			ctx, cancel := context.WithTimeout(context.Background(), d.handlerTimeout)
			defer cancel()

			if err := h.Handle(ctx, event); err != nil {
				d.logger.Errorw("event handler failed",
					"event_type", event.GetEventType(),
					"aggregate_id", event.GetAggregateID(),
					"error", err,
				)
			}
		})
	}
}
