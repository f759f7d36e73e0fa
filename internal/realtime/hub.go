// Package realtime provides the change feed that notifies subscribers of row
// inserts.
package realtime

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/agentbounty/bountyboard/internal/domain"
)

// DefaultBufferSize is the per-subscription event buffer used when none is
// configured.
const DefaultBufferSize = 64

// Handler is invoked once per delivered change.
type Handler func(domain.Change)

// Subscription is a single registered callback on one table.
type Subscription struct {
	ID    string
	Table string

	events  chan domain.Change
	done    chan struct{}
	stopped chan struct{}
	hub     *Hub
	once    sync.Once
}

// Hub fans published changes out to subscriptions.
type Hub struct {
	// Subscriptions indexed by subscription ID
	subscriptions map[string]*Subscription

	// Tables maps table name to set of subscription IDs
	tables map[string]map[string]bool

	bufferSize int
	mu         sync.RWMutex
}

// NewHub creates a new Hub. A non-positive bufferSize selects
// DefaultBufferSize.
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		subscriptions: make(map[string]*Subscription),
		tables:        make(map[string]map[string]bool),
		bufferSize:    bufferSize,
	}
}

// Subscribe registers fn for changes on table. The callback runs on the
// subscription's own goroutine, one change at a time.
func (h *Hub) Subscribe(table string, fn Handler) *Subscription {
	sub := &Subscription{
		ID:      uuid.New().String(),
		Table:   table,
		events:  make(chan domain.Change, h.bufferSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		hub:     h,
	}

	h.mu.Lock()
	h.subscriptions[sub.ID] = sub
	if h.tables[table] == nil {
		h.tables[table] = make(map[string]bool)
	}
	h.tables[table][sub.ID] = true
	h.mu.Unlock()

	go sub.deliver(fn)

	log.Printf("Subscription registered: %s (table: %s)", sub.ID, table)
	return sub
}

// Publish delivers change to every subscription on change.Table. It never
// blocks; a subscription whose buffer is full misses the change.
func (h *Hub) Publish(change domain.Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for subID := range h.tables[change.Table] {
		sub, ok := h.subscriptions[subID]
		if !ok {
			continue
		}
		select {
		case sub.events <- change:
		default:
			log.Printf("WARN: subscription %s buffer full, coalescing change %s", subID, change.RecordID)
		}
	}
}

// SubscriptionCount returns the number of active subscriptions.
func (h *Hub) SubscriptionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions)
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscriptions[sub.ID]; !ok {
		return
	}
	delete(h.subscriptions, sub.ID)
	if ids := h.tables[sub.Table]; ids != nil {
		delete(ids, sub.ID)
		if len(ids) == 0 {
			delete(h.tables, sub.Table)
		}
	}
}

func (s *Subscription) deliver(fn Handler) {
	defer close(s.stopped)
	for {
		select {
		case <-s.done:
			return
		case change := <-s.events:
			select {
			case <-s.done:
				return
			default:
			}
			fn(change)
		}
	}
}

// Unsubscribe removes the subscription from the hub and stops delivery. A
// callback already dispatched when it is called may still run once; after
// Done is closed no callback runs. It is safe to call more than once and from
// inside the callback.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.done)
		log.Printf("Subscription unregistered: %s", s.ID)
	})
}

// Done is closed once the delivery goroutine has exited, after any running
// callback has returned.
func (s *Subscription) Done() <-chan struct{} {
	return s.stopped
}
