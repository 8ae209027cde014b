package sse

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
)

// Event is one server-sent event addressed to an employee.
type Event struct {
	EmployeeID string
	Name       string
	Data       interface{}
}

// Hub fans events out to every open stream of an employee.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	bufferSize  int
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		bufferSize:  16,
	}
}

// Subscribe registers a stream for an employee. Call cancel when the stream ends.
func (h *Hub) Subscribe(employeeID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.bufferSize)
	if h.subscribers[employeeID] == nil {
		h.subscribers[employeeID] = make(map[chan Event]struct{})
	}
	h.subscribers[employeeID][ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[employeeID], ch)
			close(ch)
			if len(h.subscribers[employeeID]) == 0 {
				delete(h.subscribers, employeeID)
			}
		})
	}

	return ch, cancel
}

// Publish never blocks: a full stream buffer drops the event for that stream.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[event.EmployeeID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Notify implements notification.Sink.
func (h *Hub) Notify(_ context.Context, employeeIDs []string, event notification.Event) {
	for _, id := range employeeIDs {
		h.Publish(Event{EmployeeID: id, Name: string(event.Type), Data: event.Data})
	}
}

func (h *Hub) SubscriberCount(employeeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[employeeID])
}
