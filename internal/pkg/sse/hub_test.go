package sse

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_NotifyReachesOnlyAddressedEmployees(t *testing.T) {
	h := NewHub()
	alice, cancelAlice := h.Subscribe("alice")
	defer cancelAlice()
	bob, cancelBob := h.Subscribe("bob")
	defer cancelBob()

	h.Notify(context.Background(), []string{"alice"}, notification.Event{Type: notification.EventClockedIn, Data: "09:00"})

	select {
	case e := <-alice:
		assert.Equal(t, "attendance.clocked_in", e.Name)
		assert.Equal(t, "09:00", e.Data)
	default:
		t.Fatal("alice did not receive the event")
	}
	assert.Empty(t, bob)
}

func TestHub_CancelIsIdempotent(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("alice")
	require.Equal(t, 1, h.SubscriberCount("alice"))

	cancel()
	cancel()
	assert.Equal(t, 0, h.SubscriberCount("alice"))

	_, open := <-ch
	assert.False(t, open)

	// Publishing after everyone left must not panic.
	h.Publish(Event{EmployeeID: "alice", Name: "x"})
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("alice")
	defer cancel()

	for i := 0; i < h.bufferSize+5; i++ {
		h.Publish(Event{EmployeeID: "alice", Name: "tick"})
	}
	assert.Len(t, ch, h.bufferSize)
}
