package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishOrderAndFilter(t *testing.T) {
	hub := NewHub[int]()
	var got []string

	hub.Subscribe(nil, func(e int) { got = append(got, "all") })
	hub.Subscribe(func(e int) bool { return e%2 == 0 }, func(e int) { got = append(got, "even") })

	hub.Publish(1)
	hub.Publish(2)

	assert.Equal(t, []string{"all", "all", "even"}, got)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub[string]()
	calls := 0

	unsub := hub.Subscribe(nil, func(string) { calls++ })
	assert.Equal(t, 1, hub.Len())

	hub.Publish("a")
	unsub()
	unsub()
	hub.Publish("b")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, hub.Len())
}

func TestHub_UnsubscribeDuringPublish(t *testing.T) {
	hub := NewHub[string]()
	calls := 0

	var unsub Unsubscribe
	unsub = hub.Subscribe(nil, func(string) {
		calls++
		unsub()
	})

	hub.Publish("a")
	hub.Publish("b")

	assert.Equal(t, 1, calls)
}

func TestForUser(t *testing.T) {
	f := ForUser("u1")

	assert.True(t, f(Change{UserID: "u1", Op: OpInsert}))
	assert.False(t, f(Change{UserID: "u2", Op: OpInsert}))
	assert.True(t, f(Change{Op: OpResync}))
}
