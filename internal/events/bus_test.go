package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusPublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus[int]()

	var a, b []int
	bus.Subscribe(func(v int) { a = append(a, v) })
	bus.Subscribe(func(v int) { b = append(b, v) })

	bus.Publish(1)
	bus.Publish(2)

	assert.Equal(t, []int{1, 2}, a)
	assert.Equal(t, []int{1, 2}, b)
}

func TestBusUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus[string]()

	var got []string
	unsub := bus.Subscribe(func(v string) { got = append(got, v) })
	keep := bus.Subscribe(func(string) {})

	bus.Publish("first")
	unsub()
	unsub() // second call is a no-op
	bus.Publish("second")

	assert.Equal(t, []string{"first"}, got)
	assert.Equal(t, 1, bus.SubscriberCount())
	keep()
	assert.Equal(t, 0, bus.SubscriberCount())
}

func TestBusPublishWithNoSubscribers(t *testing.T) {
	bus := NewBus[Kill]()
	bus.Publish(Kill{KillerID: 1, VictimID: 2}) // must not panic
	assert.Equal(t, 0, bus.SubscriberCount())
}

func TestHubCreatesAllCategories(t *testing.T) {
	hub := NewHub()
	assert.NotNil(t, hub.State)
	assert.NotNil(t, hub.Damage)
	assert.NotNil(t, hub.Kill)
	assert.NotNil(t, hub.Score)
	assert.NotNil(t, hub.Projectile)
	assert.NotNil(t, hub.Respawn)
}
