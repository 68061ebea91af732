package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	b := NewBus()
	var got []string

	b.Subscribe("test", func(Event) { got = append(got, "first") })
	b.Subscribe("test", func(Event) { got = append(got, "second") })
	b.Subscribe("test", func(Event) { got = append(got, "third") })

	b.Publish(Event{Kind: "test"})

	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestBusDeliversPayload(t *testing.T) {
	b := NewBus()
	var got any

	b.Subscribe("test", func(ev Event) { got = ev.Payload })
	b.Publish(Event{Kind: "test", Payload: 42})

	assert.Equal(t, 42, got)
}

func TestBusKindsAreIndependent(t *testing.T) {
	b := NewBus()
	calls := map[Kind]int{}

	b.Subscribe("a", func(ev Event) { calls[ev.Kind]++ })
	b.Subscribe("b", func(ev Event) { calls[ev.Kind]++ })

	b.Publish(Event{Kind: "a"})
	b.Publish(Event{Kind: "a"})

	assert.Equal(t, 2, calls["a"])
	assert.Equal(t, 0, calls["b"])
}

func TestBusSubscriberAddedDuringPublishNotCalled(t *testing.T) {
	b := NewBus()
	lateCalls := 0

	b.Subscribe("test", func(Event) {
		b.Subscribe("test", func(Event) { lateCalls++ })
	})

	b.Publish(Event{Kind: "test"})
	assert.Equal(t, 0, lateCalls, "handler subscribed mid-publish must not see the in-flight event")

	b.Publish(Event{Kind: "test"})
	assert.Equal(t, 1, lateCalls, "later publishes reach the new handler")
}

func TestBusUnsubscribedDuringPublishStillReceives(t *testing.T) {
	b := NewBus()
	var secondID SubscriptionID
	secondCalls := 0

	b.Subscribe("test", func(Event) { b.Unsubscribe(secondID) })
	secondID = b.Subscribe("test", func(Event) { secondCalls++ })

	b.Publish(Event{Kind: "test"})
	assert.Equal(t, 1, secondCalls, "removal mid-publish must not affect the in-flight delivery")

	b.Publish(Event{Kind: "test"})
	assert.Equal(t, 1, secondCalls)
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus()
	calls := 0

	id := b.Subscribe("test", func(Event) { calls++ })
	b.Publish(Event{Kind: "test"})
	b.Unsubscribe(id)
	b.Publish(Event{Kind: "test"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.Subscribers("test"))
}

func TestBusUnsubscribeUnknownIgnored(t *testing.T) {
	b := NewBus()
	b.Subscribe("test", func(Event) {})

	b.Unsubscribe(999)
	b.Unsubscribe(0)

	assert.Equal(t, 1, b.Subscribers("test"))
}

func TestBusSubscriptionIDsNeverReused(t *testing.T) {
	b := NewBus()

	first := b.Subscribe("test", func(Event) {})
	b.Unsubscribe(first)
	second := b.Subscribe("test", func(Event) {})

	require.NotEqual(t, first, second)
	assert.Greater(t, second, first)
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	b := NewBus()

	assert.NotPanics(t, func() {
		b.Publish(Event{Kind: "nobody-listens"})
	})
}
