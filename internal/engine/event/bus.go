// Package event provides the synchronous publish/subscribe bus that
// decouples engine components.
//
// Delivery is immediate and single-threaded: Publish calls every handler
// subscribed to the event's kind before returning, in subscription order.
// Nothing is queued across ticks.
package event

// Kind identifies a category of event ("input.key_down", "audio.play_sound").
type Kind string

// Event is a tagged notification passed through the Bus. Payload is
// kind-specific and may be nil.
type Event struct {
	Kind    Kind
	Payload any
}

// SubscriptionID identifies a single subscription. IDs are strictly
// increasing and never reused; the zero value is invalid.
type SubscriptionID uint64

type handler struct {
	id SubscriptionID
	fn func(Event)
}

// Bus routes events to subscribed handlers.
//
// Not safe for concurrent use; all subscribing and publishing happens on
// the game loop goroutine.
type Bus struct {
	nextID SubscriptionID
	kinds  map[Kind][]handler
	owners map[SubscriptionID]Kind
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		kinds:  make(map[Kind][]handler),
		owners: make(map[SubscriptionID]Kind),
	}
}

// Subscribe registers fn for events of the given kind and returns its
// subscription id. Handlers for one kind run in subscription order.
func (b *Bus) Subscribe(kind Kind, fn func(Event)) SubscriptionID {
	b.nextID++
	id := b.nextID

	// Copy on write so an in-flight Publish keeps iterating its own
	// snapshot untouched.
	old := b.kinds[kind]
	hs := make([]handler, len(old)+1)
	copy(hs, old)
	hs[len(old)] = handler{id: id, fn: fn}
	b.kinds[kind] = hs
	b.owners[id] = kind
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored. A handler
// removed during delivery still receives the in-flight event.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	kind, ok := b.owners[id]
	if !ok {
		return
	}
	delete(b.owners, id)

	old := b.kinds[kind]
	if len(old) == 1 {
		delete(b.kinds, kind)
		return
	}
	hs := make([]handler, 0, len(old)-1)
	for _, h := range old {
		if h.id != id {
			hs = append(hs, h)
		}
	}
	b.kinds[kind] = hs
}

// Publish delivers ev synchronously to every handler subscribed to
// ev.Kind at the moment of the call. Handlers added or removed during
// delivery only affect later publishes.
func (b *Bus) Publish(ev Event) {
	for _, h := range b.kinds[ev.Kind] {
		h.fn(ev)
	}
}

// Subscribers reports how many handlers are currently subscribed to kind.
func (b *Bus) Subscribers(kind Kind) int {
	return len(b.kinds[kind])
}
