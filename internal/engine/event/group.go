package event

// Group collects subscriptions that share a lifetime, typically the
// active lifetime of a scene, so they can be released together.
type Group struct {
	bus *Bus
	ids []SubscriptionID
}

// Group creates an empty subscription group bound to the bus.
func (b *Bus) Group() *Group {
	return &Group{bus: b}
}

// Subscribe registers fn on the underlying bus and tracks the
// subscription for Close.
func (g *Group) Subscribe(kind Kind, fn func(Event)) SubscriptionID {
	id := g.bus.Subscribe(kind, fn)
	g.ids = append(g.ids, id)
	return id
}

// Close unsubscribes everything in the group. The group stays usable
// afterwards and Close is idempotent.
func (g *Group) Close() {
	for _, id := range g.ids {
		g.bus.Unsubscribe(id)
	}
	g.ids = g.ids[:0]
}

// Len reports the number of live subscriptions in the group.
func (g *Group) Len() int { return len(g.ids) }
