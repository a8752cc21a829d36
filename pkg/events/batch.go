package events

// Batch holds the events raised while one batch is scored so they can be
// published in a single write once scoring has succeeded. The zero value is
// ready to use.
type Batch struct {
	pending []DomainEvent
	counts  map[string]int
}

// Add queues events for publication.
func (b *Batch) Add(evts ...DomainEvent) {
	if b.counts == nil {
		b.counts = make(map[string]int)
	}
	for _, e := range evts {
		b.pending = append(b.pending, e)
		b.counts[e.EventType()]++
	}
}

// Count returns how many queued events have the given type.
func (b *Batch) Count(eventType string) int {
	return b.counts[eventType]
}

// Len returns the number of queued events.
func (b *Batch) Len() int {
	return len(b.pending)
}

// Drain returns the queued events in insertion order and empties the batch.
func (b *Batch) Drain() []DomainEvent {
	out := b.pending
	b.pending = nil
	b.counts = nil
	return out
}
