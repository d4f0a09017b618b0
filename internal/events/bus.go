// Package events is an in-process publish/subscribe bus for memory
// mutations that should refresh a timeline.
package events

import (
	"slices"
	"sync"
)

// Topic identifies the kind of mutation.
type Topic string

const (
	// MemoryAdded is published after a photo, journal entry, first or
	// growth log is saved.
	MemoryAdded Topic = "memory_added"
	// MilestoneUpdated is published after a milestone entry changes.
	MilestoneUpdated Topic = "milestone_updated"
	// TimelineRefreshNeeded asks subscribers to reload from the first page.
	TimelineRefreshNeeded Topic = "timeline_refresh_needed"
)

// Event is one published mutation.
type Event struct {
	Topic     Topic
	SubjectID string
}

// Handler receives events. Handlers run on the publisher's goroutine and
// must not block.
type Handler func(Event)

// Bus fans events out to subscribers. The zero value is ready to use.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscription
}

type subscription struct {
	topics  map[Topic]bool
	handler Handler
}

// Subscribe registers h for the given topics, or every topic when none are
// given. The returned func unsubscribes and is safe to call more than once.
func (b *Bus) Subscribe(h Handler, topics ...Topic) (unsubscribe func()) {
	sub := subscription{handler: h}
	if len(topics) > 0 {
		sub.topics = make(map[Topic]bool, len(topics))
		for _, t := range topics {
			sub.topics[t] = true
		}
	}

	b.mu.Lock()
	if b.subs == nil {
		b.subs = make(map[int]subscription)
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers e to every matching subscriber in subscription order.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.subs))
	for id, sub := range b.subs {
		if sub.topics == nil || sub.topics[e.Topic] {
			ids = append(ids, id)
		}
	}
	handlers := make([]Handler, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		handlers = append(handlers, b.subs[id].handler)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
