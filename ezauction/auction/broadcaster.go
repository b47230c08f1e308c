package auction

import (
	"log/slog"
	"sync"
)

// subscriberBuffer bounds how far behind a subscriber may fall before it is
// dropped. Events are small, so a generous buffer is cheap.
const subscriberBuffer = 64

// Broadcaster fans auction events out to subscribers. Publish never blocks:
// a subscriber whose buffer is full is evicted and its channel closed, since
// a stalled websocket must not hold up the bid path.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]chan Event
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[int64]chan Event),
	}
}

// Subscribe registers a new subscriber and returns its id and receive
// channel. The channel is closed on Unsubscribe or eviction.
func (b *Broadcaster) Subscribe() (int64, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown ids are
// ignored, so it is safe to call after an eviction.
func (b *Broadcaster) Unsubscribe(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers an event to every live subscriber. Events published while
// holding the auction lock reach each subscriber in the same order.
func (b *Broadcaster) Publish(name EventName, data any) {
	evt := Event{Name: name, Data: data}

	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			delete(b.subs, id)
			close(ch)
			slog.Warn("Evicted slow event subscriber",
				slog.Int64("subscriber_id", id),
				slog.String("event", string(name)),
			)
		}
	}
}

// SubscriberCount reports how many subscribers are currently attached.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
