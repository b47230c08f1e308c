package auction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_DeliversInOrder(t *testing.T) {
	b := NewBroadcaster()
	_, events := b.Subscribe()

	b.Publish(EventBiddingLocked, BiddingLockedData{Locked: true})
	b.Publish(EventBiddingLocked, BiddingLockedData{Locked: false})

	evt := <-events
	assert.True(t, evt.Data.(BiddingLockedData).Locked)
	evt = <-events
	assert.False(t, evt.Data.(BiddingLockedData).Locked)
}

func TestBroadcaster_FansOut(t *testing.T) {
	b := NewBroadcaster()
	_, first := b.Subscribe()
	_, second := b.Subscribe()
	assert.Equal(t, 2, b.SubscriberCount())

	b.Publish(EventBiddingReset, BiddingResetData{PlayerID: 7})

	for _, ch := range []<-chan Event{first, second} {
		evt := <-ch
		assert.Equal(t, EventBiddingReset, evt.Name)
		assert.Equal(t, int64(7), evt.Data.(BiddingResetData).PlayerID)
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	id, events := b.Subscribe()

	b.Unsubscribe(id)
	_, open := <-events
	assert.False(t, open)
	assert.Equal(t, 0, b.SubscriberCount())

	// Double unsubscribe is harmless.
	b.Unsubscribe(id)
}

func TestBroadcaster_EvictsSlowSubscribers(t *testing.T) {
	b := NewBroadcaster()
	_, slow := b.Subscribe()

	// Fill the buffer and push one more; the subscriber gets dropped rather
	// than blocking the publisher.
	for i := 0; i <= subscriberBuffer; i++ {
		b.Publish(EventBiddingLocked, BiddingLockedData{Locked: true})
	}

	assert.Equal(t, 0, b.SubscriberCount())

	// The buffered events are still readable, then the channel closes.
	n := 0
	for range slow {
		n++
	}
	require.Equal(t, subscriberBuffer, n)
}
