package emitter

import (
	"context"
	"sync"

	"github.com/middleclick/middleclick/gesture"
	"github.com/middleclick/middleclick/utils"
)

// subscriberBuffer is how many clicks a slow subscriber may lag behind before
// clicks are dropped for it
const subscriberBuffer = 16

// Broadcaster fans clicks out to any number of subscribers. A subscriber that
// does not keep up loses clicks; Emit never blocks.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan gesture.Click
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[int]chan gesture.Click),
	}
}

// Subscribe returns a channel of clicks and a function that unsubscribes and
// closes the channel.
func (b *Broadcaster) Subscribe() (<-chan gesture.Click, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan gesture.Click, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

// Subscribers returns the current number of subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broadcaster) Emit(_ context.Context, click gesture.Click) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- click:
		default:
			utils.Verbose("dropping click for slow subscriber %d", id)
		}
	}
	return nil
}
