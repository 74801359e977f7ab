// Package events carries the advisory change broadcast fired after
// every successful mutation so other open views can refresh. It is not
// a synchronization primitive; delivery is best-effort.
package events

import "sync"

// Broadcaster announces that a collection changed. No payload beyond
// the collection name; readers reload whatever they need.
type Broadcaster interface {
	Changed(collection string)
}

// LocalBroadcaster fans changes out to in-process subscribers.
type LocalBroadcaster struct {
	mu   sync.Mutex
	subs []chan string
}

func NewLocalBroadcaster() *LocalBroadcaster {
	return &LocalBroadcaster{}
}

// Subscribe returns a channel receiving changed-collection names.
// Slow subscribers drop events rather than block mutations.
func (b *LocalBroadcaster) Subscribe() <-chan string {
	ch := make(chan string, 16)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

func (b *LocalBroadcaster) Changed(collection string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- collection:
		default:
		}
	}
}
