package log

import (
	"bytes"
	"sync"
)

const defaultBufferSize = 16

// Publisher is an [io.Writer] that fans log entries out to subscribers.
//
// Each Write is one entry; its trailing newline is trimmed. Subscribers
// receive entries over a buffered channel. When a channel is full the oldest
// entry is dropped, so Write never blocks on a slow reader. Safe for
// concurrent use.
//
// Create instances with [NewPublisher].
type Publisher struct {
	subs    map[*Subscription]struct{}
	bufSize int
	mu      sync.Mutex
	closed  bool
}

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithBufferSize sets the channel buffer size for new subscriptions.
// Values less than 1 are clamped to 1.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		p.bufSize = max(n, 1)
	}
}

// NewPublisher creates a [Publisher].
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		subs:    make(map[*Subscription]struct{}),
		bufSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Write delivers a copy of b to every subscriber. It always returns
// len(b), nil.
func (p *Publisher) Write(b []byte) (int, error) {
	entry := string(bytes.TrimRight(b, "\n"))

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return len(b), nil
	}

	for sub := range p.subs {
		select {
		case sub.ch <- entry:
			continue
		default:
		}

		// Full: drop the oldest. Only Write sends, so the send below has room.
		select {
		case <-sub.ch:
		default:
		}

		sub.ch <- entry
	}

	return len(b), nil
}

// Subscribe registers a new [Subscription]. On a closed Publisher the
// subscription's channel is already closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{pub: p, ch: make(chan string, p.bufSize)}

	if p.closed {
		close(sub.ch)

		return sub
	}

	p.subs[sub] = struct{}{}

	return sub
}

// Close closes every subscription channel. Later writes are discarded.
// Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true

	for sub := range p.subs {
		close(sub.ch)
	}

	clear(p.subs)

	return nil
}

func (p *Publisher) unsubscribe(sub *Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.subs[sub]; !ok {
		return
	}

	delete(p.subs, sub)
	close(sub.ch)
}

// Subscription receives entries from a [Publisher].
type Subscription struct {
	pub *Publisher
	ch  chan string
}

// C returns the channel that delivers entries. It is closed when the
// subscription or its Publisher is closed.
func (s *Subscription) C() <-chan string {
	return s.ch
}

// Close detaches the subscription and closes its channel. Idempotent.
func (s *Subscription) Close() {
	s.pub.unsubscribe(s)
}
