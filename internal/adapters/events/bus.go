// Package events is the in-process event bus. Services publish to it; the
// API wires subscribers (the Redis forwarder, tests) at startup.
package events

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"royal_palate/internal/domain"
)

type Handler func(ctx context.Context, e domain.Event) error

type subscription struct {
	id int
	h  Handler
}

type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

func NewBus() *Bus { return &Bus{} }

// Subscribe registers h and returns a func that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, h: h})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every handler synchronously in subscription order. All
// handlers run even if some fail; their errors are joined.
func (b *Bus) Publish(ctx context.Context, e domain.Event) error {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := s.h(ctx, e); err != nil {
			log.Warn().Err(err).Str("event_id", e.ID).Str("type", string(e.Type)).Msg("event handler failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder is a Handler that keeps every event it sees.
type Recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *Recorder) Handle(ctx context.Context, e domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out
}
