// Package eventbus provides a synchronous, keyed publish/subscribe primitive
// used to decouple filter controls from the tables that render their results.
package eventbus

import (
	"fmt"
	"log/slog"
	"sync"
)

// Event pairs a symbolic command key with its payload.
type Event[K comparable, V any] struct {
	Key   K
	Value V
}

// Handler receives events. A returned error is logged and counted but never
// stops delivery to the remaining subscribers.
type Handler[K comparable, V any] func(Event[K, V]) error

// Observer is notified about bus activity, typically to feed metrics.
type Observer interface {
	EventPublished(bus, key string, subscribers int)
	SubscriberFailed(bus, key string)
}

// Option configures a Bus.
type Option func(*options)

type options struct {
	name     string
	logger   *slog.Logger
	observer Observer
}

// WithName labels the bus in logs and metrics.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger used to report subscriber failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithObserver attaches an Observer.
func WithObserver(observer Observer) Option {
	return func(o *options) { o.observer = observer }
}

// Bus delivers events to every attached subscriber, in subscription order,
// before Publish returns. Subscribers only see events published after they
// attach.
type Bus[K comparable, V any] struct {
	mu     sync.Mutex
	subs   []*Subscription[K, V]
	nextID uint64
	opts   options
}

// Subscription is the handle returned by Subscribe.
type Subscription[K comparable, V any] struct {
	id      uint64
	bus     *Bus[K, V]
	handler Handler[K, V]
	once    sync.Once
}

// New constructs an empty Bus.
func New[K comparable, V any](opts ...Option) *Bus[K, V] {
	o := options{name: "default"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Bus[K, V]{opts: o}
}

// Subscribe attaches handler and returns its Subscription.
func (b *Bus[K, V]) Subscribe(handler Handler[K, V]) *Subscription[K, V] {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &Subscription[K, V]{id: b.nextID, bus: b, handler: handler}
	b.subs = append(b.subs, sub)
	return sub
}

// Unsubscribe detaches the subscription. Calling it more than once is a no-op.
func (s *Subscription[K, V]) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	s.once.Do(func() {
		s.bus.remove(s.id)
	})
}

func (b *Bus[K, V]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len reports the number of attached subscribers.
func (b *Bus[K, V]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish delivers the event synchronously to the subscribers attached at the
// time of the call.
func (b *Bus[K, V]) Publish(key K, value V) {
	b.mu.Lock()
	subs := make([]*Subscription[K, V], len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	label := fmt.Sprint(key)
	if b.opts.observer != nil {
		b.opts.observer.EventPublished(b.opts.name, label, len(subs))
	}
	evt := Event[K, V]{Key: key, Value: value}
	for _, sub := range subs {
		if err := b.deliver(sub, evt); err != nil {
			b.reportFailure(label, sub.id, err)
		}
	}
}

func (b *Bus[K, V]) deliver(sub *Subscription[K, V], evt Event[K, V]) (err error) {
	if sub.handler == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("eventbus: subscriber panic: %v", r)
		}
	}()
	return sub.handler(evt)
}

func (b *Bus[K, V]) reportFailure(key string, id uint64, err error) {
	if b.opts.observer != nil {
		b.opts.observer.SubscriberFailed(b.opts.name, key)
	}
	if b.opts.logger != nil {
		b.opts.logger.Warn("eventbus subscriber failed",
			slog.String("bus", b.opts.name),
			slog.String("key", key),
			slog.Uint64("subscriber", id),
			slog.Any("error", err))
	}
}
