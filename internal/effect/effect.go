// Package effect carries the user-visible side effects of the checkout core:
// notices and navigations that a UI is expected to perform.
package effect

import (
	"context"
	"sync"
)

// Client routes the checkout core navigates to.
const (
	RouteCart   = "/cart"
	RouteOrders = "/myorders"
)

// Notifier shows transient notices to the shopper. The notice belongs to
// the request scope carried by ctx, if any.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Navigator moves the shopper between views.
type Navigator interface {
	// Navigate switches to an in-app route.
	Navigate(ctx context.Context, route string)

	// Redirect performs a full navigation to an external URL.
	Redirect(ctx context.Context, url string)
}

// Kind classifies a recorded effect.
type Kind string

const (
	KindSuccessNotice Kind = "notice_success"
	KindErrorNotice   Kind = "notice_error"
	KindNavigate      Kind = "navigate"
	KindRedirect      Kind = "redirect"
)

// Effect is one notice or navigation.
type Effect struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// Recorder implements Notifier and Navigator by queueing effects until a
// UI drains them. Effects recorded under a context from WithScope go to that
// scope's queue; all others go to the recorder's own queue.
type Recorder struct {
	mu      sync.Mutex
	effects []Effect
}

type scopeKey struct{}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// WithScope returns a context that collects its effects apart from every
// other request.
func WithScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeKey{}, NewRecorder())
}

func (r *Recorder) target(ctx context.Context) *Recorder {
	if scope, ok := ctx.Value(scopeKey{}).(*Recorder); ok {
		return scope
	}
	return r
}

func (r *Recorder) Success(ctx context.Context, message string) {
	r.target(ctx).record(KindSuccessNotice, message)
}

func (r *Recorder) Error(ctx context.Context, message string) {
	r.target(ctx).record(KindErrorNotice, message)
}

func (r *Recorder) Navigate(ctx context.Context, route string) {
	r.target(ctx).record(KindNavigate, route)
}

func (r *Recorder) Redirect(ctx context.Context, url string) {
	r.target(ctx).record(KindRedirect, url)
}

func (r *Recorder) record(kind Kind, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects = append(r.effects, Effect{Kind: kind, Value: value})
}

// Drain returns the effects queued for ctx in order and empties that queue.
func (r *Recorder) Drain(ctx context.Context) []Effect {
	q := r.target(ctx)
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.effects
	q.effects = nil
	if out == nil {
		return []Effect{}
	}
	return out
}

// Peek returns a copy of the recorder's own queue without draining it.
func (r *Recorder) Peek() []Effect {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Effect, len(r.effects))
	copy(out, r.effects)
	return out
}

// Count returns how many effects of the given kind are in the recorder's own
// queue.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.effects {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
