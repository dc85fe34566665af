package checkout

import (
	"context"
	"sync"

	"storefront-checkout/internal/auth"
	"storefront-checkout/internal/effect"
	"storefront-checkout/internal/metrics"
	"storefront-checkout/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Decision is the outcome of a guard evaluation.
type Decision int

const (
	Proceed Decision = iota
	RedirectUnauthenticated
	RedirectEmptyCart
)

func (d Decision) String() string {
	switch d {
	case RedirectUnauthenticated:
		return metrics.ReasonUnauthenticated
	case RedirectEmptyCart:
		return metrics.ReasonEmptyCart
	}
	return "proceed"
}

// Err returns the domain error of a blocking decision, or nil.
func (d Decision) Err() error {
	switch d {
	case RedirectUnauthenticated:
		return model.ErrAuthRequired
	case RedirectEmptyCart:
		return model.ErrEmptyCart
	}
	return nil
}

// Evaluate decides whether checkout may proceed. The subtotal excludes the
// delivery charge.
func Evaluate(hasToken bool, subtotal decimal.Decimal) Decision {
	if !hasToken {
		return RedirectUnauthenticated
	}
	if !subtotal.IsPositive() {
		return RedirectEmptyCart
	}
	return Proceed
}

// AuthSource is the part of the auth store the guard watches.
type AuthSource interface {
	Token() string
	Subscribe(fn func(context.Context, auth.Transition, auth.State)) func()
}

// CartSource is the part of the cart store the guard watches.
type CartSource interface {
	Subtotal() decimal.Decimal
	Subscribe(fn func(ctx context.Context, quantities map[string]int)) func()
}

// guardKey is the input pair a decision depends on.
type guardKey struct {
	hasToken bool
	subtotal string
}

// Guard applies the checkout precondition while the shopper is on the
// checkout view. Check enters the view; a redirect or a settled order leaves
// it. While held, change events are deferred so that an order in flight does
// not trigger navigation.
type Guard struct {
	auth      AuthSource
	cart      CartSource
	notifier  effect.Notifier
	navigator effect.Navigator
	metrics   *metrics.Registry
	logger    zerolog.Logger

	mu      sync.Mutex
	last    *guardKey // nil when the shopper is not on the checkout view
	held    bool
	pending bool
}

// NewGuard creates a guard over the two stores.
func NewGuard(a AuthSource, c CartSource, notifier effect.Notifier, navigator effect.Navigator, reg *metrics.Registry, logger zerolog.Logger) *Guard {
	return &Guard{
		auth:      a,
		cart:      c,
		notifier:  notifier,
		navigator: navigator,
		metrics:   reg,
		logger:    logger.With().Str("component", "checkout-guard").Logger(),
	}
}

func (g *Guard) current() (guardKey, Decision) {
	hasToken := g.auth.Token() != ""
	subtotal := g.cart.Subtotal()
	return guardKey{hasToken: hasToken, subtotal: subtotal.String()}, Evaluate(hasToken, subtotal)
}

// settle records the outcome of an evaluation. Must hold g.mu.
func (g *Guard) settle(key guardKey, d Decision) {
	if d == Proceed {
		g.last = &key
		return
	}
	g.last = nil
}

// Check enters the checkout view: it evaluates the current stores and applies
// the decision's effects.
func (g *Guard) Check(ctx context.Context) Decision {
	key, d := g.current()

	g.mu.Lock()
	g.settle(key, d)
	g.mu.Unlock()

	g.apply(ctx, d)
	return d
}

// Active reports whether the shopper is on the checkout view.
func (g *Guard) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last != nil
}

// Watch subscribes to both stores. While the checkout view is active, each
// change of the (token present, subtotal) pair is evaluated once, and its
// effects go to the context of the change. The
// returned function unsubscribes.
func (g *Guard) Watch() func() {
	unsubAuth := g.auth.Subscribe(func(ctx context.Context, _ auth.Transition, _ auth.State) { g.changed(ctx) })
	unsubCart := g.cart.Subscribe(func(ctx context.Context, _ map[string]int) { g.changed(ctx) })
	return func() {
		unsubAuth()
		unsubCart()
	}
}

func (g *Guard) changed(ctx context.Context) {
	key, d := g.current()

	g.mu.Lock()
	if g.last == nil || *g.last == key {
		g.mu.Unlock()
		return
	}
	if g.held {
		g.pending = true
		g.mu.Unlock()
		return
	}
	g.settle(key, d)
	g.mu.Unlock()

	g.apply(ctx, d)
}

// Hold defers change evaluation until Release.
func (g *Guard) Hold() {
	g.mu.Lock()
	g.held = true
	g.pending = false
	g.mu.Unlock()
}

// Release resumes change evaluation. With reevaluate set, a change deferred
// while held is evaluated once against the latest inputs. Without it the
// attempt settled and the shopper has left the checkout view.
func (g *Guard) Release(ctx context.Context, reevaluate bool) {
	key, d := g.current()

	g.mu.Lock()
	pending := g.pending
	active := g.last != nil
	fire := reevaluate && active && pending && *g.last != key
	g.held = false
	g.pending = false
	switch {
	case !reevaluate || !active:
		g.last = nil
	case fire:
		g.settle(key, d)
	default:
		g.last = &key
	}
	g.mu.Unlock()

	if fire {
		g.apply(ctx, d)
	}
}

func (g *Guard) apply(ctx context.Context, d Decision) {
	switch d {
	case RedirectUnauthenticated:
		g.logger.Info().Msg("checkout blocked: not signed in")
		g.metrics.GuardRedirect(d.String())
		g.notifier.Error(ctx, model.ErrAuthRequired.Message)
		g.navigator.Navigate(ctx, effect.RouteCart)
	case RedirectEmptyCart:
		g.logger.Info().Msg("checkout blocked: cart is empty")
		g.metrics.GuardRedirect(d.String())
		g.navigator.Navigate(ctx, effect.RouteCart)
	}
}
