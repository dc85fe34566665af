package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront-checkout/internal/cart"
	"storefront-checkout/internal/checkout"
	"storefront-checkout/internal/effect"
	"storefront-checkout/internal/metrics"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/tokenstore"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// NoticeOrderFailed is shown for every failed order placement.
const NoticeOrderFailed = "Something Went Wrong"

// SubmissionState is the state of the current order attempt.
type SubmissionState string

const (
	StateIdle            SubmissionState = "idle"
	StateSubmitting      SubmissionState = "submitting"
	StateSettledCOD      SubmissionState = "settled_cod"
	StateSettledRedirect SubmissionState = "settled_redirect"
	StateFailed          SubmissionState = "failed"
)

// OrderPlacer sends an order request to the remote order service.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, method model.PaymentMethod, token string, req model.OrderRequest) (*model.OrderResponse, error)
}

// TokenSource supplies the auth token.
type TokenSource interface {
	Token() string
}

// Gate is the checkout guard as used by the orchestrator.
type Gate interface {
	Check(ctx context.Context) checkout.Decision
	Hold()
	Release(ctx context.Context, reevaluate bool)
}

// Outcome describes one finished order attempt.
type Outcome struct {
	AttemptID   uuid.UUID           `json:"attemptId"`
	State       SubmissionState     `json:"state"`
	Method      model.PaymentMethod `json:"paymentMethod"`
	Amount      float64             `json:"amount"`
	Message     string              `json:"message,omitempty"`
	RedirectURL string              `json:"redirectUrl,omitempty"`
}

// PaymentOption is one selectable payment method.
type PaymentOption struct {
	Method model.PaymentMethod `json:"method"`
	Label  string              `json:"label"`
}

// CheckoutView is the state behind the checkout page.
type CheckoutView struct {
	Address        model.AddressInfo   `json:"address"`
	PaymentMethod  model.PaymentMethod `json:"paymentMethod"`
	PaymentLabel   string              `json:"paymentLabel"`
	PaymentOptions []PaymentOption     `json:"paymentOptions"`
	SubmitLabel    string              `json:"submitLabel"`
	State          SubmissionState     `json:"state"`
	Cart           *CartSummary        `json:"cart"`
	LastOutcome    *Outcome            `json:"lastOutcome,omitempty"`
}

// orderService implements OrderService.
type orderService struct {
	placer         OrderPlacer
	tokens         TokenSource
	cart           *cart.Store
	form           *checkout.AddressForm
	guard          Gate
	notifier       effect.Notifier
	navigator      effect.Navigator
	deliveryCharge decimal.Decimal
	currency       string
	metrics        *metrics.Registry
	logger         zerolog.Logger

	mu     sync.Mutex
	method model.PaymentMethod
	state  SubmissionState
	last   *Outcome
}

// OrderServiceDeps groups the collaborators of the order service.
type OrderServiceDeps struct {
	Placer         OrderPlacer
	Tokens         TokenSource
	Cart           *cart.Store
	Form           *checkout.AddressForm
	Guard          Gate
	Notifier       effect.Notifier
	Navigator      effect.Navigator
	DeliveryCharge decimal.Decimal
	Currency       string
	Metrics        *metrics.Registry
}

// NewOrderService creates a new order service. The payment method starts
// as cash on delivery.
func NewOrderService(deps OrderServiceDeps, logger zerolog.Logger) OrderService {
	return &orderService{
		placer:         deps.Placer,
		tokens:         deps.Tokens,
		cart:           deps.Cart,
		form:           deps.Form,
		guard:          deps.Guard,
		notifier:       deps.Notifier,
		navigator:      deps.Navigator,
		deliveryCharge: deps.DeliveryCharge,
		currency:       deps.Currency,
		metrics:        deps.Metrics,
		logger:         logger.With().Str("service", "order").Logger(),
		method:         model.PaymentCashOnDelivery,
		state:          StateIdle,
	}
}

func (s *orderService) SetAddressFields(ctx context.Context, fields map[string]string) error {
	return s.form.SetAll(fields)
}

func (s *orderService) SetPaymentMethod(ctx context.Context, method model.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.method = method
}

func (s *orderService) View(ctx context.Context) *CheckoutView {
	s.mu.Lock()
	method, state, last := s.method, s.state, s.last
	s.mu.Unlock()

	options := make([]PaymentOption, len(model.PaymentMethods))
	for i, m := range model.PaymentMethods {
		options[i] = PaymentOption{Method: m, Label: m.Label()}
	}

	return &CheckoutView{
		Address:        s.form.Fields(),
		PaymentMethod:  method,
		PaymentLabel:   method.Label(),
		PaymentOptions: options,
		SubmitLabel:    method.SubmitLabel(),
		State:          state,
		Cart:           summarise(s.cart, s.deliveryCharge, s.currency),
		LastOutcome:    last,
	}
}

// Submit runs one order attempt.
func (s *orderService) Submit(ctx context.Context, phone string) (*Outcome, error) {
	if s.inFlight() {
		return nil, s.rejectInFlight()
	}

	if d := s.guard.Check(ctx); d != checkout.Proceed {
		return nil, d.Err()
	}

	address, err := s.form.Assemble(phone)
	if err != nil {
		s.metrics.ValidationBlocked()
		s.logger.Warn().Err(err).Msg("order blocked by address validation")
		return nil, err
	}

	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, s.rejectInFlight()
	}
	s.state = StateSubmitting
	method := s.method
	s.mu.Unlock()

	s.guard.Hold()

	outcome := s.place(ctx, method, address)

	s.mu.Lock()
	s.state = outcome.State
	s.last = outcome
	s.mu.Unlock()

	// Settled attempts have left the checkout view.
	s.guard.Release(ctx, outcome.State == StateFailed)

	return outcome, nil
}

func (s *orderService) place(ctx context.Context, method model.PaymentMethod, address model.AddressInfo) *Outcome {
	attemptID := uuid.New()
	token := s.tokens.Token()
	items, amount := s.cart.Order(s.deliveryCharge)

	req := model.OrderRequest{
		Address: address,
		Items:   items,
		Amount:  amount.InexactFloat64(),
	}

	logger := s.logger.With().
		Str("attempt_id", attemptID.String()).
		Str("payment_method", method.String()).
		Str("endpoint", method.Endpoint()).
		Logger()

	logger.Info().
		Int("item_count", len(req.Items)).
		Str("amount", amount.String()).
		Str("token", tokenstore.Mask(token)).
		Msg("placing order")

	outcome := &Outcome{
		AttemptID: attemptID,
		Method:    method,
		Amount:    req.Amount,
	}

	start := time.Now()
	resp, err := s.placer.PlaceOrder(ctx, method, token, req)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		s.fail(ctx, logger, outcome, metrics.OutcomeTransportFailure, err, elapsed)

	case !resp.Success:
		s.fail(ctx, logger, outcome, metrics.OutcomeBusinessFailure, model.NewBusinessFailure(resp.Message), elapsed)

	case method == model.PaymentExternalGateway && resp.SessionURL == "":
		s.fail(ctx, logger, outcome, metrics.OutcomeTransportFailure,
			model.NewTransportFailure("payment gateway reply carried no session_url", nil), elapsed)

	case method == model.PaymentExternalGateway:
		outcome.State = StateSettledRedirect
		outcome.RedirectURL = resp.SessionURL
		outcome.Message = resp.Message
		s.navigator.Redirect(ctx, resp.SessionURL)
		s.metrics.ObserveSubmission(method.String(), metrics.OutcomeSettledRedirect, elapsed)
		logger.Info().Dur("elapsed", elapsed).Msg("order accepted, redirecting to payment gateway")

	default:
		outcome.State = StateSettledCOD
		outcome.Message = resp.Message
		s.cart.Clear(ctx)
		s.form.Reset()
		s.navigator.Navigate(ctx, effect.RouteOrders)
		s.notifier.Success(ctx, resp.Message)
		s.metrics.ObserveSubmission(method.String(), metrics.OutcomeSettledCOD, elapsed)
		logger.Info().Dur("elapsed", elapsed).Msg("cash on delivery order placed")
	}

	return outcome
}

// fail settles an attempt as failed. Business and transport failures share
// the user notice and differ only in logs and metrics.
func (s *orderService) fail(ctx context.Context, logger zerolog.Logger, outcome *Outcome, kind string, err error, elapsed time.Duration) {
	outcome.State = StateFailed
	outcome.Message = NoticeOrderFailed

	event := logger.Error()
	if errors.Is(err, model.ErrBusinessFailure) {
		event = logger.Warn()
	}
	event.Err(err).Str("failure_kind", kind).Dur("elapsed", elapsed).Msg("order placement failed")

	s.metrics.ObserveSubmission(outcome.Method.String(), kind, elapsed)
	s.notifier.Error(ctx, NoticeOrderFailed)
}

func (s *orderService) inFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateSubmitting
}

func (s *orderService) rejectInFlight() error {
	s.metrics.InFlightRejected()
	s.logger.Warn().Msg("order submission already in progress")
	return model.ErrSubmissionInFlight
}
