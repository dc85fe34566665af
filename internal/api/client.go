// Package api is the HTTP client of the remote storefront API: order
// placement and the identity endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-checkout/internal/config"
	"storefront-checkout/internal/metrics"
	"storefront-checkout/internal/model"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HeaderToken carries the auth token on order requests.
const HeaderToken = "token"

const maxReplyBytes = 1 << 20

// reply is a completed HTTP exchange.
type reply struct {
	status int
	body   []byte
}

// Client talks to the remote storefront API.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	orderTimeout time.Duration
	breaker      *gobreaker.CircuitBreaker[reply]
	logger       zerolog.Logger
}

// NewClient creates a client for cfg.BaseURL. Requests are traced with
// otelhttp; when breakerCfg is enabled they also pass through a circuit
// breaker that opens after consecutive transport or 5xx failures.
func NewClient(cfg config.APIConfig, breakerCfg config.BreakerConfig, reg *metrics.Registry, logger zerolog.Logger) *Client {
	logger = logger.With().Str("component", "api-client").Logger()

	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		orderTimeout: cfg.Timeout(),
		logger:       logger,
	}

	if breakerCfg.Enabled {
		threshold := uint32(breakerCfg.FailureThreshold)
		c.breaker = gobreaker.NewCircuitBreaker[reply](gobreaker.Settings{
			Name:        "storefront-api",
			MaxRequests: 1,
			Timeout:     time.Duration(breakerCfg.OpenTimeout) * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			// A shopper abandoning a request says nothing about the remote side.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("circuit breaker state changed")
				reg.BreakerStateChange(name, to.String())
			},
		})
	}

	return c
}

// PlaceOrder posts req to the endpoint of method with the token header.
// Network errors, non-2xx statuses, an open breaker and undecodable replies
// are returned as a TransportFailure.
func (c *Client) PlaceOrder(ctx context.Context, method model.PaymentMethod, token string, req model.OrderRequest) (*model.OrderResponse, error) {
	if c.orderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.orderTimeout)
		defer cancel()
	}

	var resp model.OrderResponse
	if err := c.post(ctx, method.Endpoint(), token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login posts creds to the login endpoint.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.post(ctx, model.EndpointLogin, "", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register posts creds to the registration endpoint.
func (c *Client) Register(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.post(ctx, model.EndpointRegister, "", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path, token string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	exchange := func() (reply, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return reply{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set(HeaderToken, token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return reply{}, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
		if err != nil {
			return reply{}, err
		}

		r := reply{status: resp.StatusCode, body: body}
		if resp.StatusCode >= http.StatusInternalServerError {
			return r, fmt.Errorf("server responded with status %d", resp.StatusCode)
		}
		return r, nil
	}

	var r reply
	if c.breaker != nil {
		r, err = c.breaker.Execute(exchange)
	} else {
		r, err = exchange()
	}

	logger := c.logger.With().Str("endpoint", path).Logger()

	if err != nil {
		logger.Error().Err(err).Msg("request failed")
		return model.NewTransportFailure("storefront API unreachable", err)
	}

	if r.status < 200 || r.status > 299 {
		logger.Error().Int("status", r.status).Msg("unexpected response status")
		return model.NewTransportFailure(fmt.Sprintf("unexpected response status %d", r.status), nil)
	}

	if err := json.Unmarshal(r.body, out); err != nil {
		logger.Error().Err(err).Msg("failed to decode response")
		return model.NewTransportFailure("undecodable response", err)
	}

	return nil
}
