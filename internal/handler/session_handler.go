package handler

import (
	"net/http"

	"storefront-checkout/internal/model"
	"storefront-checkout/internal/service"

	"github.com/rs/zerolog"
)

// SessionView is the shopper's sign-in state. The token itself is never
// returned.
type SessionView struct {
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error,omitempty"`
}

// SessionHandler handles sign-in HTTP requests.
type SessionHandler struct {
	service service.SessionService
	effects EffectSource
	logger  zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(service service.SessionService, effects EffectSource, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		effects: effects,
		logger:  logger.With().Str("handler", "session").Logger(),
	}
}

// Get handles GET /api/session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.view(r), h.effects)
}

// Login handles POST /api/session/login.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, true)
}

// Register handles POST /api/session/register.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, false)
}

func (h *SessionHandler) authenticate(w http.ResponseWriter, r *http.Request, isLogin bool) {
	var creds model.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}

	var err error
	if isLogin {
		err = h.service.Login(r.Context(), creds)
	} else {
		err = h.service.Register(r.Context(), creds)
	}
	if err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}

	respond(w, r, http.StatusOK, h.view(r), h.effects)
}

// Logout handles POST /api/session/logout.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		writeError(w, r, err, h.effects, h.logger)
		return
	}
	respond(w, r, http.StatusOK, h.view(r), h.effects)
}

func (h *SessionHandler) view(r *http.Request) SessionView {
	state := h.service.State(r.Context())
	return SessionView{Authenticated: state.Authenticated(), Error: state.Error}
}
