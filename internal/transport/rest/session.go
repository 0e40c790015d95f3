package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/zinote-backend/internal/auth"
	"github.com/heartmarshall/zinote-backend/pkg/ctxutil"
)

type tokenIssuer interface {
	GenerateAccessToken(actor ctxutil.Actor) (string, error)
}

// SessionHandler serves guest sign-in and session introspection. Signed-in
// sessions come from the external identity provider.
type SessionHandler struct {
	tokens tokenIssuer
	guest  ctxutil.Actor
	log    *slog.Logger
}

// NewSessionHandler creates a SessionHandler. guest is the identity issued
// to sessions that skip sign-in.
func NewSessionHandler(tokens tokenIssuer, guest ctxutil.Actor, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{tokens: tokens, guest: guest, log: logger.With("handler", "session")}
}

type sessionResponse struct {
	AccessToken string       `json:"accessToken,omitempty"`
	Actor       actorPayload `json:"actor"`
}

type actorPayload struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Guest bool   `json:"guest"`
}

func toActorPayload(a ctxutil.Actor) actorPayload {
	return actorPayload{ID: a.ID, Email: a.Email, Guest: a.Guest}
}

// Guest handles POST /auth/guest: issues a read-only guest token.
func (h *SessionHandler) Guest(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.GenerateAccessToken(h.guest)
	if errors.Is(err, auth.ErrSigningDisabled) {
		writeError(w, http.StatusServiceUnavailable, "sessions are disabled on this server")
		return
	}
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{AccessToken: token, Actor: toActorPayload(h.guest)})
}

// Me handles GET /auth/me.
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	a, ok := ctxutil.ActorFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Actor: toActorPayload(a)})
}
