package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendlens/internal/auth"
	"github.com/MrJamesThe3rd/spendlens/internal/http/render"
)

type Handler struct {
	issuer *auth.Issuer
}

// NewHandler accepts a nil issuer when auth is disabled; sessions then carry
// no token and clients send the owner in auth.SessionHeader.
func NewHandler(issuer *auth.Issuer) *Handler {
	return &Handler{issuer: issuer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
}

type sessionResponse struct {
	Owner string `json:"owner"`
	Token string `json:"token,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if h.issuer == nil {
		render.JSON(w, http.StatusCreated, sessionResponse{Owner: uuid.NewString()})
		return
	}

	owner, token, err := h.issuer.NewSession()
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, sessionResponse{Owner: owner, Token: token})
}
