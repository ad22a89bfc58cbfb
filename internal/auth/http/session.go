package http

import (
	"net/http"

	"github.com/terracehq/terrace-auth/internal/auth/service"
	"github.com/terracehq/terrace-auth/pkg/authapi"
	"github.com/terracehq/terrace-auth/pkg/httpx"
)

type SessionHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Current Session Endpoint
//	@Description	Resolves the session cookie and returns the claims it carries.
//	@Tags			Sessions
//	@Produce		json
//	@Success		200	{object}	authapi.SessionResponse	"session claims"
//	@Failure		401	{object}	authapi.ErrorResponse	"error, error_description"
//	@Router			/v1/session [get].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session, ok := h.SessionService.Resolve(r.Header.Get("Cookie"))
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, authapi.ErrorResponse{
			Error:            "unauthenticated",
			ErrorDescription: "No valid session",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.SessionResponse{
		ID:        session.ID,
		Email:     session.Email,
		FirstName: session.FirstName,
		LastName:  session.LastName,
		Color:     session.Color,
		Admin:     session.Admin,
	})
}
