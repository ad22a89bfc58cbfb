package http

import (
	"net/http"

	"github.com/terracehq/terrace-auth/internal/auth/service"
)

type LogoutHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Logout Endpoint
//	@Description	Clears the session cookie. Succeeds whether or not a session was present.
//	@Tags			Sessions
//	@Success		204	"session cookie cleared"
//	@Router			/v1/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.SessionService.Unauthenticate())
	w.WriteHeader(http.StatusNoContent)
}
