package http

import (
	"errors"
	"net/http"

	"github.com/terracehq/terrace-auth/internal/auth/service"
	"github.com/terracehq/terrace-auth/pkg/authapi"
	"github.com/terracehq/terrace-auth/pkg/httpx"
	"github.com/terracehq/terrace-auth/pkg/slogx"
)

type LoginHandler struct {
	LoginService   *service.LoginService
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Authenticate with email and password. On success sets the session
//	@Description	cookie and returns the session claims plus the signed token.
//	@Tags			Sessions
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			email		formData	string					true	"Account email"
//	@Param			password	formData	string					true	"Account password"
//	@Success		200			{object}	authapi.SessionResponse	"session claims and token"
//	@Failure		400			{object}	authapi.ErrorResponse	"error, error_description"
//	@Failure		401			{object}	authapi.ErrorResponse	"error, error_description"
//	@Failure		500			{object}	authapi.ErrorResponse	"error, error_description"
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid form data",
		})
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.LoginService.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// One answer for every credential failure.
			httpx.WriteJSON(w, http.StatusUnauthorized, authapi.ErrorResponse{
				Error:            "invalid_credentials",
				ErrorDescription: "Email or password is incorrect",
			})
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, authapi.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to process login",
		})
		return
	}

	session := user.Session()
	token, cookie, err := h.SessionService.Authenticate(session)
	if err != nil {
		log.Error("failed to sign session", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, authapi.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to establish session",
		})
		return
	}

	http.SetCookie(w, cookie)
	httpx.WriteJSON(w, http.StatusOK, authapi.SessionResponse{
		ID:        session.ID,
		Email:     session.Email,
		FirstName: session.FirstName,
		LastName:  session.LastName,
		Color:     session.Color,
		Admin:     session.Admin,
		Token:     token,
	})
}
