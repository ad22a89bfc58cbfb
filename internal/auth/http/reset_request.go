package http

import (
	"net/http"

	"github.com/terracehq/terrace-auth/internal/auth/service"
	"github.com/terracehq/terrace-auth/pkg/authapi"
	"github.com/terracehq/terrace-auth/pkg/httpx"
	"github.com/terracehq/terrace-auth/pkg/slogx"
)

type ResetRequestHandler struct {
	ResetService *service.ResetService
}

// ServeHTTP godoc
//
//	@Summary		Password Reset Request Endpoint
//	@Description	Request a password reset mail for an email address. Always answers
//	@Description	202 whether or not the address belongs to an account, so the endpoint
//	@Description	cannot be used to enumerate users.
//	@Tags			Password Reset
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			email	formData	string					true	"Account email"
//	@Success		202		"reset mail queued if the account exists"
//	@Failure		400		{object}	authapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	authapi.ErrorResponse	"error, error_description"
//	@Router			/v1/password-reset [post].
func (h *ResetRequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid form data",
		})
		return
	}

	if err := h.ResetService.Request(ctx, r.FormValue("email")); err != nil {
		log.Error("failed to process reset request", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, authapi.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to process password reset request",
		})
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
