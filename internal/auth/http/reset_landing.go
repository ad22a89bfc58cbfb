package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/terracehq/terrace-auth/internal/auth/service"
	"github.com/terracehq/terrace-auth/pkg/authapi"
	"github.com/terracehq/terrace-auth/pkg/httpx"
	"github.com/terracehq/terrace-auth/pkg/slogx"
)

// ResetLandingHandler serves the two halves of the reset landing page: the
// lookup the page does on load, and the consume triggered by the form.
type ResetLandingHandler struct {
	ResetService *service.ResetService
}

// HandleLookup godoc
//
//	@Summary		Password Reset Lookup Endpoint
//	@Description	Checks whether a reset code is still usable. Consumed, expired, and
//	@Description	unknown codes all answer 404.
//	@Tags			Password Reset
//	@Produce		json
//	@Param			code	path		string						true	"Reset code from the emailed link"
//	@Success		200		{object}	authapi.ResetLookupResponse	"valid, expires_at"
//	@Failure		404		{object}	authapi.ErrorResponse		"error, error_description"
//	@Router			/v1/password-reset/{code} [get].
func (h *ResetLandingHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	pr, err := h.ResetService.Lookup(ctx, r.PathValue("code"))
	if err != nil {
		if errors.Is(err, service.ErrResetNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, authapi.ErrorResponse{
				Error:            "reset_not_found",
				ErrorDescription: "Reset code is invalid or no longer usable",
			})
			return
		}
		log.Error("failed to look up reset code", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, authapi.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to look up reset code",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.ResetLookupResponse{
		Valid:     true,
		ExpiresAt: pr.ExpiresAt.Format(time.RFC3339),
	})
}

// HandleConsume godoc
//
//	@Summary		Password Reset Consume Endpoint
//	@Description	Redeems a reset code and sets a new password. Each code works exactly
//	@Description	once; racing submissions produce one success and one conflict.
//	@Tags			Password Reset
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			code				path		string					true	"Reset code from the emailed link"
//	@Param			new_password		formData	string					true	"New password"
//	@Param			confirm_password	formData	string					true	"Must match new_password"
//	@Success		204					"password changed"
//	@Failure		400					{object}	authapi.ErrorResponse	"error, error_description"
//	@Failure		404					{object}	authapi.ErrorResponse	"error, error_description"
//	@Failure		409					{object}	authapi.ErrorResponse	"error, error_description"
//	@Failure		410					{object}	authapi.ErrorResponse	"error, error_description"
//	@Router			/v1/password-reset/{code} [post].
func (h *ResetLandingHandler) HandleConsume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid form data",
		})
		return
	}

	newPassword := r.FormValue("new_password")
	confirmPassword := r.FormValue("confirm_password")

	if newPassword == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "new_password is required",
		})
		return
	}
	if newPassword != confirmPassword {
		httpx.WriteJSON(w, http.StatusBadRequest, authapi.ErrorResponse{
			Error:            "password_mismatch",
			ErrorDescription: "new_password and confirm_password do not match",
		})
		return
	}

	err := h.ResetService.Consume(ctx, r.PathValue("code"), newPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResetNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, authapi.ErrorResponse{
				Error:            "reset_not_found",
				ErrorDescription: "Reset code is invalid",
			})
		case errors.Is(err, service.ErrResetExpired):
			httpx.WriteJSON(w, http.StatusGone, authapi.ErrorResponse{
				Error:            "reset_expired",
				ErrorDescription: "Reset code has expired",
			})
		case errors.Is(err, service.ErrResetConsumed):
			httpx.WriteJSON(w, http.StatusConflict, authapi.ErrorResponse{
				Error:            "reset_consumed",
				ErrorDescription: "Reset code has already been used",
			})
		default:
			log.Error("failed to consume reset code", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, authapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to reset password",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
