package http_handlers

import (
	"net/http"

	"github.com/taskapp/auth-service/internal/application/auth"
	"github.com/taskapp/auth-service/internal/domain"
	"github.com/taskapp/auth-service/internal/logger"
	"github.com/taskapp/auth-service/internal/transport/http/dto"
	"github.com/taskapp/auth-service/internal/transport/http/middleware"
	"github.com/taskapp/auth-service/internal/transport/http/response"
)

type TwoFactorHandler struct {
	svc *auth.Service
}

func NewTwoFactorHandler(svc *auth.Service) *TwoFactorHandler {
	return &TwoFactorHandler{svc: svc}
}

// Generate handles POST /2fa/generate: provisions a pending secret plus
// backup codes and returns the enrollment material once.
func (h *TwoFactorHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	setup, err := h.svc.GenerateTwoFactorSetup(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.TwoFactorSetupData{
		Secret:          setup.Secret,
		ProvisioningURI: setup.ProvisioningURI,
		ManualEntryKey:  setup.Secret,
		BackupCodes:     setup.BackupCodes,
	})
}

// Verify handles POST /2fa/verify: confirms a code from the authenticator
// and enables 2FA.
func (h *TwoFactorHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.TwoFactorVerifyRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	codes, err := h.svc.VerifyTwoFactorSetup(r.Context(), userID, req.Token)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", userID).
		Msg("two_factor_enabled")

	response.OK(w, dto.TwoFactorVerifyData{
		Message:     "2FA enabled successfully",
		BackupCodes: codes,
	})
}

// Disable handles POST /2fa/disable: re-verifies the password (and second
// factor, when supplied or when strict mode demands it) and turns 2FA off.
func (h *TwoFactorHandler) Disable(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.TwoFactorDisableRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.DisableTwoFactor(r.Context(), userID, req.Password, req.Token); err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", userID).
		Msg("two_factor_disabled")

	response.OK(w, dto.TwoFactorDisableData{Message: "2FA disabled successfully"})
}

// Status handles GET /2fa/status.
func (h *TwoFactorHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	st, err := h.svc.GetTwoFactorStatus(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.TwoFactorStatusData{
		IsEnabled:      st.IsEnabled,
		HasBackupCodes: st.HasBackupCodes,
	})
}
