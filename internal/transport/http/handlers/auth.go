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

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Str("email", u.Email).
		Msg("user_registered")

	response.Created(w, dto.RegisterData{Message: "User registered"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password, req.TwoFactorToken)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if res.Requires2FA {
		response.OK(w, dto.TwoFactorChallengeData{
			Requires2FA: true,
			Message:     "2FA token required",
		})
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	response.OK(w, dto.LoginData{
		Token: res.Token,
		User: dto.UserView{
			ID:                 res.User.ID,
			Name:               res.User.Name,
			IsTwoFactorEnabled: res.User.IsTwoFactorEnabled,
		},
	})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ProfileData{
		ID:       u.ID,
		Username: u.Name,
		Email:    u.Email,
	})
}
