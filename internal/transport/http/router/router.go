package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taskapp/auth-service/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Profile(w http.ResponseWriter, r *http.Request)
}

type TwoFactorHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Verify(w http.ResponseWriter, r *http.Request)
	Disable(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health    HealthHandler
	Auth      AuthHandler
	TwoFactor TwoFactorHandler

	AuthMW func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.TwoFactor == nil {
		return nil, fmt.Errorf("nil TwoFactor handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", deps.Auth.Register)
		r.Post("/login", deps.Auth.Login)
		r.With(deps.AuthMW).Get("/profile", deps.Auth.Profile)
	})

	r.Route("/2fa", func(r chi.Router) {
		r.Use(deps.AuthMW)

		r.Post("/generate", deps.TwoFactor.Generate)
		r.Post("/verify", deps.TwoFactor.Verify)
		r.Post("/disable", deps.TwoFactor.Disable)
		r.Get("/status", deps.TwoFactor.Status)
	})

	return r, nil
}
