package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealth struct{}

func (stubHealth) Healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
func (stubHealth) Readyz(w http.ResponseWriter, r *http.Request)  { w.WriteHeader(http.StatusOK) }

type stubAuth struct{}

func (stubAuth) Register(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) }
func (stubAuth) Login(w http.ResponseWriter, r *http.Request)    { w.WriteHeader(http.StatusOK) }
func (stubAuth) Profile(w http.ResponseWriter, r *http.Request)  { w.WriteHeader(http.StatusOK) }

type stubTwoFactor struct{}

func (stubTwoFactor) Generate(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
func (stubTwoFactor) Verify(w http.ResponseWriter, r *http.Request)   { w.WriteHeader(http.StatusOK) }
func (stubTwoFactor) Disable(w http.ResponseWriter, r *http.Request)  { w.WriteHeader(http.StatusOK) }
func (stubTwoFactor) Status(w http.ResponseWriter, r *http.Request)   { w.WriteHeader(http.StatusOK) }

func passthroughMW(next http.Handler) http.Handler { return next }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	h, err := New(Deps{
		Health:    stubHealth{},
		Auth:      stubAuth{},
		TwoFactor: stubTwoFactor{},
		AuthMW:    passthroughMW,
	})
	require.NoError(t, err)
	return h
}

func TestNew_RejectsNilDeps(t *testing.T) {
	base := Deps{Health: stubHealth{}, Auth: stubAuth{}, TwoFactor: stubTwoFactor{}, AuthMW: passthroughMW}

	for name, mutate := range map[string]func(*Deps){
		"health":     func(d *Deps) { d.Health = nil },
		"auth":       func(d *Deps) { d.Auth = nil },
		"two_factor": func(d *Deps) { d.TwoFactor = nil },
		"auth_mw":    func(d *Deps) { d.AuthMW = nil },
	} {
		d := base
		mutate(&d)
		_, err := New(d)
		assert.Error(t, err, name)
	}
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(t)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodPost, "/auth/register", http.StatusCreated},
		{http.MethodPost, "/auth/login", http.StatusOK},
		{http.MethodGet, "/auth/profile", http.StatusOK},
		{http.MethodPost, "/2fa/generate", http.StatusOK},
		{http.MethodPost, "/2fa/verify", http.StatusOK},
		{http.MethodPost, "/2fa/disable", http.StatusOK},
		{http.MethodGet, "/2fa/status", http.StatusOK},
		{http.MethodGet, "/auth/register", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, rr.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_SetsRequestIDHeader(t *testing.T) {
	h := newTestRouter(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}
