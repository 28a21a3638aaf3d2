package http_handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskapp/auth-service/internal/application/auth"
	"github.com/taskapp/auth-service/internal/infrastructure/memory"
	"github.com/taskapp/auth-service/internal/infrastructure/security"
	"github.com/taskapp/auth-service/internal/infrastructure/totp"
	"github.com/taskapp/auth-service/internal/transport/http/middleware"
	"github.com/taskapp/auth-service/internal/transport/http/response"
	"github.com/taskapp/auth-service/internal/transport/http/router"
)

// testEnv wires real adapters (memory repo, bcrypt, JWT, TOTP) behind the
// real router, so handler tests run the same code paths as production.
type testEnv struct {
	handler http.Handler
	users   *memory.UserRepo
	svc     *auth.Service
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	users := memory.NewUserRepo()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	signer := security.NewJWTSigner("handler-test-secret", "taskapp-auth")
	engine := totp.NewEngine("TaskApp")

	svc := auth.NewService(users, hasher, signer, engine, nil, nil, auth.Config{
		SessionTTL:      time.Hour,
		TOTPWindow:      2,
		BackupCodeCount: 8,
	})

	h, err := router.New(router.Deps{
		Health:    NewHealthHandler(nil),
		Auth:      NewAuthHandler(svc),
		TwoFactor: NewTwoFactorHandler(svc),
		AuthMW:    middleware.Auth(signer, response.WriteError),
	})
	require.NoError(t, err)

	return testEnv{handler: h, users: users, svc: svc}
}

// do runs a request through the router and returns the recorder.
func (e testEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func mustReadJSON(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out), "body=%s", rr.Body.String())
}

// register creates a user through the API.
func (e testEnv) register(t *testing.T, name, email, password string) {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rr.Code, "body=%s", rr.Body.String())
}

// login returns the session token for a user without 2FA.
func (e testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rr.Code, "body=%s", rr.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	mustReadJSON(t, rr, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}
