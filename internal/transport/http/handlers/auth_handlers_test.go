package http_handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Created(t *testing.T) {
	e := newTestEnv(t)

	rr := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "Passw0rd!",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var out struct {
		Message string `json:"message"`
	}
	mustReadJSON(t, rr, &out)
	assert.Equal(t, "User registered", out.Message)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "Alice", "alice@example.com", "Passw0rd!")

	rr := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Mallory", "email": "alice@example.com", "password": "Passw0rd!",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "email_already_exists")
}

func TestRegister_ValidationErrors(t *testing.T) {
	e := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing name", map[string]string{"email": "a@b.c", "password": "Passw0rd!"}},
		{"bad email", map[string]string{"name": "A", "email": "nope", "password": "Passw0rd!"}},
		{"short password", map[string]string{"name": "A", "email": "a@b.c", "password": "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := e.do(t, http.MethodPost, "/auth/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestRegister_MalformedJSON(t *testing.T) {
	e := newTestEnv(t)

	rr := e.do(t, http.MethodPost, "/auth/register", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid_json")
}

func TestLogin_ReturnsTokenAndUser(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "Alice", "alice@example.com", "Passw0rd!")

	rr := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "Passw0rd!",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var out struct {
		Token string `json:"token"`
		User  struct {
			ID                 string `json:"id"`
			Name               string `json:"name"`
			IsTwoFactorEnabled bool   `json:"isTwoFactorEnabled"`
		} `json:"user"`
	}
	mustReadJSON(t, rr, &out)
	assert.NotEmpty(t, out.Token)
	assert.NotEmpty(t, out.User.ID)
	assert.Equal(t, "Alice", out.User.Name)
	assert.False(t, out.User.IsTwoFactorEnabled)

	// No password material may ever appear in a response.
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestLogin_BadCredentialsUnauthorized(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "Alice", "alice@example.com", "Passw0rd!")

	for _, body := range []map[string]string{
		{"email": "alice@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "Passw0rd!"},
	} {
		rr := e.do(t, http.MethodPost, "/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid_credentials")
	}
}

func TestProfile_RequiresToken(t *testing.T) {
	e := newTestEnv(t)

	rr := e.do(t, http.MethodGet, "/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = e.do(t, http.MethodGet, "/auth/profile", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProfile_ReturnsUser(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "Alice", "alice@example.com", "Passw0rd!")
	tok := e.login(t, "alice@example.com", "Passw0rd!")

	rr := e.do(t, http.MethodGet, "/auth/profile", tok, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var out struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	mustReadJSON(t, rr, &out)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Alice", out.Username)
	assert.Equal(t, "alice@example.com", out.Email)
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t)

	rr := e.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"ok"`)

	rr = e.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
