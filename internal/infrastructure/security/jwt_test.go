package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskapp/auth-service/internal/domain"
)

func TestJWTSigner_SignAndVerify(t *testing.T) {
	s := NewJWTSigner("supersecret", "taskapp-auth")

	tok, err := s.SignSessionToken("user-1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := s.VerifySessionToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.Exp, time.Minute)
}

func TestJWTSigner_RejectsWrongSecret(t *testing.T) {
	s := NewJWTSigner("supersecret", "taskapp-auth")
	other := NewJWTSigner("othersecret", "taskapp-auth")

	tok, err := other.SignSessionToken("user-1", time.Hour)
	require.NoError(t, err)

	_, err = s.VerifySessionToken(tok)
	require.Error(t, err)
	assert.True(t, domain.Is(err, "token_invalid"))
}

func TestJWTSigner_RejectsExpired(t *testing.T) {
	s := NewJWTSigner("supersecret", "taskapp-auth")

	tok, err := s.SignSessionToken("user-1", -time.Minute)
	require.NoError(t, err)

	_, err = s.VerifySessionToken(tok)
	require.Error(t, err)
	assert.True(t, domain.Is(err, "token_expired"))
}

func TestJWTSigner_RejectsMalformed(t *testing.T) {
	s := NewJWTSigner("supersecret", "taskapp-auth")

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := s.VerifySessionToken(tok)
		assert.Error(t, err, "token %q", tok)
	}
}

func TestJWTSigner_RejectsUnsignedAlg(t *testing.T) {
	s := NewJWTSigner("supersecret", "taskapp-auth")

	// alg=none token must never verify
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: "user-1",
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.VerifySessionToken(tok)
	require.Error(t, err)
	assert.True(t, domain.Is(err, "token_invalid"))
}

func TestJWTSigner_RejectsEmptySubject(t *testing.T) {
	s := NewJWTSigner("supersecret", "taskapp-auth")

	tok, err := s.SignSessionToken("", time.Hour)
	require.NoError(t, err)

	_, err = s.VerifySessionToken(tok)
	require.Error(t, err)
}
