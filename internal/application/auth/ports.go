package auth

import (
	"context"
	"time"

	"github.com/taskapp/auth-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Only describes WHAT the auth flows need, not HOW it's stored.
*/
type UserRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)

	// Two-factor lifecycle
	SetTwoFactorSetup(ctx context.Context, userID, secret string, backupCodes []string) error
	EnableTwoFactor(ctx context.Context, userID string) error
	DisableTwoFactor(ctx context.Context, userID string) error

	// ConsumeBackupCode removes code from the user's backup codes if present.
	// Check-then-remove must be atomic per user: the same code handed in by
	// two concurrent logins is consumed exactly once.
	ConsumeBackupCode(ctx context.Context, userID, code string) (bool, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies session tokens (JWT).
Used by service + auth middleware.
*/
type TokenClaims struct {
	UserID string
	Exp    time.Time
}

type TokenSigner interface {
	SignSessionToken(userID string, ttl time.Duration) (string, error)
	VerifySessionToken(token string) (TokenClaims, error)
}

/*
TwoFactorEngine
---------------
RFC 6238 code generation/verification plus enrollment material.
*/
type TwoFactorEngine interface {
	GenerateSecret() (string, error)
	ProvisioningURI(secret, account string) string
	Verify(secret, code string, window int) bool
	GenerateBackupCodes(count int) ([]string, error)
}

/*
ReplayGuard
-----------
Marks accepted TOTP codes as used so the same code cannot authenticate
twice within its acceptance window. Backed by Redis; optional (nil means
no guard).
*/
type ReplayGuard interface {
	// MarkUsed returns true when this is the first use of the code.
	MarkUsed(ctx context.Context, userID, code string, ttl time.Duration) (bool, error)
}

/*
EventPublisher
--------------
Publishes security events to the broker. A downstream notification
service consumes them; this service never sends emails directly.
Optional (nil means no publishing); failures never fail the request.
*/
const (
	EventUserRegistered    = "auth.user.registered"
	EventTwoFactorEnabled  = "auth.2fa.enabled"
	EventTwoFactorDisabled = "auth.2fa.disabled"
)

type SecurityEvent struct {
	Kind   string
	UserID string
	Email  string
	At     time.Time
}

type EventPublisher interface {
	PublishSecurityEvent(ctx context.Context, evt SecurityEvent) error
}
