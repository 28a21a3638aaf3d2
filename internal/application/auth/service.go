// Package auth holds the authentication flows behind the HTTP layer:
// registration, password + second-factor login, and the two-factor
// enrollment lifecycle. All dependencies come in through ports.
package auth

import (
	"context"
	"time"

	"github.com/taskapp/auth-service/internal/logger"
)

// totpStep mirrors the engine's time step; used to size replay-guard TTLs.
const totpStep = 30 * time.Second

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner
	otp    TwoFactorEngine
	replay ReplayGuard    // optional
	pub    EventPublisher // optional

	sessionTTL      time.Duration
	totpWindow      int
	backupCodeCount int
	strictDisable   bool
}

type Config struct {
	SessionTTL      time.Duration
	TOTPWindow      int
	BackupCodeCount int
	// StrictTwoFactorDisable requires a valid second factor to disable 2FA
	// when it is enabled, instead of password-only.
	StrictTwoFactorDisable bool
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	otp TwoFactorEngine,
	replay ReplayGuard,
	pub EventPublisher,
	cfg Config,
) *Service {
	sessionTTL := cfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	window := cfg.TOTPWindow
	if window < 0 {
		window = 0
	}
	codeCount := cfg.BackupCodeCount
	if codeCount <= 0 {
		codeCount = 8
	}
	return &Service{
		users:  users,
		hasher: hasher,
		signer: signer,
		otp:    otp,
		replay: replay,
		pub:    pub,

		sessionTTL:      sessionTTL,
		totpWindow:      window,
		backupCodeCount: codeCount,
		strictDisable:   cfg.StrictTwoFactorDisable,
	}
}

// publishEvent is best-effort: a broker outage must never fail a login or
// enrollment, so failures are logged and swallowed.
func (s *Service) publishEvent(ctx context.Context, evt SecurityEvent) {
	if s.pub == nil {
		return
	}
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	if err := s.pub.PublishSecurityEvent(ctx, evt); err != nil {
		logger.WithCtx(ctx).Warn().
			Err(err).
			Str("event", evt.Kind).
			Msg("security event publish failed")
	}
}
