package auth

import (
	"context"
	"strings"
	"time"

	"github.com/taskapp/auth-service/internal/domain"
	"github.com/taskapp/auth-service/internal/logger"
)

// LoginResult is either an issued session (Token set) or a second-factor
// challenge (Requires2FA set, no token).
type LoginResult struct {
	Requires2FA bool
	Token       string
	User        domain.User
}

// Login authenticates email + password, then the second factor when the
// account has one enabled.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
func (s *Service) Login(ctx context.Context, email, password, twoFactorToken string) (LoginResult, error) {
	email = normalizeEmail(email)

	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Hide not-found behind invalid credentials; anything else (store
		// outage) is a server-side failure and must surface as one.
		if domain.Is(err, "user_not_found") {
			return LoginResult{}, domain.ErrInvalidCredentials()
		}
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if u.IsTwoFactorEnabled {
		if strings.TrimSpace(twoFactorToken) == "" {
			// Password was right; tell the client to retry with a code.
			return LoginResult{Requires2FA: true, User: u}, nil
		}
		if err := s.verifySecondFactor(ctx, u, twoFactorToken); err != nil {
			return LoginResult{}, err
		}
	}

	token, err := s.signer.SignSessionToken(u.ID, s.sessionTTL)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, User: u}, nil
}

// verifySecondFactor accepts either a single-use backup code or a current
// TOTP code. Backup codes are checked first so a code that happens to be
// six digits of hex never hits the TOTP path.
func (s *Service) verifySecondFactor(ctx context.Context, u domain.User, token string) error {
	consumed, err := s.users.ConsumeBackupCode(ctx, u.ID, domain.NormalizeBackupCode(token))
	if err != nil {
		return err
	}
	if consumed {
		return nil
	}

	code := strings.TrimSpace(token)
	if !s.otp.Verify(u.TwoFactorSecret, code, s.totpWindow) {
		return domain.ErrInvalidTwoFactorToken()
	}

	if s.replay != nil {
		// TTL covers every step the acceptance window could still accept
		// this code at.
		ttl := time.Duration(2*s.totpWindow+2) * totpStep
		first, err := s.replay.MarkUsed(ctx, u.ID, code, ttl)
		if err != nil {
			// Guard outage degrades to unguarded verification.
			logger.WithCtx(ctx).Warn().Err(err).Msg("totp replay guard unavailable")
			return nil
		}
		if !first {
			return domain.ErrInvalidTwoFactorToken()
		}
	}
	return nil
}
