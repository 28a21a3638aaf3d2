package auth

import (
	"context"
	"strings"

	"github.com/taskapp/auth-service/internal/domain"
)

// TwoFactorSetup is the enrollment material handed to the client once,
// at generation time.
type TwoFactorSetup struct {
	Secret          string
	ProvisioningURI string
	BackupCodes     []string
}

type TwoFactorStatus struct {
	IsEnabled      bool
	HasBackupCodes bool
}

// GenerateTwoFactorSetup provisions a fresh secret and backup codes for
// the user and persists them pending verification. Calling it again
// replaces any previous pending material.
func (s *Service) GenerateTwoFactorSetup(ctx context.Context, userID string) (TwoFactorSetup, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return TwoFactorSetup{}, err
	}

	secret, err := s.otp.GenerateSecret()
	if err != nil {
		return TwoFactorSetup{}, err
	}
	codes, err := s.otp.GenerateBackupCodes(s.backupCodeCount)
	if err != nil {
		return TwoFactorSetup{}, err
	}

	if err := s.users.SetTwoFactorSetup(ctx, u.ID, secret, codes); err != nil {
		return TwoFactorSetup{}, err
	}

	return TwoFactorSetup{
		Secret:          secret,
		ProvisioningURI: s.otp.ProvisioningURI(secret, u.Email),
		BackupCodes:     codes,
	}, nil
}

// VerifyTwoFactorSetup confirms the user's authenticator produces valid
// codes for the pending secret, then flips 2FA on. Returns the backup
// codes so the client can show them one final time.
func (s *Service) VerifyTwoFactorSetup(ctx context.Context, userID, token string) ([]string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.TwoFactorSecret == "" {
		return nil, domain.ErrTwoFactorNotInitiated()
	}

	if !s.otp.Verify(u.TwoFactorSecret, strings.TrimSpace(token), s.totpWindow) {
		return nil, domain.ErrInvalidTwoFactorToken()
	}

	if err := s.users.EnableTwoFactor(ctx, u.ID); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, SecurityEvent{
		Kind:   EventTwoFactorEnabled,
		UserID: u.ID,
		Email:  u.Email,
	})

	return u.BackupCodes, nil
}

// DisableTwoFactor turns 2FA off after re-verifying the password. When a
// second-factor token is supplied it must be valid; in strict mode one is
// mandatory while 2FA is enabled.
func (s *Service) DisableTwoFactor(ctx context.Context, userID, password, token string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	// The caller already holds a valid session; a mismatched password here
	// is a failed re-confirmation, not a failed login.
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return domain.ErrInvalidPassword()
	}

	if u.IsTwoFactorEnabled {
		if strings.TrimSpace(token) == "" {
			if s.strictDisable {
				return domain.ErrTwoFactorTokenRequired()
			}
		} else if err := s.verifySecondFactor(ctx, u, token); err != nil {
			return err
		}
	}

	if err := s.users.DisableTwoFactor(ctx, u.ID); err != nil {
		return err
	}

	s.publishEvent(ctx, SecurityEvent{
		Kind:   EventTwoFactorDisabled,
		UserID: u.ID,
		Email:  u.Email,
	})

	return nil
}

func (s *Service) GetTwoFactorStatus(ctx context.Context, userID string) (TwoFactorStatus, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return TwoFactorStatus{}, err
	}
	return TwoFactorStatus{
		IsEnabled:      u.IsTwoFactorEnabled,
		HasBackupCodes: u.HasBackupCodes(),
	}, nil
}
