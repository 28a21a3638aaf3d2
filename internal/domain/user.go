package domain

import (
	"strings"
	"time"
)

// User is the credential record owned by the user repository.
// PasswordHash and TwoFactorSecret must never be serialized to clients.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string

	// Two-factor state. TwoFactorSecret is set as soon as setup is generated
	// (pending) and IsTwoFactorEnabled flips to true only after the first
	// successful TOTP verification against that secret.
	IsTwoFactorEnabled bool
	TwoFactorSecret    string
	BackupCodes        []string

	CreatedAt time.Time
}

// NormalizeBackupCode uppercases a submitted backup code before comparison.
// Backup codes are stored uppercase; submitted codes match
// case-insensitively.
func NormalizeBackupCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// HasBackupCodes reports whether any unused backup codes remain.
func (u User) HasBackupCodes() bool {
	return len(u.BackupCodes) > 0
}
