package totp

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/taskapp/auth-service/internal/domain"
)

// backupCodeBytes yields 8 uppercase hex characters per code.
const backupCodeBytes = 4

// GenerateBackupCodes satisfies the application-layer engine port.
func (e *Engine) GenerateBackupCodes(count int) ([]string, error) {
	return GenerateBackupCodes(count)
}

// GenerateBackupCodes produces count single-use recovery codes, each drawn
// from crypto/rand and rendered as fixed-width uppercase hex.
func GenerateBackupCodes(count int) ([]string, error) {
	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		buf := make([]byte, backupCodeBytes)
		if _, err := rand.Read(buf); err != nil {
			return nil, domain.ErrRandomFailed(err)
		}
		codes = append(codes, strings.ToUpper(hex.EncodeToString(buf)))
	}
	return codes, nil
}
