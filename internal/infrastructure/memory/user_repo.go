// Package memory holds in-memory adapters for tests and dev mode.
package memory

import (
	"context"
	"sync"

	"github.com/taskapp/auth-service/internal/domain"
)

// UserRepo is an in-memory auth.UserRepo. A single mutex guards both
// indexes, which also makes backup-code consumption atomic per user.
type UserRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	r.byID[u.ID] = cloneUser(u)
	r.byEmail[u.Email] = u.ID
	return u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return cloneUser(u), nil
}

func (r *UserRepo) SetTwoFactorSetup(_ context.Context, userID, secret string, backupCodes []string) error {
	if secret == "" {
		return domain.ErrMissingField("secret")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.TwoFactorSecret = secret
	u.BackupCodes = append([]string(nil), backupCodes...)
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) EnableTwoFactor(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.IsTwoFactorEnabled = true
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) DisableTwoFactor(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.IsTwoFactorEnabled = false
	u.TwoFactorSecret = ""
	u.BackupCodes = nil
	r.byID[userID] = u
	return nil
}

// ConsumeBackupCode is check-then-remove under the repo lock: of any number
// of concurrent calls with the same code, exactly one returns true.
func (r *UserRepo) ConsumeBackupCode(_ context.Context, userID, code string) (bool, error) {
	if code == "" {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return false, domain.ErrUserNotFound()
	}
	for i, c := range u.BackupCodes {
		if c == code {
			u.BackupCodes = append(append([]string(nil), u.BackupCodes[:i]...), u.BackupCodes[i+1:]...)
			r.byID[userID] = u
			return true, nil
		}
	}
	return false, nil
}

func cloneUser(u domain.User) domain.User {
	u.BackupCodes = append([]string(nil), u.BackupCodes...)
	return u
}
