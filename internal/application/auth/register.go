package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskapp/auth-service/internal/domain"
)

// Register creates a user with a bcrypt-hashed password. Email uniqueness
// is enforced by the repo (email_already_exists on duplicate).
func (s *Service) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return domain.User{}, domain.ErrMissingField("name")
	}
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}

	s.publishEvent(ctx, SecurityEvent{
		Kind:   EventUserRegistered,
		UserID: created.ID,
		Email:  created.Email,
	})

	return created, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
