// Package dto defines the wire-level request/response shapes. Field names
// follow the original client contract (camelCase).
package dto

// -------- Core auth --------

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// Optional second factor: a 6-digit TOTP code or a backup code.
	TwoFactorToken string `json:"twoFactorToken,omitempty" validate:"omitempty,max=16"`
}

// -------- Two-factor --------

type TwoFactorVerifyRequest struct {
	Token string `json:"token" validate:"required,max=16"`
}

type TwoFactorDisableRequest struct {
	Password string `json:"password" validate:"required"`
	Token    string `json:"token,omitempty" validate:"omitempty,max=16"`
}
