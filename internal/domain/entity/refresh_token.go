package entity

import "time"

// RefreshToken registro persistido y revocable de un refresh token emitido.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	IsRevoked bool
	CreatedAt time.Time
}

// IsExpired indica si el token ya venció según el ledger.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Usable solo mientras no esté revocado ni vencido.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.IsRevoked && !t.IsExpired(now)
}
