package entity

import "time"

// OTP código de un solo uso para restablecer la contraseña.
type OTP struct {
	ID        string
	Email     string
	Code      string // 6 dígitos
	ExpiresAt time.Time
	IsUsed    bool
	Attempts  int
	CreatedAt time.Time
}

// IsValid indica si el código aún puede consumirse.
func (o *OTP) IsValid(now time.Time, maxAttempts int) bool {
	return !o.IsUsed && now.Before(o.ExpiresAt) && o.Attempts < maxAttempts
}
