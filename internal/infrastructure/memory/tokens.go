package memory

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var (
	_ repository.RefreshTokenRepository = (*RefreshTokenRepo)(nil)
	_ repository.OTPRepository          = (*OTPRepo)(nil)
)

// RefreshTokenRepo implementación en memoria del ledger de refresh tokens.
type RefreshTokenRepo struct{ s *Store }

// Create registra un refresh token emitido.
func (r *RefreshTokenRepo) Create(_ context.Context, t *entity.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *t
	r.s.tokens[t.Token] = &c
	return nil
}

// FindActive token no revocado o (nil, nil). La expiración la decide el caso de uso.
func (r *RefreshTokenRepo) FindActive(_ context.Context, token string) (*entity.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[token]
	if !ok || t.IsRevoked {
		return nil, nil
	}
	c := *t
	return &c, nil
}

// Revoke marca el token como revocado. Idempotente.
func (r *RefreshTokenRepo) Revoke(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.tokens[token]; ok {
		t.IsRevoked = true
	}
	return nil
}

// RevokeAllForUser revoca todas las sesiones del usuario.
func (r *RefreshTokenRepo) RevokeAllForUser(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tokens {
		if t.UserID == userID {
			t.IsRevoked = true
		}
	}
	return nil
}

// DeleteExpired borra los tokens vencidos antes de before.
func (r *RefreshTokenRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k, t := range r.s.tokens {
		if t.ExpiresAt.Before(before) {
			delete(r.s.tokens, k)
			n++
		}
	}
	return n, nil
}

// OTPRepo implementación en memoria del ledger de OTP.
type OTPRepo struct{ s *Store }

// Create registra un OTP emitido.
func (r *OTPRepo) Create(_ context.Context, o *entity.OTP) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *o
	r.s.otps = append(r.s.otps, &c)
	return nil
}

// FindValid OTP más reciente con ese email y código, sin usar y vigente, o (nil, nil).
func (r *OTPRepo) FindValid(_ context.Context, email, code string, now time.Time) (*entity.OTP, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.otps) - 1; i >= 0; i-- {
		o := r.s.otps[i]
		if o.Email == email && o.Code == code && !o.IsUsed && now.Before(o.ExpiresAt) {
			c := *o
			return &c, nil
		}
	}
	return nil, nil
}

// IncrementAttempts suma un intento fallido a cada OTP con ese email y código.
func (r *OTPRepo) IncrementAttempts(_ context.Context, email, code string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.otps {
		if o.Email == email && o.Code == code {
			o.Attempts++
		}
	}
	return nil
}

// MarkUsed consume el OTP.
func (r *OTPRepo) MarkUsed(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.otps {
		if o.ID == id {
			o.IsUsed = true
		}
	}
	return nil
}

// DeleteExpired borra los OTP vencidos antes de before.
func (r *OTPRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.otps[:0]
	var n int64
	for _, o := range r.s.otps {
		if o.ExpiresAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, o)
	}
	r.s.otps = kept
	return n, nil
}
