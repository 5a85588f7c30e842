package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.OTPRepository = (*OTPRepo)(nil)

// OTPRepo ledger de códigos de recuperación sobre PostgreSQL.
type OTPRepo struct {
	q Querier
}

// NewOTPRepository construye el adaptador.
func NewOTPRepository(q Querier) *OTPRepo {
	return &OTPRepo{q: q}
}

// Create registra un OTP recién emitido.
func (r *OTPRepo) Create(ctx context.Context, o *entity.OTP) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO otps (id, email, code, expires_at, is_used, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.Email, o.Code, o.ExpiresAt, o.IsUsed, o.Attempts, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

// FindValid devuelve el OTP más reciente no usado y no vencido para email+code.
func (r *OTPRepo) FindValid(ctx context.Context, email, code string, now time.Time) (*entity.OTP, error) {
	var o entity.OTP
	err := r.q.QueryRow(ctx, `
		SELECT id, email, code, expires_at, is_used, attempts, created_at
		FROM otps
		WHERE email = $1 AND code = $2 AND is_used = false AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1`, email, code, now,
	).Scan(&o.ID, &o.Email, &o.Code, &o.ExpiresAt, &o.IsUsed, &o.Attempts, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get otp: %w", err)
	}
	return &o, nil
}

// IncrementAttempts suma un intento fallido a los OTP de email+code.
func (r *OTPRepo) IncrementAttempts(ctx context.Context, email, code string) error {
	if _, err := r.q.Exec(ctx,
		`UPDATE otps SET attempts = attempts + 1 WHERE email = $1 AND code = $2`, email, code); err != nil {
		return fmt.Errorf("increment otp attempts: %w", err)
	}
	return nil
}

// MarkUsed consume el OTP; no puede volver a usarse.
func (r *OTPRepo) MarkUsed(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `UPDATE otps SET is_used = true WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark otp used: %w", err)
	}
	return nil
}

// DeleteExpired purga los OTP vencidos antes de before y devuelve cuántos borró.
func (r *OTPRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM otps WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("purge otps: %w", err)
	}
	return tag.RowsAffected(), nil
}
