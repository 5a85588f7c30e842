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

var _ repository.RefreshTokenRepository = (*RefreshTokenRepo)(nil)

// RefreshTokenRepo ledger de refresh tokens sobre PostgreSQL.
type RefreshTokenRepo struct {
	q Querier
}

// NewRefreshTokenRepository construye el adaptador.
func NewRefreshTokenRepository(q Querier) *RefreshTokenRepo {
	return &RefreshTokenRepo{q: q}
}

// Create guarda un refresh token emitido.
func (r *RefreshTokenRepo) Create(ctx context.Context, t *entity.RefreshToken) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO refresh_tokens (token, user_id, expires_at, is_revoked, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		t.Token, t.UserID, t.ExpiresAt, t.IsRevoked, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

// FindActive token no revocado o (nil, nil). El vencimiento lo valida el caso de uso.
func (r *RefreshTokenRepo) FindActive(ctx context.Context, token string) (*entity.RefreshToken, error) {
	var t entity.RefreshToken
	err := r.q.QueryRow(ctx, `
		SELECT token, user_id, expires_at, is_revoked, created_at
		FROM refresh_tokens WHERE token = $1 AND is_revoked = false`, token,
	).Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.IsRevoked, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	return &t, nil
}

// Revoke marca un token como revocado.
func (r *RefreshTokenRepo) Revoke(ctx context.Context, token string) error {
	if _, err := r.q.Exec(ctx, `UPDATE refresh_tokens SET is_revoked = true WHERE token = $1`, token); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllForUser revoca todos los tokens activos del usuario (tras restablecer la contraseña).
func (r *RefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx,
		`UPDATE refresh_tokens SET is_revoked = true WHERE user_id = $1 AND is_revoked = false`, userID); err != nil {
		return fmt.Errorf("revoke user refresh tokens: %w", err)
	}
	return nil
}

// DeleteExpired purga los tokens vencidos antes de before y devuelve cuántos borró.
func (r *RefreshTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("purge refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
