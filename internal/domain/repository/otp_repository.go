package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// OTPRepository ledger de códigos de recuperación.
type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTP) error
	// FindValid busca un código no usado y no vencido para email+code; (nil, nil) si no hay.
	FindValid(ctx context.Context, email, code string, now time.Time) (*entity.OTP, error)
	// IncrementAttempts suma un intento a cualquier registro email+code, aunque esté vencido.
	IncrementAttempts(ctx context.Context, email, code string) error
	MarkUsed(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
