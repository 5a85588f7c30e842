package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/pkg/jwt"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// TokenIssuer emite y verifica tokens (implementado por pkg/jwt.Issuer).
type TokenIssuer interface {
	IssueAccessToken(userID, role string) (string, error)
	IssueRefreshToken(userID string) (string, error)
	Verify(token string, class jwt.Class) (*jwt.Claims, error)
}

// Config parámetros del flujo de autenticación.
type Config struct {
	RefreshTTL     time.Duration
	OTPTTL         time.Duration
	OTPMaxAttempts int
	ExposeOTP      bool // solo development: el OTP viaja en la respuesta de forgot-password
	BcryptCost     int
}

// AuthUseCase casos de uso de autenticación: registro, sesión y recuperación de contraseña.
type AuthUseCase struct {
	users  repository.UserRepository
	tokens repository.RefreshTokenRepository
	otps   repository.OTPRepository
	issuer TokenIssuer
	cfg    Config
	log    *logger.Logger
	now    func() time.Time
	newOTP func() (string, error)
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	otps repository.OTPRepository,
	issuer TokenIssuer,
	cfg Config,
	log *logger.Logger,
) *AuthUseCase {
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	if cfg.OTPMaxAttempts <= 0 {
		cfg.OTPMaxAttempts = 5
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		users:  users,
		tokens: tokens,
		otps:   otps,
		issuer: issuer,
		cfg:    cfg,
		log:    log.Named("auth"),
		now:    time.Now,
		newOTP: generateOTP,
	}
}

// NormalizeEmail minúsculas y sin espacios.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup crea un usuario con rol user. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.AuthUserResponse, error) {
	email := NormalizeEmail(in.Email)
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Role:         entity.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	out := dto.ToAuthUserResponse(user)
	return &out, nil
}

// dummyHash iguala el costo de bcrypt cuando el email no existe.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("tienda-api-placeholder"), bcrypt.DefaultCost)

// Login verifica credenciales y emite el par access/refresh. Email desconocido y password
// incorrecta devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.GetByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		uc.log.Debug().Msg("login con email desconocido")
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Debug().Str("user_id", user.ID).Msg("login con password incorrecta")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}

	now := uc.now()
	if err := uc.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	access, err := uc.issuer.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := uc.issuer.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := uc.tokens.Create(ctx, &entity.RefreshToken{
		Token:     refresh,
		UserID:    user.ID,
		ExpiresAt: now.Add(uc.cfg.RefreshTTL),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		User:         dto.ToAuthUserResponse(user),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Logout revoca el refresh token si existe. Idempotente; token vacío no hace nada.
func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return uc.tokens.Revoke(ctx, refreshToken)
}

// Refresh emite un nuevo access token a partir de un refresh token vigente y no revocado.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	claims, err := uc.issuer.Verify(refreshToken, jwt.Refresh)
	if err != nil {
		return nil, domain.ErrInvalidRefreshToken
	}
	rec, err := uc.tokens.FindActive(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrRefreshTokenRevoked
	}
	if rec.IsExpired(uc.now()) {
		return nil, domain.ErrRefreshTokenExpired
	}
	user, err := uc.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrInvalidRefreshToken
	}
	access, err := uc.issuer.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	return &dto.RefreshResponse{AccessToken: access}, nil
}

// ForgotPassword emite un OTP si el email existe. La respuesta es la misma exista o no.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, email string) (*dto.ForgotPasswordResponse, error) {
	email = NormalizeEmail(email)
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &dto.ForgotPasswordResponse{}, nil
	}
	code, err := uc.newOTP()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	now := uc.now()
	if err := uc.otps.Create(ctx, &entity.OTP{
		ID:        uuid.New().String(),
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(uc.cfg.OTPTTL),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	uc.log.Debug().Str("email", email).Str("otp", code).Msg("OTP emitido")
	if uc.cfg.ExposeOTP {
		return &dto.ForgotPasswordResponse{OTP: code}, nil
	}
	return &dto.ForgotPasswordResponse{}, nil
}

// ResetPassword consume un OTP válido, cambia la contraseña y revoca todas las sesiones.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	email := NormalizeEmail(in.Email)
	otp, err := uc.otps.FindValid(ctx, email, in.OTP, uc.now())
	if err != nil {
		return err
	}
	if otp == nil {
		if err := uc.otps.IncrementAttempts(ctx, email, in.OTP); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo registrar el intento de OTP")
		}
		return domain.ErrInvalidOTP
	}
	if otp.Attempts >= uc.cfg.OTPMaxAttempts {
		return domain.ErrTooManyOTPAttempts
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), uc.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := uc.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	if err := uc.otps.MarkUsed(ctx, otp.ID); err != nil {
		return err
	}
	return uc.tokens.RevokeAllForUser(ctx, user.ID)
}

// PurgeExpired elimina OTP y refresh tokens vencidos. Devuelve la cantidad borrada.
func (uc *AuthUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	now := uc.now()
	tokens, err := uc.tokens.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("purge refresh tokens: %w", err)
	}
	otps, err := uc.otps.DeleteExpired(ctx, now)
	if err != nil {
		return tokens, fmt.Errorf("purge otps: %w", err)
	}
	return tokens + otps, nil
}

var otpRange = big.NewInt(900000)

// generateOTP código de 6 dígitos (100000–999999) desde crypto/rand.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpRange)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
