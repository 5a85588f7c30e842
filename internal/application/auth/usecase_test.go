package auth

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-api/pkg/jwt"
)

const testPassword = "Secret#123"

type fixture struct {
	store *memory.Store
	uc    *AuthUseCase
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	iss, err := jwt.NewIssuer(jwt.Config{
		AccessSecret:  "access-secret-for-auth-tests",
		RefreshSecret: "refresh-secret-for-auth-tests",
		AccessTTL:     time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	store := memory.NewStore()
	f := &fixture{store: store, now: time.Now()}
	f.uc = NewAuthUseCase(store.Users(), store.RefreshTokens(), store.OTPs(), iss, Config{
		RefreshTTL:     7 * 24 * time.Hour,
		OTPTTL:         10 * time.Minute,
		OTPMaxAttempts: 5,
		BcryptCost:     bcrypt.MinCost,
	}, nil)
	f.uc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) signup(t *testing.T, email string) *dto.AuthUserResponse {
	t.Helper()
	u, err := f.uc.Signup(context.Background(), dto.SignupRequest{Name: "Alice", Email: email, Password: testPassword})
	require.NoError(t, err)
	return u
}

// ──────────────────────────────────────────────────────────────────────────────
// Signup / Login
// ──────────────────────────────────────────────────────────────────────────────

func TestSignup_GuardaHashYNormalizaEmail(t *testing.T) {
	f := newFixture(t)
	out := f.signup(t, "  Alice@Example.COM ")

	assert.Equal(t, "alice@example.com", out.Email)
	assert.Equal(t, entity.RoleUser, out.Role)

	stored, err := f.store.Users().GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, testPassword, stored.PasswordHash, "nunca se guarda la contraseña en claro")
	assert.True(t, stored.IsActive)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: testPassword})
	assert.NoError(t, err, "login con la contraseña original debe funcionar")
}

func TestSignup_EmailDuplicado(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice@example.com")

	_, err := f.uc.Signup(context.Background(), dto.SignupRequest{Name: "Otra", Email: "ALICE@example.com", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_EmailDesconocidoYPasswordIncorrectaSonIndistinguibles(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice@example.com")

	_, errUnknown := f.uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: testPassword})
	_, errWrong := f.uc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "Wrong#123"})

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, domain.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLogin_CuentaDesactivada(t *testing.T) {
	f := newFixture(t)
	u := f.signup(t, "alice@example.com")

	stored, _ := f.store.Users().GetByID(context.Background(), u.ID)
	stored.IsActive = false
	require.NoError(t, f.store.Users().Update(context.Background(), stored))

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrAccountDeactivated)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "Wrong#123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "sin password correcta no se revela el estado de la cuenta")
}

func TestLogin_RegistraLastLoginYRefreshToken(t *testing.T) {
	f := newFixture(t)
	u := f.signup(t, "alice@example.com")

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, u.ID, out.User.ID)

	stored, _ := f.store.Users().GetByID(context.Background(), u.ID)
	require.NotNil(t, stored.LastLogin)

	rec, err := f.store.RefreshTokens().FindActive(context.Background(), out.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.WithinDuration(t, f.now.Add(7*24*time.Hour), rec.ExpiresAt, time.Second)
}

// ──────────────────────────────────────────────────────────────────────────────
// Refresh / Logout
// ──────────────────────────────────────────────────────────────────────────────

func TestRefresh_EmiteNuevoAccessToken(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice@example.com")
	login, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: testPassword})
	require.NoError(t, err)

	out, err := f.uc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
}

func TestRefresh_TokenRevocadoNuncaEmiteAccess(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice@example.com")
	login, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, f.uc.Logout(context.Background(), login.RefreshToken))
	require.NoError(t, f.uc.Logout(context.Background(), login.RefreshToken), "logout es idempotente")

	_, err = f.uc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenRevoked)
}

func TestRefresh_TokenInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Refresh(context.Background(), "no.es.un.token")
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestRefresh_VencidoEnLedger(t *testing.T) {
	f := newFixture(t)
	u := f.signup(t, "alice@example.com")
	login, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: testPassword})
	require.NoError(t, err)

	// El ledger vence antes que la firma: se reemplaza el registro con expiración pasada.
	require.NoError(t, f.store.RefreshTokens().Create(context.Background(), &entity.RefreshToken{
		Token:     login.RefreshToken,
		UserID:    u.ID,
		ExpiresAt: f.now.Add(-time.Minute),
	}))

	_, err = f.uc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenExpired)
}

func TestLogout_TokenVacioNoEsError(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.uc.Logout(context.Background(), ""))
	assert.NoError(t, f.uc.Logout(context.Background(), "desconocido"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Forgot / Reset password
// ──────────────────────────────────────────────────────────────────────────────

func TestForgotPassword_EmailDesconocidoNoCreaOTP(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.ForgotPassword(context.Background(), "nadie@example.com")
	require.NoError(t, err)
	assert.Empty(t, out.OTP)
	assert.Equal(t, 0, f.store.OTPCount("nadie@example.com"))
}

func TestForgotPassword_EmailConocidoCreaUnOTP(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice@example.com")

	out, err := f.uc.ForgotPassword(context.Background(), "Alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, out.OTP, "fuera de development el OTP no viaja en la respuesta")

	assert.Equal(t, 1, f.store.OTPCount("alice@example.com"))
	otp := f.store.LatestOTP("alice@example.com")
	require.NotNil(t, otp)
	assert.Regexp(t, regexp.MustCompile(`^[1-9][0-9]{5}$`), otp.Code)
	assert.WithinDuration(t, f.now.Add(10*time.Minute), otp.ExpiresAt, time.Second)
	assert.Equal(t, 0, otp.Attempts)
}

func TestForgotPassword_ExponeOTPEnDevelopment(t *testing.T) {
	f := newFixture(t)
	f.uc.cfg.ExposeOTP = true
	f.signup(t, "alice@example.com")

	out, err := f.uc.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, f.store.LatestOTP("alice@example.com").Code, out.OTP)
}

func TestResetPassword_CambiaPasswordYRevocaSesiones(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice@example.com")
	login, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: testPassword})
	require.NoError(t, err)

	_, err = f.uc.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	code := f.store.LatestOTP("alice@example.com").Code

	require.NoError(t, f.uc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
		Email: "alice@example.com", OTP: code, NewPassword: "Nueva#456",
	}))

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: "Nueva#456"})
	assert.NoError(t, err)

	_, err = f.uc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenRevoked, "el reset revoca todos los refresh tokens")

	err = f.uc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
		Email: "alice@example.com", OTP: code, NewPassword: "Otra#7890",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOTP, "un OTP usado no se puede reutilizar")
}

func TestResetPassword_FallidoIncrementaIntentosYNoCambiaPassword(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice@example.com")
	_, err := f.uc.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	code := f.store.LatestOTP("alice@example.com").Code

	// Vencido: la búsqueda falla pero el registro email+code sigue existiendo.
	f.now = f.now.Add(11 * time.Minute)
	prev := 0
	for i := 0; i < 3; i++ {
		err := f.uc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
			Email: "alice@example.com", OTP: code, NewPassword: "Nueva#456",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidOTP)
		attempts := f.store.LatestOTP("alice@example.com").Attempts
		assert.Greater(t, attempts, prev, "los intentos crecen en cada fallo")
		prev = attempts
	}

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: testPassword})
	assert.NoError(t, err, "la contraseña no cambia tras intentos fallidos")
}

func TestResetPassword_TopeDeIntentosAunConCodigoCorrecto(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice@example.com")
	require.NoError(t, f.store.OTPs().Create(context.Background(), &entity.OTP{
		ID:        "otp-1",
		Email:     "alice@example.com",
		Code:      "123456",
		ExpiresAt: f.now.Add(5 * time.Minute),
		Attempts:  5,
	}))

	err := f.uc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
		Email: "alice@example.com", OTP: "123456", NewPassword: "Nueva#456",
	})
	assert.ErrorIs(t, err, domain.ErrTooManyOTPAttempts)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "alice@example.com", Password: testPassword})
	assert.NoError(t, err)
}

func TestPurgeExpired(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice@example.com")
	_, err := f.uc.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	n, err := f.uc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 0, f.store.OTPCount("alice@example.com"))
}

func TestGenerateOTP_SeisDigitos(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.NotEqual(t, byte('0'), code[0])
	}
}
