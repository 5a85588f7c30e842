package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/tienda-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-api/pkg/config"
	pkgjwt "github.com/jhoicas/tienda-api/pkg/jwt"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testPassword = "Secreta123!"

type testEnv struct {
	app    *fiber.App
	store  *memory.Store
	issuer *pkgjwt.Issuer
}

type envelope struct {
	Success    bool            `json:"success"`
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *dto.Pagination `json:"pagination"`
}

type envOption func(*apphttp.RouterDeps)

// newTestEnv arma la API completa sobre el store en memoria, con pagos siempre exitosos
// y OTP expuesto (development).
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	store := memory.NewStore()
	issuer, err := pkgjwt.NewIssuer(pkgjwt.Config{
		AccessSecret:  "access-secret-http-tests",
		RefreshSecret: "refresh-secret-http-tests",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "tienda-api-test",
	})
	require.NoError(t, err)

	log := logger.Nop()
	authUC := auth.NewAuthUseCase(store.Users(), store.RefreshTokens(), store.OTPs(), issuer, auth.Config{
		RefreshTTL: issuer.RefreshTTL(),
		ExposeOTP:  true,
		BcryptCost: bcrypt.MinCost,
	}, log)
	always := func() float64 { return 0 }

	deps := apphttp.RouterDeps{
		AuthUC:    authUC,
		UserUC:    usecase.NewUserUseCase(store.Users()),
		ProductUC: usecase.NewProductUseCase(store.Products()),
		CartUC:    usecase.NewCartUseCase(store.Carts(), store.Products()),
		OrderUC:   order.NewOrderUseCase(store, store.Orders(), store.Users(), pdf.NewReceiptGenerator("Tienda Test"), log),
		PaymentUC: usecase.NewPaymentUseCase(store.Orders(), usecase.PaymentConfig{IntentSuccessRate: 0.8, ConfirmSuccessRate: 0.9}, always, log),
		Verifier:  issuer,
		App:       config.AppConfig{Env: "test", Version: "1.2.3", BuildDate: "2026-01-01"},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, deps)
	return &testEnv{app: app, store: store, issuer: issuer}
}

// do lanza la petición y decodifica el envelope.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	resp := e.raw(t, method, path, token, body)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (e *testEnv) raw(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// seedUser crea un usuario directo en el store y devuelve su id y un access token.
func (e *testEnv) seedUser(t *testing.T, email, role string) (string, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	u := &entity.User{
		ID:           uuid.NewString(),
		Name:         "Usuario " + role,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	tok, err := e.issuer.IssueAccessToken(u.ID, role)
	require.NoError(t, err)
	return u.ID, tok
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}
