package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	apphttp "github.com/jhoicas/tienda-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-api/pkg/config"
)

var shipping = map[string]string{
	"street":  "Calle 10 # 5-20",
	"city":    "Bogotá",
	"state":   "Cundinamarca",
	"zipCode": "110111",
	"country": "Colombia",
}

func createProduct(t *testing.T, env *testEnv, adminToken, name string, price string, stock int) dto.ProductResponse {
	t.Helper()
	status, body := env.do(t, http.MethodPost, "/api/products", adminToken, map[string]interface{}{
		"name":        name,
		"description": "Producto de prueba para la API",
		"price":       price,
		"category":    "Electronics",
		"stock":       stock,
	})
	require.Equal(t, http.StatusCreated, status, body.Message)
	return decode[dto.ProductResponse](t, body.Data)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_FlujoCompraAlice(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin@tienda.test", "admin")
	p1 := createProduct(t, env, adminToken, "Teclado P1", "20.00", 10)

	status, body := env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Alice", "email": "  Alice@Example.com ", "password": testPassword,
	})
	require.Equal(t, http.StatusCreated, status, body.Message)
	signed := decode[dto.AuthUserResponse](t, body.Data)
	assert.Equal(t, "alice@example.com", signed.Email)
	assert.Equal(t, "user", signed.Role)
	assert.NotContains(t, string(body.Data), "password")

	status, body = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": testPassword,
	})
	require.Equal(t, http.StatusOK, status, body.Message)
	login := decode[dto.LoginResponse](t, body.Data)
	require.NotEmpty(t, login.AccessToken)
	require.NotEmpty(t, login.RefreshToken)
	token := login.AccessToken

	status, body = env.do(t, http.MethodPost, "/api/cart/add", token, map[string]interface{}{
		"productId": p1.ID, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, status, body.Message)
	cart := decode[dto.CartResponse](t, body.Data)
	assert.True(t, decimal.RequireFromString("40").Equal(cart.TotalAmount), cart.TotalAmount.String())
	require.Len(t, cart.Items, 1)
	require.NotNil(t, cart.Items[0].Product)
	assert.Equal(t, "Teclado P1", cart.Items[0].Product.Name)

	status, body = env.do(t, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"shippingAddress": shipping,
	})
	require.Equal(t, http.StatusCreated, status, body.Message)
	placed := decode[dto.CreateOrderResponse](t, body.Data)
	assert.True(t, decimal.RequireFromString("40").Equal(placed.TotalAmount))
	assert.Equal(t, "pending", placed.Status)
	assert.Equal(t, "credit_card", placed.Order.PaymentMethod)
	assert.Regexp(t, `^ORD-\d+-[0-9A-F]{8}$`, placed.OrderID)

	// stock descontado y carrito vacío
	_, body = env.do(t, http.MethodGet, "/api/products/"+p1.ID, "", nil)
	assert.Equal(t, 8, decode[dto.ProductResponse](t, body.Data).Stock)
	_, body = env.do(t, http.MethodGet, "/api/cart", token, nil)
	cart = decode[dto.CartResponse](t, body.Data)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalAmount.IsZero())

	// listado con paginación
	status, body = env.do(t, http.MethodGet, "/api/orders?page=1&limit=5", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 1, body.Pagination.Total)
	assert.Equal(t, 5, body.Pagination.Limit)

	// pago: intención + confirmación (dado siempre exitoso)
	status, body = env.do(t, http.MethodPost, "/api/payment/intent", token, map[string]interface{}{
		"orderId": placed.OrderID, "amount": "40.00",
	})
	require.Equal(t, http.StatusOK, status, body.Message)
	intent := decode[dto.PaymentIntentResponse](t, body.Data)
	assert.Regexp(t, `^PAY-\d+-[0-9A-F]{8}$`, intent.PaymentID)

	status, body = env.do(t, http.MethodPost, "/api/payment/confirm", token, map[string]string{
		"paymentId": intent.PaymentID, "orderId": placed.OrderID,
	})
	require.Equal(t, http.StatusOK, status, body.Message)
	confirmed := decode[dto.ConfirmPaymentResponse](t, body.Data)
	assert.Equal(t, "completed", confirmed.Status)
	require.NotNil(t, confirmed.Order)
	assert.Equal(t, "processing", confirmed.Order.Status)

	// un pago completado no se reconfirma
	status, body = env.do(t, http.MethodPost, "/api/payment/confirm", token, map[string]string{
		"paymentId": intent.PaymentID, "orderId": placed.OrderID,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_TRANSITION", body.Code)

	// comprobante PDF
	resp := env.raw(t, http.MethodGet, "/api/orders/"+placed.Order.ID+"/receipt", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), placed.OrderID+".pdf")
	pdfBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Login_EmailDesconocidoYPasswordIncorrectoSonIndistinguibles(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "bob@tienda.test", "user")

	s1, b1 := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "bob@tienda.test", "password": "Incorrecta1!"})
	s2, b2 := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nadie@tienda.test", "password": "Incorrecta1!"})

	assert.Equal(t, http.StatusUnauthorized, s1)
	assert.Equal(t, s1, s2)
	assert.Equal(t, b1.Code, b2.Code)
	assert.Equal(t, b1.Message, b2.Message)
}

func TestAPI_Signup_ValidaPasswordYEmailDuplicado(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Carla", "email": "carla@tienda.test", "password": "sinmayusculas1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
	fields := decode[[]apphttp.FieldError](t, body.Data)
	require.NotEmpty(t, fields)
	assert.Equal(t, "password", fields[0].Field)

	ok := map[string]string{"name": "Carla", "email": "carla@tienda.test", "password": testPassword}
	status, _ = env.do(t, http.MethodPost, "/api/auth/signup", "", ok)
	require.Equal(t, http.StatusCreated, status)
	status, body = env.do(t, http.MethodPost, "/api/auth/signup", "", ok)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_EXISTS", body.Code)
}

func TestAPI_Signup_BodyInvalido(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.do(t, http.MethodPost, "/api/auth/signup", "", "no-es-un-objeto")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", body.Code)
	assert.False(t, body.Success)
}

func TestAPI_RefreshYLogout(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "dan@tienda.test", "user")

	_, body := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "dan@tienda.test", "password": testPassword})
	login := decode[dto.LoginResponse](t, body.Data)

	status, body := env.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": login.RefreshToken})
	require.Equal(t, http.StatusOK, status, body.Message)
	refreshed := decode[dto.RefreshResponse](t, body.Data)
	status, _ = env.do(t, http.MethodGet, "/api/users/me", refreshed.AccessToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.do(t, http.MethodPost, "/api/auth/logout", "", map[string]string{"refreshToken": login.RefreshToken})
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "REFRESH_TOKEN_REVOKED", body.Code)

	// logout sin body es idempotente
	status, _ = env.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_RecuperacionDePassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "eva@tienda.test", "user")

	// email desconocido: respuesta de éxito sin OTP
	status, body := env.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "nadie@tienda.test"})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	assert.Empty(t, body.Data)
	assert.Equal(t, 0, env.store.OTPCount("nadie@tienda.test"))

	status, body = env.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "eva@tienda.test"})
	require.Equal(t, http.StatusOK, status)
	otp := decode[dto.ForgotPasswordResponse](t, body.Data).OTP
	assert.Regexp(t, `^\d{6}$`, otp)

	status, body = env.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"email": "eva@tienda.test", "otp": "000000", "newPassword": "NuevaClave9$",
	})
	if otp != "000000" {
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_OTP", body.Code)
	}

	status, body = env.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"email": "eva@tienda.test", "otp": otp, "newPassword": "NuevaClave9$",
	})
	require.Equal(t, http.StatusOK, status, body.Message)

	status, _ = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "eva@tienda.test", "password": "NuevaClave9$"})
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "eva@tienda.test", "password": testPassword})
	assert.Equal(t, http.StatusUnauthorized, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos, usuarios y pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Productos_EscrituraSoloAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.seedUser(t, "user@tienda.test", "user")
	_, adminToken := env.seedUser(t, "admin@tienda.test", "admin")

	status, _ := env.do(t, http.MethodPost, "/api/products", "", map[string]string{"name": "X"})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = env.do(t, http.MethodPost, "/api/products", userToken, map[string]string{"name": "X"})
	assert.Equal(t, http.StatusForbidden, status)

	p := createProduct(t, env, adminToken, "Monitor 27", "199.99", 3)

	status, body := env.do(t, http.MethodPost, "/api/products", adminToken, map[string]interface{}{
		"name": "monitor 27", "description": "Duplicado por nombre", "price": 10, "category": "Electronics", "stock": 1,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", body.Code)

	status, body = env.do(t, http.MethodPut, "/api/products/"+p.ID, adminToken, map[string]interface{}{"price": "149.50"})
	require.Equal(t, http.StatusOK, status, body.Message)
	assert.True(t, decimal.RequireFromString("149.50").Equal(decode[dto.ProductResponse](t, body.Data).Price))

	status, body = env.do(t, http.MethodGet, "/api/products/no-es-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "PRODUCT_NOT_FOUND", body.Code)

	status, _ = env.do(t, http.MethodDelete, "/api/products/"+p.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodGet, "/api/products/"+p.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_Productos_ListadoConFiltros(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin@tienda.test", "admin")
	createProduct(t, env, adminToken, "Audífonos", "50", 5)
	createProduct(t, env, adminToken, "Parlante", "80", 5)
	createProduct(t, env, adminToken, "Cable USB", "5", 5)

	status, body := env.do(t, http.MethodGet, "/api/products?minPrice=10&sortBy=price&sortOrder=asc&limit=1", "", nil)
	require.Equal(t, http.StatusOK, status, body.Message)
	items := decode[[]dto.ProductResponse](t, body.Data)
	require.Len(t, items, 1)
	assert.Equal(t, "Audífonos", items[0].Name)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 2, body.Pagination.Total)
	assert.Equal(t, 2, body.Pagination.Pages)

	status, body = env.do(t, http.MethodGet, "/api/products?sortBy=stock", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestAPI_Paginacion_PaginaEnormeEsErrorDeValidacion(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin@tienda.test", "admin")
	_, userToken := env.seedUser(t, "user@tienda.test", "user")
	createProduct(t, env, adminToken, "Teclado", "30", 5)

	status, body := env.do(t, http.MethodGet, "/api/products?page=1000000000000000000&limit=10", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)

	status, body = env.do(t, http.MethodGet, "/api/orders?page=1000000000000000000&limit=10", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)

	// la última página permitida responde vacía, sin error
	status, body = env.do(t, http.MethodGet, "/api/products?page=100000&limit=100", "", nil)
	require.Equal(t, http.StatusOK, status, body.Message)
	assert.Empty(t, decode[[]dto.ProductResponse](t, body.Data))
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 1, body.Pagination.Total)
}

func TestAPI_Usuarios_AdminNoPuedeBorrarseASiMismo(t *testing.T) {
	env := newTestEnv(t)
	adminID, adminToken := env.seedUser(t, "admin@tienda.test", "admin")
	userID, userToken := env.seedUser(t, "user@tienda.test", "user")

	status, _ := env.do(t, http.MethodDelete, "/api/users/"+adminID, userToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := env.do(t, http.MethodDelete, "/api/users/"+adminID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "SELF_DELETION", body.Code)

	status, _ = env.do(t, http.MethodDelete, "/api/users/"+userID, adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodDelete, "/api/users/"+userID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_Usuarios_ActualizarPerfil(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "fer@tienda.test", "user")

	status, body := env.do(t, http.MethodPut, "/api/users/me", token, map[string]interface{}{
		"phone": "123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)

	status, body = env.do(t, http.MethodPut, "/api/users/me", token, map[string]interface{}{
		"name": "Fernanda", "phone": "3001234567", "address": map[string]string{"city": "Medellín"},
	})
	require.Equal(t, http.StatusOK, status, body.Message)
	me := decode[dto.UserResponse](t, body.Data)
	assert.Equal(t, "Fernanda", me.Name)
	assert.Equal(t, "3001234567", me.Phone)
}

func TestAPI_Pedidos_SoloDuenoOAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin@tienda.test", "admin")
	_, ownerToken := env.seedUser(t, "owner@tienda.test", "user")
	_, otherToken := env.seedUser(t, "other@tienda.test", "user")
	p := createProduct(t, env, adminToken, "Mouse", "15", 5)

	env.do(t, http.MethodPost, "/api/cart/add", ownerToken, map[string]interface{}{"productId": p.ID, "quantity": 1})
	_, body := env.do(t, http.MethodPost, "/api/orders", ownerToken, map[string]interface{}{"shippingAddress": shipping, "paymentMethod": "cod"})
	placed := decode[dto.CreateOrderResponse](t, body.Data)

	status, _ := env.do(t, http.MethodGet, "/api/orders/"+placed.Order.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = env.do(t, http.MethodGet, "/api/orders/"+placed.Order.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodGet, "/api/orders/"+placed.Order.ID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, status)

	// otro usuario no puede iniciar un pago sobre el pedido ajeno
	status, _ = env.do(t, http.MethodPost, "/api/payment/intent", otherToken, map[string]interface{}{"orderId": placed.OrderID, "amount": 15})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAPI_Pedidos_StockInsuficienteYCarritoVacio(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin@tienda.test", "admin")
	_, token := env.seedUser(t, "gus@tienda.test", "user")
	p := createProduct(t, env, adminToken, "Webcam", "30", 2)

	status, body := env.do(t, http.MethodPost, "/api/orders", token, map[string]interface{}{"shippingAddress": shipping})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "EMPTY_CART", body.Code)

	status, body = env.do(t, http.MethodPost, "/api/cart/add", token, map[string]interface{}{"productId": p.ID, "quantity": 3})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Contains(t, body.Message, "2")

	status, body = env.do(t, http.MethodPost, "/api/orders", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Utilidades y límites
// ──────────────────────────────────────────────────────────────────────────────

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestAPI_HealthYVersion(t *testing.T) {
	env := newTestEnv(t, func(d *apphttp.RouterDeps) { d.DB = stubPinger{} })

	resp := env.raw(t, http.MethodGet, "/api/health", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[map[string]interface{}](t, mustRead(t, resp.Body))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "connected", health["database"])
	assert.Equal(t, "test", health["environment"])

	resp2 := env.raw(t, http.MethodGet, "/api/version", "", nil)
	defer resp2.Body.Close()
	version := decode[map[string]interface{}](t, mustRead(t, resp2.Body))
	assert.Equal(t, "1.2.3", version["version"])
	assert.NotEmpty(t, version["goVersion"])
}

func TestAPI_HealthSinBaseDeDatos(t *testing.T) {
	env := newTestEnv(t)
	resp := env.raw(t, http.MethodGet, "/api/health", "", nil)
	defer resp.Body.Close()
	health := decode[map[string]interface{}](t, mustRead(t, resp.Body))
	assert.Equal(t, "disconnected", health["database"])
}

func TestAPI_HealthReportaCache(t *testing.T) {
	env := newTestEnv(t, func(d *apphttp.RouterDeps) {
		d.DB = stubPinger{}
		d.Cache = stubPinger{err: errors.New("redis caído")}
	})
	resp := env.raw(t, http.MethodGet, "/api/health", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[map[string]interface{}](t, mustRead(t, resp.Body))
	assert.Equal(t, "connected", health["database"])
	assert.Equal(t, "disconnected", health["cache"])

	env = newTestEnv(t)
	resp2 := env.raw(t, http.MethodGet, "/api/health", "", nil)
	defer resp2.Body.Close()
	health = decode[map[string]interface{}](t, mustRead(t, resp2.Body))
	_, present := health["cache"]
	assert.False(t, present, "sin Redis no se reporta cache")
}

func TestAPI_RutasDeErrorSoloSiEstanHabilitadas(t *testing.T) {
	env := newTestEnv(t)
	status, _ := env.do(t, http.MethodGet, "/api/error/500", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	env = newTestEnv(t, func(d *apphttp.RouterDeps) { d.App.ErrorRoutes = true })
	status, body := env.do(t, http.MethodGet, "/api/error/500", "", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "intencional", "el detalle interno no se expone")
}

func TestAPI_LimiteDeLogin(t *testing.T) {
	limits := apphttp.NewRateLimiters(config.RateLimitConfig{
		Enabled: true,
		Login:   config.Limit{Max: 2, Window: time.Minute},
	}, nil)
	env := newTestEnv(t, func(d *apphttp.RouterDeps) { d.Limits = limits })

	creds := map[string]string{"email": "x@tienda.test", "password": "Incorrecta1!"}
	for i := 0; i < 2; i++ {
		status, _ := env.do(t, http.MethodPost, "/api/auth/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, status)
	}
	status, body := env.do(t, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", body.Code)

	// otras rutas no comparten el contador de login
	status, _ = env.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func mustRead(t *testing.T, r io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return b
}
