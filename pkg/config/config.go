package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
// Se construye una sola vez en main y se pasa explícitamente a cada constructor.
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	OTP       OTPConfig
	HTTP      HTTPConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Payment   PaymentConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	Version     string
	BuildDate   string
	LogLevel    string
	ErrorRoutes bool // habilita /api/error/* (simulacros de monitoreo)
}

// IsDevelopment indica si la app corre en modo desarrollo.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver               string // postgres | memory (demo sin base de datos)
	DatabaseURL          string
	Host                 string
	Port                 int
	User                 string
	Password             string
	DBName               string
	SSLMode              string
	MaxConns             int
	AutoMigrate          bool
	PurgeIntervalMinutes int // limpieza de OTP y refresh tokens vencidos
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de tokens. Access y refresh usan secretos distintos.
type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpMinutes int
	RefreshExpDays   int
	Issuer           string
}

// AccessTTL duración del access token.
func (c JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessExpMinutes) * time.Minute
}

// RefreshTTL duración del refresh token (y de su registro en la tabla refresh_tokens).
func (c JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshExpDays) * 24 * time.Hour
}

// OTPConfig configuración de códigos de recuperación de contraseña.
type OTPConfig struct {
	ExpMinutes  int
	MaxAttempts int
}

// TTL duración de un OTP.
func (c OTPConfig) TTL() time.Duration {
	return time.Duration(c.ExpMinutes) * time.Minute
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Limit ventana fija: Max peticiones cada Window.
type Limit struct {
	Max    int
	Window time.Duration
}

// RateLimitConfig límites por familia de rutas.
type RateLimitConfig struct {
	Enabled       bool
	General       Limit
	Login         Limit
	Signup        Limit
	PasswordReset Limit
	Payment       Limit
	Cart          Limit
}

// RedisConfig almacenamiento compartido del rate limiter. Addr vacío = memoria local.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PaymentConfig probabilidades de éxito de la pasarela simulada.
type PaymentConfig struct {
	IntentSuccessRate  float64
	ConfirmSuccessRate float64
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_ACCESS_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "tienda-api"),
			Version:     getString(v, "API_VERSION", "1.0.0"),
			BuildDate:   getString(v, "BUILD_DATE", ""),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			ErrorRoutes: getBool(v, "APP_ERROR_ROUTES", false),
		},
		DB: DBConfig{
			Driver:               getString(v, "STORAGE_DRIVER", "postgres"),
			DatabaseURL:          getString(v, "DATABASE_URL", ""),
			Host:                 getString(v, "DB_HOST", "localhost"),
			Port:                 getInt(v, "DB_PORT", 5432),
			User:                 getString(v, "DB_USER", "postgres"),
			Password:             getString(v, "DB_PASSWORD", ""),
			DBName:               getString(v, "DB_NAME", "tienda"),
			SSLMode:              getString(v, "DB_SSLMODE", "disable"),
			MaxConns:             getInt(v, "DB_MAX_CONNS", 25),
			AutoMigrate:          getBool(v, "DB_AUTO_MIGRATE", true),
			PurgeIntervalMinutes: getInt(v, "DB_PURGE_INTERVAL_MINUTES", 60),
		},
		JWT: JWTConfig{
			AccessSecret:     getString(v, "JWT_ACCESS_SECRET", ""),
			RefreshSecret:    getString(v, "JWT_REFRESH_SECRET", ""),
			AccessExpMinutes: getInt(v, "JWT_ACCESS_EXPIRATION_MINUTES", 60),
			RefreshExpDays:   getInt(v, "JWT_REFRESH_EXPIRATION_DAYS", 7),
			Issuer:           getString(v, "JWT_ISSUER", "tienda-api"),
		},
		OTP: OTPConfig{
			ExpMinutes:  getInt(v, "OTP_EXPIRATION_MINUTES", 10),
			MaxAttempts: getInt(v, "OTP_MAX_ATTEMPTS", 5),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getBool(v, "RATE_LIMIT_ENABLED", true),
			General:       Limit{Max: getInt(v, "RATE_LIMIT_MAX_REQUESTS", 100), Window: getMinutes(v, "RATE_LIMIT_WINDOW_MINUTES", 15)},
			Login:         Limit{Max: getInt(v, "AUTH_RATE_LIMIT_MAX", 5), Window: 15 * time.Minute},
			Signup:        Limit{Max: getInt(v, "SIGNUP_RATE_LIMIT_MAX", 3), Window: 15 * time.Minute},
			PasswordReset: Limit{Max: getInt(v, "PASSWORD_RESET_RATE_LIMIT_MAX", 3), Window: 15 * time.Minute},
			Payment:       Limit{Max: getInt(v, "PAYMENT_RATE_LIMIT_MAX", 10), Window: 15 * time.Minute},
			Cart:          Limit{Max: getInt(v, "CART_RATE_LIMIT_MAX", 30), Window: time.Minute},
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Payment: PaymentConfig{
			IntentSuccessRate:  getFloat(v, "PAYMENT_INTENT_SUCCESS_RATE", 0.8),
			ConfirmSuccessRate: getFloat(v, "PAYMENT_CONFIRM_SUCCESS_RATE", 0.9),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return fmt.Errorf("config: JWT_ACCESS_SECRET y JWT_REFRESH_SECRET son obligatorios")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return fmt.Errorf("config: los secretos de access y refresh deben ser distintos")
	}
	if c.DB.Driver != "postgres" && c.DB.Driver != "memory" {
		return fmt.Errorf("config: STORAGE_DRIVER debe ser postgres o memory")
	}
	if c.OTP.MaxAttempts <= 0 {
		c.OTP.MaxAttempts = 5
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		return v.GetFloat64(key)
	}
	return def
}

func getMinutes(v *viper.Viper, key string, def int) time.Duration {
	return time.Duration(getInt(v, key, def)) * time.Minute
}
