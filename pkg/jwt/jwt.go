package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Class distingue el tipo de token: cada clase se firma con su propio secreto.
type Class string

const (
	Access  Class = "access"
	Refresh Class = "refresh"
)

var (
	// ErrInvalidToken firma incorrecta, token malformado o de otra clase.
	ErrInvalidToken = errors.New("jwt: token inválido")
	// ErrTokenExpired el token venció.
	ErrTokenExpired = errors.New("jwt: token expirado")
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role solo viaja en access tokens para que el middleware RBAC decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	Type   Class  `json:"typ"`
}

// Config secretos y duraciones del emisor.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Issuer emite y verifica access/refresh tokens HS256.
type Issuer struct {
	cfg Config
	now func() time.Time
}

// NewIssuer valida la configuración y construye el emisor.
func NewIssuer(cfg Config) (*Issuer, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, fmt.Errorf("jwt: access y refresh no pueden compartir secreto")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Issuer{cfg: cfg, now: time.Now}, nil
}

// RefreshTTL duración configurada del refresh token (el ledger usa la misma).
func (i *Issuer) RefreshTTL() time.Duration { return i.cfg.RefreshTTL }

// IssueAccessToken firma un token corto con userID y role.
func (i *Issuer) IssueAccessToken(userID, role string) (string, error) {
	return i.sign(Access, userID, role, i.cfg.AccessTTL)
}

// IssueRefreshToken firma un token largo solo con userID. El jti aleatorio
// garantiza unicidad aunque se emitan dos en el mismo segundo.
func (i *Issuer) IssueRefreshToken(userID string) (string, error) {
	return i.sign(Refresh, userID, "", i.cfg.RefreshTTL)
}

func (i *Issuer) sign(class Class, userID, role string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Role:   role,
		Type:   class,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret(class))
}

// Verify valida firma, expiración y clase. Devuelve ErrTokenExpired o ErrInvalidToken.
func (i *Issuer) Verify(tokenString string, class Class) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return i.secret(class), nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Type != class || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (i *Issuer) secret(class Class) []byte {
	if class == Refresh {
		return []byte(i.cfg.RefreshSecret)
	}
	return []byte(i.cfg.AccessSecret)
}
