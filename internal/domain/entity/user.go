package entity

import "time"

// Roles válidos para User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Address dirección postal (perfil de usuario y envío de pedidos).
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// IsZero indica si la dirección no tiene ningún campo.
func (a Address) IsZero() bool {
	return a == Address{}
}

// User representa una cuenta de la tienda.
type User struct {
	ID           string
	Name         string
	Email        string // siempre en minúsculas y sin espacios
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Phone        string
	Address      Address
	Role         string // user, admin
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario tiene rol admin.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
