package dto

import "time"

// AddressDTO dirección en requests y respuestas.
type AddressDTO struct {
	Street  string `json:"street" validate:"omitempty,max=200"`
	City    string `json:"city" validate:"omitempty,max=100"`
	State   string `json:"state" validate:"omitempty,max=100"`
	ZipCode string `json:"zipCode" validate:"omitempty,max=20"`
	Country string `json:"country" validate:"omitempty,max=100"`
}

// UpdateProfileRequest body para PUT /api/users/me. Campos nil no se tocan.
type UpdateProfileRequest struct {
	Name    *string     `json:"name" validate:"omitempty,min=2,max=100"`
	Phone   *string     `json:"phone" validate:"omitempty,phone"`
	Address *AddressDTO `json:"address"`
}

// UserResponse perfil completo (sin password).
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone,omitempty"`
	Address   *AddressDTO `json:"address,omitempty"`
	Role      string      `json:"role"`
	IsActive  bool        `json:"isActive"`
	LastLogin *time.Time  `json:"lastLogin,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
