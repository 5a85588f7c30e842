package dto

import "github.com/jhoicas/tienda-api/internal/domain/entity"

// ToUserResponse perfil completo sin hash.
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	out := &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if !u.Address.IsZero() {
		a := ToAddressDTO(u.Address)
		out.Address = &a
	}
	return out
}

// ToAuthUserResponse perfil público (id, name, email, role).
func ToAuthUserResponse(u *entity.User) AuthUserResponse {
	return AuthUserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// ToAddressDTO convierte la dirección de dominio.
func ToAddressDTO(a entity.Address) AddressDTO {
	return AddressDTO{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode, Country: a.Country}
}

// ToAddress convierte la dirección del request al dominio.
func (a AddressDTO) ToAddress() entity.Address {
	return entity.Address{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode, Country: a.Country}
}

// ToAddress convierte la dirección de envío al dominio.
func (a ShippingAddressRequest) ToAddress() entity.Address {
	return entity.Address{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode, Country: a.Country}
}

// ToProductResponse salida de un producto.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Brand:       p.Brand,
		Ratings:     RatingsDTO{Average: p.RatingAverage, Count: p.RatingCount},
		IsActive:    p.IsActive,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToCartResponse arma el carrito; products trae el estado actual del catálogo por id.
func ToCartResponse(c *entity.Cart, products map[string]*entity.Product) *CartResponse {
	if c == nil {
		return nil
	}
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		line := CartItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal(),
		}
		if p, ok := products[it.ProductID]; ok && p != nil {
			line.Product = &CartProductDTO{ID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL, Stock: p.Stock}
		}
		items = append(items, line)
	}
	return &CartResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Items:       items,
		TotalAmount: c.TotalAmount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToOrderResponse salida de un pedido.
func ToOrderResponse(o *entity.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal(),
		})
	}
	return &OrderResponse{
		ID:              o.ID,
		OrderID:         o.OrderID,
		UserID:          o.UserID,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: ToAddressDTO(o.ShippingAddress),
		PaymentMethod:   o.PaymentMethod,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		PaymentID:       o.PaymentID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
