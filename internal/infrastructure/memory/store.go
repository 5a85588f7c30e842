// Package memory implementa los puertos de repositorio en memoria. Lo usan los tests de
// casos de uso y de handlers HTTP, y el servidor con STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ order.TxRunner = (*Store)(nil)

// Store estado compartido por todos los repos en memoria.
type Store struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	users    map[string]*entity.User
	tokens   map[string]*entity.RefreshToken
	otps     []*entity.OTP
	products map[string]*entity.Product
	carts    map[string]*entity.Cart // por userID
	orders   map[string]*entity.Order
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*entity.User),
		tokens:   make(map[string]*entity.RefreshToken),
		products: make(map[string]*entity.Product),
		carts:    make(map[string]*entity.Cart),
		orders:   make(map[string]*entity.Order),
	}
}

// Users repositorio de usuarios sobre el store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// RefreshTokens ledger de refresh tokens sobre el store.
func (s *Store) RefreshTokens() *RefreshTokenRepo { return &RefreshTokenRepo{s: s} }

// OTPs ledger de OTP sobre el store.
func (s *Store) OTPs() *OTPRepo { return &OTPRepo{s: s} }

// Products catálogo sobre el store.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Carts carritos sobre el store.
func (s *Store) Carts() *CartRepo { return &CartRepo{s: s} }

// Orders pedidos sobre el store.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// RunOrder serializa las colocaciones de pedidos (equivale a los FOR UPDATE de Postgres).
// Los repos de fn anotan el valor previo de cada clave que escriben; si fn falla solo esas
// claves se restauran, así las escrituras concurrentes de otras peticiones se conservan.
func (s *Store) RunOrder(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	undo := newUndoLog()
	err := fn(
		&ProductRepo{s: s, undo: undo},
		&CartRepo{s: s, undo: undo},
		&OrderRepo{s: s, undo: undo},
	)
	if err != nil {
		s.mu.Lock()
		undo.restore(s)
		s.mu.Unlock()
		return err
	}
	return nil
}

// undoLog valores previos de las claves escritas dentro de RunOrder (nil = la clave no existía).
type undoLog struct {
	products map[string]*entity.Product
	carts    map[string]*entity.Cart
	orders   map[string]*entity.Order
}

func newUndoLog() *undoLog {
	return &undoLog{
		products: make(map[string]*entity.Product),
		carts:    make(map[string]*entity.Cart),
		orders:   make(map[string]*entity.Order),
	}
}

// Las funciones de registro se llaman con s.mu tomado. Receptor nil = fuera de transacción.

func (u *undoLog) product(s *Store, id string) {
	if u == nil {
		return
	}
	if _, seen := u.products[id]; seen {
		return
	}
	if p, ok := s.products[id]; ok {
		u.products[id] = cloneProduct(p)
	} else {
		u.products[id] = nil
	}
}

func (u *undoLog) cart(s *Store, userID string) {
	if u == nil {
		return
	}
	if _, seen := u.carts[userID]; seen {
		return
	}
	if c, ok := s.carts[userID]; ok {
		u.carts[userID] = cloneCart(c)
	} else {
		u.carts[userID] = nil
	}
}

func (u *undoLog) order(s *Store, id string) {
	if u == nil {
		return
	}
	if _, seen := u.orders[id]; seen {
		return
	}
	if o, ok := s.orders[id]; ok {
		u.orders[id] = cloneOrder(o)
	} else {
		u.orders[id] = nil
	}
}

func (u *undoLog) restore(s *Store) {
	for id, p := range u.products {
		if p == nil {
			delete(s.products, id)
		} else {
			s.products[id] = p
		}
	}
	for userID, c := range u.carts {
		if c == nil {
			delete(s.carts, userID)
		} else {
			s.carts[userID] = c
		}
	}
	for id, o := range u.orders {
		if o == nil {
			delete(s.orders, id)
		} else {
			s.orders[id] = o
		}
	}
}

// OTPCount cantidad de OTP emitidos para email (inspección en tests).
func (s *Store) OTPCount(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, o := range s.otps {
		if o.Email == email {
			n++
		}
	}
	return n
}

// LatestOTP último OTP emitido para email, o nil.
func (s *Store) LatestOTP(email string) *entity.OTP {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.otps) - 1; i >= 0; i-- {
		if s.otps[i].Email == email {
			o := *s.otps[i]
			return &o
		}
	}
	return nil
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func cloneCart(c *entity.Cart) *entity.Cart {
	out := *c
	out.Items = append([]entity.CartItem{}, c.Items...)
	return &out
}

func cloneOrder(o *entity.Order) *entity.Order {
	out := *o
	out.Items = append([]entity.OrderItem{}, o.Items...)
	return &out
}
