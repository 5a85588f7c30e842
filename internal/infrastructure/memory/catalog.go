package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria del catálogo.
type ProductRepo struct {
	s    *Store
	undo *undoLog
}

// Create agrega un producto. Nombre repetido (sin distinguir mayúsculas) devuelve ErrDuplicate.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if strings.EqualFold(existing.Name, p.Name) {
			return domain.ErrDuplicate
		}
	}
	r.undo.product(r.s, p.ID)
	r.s.products[p.ID] = cloneProduct(p)
	return nil
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		return cloneProduct(p), nil
	}
	return nil, nil
}

// GetByName busca por nombre sin distinguir mayúsculas.
func (r *ProductRepo) GetByName(_ context.Context, name string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if strings.EqualFold(p.Name, name) {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

// GetForUpdate igual que GetByID; RunOrder ya serializa las transacciones.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// GetByIDs devuelve los productos existentes indexados por ID.
func (r *ProductRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out[id] = cloneProduct(p)
		}
	}
	return out, nil
}

// Update reemplaza el producto. ErrProductNotFound si no existe, ErrDuplicate si el nombre choca.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	for _, existing := range r.s.products {
		if existing.ID != p.ID && strings.EqualFold(existing.Name, p.Name) {
			return domain.ErrDuplicate
		}
	}
	r.undo.product(r.s, p.ID)
	r.s.products[p.ID] = cloneProduct(p)
	return nil
}

// DecrementStock descuenta qty solo si alcanza. false si no hay stock suficiente.
func (r *ProductRepo) DecrementStock(_ context.Context, id string, qty int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	r.undo.product(r.s, id)
	p.Stock -= qty
	return true, nil
}

// List filtra, ordena y pagina el catálogo. Devuelve también el total sin paginar.
func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.s.mu.Lock()
	var matched []*entity.Product
	for _, p := range r.s.products {
		if matchProduct(p, f) {
			matched = append(matched, cloneProduct(p))
		}
	}
	r.s.mu.Unlock()

	less := func(a, b *entity.Product) bool {
		switch f.SortBy {
		case "name":
			return a.Name < b.Name
		case "price":
			return a.Price.LessThan(b.Price)
		case "ratings.average":
			return a.RatingAverage.LessThan(b.RatingAverage)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if f.SortOrder == "asc" {
			return less(matched[i], matched[j])
		}
		return less(matched[j], matched[i])
	})

	total := len(matched)
	start, end := window(f.Offset, f.Limit, total)
	return matched[start:end], total, nil
}

func matchProduct(p *entity.Product, f repository.ProductFilter) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.IsActive != nil && p.IsActive != *f.IsActive {
		return false
	}
	return true
}

// Delete elimina el producto. ErrProductNotFound si no existe.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	r.undo.product(r.s, id)
	delete(r.s.products, id)
	return nil
}

// window límites [start:end) de una página; offset negativo cuenta como 0.
func window(offset, limit, total int) (int, int) {
	start := offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if limit > 0 && limit < total-start {
		end = start + limit
	}
	return start, end
}
