package dto

// Envelope cuerpo uniforme de todas las respuestas HTTP.
type Envelope struct {
	Success    bool        `json:"success"`
	Code       string      `json:"code,omitempty"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination metadatos de página en listados.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination calcula Pages = ceil(total/limit).
func NewPagination(page, limit, total int) *Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// MaxPage tope de página aceptado; mantiene Offset lejos de desbordar int.
const MaxPage = 100000

// PageRequest paginación por número de página (query ?page=&limit=).
type PageRequest struct {
	Page  int `query:"page" validate:"omitempty,min=1,max=100000"`
	Limit int `query:"limit" validate:"omitempty,min=1"`
}

// DefaultPage aplica valores por defecto y recorta Limit a maxLimit.
func (p *PageRequest) DefaultPage(defLimit, maxLimit int) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit <= 0 {
		p.Limit = defLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
}

// Offset filas a saltar para la página actual.
func (p PageRequest) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
