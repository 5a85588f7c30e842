// seed carga usuarios de prueba y el catálogo inicial en la base configurada.
//
// Uso: go run ./cmd/seed [-catalog productos.csv] [-encoding latin1]
//
// El CSV lleva encabezado: name,description,price,category,stock,brand,imageUrl.
// Sin -catalog se usa el catálogo incluido. Los registros existentes (mismo email o
// mismo nombre de producto) se omiten, por lo que el comando es idempotente.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-api/pkg/config"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

type seedUser struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
	Address  entity.Address
}

var defaultUsers = []seedUser{
	{
		Name: "Admin User", Email: "admin@test.com", Password: "Admin@123", Role: entity.RoleAdmin, Phone: "1234567890",
		Address: entity.Address{Street: "123 Admin Street", City: "New York", State: "NY", ZipCode: "10001", Country: "USA"},
	},
	{Name: "John Doe", Email: "john@test.com", Password: "Test@123", Role: entity.RoleUser, Phone: "9876543210"},
	{Name: "Jane Smith", Email: "jane@test.com", Password: "Test@123", Role: entity.RoleUser, Phone: "9876543211"},
	{Name: "Bob Johnson", Email: "bob@test.com", Password: "Test@123", Role: entity.RoleUser, Phone: "9876543212"},
	{Name: "Alice Williams", Email: "alice@test.com", Password: "Test@123", Role: entity.RoleUser, Phone: "9876543213"},
}

const defaultCatalog = `name,description,price,category,stock,brand,imageUrl
iPhone 15 Pro,Latest Apple smartphone with A17 Pro chip and titanium design,999.99,Electronics,50,Apple,https://example.com/iphone15.jpg
Samsung Galaxy S24,Premium Android smartphone with AI features,899.99,Electronics,45,Samsung,https://example.com/galaxy-s24.jpg
Dell XPS 15,High-performance Windows laptop,1799.99,Electronics,25,Dell,https://example.com/dell-xps.jpg
Sony WH-1000XM5,Premium noise-canceling headphones,399.99,Electronics,60,Sony,https://example.com/sony-headphones.jpg
Levi's 501 Original Jeans,Classic straight fit denim jeans,69.99,Clothing,100,Levi's,https://example.com/levis-501.jpg
Nike Air Max 270,Comfortable running shoes with Max Air cushioning,149.99,Sports,80,Nike,https://example.com/airmax270.jpg
The Pragmatic Programmer,Classic book on software craftsmanship and practice,44.99,Books,70,Addison-Wesley,https://example.com/pragmatic.jpg
Instant Pot Duo 7-in-1,Electric pressure cooker for quick home meals,89.99,Home & Kitchen,40,Instant Pot,https://example.com/instantpot.jpg
LEGO Star Wars Millennium Falcon,Detailed buildable starship model for fans,159.99,Toys,20,LEGO,https://example.com/lego-falcon.jpg
Whey Protein Gold Standard,Protein powder for muscle recovery after training,59.99,Health,90,Optimum Nutrition,https://example.com/whey.jpg
`

func main() {
	catalogPath := flag.String("catalog", "", "CSV con el catálogo (por defecto el incluido)")
	encoding := flag.String("encoding", "utf8", "codificación del CSV: utf8 o latin1")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	var catalog io.Reader = strings.NewReader(defaultCatalog)
	if *catalogPath != "" {
		f, err := os.Open(*catalogPath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir catálogo")
		}
		defer f.Close()
		catalog = f
	}
	catalog, err = decodeCatalog(catalog, *encoding)
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	res, err := run(ctx, postgres.NewUserRepository(pool), postgres.NewProductRepository(pool), catalog, bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().
		Int("users", res.Users).
		Int("products", res.Products).
		Int("skipped", res.Skipped).
		Msg("seed completado")
}

type result struct {
	Users    int
	Products int
	Skipped  int
}

func decodeCatalog(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", encoding)
	}
}

func run(ctx context.Context, users repository.UserRepository, products repository.ProductRepository, catalog io.Reader, cost int) (result, error) {
	var res result

	var adminID string
	for _, su := range defaultUsers {
		existing, err := users.GetByEmail(ctx, su.Email)
		if err != nil {
			return res, err
		}
		if existing != nil {
			if existing.IsAdmin() && adminID == "" {
				adminID = existing.ID
			}
			res.Skipped++
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), cost)
		if err != nil {
			return res, fmt.Errorf("hash %s: %w", su.Email, err)
		}
		now := time.Now()
		u := &entity.User{
			ID:           uuid.New().String(),
			Name:         su.Name,
			Email:        su.Email,
			PasswordHash: string(hash),
			Phone:        su.Phone,
			Address:      su.Address,
			Role:         su.Role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := users.Create(ctx, u); err != nil {
			return res, err
		}
		if u.IsAdmin() && adminID == "" {
			adminID = u.ID
		}
		res.Users++
	}

	rows, err := parseCatalog(catalog)
	if err != nil {
		return res, err
	}
	productUC := usecase.NewProductUseCase(products)
	for _, in := range rows {
		_, err := productUC.Create(ctx, adminID, in)
		if errors.Is(err, domain.ErrDuplicate) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("producto %q: %w", in.Name, err)
		}
		res.Products++
	}
	return res, nil
}

var catalogHeader = []string{"name", "description", "price", "category", "stock", "brand", "imageurl"}

// parseCatalog lee el CSV y valida cada fila contra las categorías del catálogo.
func parseCatalog(r io.Reader) ([]dto.CreateProductRequest, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = len(catalogHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) != catalogHeader[i] {
			return nil, fmt.Errorf("encabezado inválido: columna %d es %q, se esperaba %q", i+1, h, catalogHeader[i])
		}
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("línea %d: precio inválido %q", line, rec[2])
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("línea %d: stock inválido %q", line, rec[4])
		}
		category := strings.TrimSpace(rec[3])
		if !validCategory(category) {
			return nil, fmt.Errorf("línea %d: categoría desconocida %q", line, category)
		}
		out = append(out, dto.CreateProductRequest{
			Name:        strings.TrimSpace(rec[0]),
			Description: strings.TrimSpace(rec[1]),
			Price:       price.Round(2),
			Category:    category,
			Stock:       &stock,
			Brand:       strings.TrimSpace(rec[5]),
			ImageURL:    strings.TrimSpace(rec[6]),
		})
	}
	return out, nil
}

func validCategory(c string) bool {
	for _, known := range entity.ProductCategories {
		if c == known {
			return true
		}
	}
	return false
}
