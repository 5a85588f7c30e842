package http

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

var (
	phonePattern    = regexp.MustCompile(`^[0-9]{10,15}$`)
	imageURLPattern = regexp.MustCompile(`(?i)^https?://.+\.(jpg|jpeg|png|gif|webp)$`)
	passwordSpecial = "@$!%*?&"
)

// validate instancia compartida (es segura para uso concurrente y cachea los structs).
var validate = newValidator()

// FieldError detalle de un campo inválido.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Nombres de campo según el tag json/query para que coincidan con el body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || phonePattern.MatchString(s)
	})
	_ = v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || imageURLPattern.MatchString(s)
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return slices.Contains(entity.ProductCategories, fl.Field().String())
	})
	return v
}

// strongPassword exige minúscula, mayúscula, dígito y un carácter de @$!%*?&.
func strongPassword(s string) bool {
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecial, r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// normalizer DTOs que limpian su entrada (trim, minúsculas) antes de validarse.
type normalizer interface {
	Normalize()
}

// parseBody decodifica el JSON del body en dst y lo valida.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return validateStruct(dst)
}

// parseQuery decodifica los query params en dst y los valida.
func parseQuery(c *fiber.Ctx, dst interface{}) error {
	if err := c.QueryParser(dst); err != nil {
		return &apiError{Status: fiber.StatusBadRequest, Code: "VALIDATION", Message: "parámetros de consulta inválidos"}
	}
	return validateStruct(dst)
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &apiError{Status: fiber.StatusBadRequest, Code: "VALIDATION", Message: err.Error()}
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return &apiError{
		Status:  fiber.StatusBadRequest,
		Code:    "VALIDATION",
		Message: fields[0].Field + ": " + fields[0].Message,
		Data:    fields,
	}
}

// fieldPath quita el nombre del struct raíz: "SignupRequest.email" → "email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "email":
		return "debe ser un email válido"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("no puede superar %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser menor o igual a %s", fe.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "len":
		return fmt.Sprintf("debe tener exactamente %s caracteres", fe.Param())
	case "numeric":
		return "solo puede contener números"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "uuid":
		return "debe ser un UUID válido"
	case "password":
		return "debe contener mayúscula, minúscula, número y un carácter especial (@$!%*?&)"
	case "phone":
		return "debe tener entre 10 y 15 dígitos"
	case "imageurl":
		return "debe ser una URL http(s) de imagen (jpg, jpeg, png, gif o webp)"
	case "category":
		return "categoría inválida"
	default:
		return "valor inválido"
	}
}
