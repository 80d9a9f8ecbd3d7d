// Package validator envuelve go-playground/validator para validar DTOs por tags
// y traducir los fallos a domain.ErrInvalidInput.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/jhoicas/inventario-core/internal/domain"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// notblank: como required pero rechaza strings compuestos solo de espacios.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	// Reportar los campos con su nombre JSON.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// FieldErrors mapa campo → regla que falló.
type FieldErrors map[string]string

// Error implementa error con los campos ordenados para un mensaje estable.
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, ", ")
}

// Struct valida s con sus tags `validate`. Devuelve un error que envuelve
// domain.ErrInvalidInput y FieldErrors (recuperable con errors.As).
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fe := make(FieldErrors, len(ves))
	for _, ve := range ves {
		tag := ve.Tag()
		if ve.Param() != "" {
			tag += "=" + ve.Param()
		}
		fe[ve.Field()] = tag
	}
	return &invalidError{fields: fe}
}

type invalidError struct {
	fields FieldErrors
}

func (e *invalidError) Error() string {
	return domain.ErrInvalidInput.Error() + ": " + e.fields.Error()
}

func (e *invalidError) Unwrap() []error {
	return []error{domain.ErrInvalidInput, e.fields}
}

// Fields extrae los errores por campo si err proviene de Struct.
func Fields(err error) FieldErrors {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}
