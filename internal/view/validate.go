package view

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/message"

	"github.com/znsio/specmatic-product-admin-go/internal/i18n"
	"github.com/znsio/specmatic-product-admin-go/internal/models"
)

var productValidator = newProductValidator()

func newProductValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report failures under the JSON names the form uses.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the required product fields. Zero numbers and empty strings
// both count as missing. An empty result means the product may be saved.
func Validate(p models.Product, printer *message.Printer) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if err := productValidator.Struct(p); errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = requiredMessage(printer, fe.Field())
		}
	}

	return out
}

func requiredMessage(printer *message.Printer, name string) string {
	label := name
	if f, ok := models.LookupField(name); ok {
		label = i18n.FieldLabel(printer, f.Name, f.Label)
	}
	return printer.Sprintf(message.Key(i18n.KeyFieldRequired, "%s is required"), label)
}

// FieldDescriptors returns the editable fields with labels in the printer's locale.
func FieldDescriptors(printer *message.Printer) []models.Field {
	fields := models.ProductFields()
	for i := range fields {
		fields[i].Label = i18n.FieldLabel(printer, fields[i].Name, fields[i].Label)
	}
	return fields
}
