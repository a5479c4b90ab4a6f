package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/harentsoaR/rental-store-api/internal/common"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// messages holds client-facing texts keyed by "<json field>.<tag>".
var messages = map[string]string{
	"username.required":    "Username is required",
	"username.max":         "Username cannot be longer than 50 characters",
	"email.required":       "Email is required",
	"email.email":          "Please provide a valid email",
	"role.oneof":           "Role must be user or admin",
	"title.required":       "Title is required",
	"description.required": "Description is required",
	"location.required":    "Location is required",
	"price.gte":            "Price cannot be negative",
	"category.oneof":       "Category must be one of apartment, house, villa, room, other",
	"maxGuests.gte":        "Must have at least 1 guest",
	"bedrooms.gte":         "Cannot have negative bedrooms",
	"bathrooms.gte":        "Cannot have negative bathrooms",
	"rating.gte":           "Rating cannot be less than 0",
	"rating.lte":           "Rating cannot be more than 5",
}

// validateStruct runs the struct tags on v and folds all violations into a
// single validation error.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("Invalid value for %s", fe.Field())
		}
		msgs = append(msgs, msg)
	}
	return common.Validation(strings.Join(msgs, ", "))
}
