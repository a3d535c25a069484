package service

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/givespark/checkout-api/pkg/errors"
)

func init() {
	// Report violations under their json names so field paths match what
	// the client actually sent.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// TranslateBindingError converts a gin binding failure into a
// ValidationError carrying every violated field, or returns a single
// body-level error for malformed JSON.
func TranslateBindingError(err error) *errors.ValidationError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &errors.ValidationError{
			Fields: []errors.FieldError{
				{Field: "body", Code: "invalid", Message: "request body is not valid JSON"},
			},
		}
	}

	fields := make([]errors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, errors.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Code:    fe.Tag(),
			Message: fieldMessage(fe),
		})
	}

	return &errors.ValidationError{Fields: fields}
}

// fieldPath strips the root struct name from a validator namespace,
// e.g. "CheckoutRequest.cart[3].quantity" -> "cart[3].quantity".
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid product id"
	case "min":
		switch fe.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must have at least %s entries", fe.Param())
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		default:
			return fmt.Sprintf("must be at least %s", fe.Param())
		}
	case "max":
		switch fe.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("must have at most %s entries", fe.Param())
		case reflect.String:
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		default:
			return fmt.Sprintf("must be at most %s", fe.Param())
		}
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
