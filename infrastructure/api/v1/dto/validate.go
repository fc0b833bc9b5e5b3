// Package dto holds the request and response bodies of the v1 API.
package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/somabay/handbook/internal/domain"
)

// MaxContentBytes bounds page content and widget payloads.
const MaxContentBytes = 1 << 20

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(fmt.Sprintf("register maxbytes validation: %v", err))
	}
}

func maxBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxContentBytes
}

// Validate checks a request body against its validate tags. Failures wrap
// domain.ErrValidation and name the offending JSON fields. Bodies that are
// not structs carry no tags and always pass.
func Validate(v any) error {
	if reflect.Indirect(reflect.ValueOf(v)).Kind() != reflect.Struct {
		return nil
	}
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	out := &FieldError{}
	msgs := make([]string, 0, len(fieldErrs))
	for i, fe := range fieldErrs {
		field := fieldPath(fe)
		if i == 0 {
			out.Field = field
		}
		msgs = append(msgs, describe(field, fe))
	}
	out.Message = strings.Join(msgs, "; ")
	return out
}

// FieldError reports the request fields that failed validation. Field is the
// dotted JSON path of the first failure.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return domain.ErrValidation.Error() + ": " + e.Message
}

// Unwrap returns domain.ErrValidation.
func (e *FieldError) Unwrap() error { return domain.ErrValidation }

// SourcePointer returns a JSON pointer to the first failing field.
func (e *FieldError) SourcePointer() string {
	return "/" + pointerPath.Replace(e.Field)
}

var pointerPath = strings.NewReplacer(".", "/", "[", "/", "]", "")

// fieldPath drops the struct name from the validator namespace, so
// PageAddRequest.design.headerColor becomes design.headerColor.
func fieldPath(fe validator.FieldError) string {
	_, rest, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}
	return rest
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s exceeds %d bytes", field, MaxContentBytes)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
