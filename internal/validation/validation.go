// Package validation provides struct validation on go-playground/validator
// v10: one thread-safe singleton instance, with field errors reported under
// JSON wire names so handlers can return them to clients as-is.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string { return e.Message }

// RequestError collects every field failure from one struct validation.
type RequestError struct {
	fields []FieldError
}

// Fields returns the individual field failures in declaration order.
func (e *RequestError) Fields() []FieldError { return e.fields }

// Error implements the error interface with a combined message.
func (e *RequestError) Error() string {
	if len(e.fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.fields))
	for i, f := range e.fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Get returns the singleton validator. The instance caches struct metadata,
// so one serves all handlers.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report failures under the JSON wire name, not the Go field name.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})

	return validate
}

// Struct validates s against its `validate` tags. Returns nil on success or
// a *RequestError carrying one entry per failed field.
func Struct(s any) *RequestError {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{fields: []FieldError{{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translate(fe),
		}
	}

	return &RequestError{fields: fields}
}

var messageTemplates = map[string]string{
	"required": "%s is required",
}

var messageTemplatesWithParam = map[string]string{
	"gt":  "%s must be greater than %s",
	"gte": "%s must be greater than or equal to %s",
	"lt":  "%s must be less than %s",
	"lte": "%s must be less than or equal to %s",
}

// translate converts a validator.FieldError to a client-facing message.
func translate(fe validator.FieldError) string {
	field := fe.Field()

	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := messageTemplatesWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
