// Package validation checks request structs against their validate tags
// and turns failures into messages fit to show the user.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// report fields by their wire names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

var bytesType = reflect.TypeOf([]byte(nil))

var messages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"min":      "%s must have at least %s entries",
	"oneof":    "%s must be one of: %s",
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// Error holds every failed rule of a validated value, in field order.
type Error struct {
	Fields []FieldError
}

// Error returns the first message; the rest are in Fields.
func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	return e.Fields[0].Message
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	field = strings.ReplaceAll(field, "_", " ")

	msg, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid", field)
	}
	switch fe.Tag() {
	case "min":
		if fe.Param() == "1" {
			return fmt.Sprintf(messages["required"], field)
		}
		if fe.Kind() == reflect.String || fe.Type() == bytesType {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf(msg, field, fe.Param())
	case "oneof":
		return fmt.Sprintf(msg, field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf(msg, field)
	}
}

// Struct validates s, a struct or a pointer to one. It returns nil or an
// *Error.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(errs))}
	for _, fe := range errs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}
