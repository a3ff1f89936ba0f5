package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrUnknownResource = errors.New("unknown resource")

var validate = validator.New()

// ValidationError lists the failing fields of a struct.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the validate tags of v.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = fmt.Sprintf("%s is required", fe.Field())
		case "gte", "lte", "min", "max":
			fields[fe.Field()] = fmt.Sprintf("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param())
		case "gtefield":
			fields[fe.Field()] = fmt.Sprintf("%s must not be before %s", fe.Field(), fe.Param())
		default:
			fields[fe.Field()] = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
		}
	}
	return &ValidationError{Fields: fields}
}
