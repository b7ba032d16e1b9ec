package form

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// FieldErrors maps a field's json name to its message.
type FieldErrors map[string]string

// Fields returns the failing field names in sorted order.
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rule evaluates the whole form snapshot and reports any failing fields.
type Rule[T any] func(values T) FieldErrors

// Schema is an ordered list of rules. For each field the first message wins.
type Schema[T any] struct {
	rules []Rule[T]
}

func NewSchema[T any](rules ...Rule[T]) Schema[T] {
	return Schema[T]{rules: rules}
}

func (s Schema[T]) Validate(values T) FieldErrors {
	out := FieldErrors{}
	for _, rule := range s.rules {
		for field, msg := range rule(values) {
			if _, taken := out[field]; !taken {
				out[field] = msg
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// StructRule checks the `validate` struct tags on T.
func StructRule[T any]() Rule[T] {
	return func(values T) FieldErrors {
		err := validate.Struct(values)
		if err == nil {
			return nil
		}
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return FieldErrors{"_": err.Error()}
		}
		out := FieldErrors{}
		for _, fieldErr := range errs {
			if _, taken := out[fieldErr.Field()]; !taken {
				out[fieldErr.Field()] = validationMessage(fieldErr)
			}
		}
		return out
	}
}

// RequiredWhen requires field to be non-blank whenever cond holds for the
// current snapshot. When cond is false the value is left alone.
func RequiredWhen[T any](field string, cond func(T) bool, value func(T) string) Rule[T] {
	return func(values T) FieldErrors {
		if !cond(values) {
			return nil
		}
		if strings.TrimSpace(value(values)) == "" {
			return FieldErrors{field: "is required"}
		}
		return nil
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	}
	return "is invalid"
}
