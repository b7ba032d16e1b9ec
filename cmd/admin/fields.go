package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/pkg/upload"
	"github.com/spf13/pflag"
)

// field maps one string flag onto one form field. Only flags given on the
// command line are applied, so an edit keeps every value not mentioned.
type field[T any] struct {
	flag  string
	key   string
	usage string
	set   func(values *T, raw string) error
}

func bindFields[T any](fs *pflag.FlagSet, fields []field[T]) {
	for _, f := range fields {
		fs.String(f.flag, "", f.usage)
	}
}

func applyFields[T any](fs *pflag.FlagSet, s *form.Session[T], fields []field[T]) error {
	given := map[string]string{}
	fs.Visit(func(f *pflag.Flag) { given[f.Name] = f.Value.String() })

	for _, f := range fields {
		raw, ok := given[f.flag]
		if !ok {
			continue
		}
		var applyErr error
		err := s.Set(f.key, func(values *T) { applyErr = f.set(values, raw) })
		if err != nil {
			return err
		}
		if applyErr != nil {
			return fmt.Errorf("-%s: %w", f.flag, applyErr)
		}
	}
	return nil
}

func textField[T any](flagName, key, usage string, target func(*T) *string) field[T] {
	return field[T]{flag: flagName, key: key, usage: usage, set: func(v *T, raw string) error {
		*target(v) = raw
		return nil
	}}
}

func idField[T any](flagName, key, usage string, target func(*T) *int64) field[T] {
	return field[T]{flag: flagName, key: key, usage: usage, set: func(v *T, raw string) error {
		n, err := parseID(raw)
		if err != nil {
			return err
		}
		*target(v) = n
		return nil
	}}
}

// numberField leaves the field unset when raw is blank.
func numberField[T any](flagName, key, usage string, target func(*T) **float64) field[T] {
	return field[T]{flag: flagName, key: key, usage: usage, set: func(v *T, raw string) error {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*target(v) = nil
			return nil
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", raw)
		}
		*target(v) = &n
		return nil
	}}
}

func idsField[T any](flagName, key, usage string, target func(*T) *[]int64) field[T] {
	return field[T]{flag: flagName, key: key, usage: usage, set: func(v *T, raw string) error {
		list, err := parseIDList(raw)
		if err != nil {
			return err
		}
		*target(v) = list
		return nil
	}}
}

func boolField[T any](flagName, key, usage string, target func(*T) *bool) field[T] {
	return field[T]{flag: flagName, key: key, usage: usage, set: func(v *T, raw string) error {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("not a boolean: %q", raw)
		}
		*target(v) = b
		return nil
	}}
}

// fileField reads an image from disk into the field. A blank path clears it.
func fileField[T any](flagName, key, usage string, target func(*T) *form.FileField) field[T] {
	return field[T]{flag: flagName, key: key, usage: usage, set: func(v *T, raw string) error {
		ff := target(v)
		if strings.TrimSpace(raw) == "" {
			ff.Clear()
			return nil
		}
		f, err := upload.Open(raw, 0)
		if err != nil {
			return err
		}
		ff.Attach(f)
		return nil
	}}
}

func parseID(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("not a valid id: %q", raw)
	}
	return n, nil
}

func parseIDList(raw string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		n, err := parseID(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
