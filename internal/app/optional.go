package app

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Optional records whether a JSON key was present. A present null leaves Value nil.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: &v} }

func Null[T any]() Optional[T] { return Optional[T]{Set: true} }

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) apply(dst **T) {
	if o.Set {
		*dst = o.Value
	}
}

// requiredText checks a present value is a non-blank string and returns it trimmed.
func requiredText(field string, o Optional[string]) (string, error) {
	if o.Value == nil {
		return "", invalid(field, "is required")
	}
	v := strings.TrimSpace(*o.Value)
	if v == "" {
		return "", invalid(field, "must not be empty")
	}
	return v, nil
}
