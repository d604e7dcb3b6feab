package application

import "encoding/json"

// Optional keeps the distinction between an absent key and an
// explicit null in a partial-update payload: Present is false only
// when the key never appeared; Value is nil when the payload carried
// a literal null.
type Optional[T any] struct {
	Present bool
	Value   *T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Present = true

	if string(b) == "null" {
		o.Value = nil
		return nil
	}

	var v T

	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Value == nil {
		return []byte("null"), nil
	}

	return json.Marshal(*o.Value)
}

// Set builds a present, non-null Optional. Mostly useful in tests.
func Set[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: &v}
}

// Null builds a present, explicitly-null Optional.
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true}
}
