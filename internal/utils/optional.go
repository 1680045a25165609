package utils

import "encoding/json"

// Optional distinguishes "field absent" from "field set to its zero value"
// in a JSON patch body. A JSON null counts as absent.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = Optional[T]{}
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Set = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Apply copies the value into dst when present and reports whether it did.
func (o Optional[T]) Apply(dst *T) bool {
	if !o.Set {
		return false
	}
	*dst = o.Value
	return true
}
