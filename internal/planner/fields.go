package planner

import (
	"alcyxob/fitplan/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrUnknownField = errors.New("unknown or read-only field")
	ErrInvalidValue = errors.New("invalid field value")
)

// readOnlyFields are changed only through the structural operations or the store.
var readOnlyFields = map[string]bool{
	"id":        true,
	"number":    true,
	"weeks":     true,
	"days":      true,
	"exercises": true,
	"version":   true,
	"createdAt": true,
	"updatedAt": true,
}

// UpdateField sets one field, addressed by its JSON name, on a *Workout,
// *Week, *Day or *Exercise. Every other field is left as it was. value may
// be a Go value or raw JSON; a JSON null clears the field.
func UpdateField(entity any, field string, value any) error {
	switch entity.(type) {
	case *domain.Workout, *domain.Week, *domain.Day, *domain.Exercise:
	default:
		return fmt.Errorf("planner: cannot edit %T", entity)
	}
	rv := reflect.ValueOf(entity)
	if rv.IsNil() {
		return fmt.Errorf("planner: nil %T", entity)
	}
	if readOnlyFields[field] {
		return fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	target, ok := fieldByJSONName(rv.Elem(), field)
	if !ok {
		return fmt.Errorf("%q on %s: %w", field, rv.Elem().Type().Name(), ErrUnknownField)
	}

	raw, err := rawJSON(value)
	if err != nil {
		return fmt.Errorf("%q: %w: %v", field, ErrInvalidValue, err)
	}
	fresh := reflect.New(target.Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		return fmt.Errorf("%q: %w: %v", field, ErrInvalidValue, err)
	}
	target.Set(fresh.Elem())
	return nil
}

func fieldByJSONName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func rawJSON(value any) ([]byte, error) {
	switch v := value.(type) {
	case json.RawMessage:
		if len(v) == 0 {
			return []byte("null"), nil
		}
		return v, nil
	case nil:
		return []byte("null"), nil
	default:
		return json.Marshal(v)
	}
}
