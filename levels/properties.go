package levels

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrMissingProperty = errors.New("levels: property missing")
	ErrInvalidNumber   = errors.New("levels: property is not a number")
	ErrInvalidBool     = errors.New("levels: property is not a boolean")
)

// MalformedPropertyError names the object property that could not be read.
type MalformedPropertyError struct {
	Object   string
	Property string
	Value    any
	Err      error
}

func (e *MalformedPropertyError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("levels: object %s: property %q: %v", e.Object, e.Property, e.Err)
	}
	return fmt.Sprintf("levels: object %s: property %q = %v: %v", e.Object, e.Property, e.Value, e.Err)
}

func (e *MalformedPropertyError) Unwrap() error {
	return e.Err
}

// Properties is the string-keyed property bag attached to layers and
// objects. It decodes both the map form ({"width": "4"}) and the list form
// ([{"name": "width", "type": "int", "value": 4}]).
type Properties map[string]any

type propertyEntry struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = nil
		return nil
	}

	if trimmed[0] == '[' {
		var entries []propertyEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return fmt.Errorf("properties: %w", err)
		}
		out := make(Properties, len(entries))
		for _, e := range entries {
			if e.Name == "" {
				continue
			}
			out[e.Name] = e.Value
		}
		*p = out
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("properties: %w", err)
	}
	*p = Properties(raw)
	return nil
}

// Has reports whether the property is present.
func (p Properties) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Float reads a numeric property stored either as a JSON number or a string.
// NaN and infinities are rejected.
func (p Properties) Float(name string) (float64, error) {
	f, err := p.number(name)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidNumber
	}
	return f, nil
}

func (p Properties) number(name string) (float64, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return 0, ErrMissingProperty
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, ErrInvalidNumber
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, ErrInvalidNumber
		}
		return f, nil
	default:
		return 0, ErrInvalidNumber
	}
}

// FloatOr returns def when the property is absent. A present but malformed
// value is still an error.
func (p Properties) FloatOr(name string, def float64) (float64, error) {
	if !p.Has(name) {
		return def, nil
	}
	return p.Float(name)
}

func (p Properties) String(name string) (string, bool) {
	v, ok := p[name]
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	default:
		return fmt.Sprint(val), true
	}
}

func (p Properties) Bool(name string) (bool, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return false, ErrMissingProperty
	}
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return false, ErrInvalidBool
		}
		return b, nil
	default:
		return false, ErrInvalidBool
	}
}

// ObjectFloat reads a numeric property of o and wraps failures in a
// MalformedPropertyError naming the object and field.
func ObjectFloat(o Object, name string) (float64, error) {
	f, err := o.Properties.Float(name)
	if err != nil {
		return 0, &MalformedPropertyError{Object: o.Label(), Property: name, Value: o.Properties[name], Err: err}
	}
	return f, nil
}

// ObjectFloatOr is ObjectFloat with a default for absent properties.
func ObjectFloatOr(o Object, name string, def float64) (float64, error) {
	f, err := o.Properties.FloatOr(name, def)
	if err != nil {
		return 0, &MalformedPropertyError{Object: o.Label(), Property: name, Value: o.Properties[name], Err: err}
	}
	return f, nil
}

// ObjectBoolOr reads a boolean property, returning def when it is absent.
func ObjectBoolOr(o Object, name string, def bool) (bool, error) {
	if !o.Properties.Has(name) {
		return def, nil
	}
	b, err := o.Properties.Bool(name)
	if err != nil {
		return false, &MalformedPropertyError{Object: o.Label(), Property: name, Value: o.Properties[name], Err: err}
	}
	return b, nil
}
