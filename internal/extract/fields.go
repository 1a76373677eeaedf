package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// missingKeyError is returned by fields accessors when a required key is absent.
type missingKeyError struct {
	key string
}

func (e *missingKeyError) Error() string { return fmt.Sprintf("missing key: %s", e.key) }

// fields is a decoded JSON object whose values are decoded lazily, key by key.
type fields map[string]json.RawMessage

func decodeFields(data []byte) (fields, error) {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("expected JSON object, got null")
	}
	return f, nil
}

func (f fields) raw(key string) (json.RawMessage, error) {
	v, ok := f[key]
	if !ok {
		return nil, &missingKeyError{key: key}
	}
	return v, nil
}

// String accepts a JSON string, a number (kept as written) or null ("").
func (f fields) String(key string) (string, error) {
	v, err := f.raw(key)
	if err != nil {
		return "", err
	}
	v = bytes.TrimSpace(v)
	switch {
	case string(v) == "null":
		return "", nil
	case len(v) > 0 && v[0] == '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", fmt.Errorf("key %s: %w", key, err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return "", fmt.Errorf("key %s: expected string, got %s", key, v)
	}
	return n.String(), nil
}

// Int accepts a JSON number or a numeric string. Fractions are truncated;
// values outside the int range are rejected.
func (f fields) Int(key string) (int, error) {
	v, err := f.raw(key)
	if err != nil {
		return 0, err
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		var s string
		if json.Unmarshal(v, &s) != nil {
			return 0, fmt.Errorf("key %s: expected number, got %s", key, v)
		}
		n = json.Number(s)
	}
	if i, err := strconv.Atoi(n.String()); err == nil {
		return i, nil
	}
	fl, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("key %s: %w", key, err)
	}
	if math.IsNaN(fl) || fl < math.MinInt || fl >= math.MaxInt {
		return 0, fmt.Errorf("key %s: %s out of range", key, n)
	}
	return int(fl), nil
}

// Bool accepts a JSON boolean or the numbers 0 and 1.
func (f fields) Bool(key string) (bool, error) {
	v, err := f.raw(key)
	if err != nil {
		return false, err
	}
	switch string(bytes.TrimSpace(v)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("key %s: expected boolean, got %s", key, v)
}

// Object decodes the value of key as a nested object.
func (f fields) Object(key string) (fields, error) {
	v, err := f.raw(key)
	if err != nil {
		return nil, err
	}
	obj, err := decodeFields(v)
	if err != nil {
		return nil, fmt.Errorf("key %s: %w", key, err)
	}
	return obj, nil
}

// EmbeddedObject decodes the value of key as a JSON string that itself holds
// a JSON object.
func (f fields) EmbeddedObject(key string) (fields, error) {
	v, err := f.raw(key)
	if err != nil {
		return nil, err
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, fmt.Errorf("key %s: expected JSON string: %w", key, err)
	}
	obj, err := decodeFields([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("key %s: %w", key, err)
	}
	return obj, nil
}

// Objects decodes the value of key as an array of objects. null is not an array.
func (f fields) Objects(key string) ([]fields, error) {
	v, err := f.raw(key)
	if err != nil {
		return nil, err
	}
	if string(bytes.TrimSpace(v)) == "null" {
		return nil, fmt.Errorf("key %s: expected array, got null", key)
	}
	var items []fields
	if err := json.Unmarshal(v, &items); err != nil {
		return nil, fmt.Errorf("key %s: %w", key, err)
	}
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("key %s: item %d is not an object", key, i)
		}
	}
	return items, nil
}
