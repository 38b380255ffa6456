package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// MultiValue holds an announcement field that is either a single string or an
// ordered list of strings (one entry per judgment cited by the announcement).
type MultiValue struct {
	values []string
	list   bool
}

// Scalar builds a single-valued field
func Scalar(v string) MultiValue {
	return MultiValue{values: []string{v}}
}

// List builds a list-valued field
func List(vs ...string) MultiValue {
	return MultiValue{values: append([]string(nil), vs...), list: true}
}

// IsList reports whether the field was given as a list
func (m MultiValue) IsList() bool {
	return m.list
}

// Values flattens the field; a scalar becomes a one-element slice
func (m MultiValue) Values() []string {
	return append([]string(nil), m.values...)
}

// Joined concatenates the flattened values with sep
func (m MultiValue) Joined(sep string) string {
	return strings.Join(m.values, sep)
}

// Format renders the field for display, list entries separated by 、
func (m MultiValue) Format() string {
	return m.Joined("、")
}

// IsEmpty reports whether the field carries no text at all
func (m MultiValue) IsEmpty() bool {
	for _, v := range m.values {
		if v != "" {
			return false
		}
	}
	return true
}

// UnmarshalJSON accepts a string, an array of strings or null.
// Any other shape is rejected so malformed feeds fail at load time.
func (m *MultiValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*m = MultiValue{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*m = Scalar(s)
		return nil
	case '[':
		var raw []*string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("expected list of strings: %w", err)
		}
		values := make([]string, 0, len(raw))
		for _, v := range raw {
			if v == nil {
				values = append(values, "")
				continue
			}
			values = append(values, *v)
		}
		*m = MultiValue{values: values, list: true}
		return nil
	default:
		return fmt.Errorf("expected string or list of strings, got %s", truncate(string(trimmed), 32))
	}
}

// MarshalJSON preserves the original scalar-or-list shape
func (m MultiValue) MarshalJSON() ([]byte, error) {
	if m.list {
		if m.values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(m.values)
	}
	if len(m.values) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(m.values[0])
}

// Value implements driver.Valuer for JSONB
func (m MultiValue) Value() (driver.Value, error) {
	return m.MarshalJSON()
}

// Scan implements sql.Scanner for JSONB
func (m *MultiValue) Scan(value interface{}) error {
	if value == nil {
		*m = MultiValue{}
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into MultiValue", value)
	}

	return m.UnmarshalJSON(b)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
