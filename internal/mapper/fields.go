package mapper

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// maxExactInt is the largest integer a JSON number decoded as float64 represents exactly.
const maxExactInt = 1 << 53

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// fields 逐个读取单个文档的字段。可选字段类型不符时置空并记录异常，文档本身保留；
// 只有必填字段缺失或无效才会让文档被排除。
type fields struct {
	m          *Mapper
	collection string
	id         string
}

func (f fields) invalid(field string, raw json.RawMessage) {
	value := strings.TrimSpace(string(raw))
	if len(value) > 64 {
		value = value[:64] + "..."
	}
	f.m.anomaly(f.collection, f.id, fmt.Sprintf("invalid %s: %s", field, value))
}

// str decodes a string. ok is false when the value is present but not a string.
func str(raw json.RawMessage) (value *string, ok bool) {
	if isNull(raw) {
		return nil, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	if s = strings.TrimSpace(s); s == "" {
		return nil, true
	}
	return &s, true
}

func (f fields) required(raw json.RawMessage, field string) (string, error) {
	value, ok := str(raw)
	if !ok {
		return "", fmt.Errorf("required field %s is not a string", field)
	}
	if value == nil {
		return "", missingFieldError{field: field}
	}
	return *value, nil
}

func (f fields) optString(raw json.RawMessage, field string) *string {
	value, ok := str(raw)
	if !ok {
		f.invalid(field, raw)
		return nil
	}
	return value
}

func (f fields) optNumber(raw json.RawMessage, field string) *float64 {
	if isNull(raw) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		f.invalid(field, raw)
		return nil
	}
	return &v
}

// optInt accepts any integral JSON number, so 1 and 1.0 both map to 1.
func (f fields) optInt(raw json.RawMessage, field string) *int {
	if isNull(raw) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil || v != math.Trunc(v) || math.Abs(v) > maxExactInt {
		f.invalid(field, raw)
		return nil
	}
	n := int(v)
	return &n
}

// flag reads an optional boolean; absent or invalid is false.
func (f fields) flag(raw json.RawMessage, field string) bool {
	if isNull(raw) {
		return false
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		f.invalid(field, raw)
		return false
	}
	return v
}

// active gates filterable documents: only isActive == true passes. A non-boolean value is an
// anomaly; absent or false is a silent drop.
func (f fields) active(raw json.RawMessage) error {
	if isNull(raw) {
		return errInactive
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		f.invalid("isActive", raw)
		return errInactive
	}
	if !v {
		return errInactive
	}
	return nil
}

func (f fields) optTime(raw json.RawMessage, field string) *time.Time {
	value, ok := str(raw)
	if !ok {
		f.invalid(field, raw)
		return nil
	}
	if value == nil {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, *value); err == nil {
			return &t
		}
	}
	f.invalid(field, raw)
	return nil
}

// list reads an optional array; anything else is absent.
func (f fields) list(raw json.RawMessage, field string) []json.RawMessage {
	if isNull(raw) {
		return nil
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		f.invalid(field, raw)
		return nil
	}
	return elements
}
