// Package mapper projects loosely-typed content store documents into model contracts.
// It is the only package that knows both the remote document shape and the domain shape.
package mapper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrMalformedPayload 表示整体结果形状不符合预期（例如期望数组却得到对象）。
var ErrMalformedPayload = errors.New("malformed content payload")

// errInactive marks documents dropped by the isActive gate. Not an anomaly.
var errInactive = errors.New("inactive")

type missingFieldError struct {
	field string
}

func (e missingFieldError) Error() string {
	return "missing required field " + e.field
}

// Mapper converts raw query results. It holds no state besides its logger and is safe for
// concurrent use.
type Mapper struct {
	logger *zap.Logger
}

// New returns a Mapper that reports data-quality anomalies to logger.
func New(logger *zap.Logger) *Mapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mapper{logger: logger}
}

func (m *Mapper) anomaly(collection, id, reason string) {
	m.logger.Warn("content anomaly",
		zap.String("collection", collection),
		zap.String("id", id),
		zap.String("reason", reason),
	)
}

type documentID struct {
	ID string `json:"_id"`
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// mapList decodes each element of a JSON array independently, so one malformed document only
// excludes itself. Order of the input is preserved.
func mapList[R any, T any](m *Mapper, collection string, raw json.RawMessage, convert func(R, fields) (T, error)) ([]T, error) {
	if isNull(raw) {
		return []T{}, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("%w: %s: expected array: %v", ErrMalformedPayload, collection, err)
	}

	out := make([]T, 0, len(elements))
	for i, element := range elements {
		item, ok := mapOne(m, collection, i, element, convert)
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func mapOne[R any, T any](m *Mapper, collection string, index int, element json.RawMessage, convert func(R, fields) (T, error)) (T, bool) {
	var zero T

	var ident documentID
	_ = json.Unmarshal(element, &ident)
	id := strings.TrimSpace(ident.ID)
	if id == "" {
		id = fmt.Sprintf("#%d", index)
	}

	// raw documents hold every field as json.RawMessage, so this only fails for non-objects
	var doc R
	if err := json.Unmarshal(element, &doc); err != nil {
		m.anomaly(collection, id, "undecodable document: "+err.Error())
		return zero, false
	}

	item, err := convert(doc, fields{m: m, collection: collection, id: id})
	if err != nil {
		if !errors.Is(err, errInactive) {
			m.anomaly(collection, id, err.Error())
		}
		return zero, false
	}
	return item, true
}

// mapSingle handles queries returning one document or null.
func mapSingle[R any, T any](m *Mapper, collection string, raw json.RawMessage, convert func(R, fields) (T, error)) (*T, error) {
	if isNull(raw) {
		return nil, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: %s: expected object", ErrMalformedPayload, collection)
	}
	item, ok := mapOne(m, collection, 0, trimmed, convert)
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func optString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// compareOrder sorts ascending with absent orders last.
func compareOrder(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}
