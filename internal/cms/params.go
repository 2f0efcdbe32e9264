package cms

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"

	"github.com/studyhub/internal/queries"
)

var paramNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Params binds query parameters by name. Values must be primitive or a []string.
type Params map[string]any

func (p Params) validate(q queries.Query) error {
	for key, value := range p {
		if !paramNamePattern.MatchString(key) {
			return &QueryError{Query: q.Name, Description: fmt.Sprintf("invalid parameter name %q", key)}
		}
		switch value.(type) {
		case nil, string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64, []string:
		default:
			return &QueryError{Query: q.Name, Description: fmt.Sprintf("parameter %q has unsupported type %T", key, value)}
		}
	}
	for _, name := range q.Params {
		if _, ok := p[name]; !ok {
			return &QueryError{Query: q.Name, Description: fmt.Sprintf("missing parameter $%s", name)}
		}
	}
	return nil
}

// sortedKeys returns parameter names in a deterministic order.
func (p Params) sortedKeys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// canonical encodes the params as JSON with sorted keys.
func (p Params) canonical() ([]byte, error) {
	// encoding/json emits map keys sorted.
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(p))
}
