package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseImport decodes a YAML (or JSON, which YAML accepts) mapping of
// preferences. Scalars are stored in their string form. Sequences and
// mappings are JSON-encoded, so payloads can be written inline:
//
//	default_checklist: groceries
//	widget_groceries_title: Groceries
//	widget_groceries_data:
//	  - {text: Milk, checked: true}
func ParseImport(b []byte) (Map, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}
	out := Map{}
	for k, v := range raw {
		if k == "" {
			return nil, ErrEmptyKey
		}
		s, err := importValue(v)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", k, err)
		}
		out[k] = s
	}
	return out, nil
}

func importValue(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case []any, map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
