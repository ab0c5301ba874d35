package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lilynotes-widgets/internal/model"
)

var ErrDoctorIssuesFound = errors.New("doctor found errors")

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Key     string           `json:"key,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor checks a snapshot for data the widgets silently render as empty:
// payloads that are not JSON, payloads of the wrong shape for the kind that
// references them, and instance ids with no payload at all.
func Doctor(m Map) DoctorReport {
	issues := []DoctorIssue{}
	add := func(level DoctorIssueLevel, code, key, format string, args ...any) {
		issues = append(issues, DoctorIssue{Level: level, Code: code, Key: key, Message: fmt.Sprintf(format, args...)})
	}

	// Instance ids referenced through default_<kind>, with the kind they
	// render as.
	kindOf := map[string]model.Kind{}
	for _, k := range model.Kinds() {
		if id, ok := m.Get(model.DefaultKey(k)); ok {
			kindOf[id] = k
		}
	}

	for _, key := range m.Keys() {
		v := m[key]
		switch {
		case strings.HasPrefix(key, "default_"):
			if _, err := model.ParseKind(strings.TrimPrefix(key, "default_")); err != nil {
				add(DoctorIssueLevelWarn, "unknown_kind", key, "no widget kind named %q", strings.TrimPrefix(key, "default_"))
			}
			if _, ok := m.Get(model.DataKey(v)); !ok {
				add(DoctorIssueLevelWarn, "instance_missing_data", key, "instance %q has no %s; the widget renders empty", v, model.DataKey(v))
			}

		case strings.HasPrefix(key, "config_"):
			if v == "" {
				continue
			}
			if _, ok := m.Get(model.DataKey(v)); !ok {
				add(DoctorIssueLevelWarn, "instance_missing_data", key, "instance %q has no %s; the widget renders empty", v, model.DataKey(v))
			}

		case strings.HasPrefix(key, "widget_") && strings.HasSuffix(key, "_data"):
			id := strings.TrimSuffix(strings.TrimPrefix(key, "widget_"), "_data")
			shape, ok := jsonShape(v)
			if !ok {
				add(DoctorIssueLevelError, "payload_invalid_json", key, "payload is not valid JSON; the widget renders empty")
				continue
			}
			k, known := kindOf[id]
			if !known {
				continue
			}
			if want := wantShape(k); shape != want {
				add(DoctorIssueLevelWarn, "payload_shape_mismatch", key, "%s widgets expect a JSON %s, found %s", k, want, shape)
			}
		}
	}
	return DoctorReport{Issues: issues}
}

func wantShape(k model.Kind) string {
	if k == model.KindProgress {
		return "object"
	}
	return "array"
}

// jsonShape names the top-level JSON type of s.
func jsonShape(s string) (string, bool) {
	b := bytes.TrimSpace([]byte(s))
	if !json.Valid(b) {
		return "", false
	}
	switch b[0] {
	case '[':
		return "array", true
	case '{':
		return "object", true
	case '"':
		return "string", true
	case 't', 'f':
		return "boolean", true
	case 'n':
		return "null", true
	default:
		return "number", true
	}
}
