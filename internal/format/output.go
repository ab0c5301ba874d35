// Package format writes command results as json, edn or plain text.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	JSON = "json"
	EDN  = "edn"
	Text = "text"
)

// Texter is implemented by results that have a human-readable rendering.
// Values that don't implement it fall back to pretty JSON under --format text.
type Texter interface {
	Text() string
}

// Names lists the supported formats, for flag help and validation.
func Names() []string {
	return []string{JSON, EDN, Text}
}

// Validate normalizes a format name; "" means json.
func Validate(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "":
		return JSON, nil
	case JSON, EDN, Text:
		return n, nil
	default:
		return "", fmt.Errorf("unknown format: %s (want %s)", name, strings.Join(Names(), "|"))
	}
}

// Write writes v in the requested format.
func Write(w io.Writer, v any, format string, pretty bool) error {
	f, err := Validate(format)
	if err != nil {
		return err
	}
	switch f {
	case EDN:
		return WriteEDN(w, v, pretty)
	case Text:
		return WriteText(w, v)
	default:
		return WriteJSON(w, v, pretty)
	}
}

// WriteJSON writes strict JSON. HTML characters are left unescaped so widget
// payloads round-trip as typed.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteText writes the Texter rendering of v, or of the value wrapped in a
// {"data": ...} envelope.
func WriteText(w io.Writer, v any) error {
	if t, ok := unwrap(v).(Texter); ok {
		s := t.Text()
		if !strings.HasSuffix(s, "\n") {
			s += "\n"
		}
		_, err := io.WriteString(w, s)
		return err
	}
	return WriteJSON(w, v, true)
}

func unwrap(v any) any {
	if m, ok := v.(map[string]any); ok && len(m) == 1 {
		if d, ok := m["data"]; ok {
			return d
		}
	}
	return v
}
