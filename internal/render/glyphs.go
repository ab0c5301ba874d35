package render

import (
	"os"
	"strings"
)

// Terminals can't draw the widgets' rounded check boxes. Pick between
// Unicode and ASCII stand-ins for fonts that render the former badly.

type Glyphs int

const (
	GlyphsUnicode Glyphs = iota
	GlyphsASCII
)

// ParseGlyphs maps a config/env value to a glyph set; unknown values keep
// Unicode.
func ParseGlyphs(s string) Glyphs {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascii":
		return GlyphsASCII
	default:
		return GlyphsUnicode
	}
}

// GlyphsFromEnv honors LILYWIDGETS_GLYPHS, falling back to def.
func GlyphsFromEnv(def string) Glyphs {
	if v := strings.TrimSpace(os.Getenv("LILYWIDGETS_GLYPHS")); v != "" {
		return ParseGlyphs(v)
	}
	return ParseGlyphs(def)
}

func (g Glyphs) String() string {
	if g == GlyphsASCII {
		return "ascii"
	}
	return "unicode"
}

func (g Glyphs) boxChecked() string {
	if g == GlyphsASCII {
		return "[x]"
	}
	return "[✓]"
}

func (g Glyphs) boxEmpty() string {
	return "[ ]"
}

func (g Glyphs) barFill() string {
	if g == GlyphsASCII {
		return "#"
	}
	return "█"
}

func (g Glyphs) barEmpty() string {
	if g == GlyphsASCII {
		return "-"
	}
	return "░"
}

func (g Glyphs) cursor() string {
	if g == GlyphsASCII {
		return ">"
	}
	return "›"
}

func (g Glyphs) plusButton() string {
	return "(+)"
}
