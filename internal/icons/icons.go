// Package icons maps the symbolic icon names stored on categories to the
// glyphs rendered by the web UI and the CLI.
package icons

import "strings"

// Glyph is a renderable icon.
type Glyph struct {
	Name   string
	Symbol string
}

// Fallback is used for unknown or empty icon names.
var Fallback = Glyph{Name: "circle", Symbol: "●"}

var registry = map[string]Glyph{
	"utensils":        {Name: "utensils", Symbol: "🍽"},
	"car":             {Name: "car", Symbol: "🚗"},
	"shopping-bag":    {Name: "shopping-bag", Symbol: "🛍"},
	"film":            {Name: "film", Symbol: "🎬"},
	"zap":             {Name: "zap", Symbol: "⚡"},
	"heart-pulse":     {Name: "heart-pulse", Symbol: "🩺"},
	"home":            {Name: "home", Symbol: "🏠"},
	"plane":           {Name: "plane", Symbol: "✈"},
	"graduation-cap":  {Name: "graduation-cap", Symbol: "🎓"},
	"gift":            {Name: "gift", Symbol: "🎁"},
	"coffee":          {Name: "coffee", Symbol: "☕"},
	"more-horizontal": {Name: "more-horizontal", Symbol: "…"},
	"circle":          Fallback,
}

// Lookup resolves name case-insensitively. Names may use kebab-case or the
// camel-case spelling ("shoppingBag"); both resolve to the same glyph.
func Lookup(name string) Glyph {
	if g, ok := registry[normalize(name)]; ok {
		return g
	}
	return Fallback
}

// Known reports whether name resolves to a registered glyph.
func Known(name string) bool {
	_, ok := registry[normalize(name)]
	return ok
}

func normalize(name string) string {
	name = strings.TrimSpace(name)
	var sb strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		if r == '_' || r == ' ' {
			r = '-'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
