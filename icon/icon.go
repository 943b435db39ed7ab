// Package icon provides a multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII or Unicode
// squares depending on user preference.
package icon

import (
	"github.com/spf13/viper"
	"github.com/tapedeck-cli/tapedeck/key"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, squares}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Skipped
	LowBitrate
	Fail
	Progress
	Info
	Key
)

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	squares string
}

var icons = map[Icon]*iconDef{
	Success:    {emoji: "✅", nerd: "", plain: "[ok]", squares: "🟩"},
	Skipped:    {emoji: "⏭️", nerd: "", plain: "[skip]", squares: "🟨"},
	LowBitrate: {emoji: "📉", nerd: "", plain: "[low]", squares: "🟧"},
	Fail:       {emoji: "❌", nerd: "", plain: "[fail]", squares: "🟥"},
	Progress:   {emoji: "⏳", nerd: "", plain: "...", squares: "🟦"},
	Info:       {emoji: "ℹ️", nerd: "", plain: "[i]", squares: "🟪"},
	Key:        {emoji: "🔑", nerd: "", plain: "[key]", squares: "⬛"},
}

// Get retrieves the visual representation for the receiver based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.Get()
}
