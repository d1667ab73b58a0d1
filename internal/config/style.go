package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/justyntemme/quiver/internal/layout"
)

// ParseColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA". Missing alpha is opaque.
func ParseColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("color %q: must start with '#'", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}

	switch len(hex) {
	case 3:
		r, g, b := uint8(v>>8&0xf), uint8(v>>4&0xf), uint8(v&0xf)
		return color.NRGBA{R: r<<4 | r, G: g<<4 | g, B: b<<4 | b, A: 0xff}, nil
	case 6:
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	case 8:
		return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	}
	return color.NRGBA{}, fmt.Errorf("color %q: want #RGB, #RRGGBB or #RRGGBBAA", s)
}

// Palette is the resolved set of colors the window paints with.
type Palette struct {
	Background   color.NRGBA
	InputBg      color.NRGBA
	InputFont    color.NRGBA
	ItemFont     color.NRGBA
	SelectedFont color.NRGBA
	Match        color.NRGBA
}

// Palette resolves the color strings, letting the input box and list items
// inherit font_color when they leave theirs empty.
func (c *Config) Palette() (Palette, error) {
	var p Palette
	fields := []struct {
		dst  *color.NRGBA
		name string
		val  string
	}{
		{&p.Background, "bg_color", c.BgColor},
		{&p.InputBg, "input_text.bg_color", c.InputText.BgColor},
		{&p.InputFont, "input_text.font_color", or(c.InputText.FontColor, c.FontColor)},
		{&p.ItemFont, "list_items.font_color", or(c.ListItems.FontColor, c.FontColor)},
		{&p.SelectedFont, "list_items.selected_font_color", c.ListItems.SelectedFontColor},
		{&p.Match, "list_items.match_color", c.ListItems.MatchColor},
	}
	for _, f := range fields {
		col, err := ParseColor(f.val)
		if err != nil {
			return Palette{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = col
	}
	return p, nil
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func orSize(v, fallback float32) float32 {
	if v <= 0 {
		return fallback
	}
	return v
}

// InputFontSize is the input box text size in dp.
func (c *Config) InputFontSize() float32 { return orSize(c.InputText.FontSize, c.FontSize) }

// ItemFontSize is the list text size in dp.
func (c *Config) ItemFontSize() float32 { return orSize(c.ListItems.FontSize, c.FontSize) }

// IconSize is the list icon size in dp, 0 when icons are off.
func (c *Config) IconSize() int {
	if !c.Icon.Enabled {
		return 0
	}
	return c.Icon.Size
}

func (m MarginConfig) layout() layout.Margin {
	return layout.Margin{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left}
}

// InputMargin returns the input box margin in dp.
func (c *Config) InputMargin() layout.Margin { return c.InputText.Margin.layout() }

// InputPadding returns the input box padding in dp.
func (c *Config) InputPadding() layout.Margin { return c.InputText.Padding.layout() }

// Metrics derives the list row metrics in pixels for the given
// pixels-per-dp scale.
func Metrics(cfg Config, scale float32) layout.Metrics {
	m := layout.Metrics{
		FontSize:          cfg.ItemFontSize(),
		IconSize:          float32(cfg.IconSize()),
		Margin:            cfg.ListItems.Margin.layout(),
		ItemSpacing:       cfg.ListItems.ItemSpacing,
		IconSpacing:       cfg.ListItems.IconSpacing,
		SubnameMarginLeft: cfg.ListItems.ActionLeftMargin,
	}
	if m.IconSize == 0 {
		m.IconSpacing = 0
	}
	return m.Scaled(scale)
}
