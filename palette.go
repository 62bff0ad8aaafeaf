package halftone

import (
	"embed"
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

//go:embed colordata/palettes.json
var f embed.FS

// Palette is a named triple of hex colors. Level 0 is always black, so a
// palette only carries the three accent colors.
type Palette struct {
	Name   string `json:"name"`
	Color1 string `json:"color1"`
	Color2 string `json:"color2"`
	Color3 string `json:"color3"`
}

var black = color.NRGBA{A: 255}

var hexPattern = regexp.MustCompile(`^[a-fA-F\d]{6}$`)

// ParseHex parses "#rrggbb" (the "#" is optional). A trailing alpha pair,
// as in "#rrggbbaa", is ignored. Anything else silently yields opaque
// black; callers that need to know use ValidHex.
func ParseHex(hex string) color.NRGBA {
	clean := strings.Replace(hex, "#", "", 1)
	if len(clean) > 6 {
		clean = clean[:6]
	}
	if !hexPattern.MatchString(clean) {
		return black
	}
	c, err := colorful.Hex("#" + clean)
	if err != nil {
		return black
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// ValidHex reports whether ParseHex would read hex as a real color rather
// than falling back to black.
func ValidHex(hex string) bool {
	clean := strings.Replace(hex, "#", "", 1)
	if len(clean) > 6 {
		clean = clean[:6]
	}
	return hexPattern.MatchString(clean)
}

// Colors returns the four output colors indexed by level: black, then
// Color1..Color3.
func (p Palette) Colors() [4]color.NRGBA {
	return [4]color.NRGBA{
		black,
		ParseHex(p.Color1),
		ParseHex(p.Color2),
		ParseHex(p.Color3),
	}
}

// Malformed returns the palette entries that ParseHex replaces with black.
func (p Palette) Malformed() []string {
	var bad []string
	for _, c := range []string{p.Color1, p.Color2, p.Color3} {
		if !ValidHex(c) {
			bad = append(bad, c)
		}
	}
	return bad
}

func (p Palette) String() string {
	return fmt.Sprintf("%s [%s %s %s]", p.Name, p.Color1, p.Color2, p.Color3)
}

// NewPalette builds an unnamed palette from three hex strings.
func NewPalette(c1, c2, c3 string) Palette {
	return Palette{Color1: c1, Color2: c2, Color3: c3}
}

// ParsePalette reads "c1,c2,c3" into a Palette.
func ParsePalette(s string) (Palette, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Palette{}, fmt.Errorf("palette %q: expected 3 comma-separated colors", s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return NewPalette(parts[0], parts[1], parts[2]), nil
}

func readPalettes(data []byte) (map[string]Palette, error) {
	var palettes map[string]Palette
	if err := json.Unmarshal(data, &palettes); err != nil {
		return nil, fmt.Errorf("error unmarshalling JSON: %w", err)
	}
	return palettes, nil
}

func builtinPalettes() map[string]Palette {
	data, err := f.ReadFile("colordata/palettes.json")
	if err != nil {
		panic(err)
	}
	palettes, err := readPalettes(data)
	if err != nil {
		panic(err)
	}
	return palettes
}

// PaletteNames lists the embedded palette names in sorted order.
func PaletteNames() []string {
	palettes := builtinPalettes()
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPalette looks name up among the embedded palettes first. Otherwise
// name is read as a JSON file holding either a single palette object or
// a map of them, in which case the first name in sorted order is used.
func LoadPalette(name string) (Palette, error) {
	if p, ok := builtinPalettes()[name]; ok {
		return p, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return Palette{}, fmt.Errorf("unknown palette %q: %w", name, err)
	}

	var single Palette
	if err := json.Unmarshal(data, &single); err == nil && single.Color1 != "" {
		if single.Name == "" {
			single.Name = name
		}
		return single, nil
	}

	palettes, err := readPalettes(data)
	if err != nil {
		return Palette{}, err
	}
	if len(palettes) == 0 {
		return Palette{}, fmt.Errorf("palette file %q is empty", name)
	}
	keys := make([]string, 0, len(palettes))
	for k := range palettes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return palettes[keys[0]], nil
}
