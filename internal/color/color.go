// Package color expands authored color values (hex strings, CSS names,
// rgb()/rgba() strings, numeric tuples) into every representation the
// renderers need.
package color

import (
	"fmt"
	stdcolor "image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Expanded is a fully resolved color.
type Expanded struct {
	R       int        `json:"r"`
	G       int        `json:"g"`
	B       int        `json:"b"`
	A       float64    `json:"a"`
	Hex     string     `json:"hex"`
	RGB     [3]int     `json:"rgb"`
	RGBA    [4]float64 `json:"rgba"`
	RGBStr  string     `json:"rgbStr"`
	RGBAStr string     `json:"rgbaStr"`
}

// extraNames covers CSS names missing from the SVG 1.1 table.
var extraNames = map[string]string{
	"transparent":   "#00000000",
	"rebeccapurple": "#663399",
}

// New builds an Expanded color from channel values. Channels are clamped to
// [0,255] and alpha to [0,1].
func New(r, g, b int, a float64) Expanded {
	r, g, b = clampChannel(r), clampChannel(g), clampChannel(b)
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	alphaByte := int(math.Floor(a * 255))
	af := strconv.FormatFloat(a, 'f', -1, 64)
	return Expanded{
		R:       r,
		G:       g,
		B:       b,
		A:       a,
		Hex:     fmt.Sprintf("#%02X%02X%02X%02X", r, g, b, alphaByte),
		RGB:     [3]int{r, g, b},
		RGBA:    [4]float64{float64(r), float64(g), float64(b), a},
		RGBStr:  fmt.Sprintf("rgb(%d,%d,%d)", r, g, b),
		RGBAStr: fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, af),
	}
}

// NRGBA converts to the standard library representation.
func (e Expanded) NRGBA() stdcolor.NRGBA {
	return stdcolor.NRGBA{R: uint8(e.R), G: uint8(e.G), B: uint8(e.B), A: uint8(math.Floor(e.A * 255))}
}

// Parse expands v. Accepted shapes are nil (opaque black), a string (hex,
// name, rgb(), rgba()) or a 3/4-element numeric slice as produced by JSON
// decoding.
func Parse(v any) (Expanded, error) {
	switch c := v.(type) {
	case nil:
		return New(0, 0, 0, 1), nil
	case string:
		return ParseString(c)
	case []any:
		nums := make([]float64, len(c))
		for i, item := range c {
			f, ok := toFloat(item)
			if !ok {
				return Expanded{}, fmt.Errorf("color: tuple item %d is %T, not a number", i, item)
			}
			nums[i] = f
		}
		return FromTuple(nums)
	case []float64:
		return FromTuple(c)
	case []int:
		nums := make([]float64, len(c))
		for i, n := range c {
			nums[i] = float64(n)
		}
		return FromTuple(nums)
	default:
		return Expanded{}, fmt.Errorf("color: unsupported value of type %T", v)
	}
}

// MustParse is Parse for package-level defaults.
func MustParse(s string) Expanded {
	c, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromTuple expands [r,g,b] or [r,g,b,a].
func FromTuple(nums []float64) (Expanded, error) {
	switch len(nums) {
	case 3:
		return New(int(math.Round(nums[0])), int(math.Round(nums[1])), int(math.Round(nums[2])), 1), nil
	case 4:
		return New(int(math.Round(nums[0])), int(math.Round(nums[1])), int(math.Round(nums[2])), nums[3]), nil
	default:
		return Expanded{}, fmt.Errorf("color: tuple must have 3 or 4 items, got %d", len(nums))
	}
}

// ParseString expands a hex string, color name, rgb() or rgba() string.
func ParseString(s string) (Expanded, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := extraNames[s]; ok {
		s = hex
	} else if named, ok := colornames.Map[s]; ok {
		return New(int(named.R), int(named.G), int(named.B), float64(named.A)/255), nil
	}
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgb("):
		nums, err := parseFunc(s, "rgb(", 3)
		if err != nil {
			return Expanded{}, err
		}
		return New(int(nums[0]), int(nums[1]), int(nums[2]), 1), nil
	case strings.HasPrefix(s, "rgba("):
		nums, err := parseFunc(s, "rgba(", 4)
		if err != nil {
			return Expanded{}, err
		}
		return New(int(nums[0]), int(nums[1]), int(nums[2]), nums[3]), nil
	default:
		return Expanded{}, fmt.Errorf("color: unknown color string %q", s)
	}
}

func parseHex(h string) (Expanded, error) {
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, ch := range h {
			b.WriteRune(ch)
			b.WriteRune(ch)
		}
		h = b.String()
	}
	switch len(h) {
	case 6:
		h += "ff"
	case 8:
	default:
		return Expanded{}, fmt.Errorf("color: hex value must have 3, 4, 6 or 8 digits, got %q", h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Expanded{}, fmt.Errorf("color: invalid hex %q: %w", h, err)
	}
	r := int(v >> 24 & 0xff)
	g := int(v >> 16 & 0xff)
	b := int(v >> 8 & 0xff)
	a := float64(v&0xff) / 255
	return New(r, g, b, a), nil
}

func parseFunc(s, prefix string, want int) ([]float64, error) {
	inner := strings.TrimPrefix(s, prefix)
	if !strings.HasSuffix(inner, ")") {
		return nil, fmt.Errorf("color: %s without closing )", prefix)
	}
	parts := strings.Split(strings.TrimSuffix(inner, ")"), ",")
	if len(parts) != want {
		return nil, fmt.Errorf("color: %s expects %d items, got %d", prefix, want, len(parts))
	}
	nums := make([]float64, want)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("color: %s item %d: %w", prefix, i, err)
		}
		nums[i] = f
	}
	return nums, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
