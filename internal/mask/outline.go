package mask

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/AnyUserName/wirthmage-cli/internal/raster"
)

// OutlineStyle selects the colors painted on either side of the mask
// boundary. A nil side is not drawn.
type OutlineStyle struct {
	Inner *raster.RGB `json:"inner,omitempty"`
	Outer *raster.RGB `json:"outer,omitempty"`
}

// IsZero reports whether the style draws nothing.
func (s OutlineStyle) IsZero() bool {
	return s.Inner == nil && s.Outer == nil
}

// DrawOutline returns a copy of r with a 1px outline along the boundary
// between opaque and transparent pixels (4-connected). Transparent pixels
// touching an opaque one get the outer color, opaque pixels touching a
// transparent one get the inner color. Neighborhoods are read from a snapshot
// of the input alpha, so painting never feeds back into the scan.
func DrawOutline(r *raster.Raster, style OutlineStyle) *raster.Raster {
	w, h := r.Width(), r.Height()
	out := r.Clone()
	if style.IsZero() || w == 0 || h == 0 {
		return out
	}

	src := r.Pix()
	opaque := make([]bool, w*h)
	for i := range opaque {
		opaque[i] = src[i*4+3] >= alphaThreshold
	}

	// hasNeighbor reports whether an in-bounds 4-neighbor of (x, y) has the
	// given opacity.
	hasNeighbor := func(x, y int, want bool) bool {
		i := y*w + x
		return (x > 0 && opaque[i-1] == want) ||
			(x < w-1 && opaque[i+1] == want) ||
			(y > 0 && opaque[i-w] == want) ||
			(y < h-1 && opaque[i+w] == want)
	}

	dst := out.Pix()
	paint := func(i int, c raster.RGB) {
		dst[i*4] = c.R
		dst[i*4+1] = c.G
		dst[i*4+2] = c.B
		dst[i*4+3] = 255
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if opaque[i] {
				if style.Inner != nil && hasNeighbor(x, y, false) {
					paint(i, *style.Inner)
				}
			} else if style.Outer != nil && hasNeighbor(x, y, true) {
				paint(i, *style.Outer)
			}
		}
	}
	return out
}

var (
	black = raster.RGB{R: 0, G: 0, B: 0}
	white = raster.RGB{R: 255, G: 255, B: 255}
)

// outlineColors names the inner and outer colors of a style; an empty side
// is not drawn.
type outlineColors struct {
	inner, outer string
}

// Named outline styles offered by the converter. Each Japanese name has an
// ASCII alias.
var outlineStyles = map[string]outlineColors{
	"黒":       {inner: "black"},
	"白":       {inner: "white"},
	"黒(外側)":   {outer: "black"},
	"白(外側)":   {outer: "white"},
	"黒+白(外側)": {inner: "black", outer: "white"},
	"白+黒(外側)": {inner: "white", outer: "black"},
}

var outlineAliases = map[string]string{
	"black":             "黒",
	"white":             "白",
	"black-outer":       "黒(外側)",
	"white-outer":       "白(外側)",
	"black+white-outer": "黒+白(外側)",
	"white+black-outer": "白+黒(外側)",
}

// OutlineStyleByName resolves a named style or a custom one written as
// "inner=<color>,outer=<color>" (either side may be omitted; colors as
// accepted by ParseColor). The empty string and "none" select no outline.
func OutlineStyleByName(name string) (OutlineStyle, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "none") {
		return OutlineStyle{}, nil
	}
	if strings.Contains(name, "=") {
		return parseCustomOutline(name)
	}
	if canonical, ok := outlineAliases[strings.ToLower(name)]; ok {
		name = canonical
	}
	c, ok := outlineStyles[name]
	if !ok {
		return OutlineStyle{}, fmt.Errorf("unknown outline style %q", name)
	}
	return c.resolve()
}

func (c outlineColors) resolve() (OutlineStyle, error) {
	var s OutlineStyle
	for _, side := range []struct {
		value string
		dst   **raster.RGB
	}{{c.inner, &s.Inner}, {c.outer, &s.Outer}} {
		if side.value == "" {
			continue
		}
		rgb, err := ParseColor(side.value)
		if err != nil {
			return OutlineStyle{}, fmt.Errorf("outline: %w", err)
		}
		*side.dst = &rgb
	}
	return s, nil
}

// outlineSide matches one "inner=" or "outer=" key of a custom style.
var outlineSide = regexp.MustCompile(`(?i)(?:^|,)\s*(\w+)\s*=`)

func parseCustomOutline(text string) (OutlineStyle, error) {
	var c outlineColors
	// Split on the keys rather than on commas: rgb(r, g, b) holds commas.
	keys := outlineSide.FindAllStringSubmatchIndex(text, -1)
	if len(keys) == 0 || keys[0][0] != 0 {
		return OutlineStyle{}, fmt.Errorf("outline %q: want inner=<color>,outer=<color>", text)
	}
	for i, k := range keys {
		end := len(text)
		if i+1 < len(keys) {
			end = keys[i+1][0]
		}
		side := strings.ToLower(text[k[2]:k[3]])
		value := strings.TrimSpace(text[k[1]:end])
		if value == "" {
			return OutlineStyle{}, fmt.Errorf("outline %q: empty %s color", text, side)
		}
		switch side {
		case "inner":
			c.inner = value
		case "outer":
			c.outer = value
		default:
			return OutlineStyle{}, fmt.Errorf("outline %q: unknown side %q", text, side)
		}
	}
	return c.resolve()
}

// OutlineStyleNames lists the ASCII style names with their Japanese
// equivalents, sorted by ASCII name.
func OutlineStyleNames() [][2]string {
	out := make([][2]string, 0, len(outlineAliases))
	for alias, name := range outlineAliases {
		out = append(out, [2]string{alias, name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
