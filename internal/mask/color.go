package mask

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AnyUserName/wirthmage-cli/internal/raster"
	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]raster.RGB{
	"black": black,
	"white": white,
	"黒":     black,
	"白":     white,
}

// ParseColor converts a CSS-like color string into RGB. Accepted forms are
// "#rrggbb", "#rgb", "rgb(r, g, b)" and the names black, white, 黒 and 白.
func ParseColor(s string) (raster.RGB, error) {
	s = strings.TrimSpace(s)
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return raster.RGB{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return raster.RGB{R: r, G: g, B: b}, nil
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")") {
		parts := strings.Split(lower[4:len(lower)-1], ",")
		if len(parts) != 3 {
			return raster.RGB{}, fmt.Errorf("parse color %q: want 3 components", s)
		}
		var ch [3]uint8
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || v < 0 || v > 255 {
				return raster.RGB{}, fmt.Errorf("parse color %q: component %d out of range", s, i)
			}
			ch[i] = uint8(v)
		}
		return raster.RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
	}

	return raster.RGB{}, fmt.Errorf("parse color %q: unsupported format", s)
}
