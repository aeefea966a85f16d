package setting

import "sort"

// Built-in setting presets.
var presets = map[string]Settings{
	"card": {
		OutputSize: "CARD",
		OutputType: "BMP",
		Colors:     16,
		Mask:       true,
		Outline:    "黒",
	},
	"card-icon": {
		OutputSize: "CARD",
		ScaleX2:    true,
		ScaleX4:    true,
		OutputType: "PNG",
		Colors:     16,
		Mask:       true,
		Outline:    "黒(外側)",
	},
	"yado": {
		OutputSize: "YADO",
		OutputType: "BMP",
		Colors:     256,
	},
	"full": {
		OutputSize: "FULL",
		OutputType: "BMP",
		Colors:     256,
	},
}

// Get returns a built-in preset by name.
func Get(name string) (Settings, bool) {
	s, ok := presets[name]
	return s, ok
}

// Names returns the preset names in order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
