// Package setting holds the persisted converter settings and turns them into
// per-scale conversion options and an output format.
package setting

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/wirthmage-cli/internal/dimension"
	"github.com/AnyUserName/wirthmage-cli/internal/encoder"
	"github.com/AnyUserName/wirthmage-cli/internal/mask"
	"github.com/AnyUserName/wirthmage-cli/internal/processor"
)

// FileName is the settings file inside the user config directory.
const FileName = "settings.json"

// Settings is the converter configuration as stored on disk.
type Settings struct {
	OutputSize string `json:"outputSize"` // ASIS, CARD, YADO or FULL
	ScaleX2    bool   `json:"scaleX2"`
	ScaleX4    bool   `json:"scaleX4"`
	OutputType string `json:"outputType"` // BMP, PNG or JPEG
	Colors     int    `json:"colors"`     // 0 keeps direct color
	Mask       bool   `json:"mask"`
	Outline    string `json:"outline"` // outline style name, "" for none
}

// Default returns the settings used when nothing has been saved.
func Default() Settings {
	return Settings{
		OutputSize: dimension.ASIS,
		OutputType: encoder.KindBMP.String(),
	}
}

// Scale is one output of a conversion: a size factor and the file name
// suffix that marks it.
type Scale struct {
	Factor int
	Suffix string
}

// Normalize upper-cases the enumerations and maps JPG to JPEG.
func (s Settings) Normalize() Settings {
	s.OutputSize = strings.ToUpper(strings.TrimSpace(s.OutputSize))
	if s.OutputSize == "" {
		s.OutputSize = dimension.ASIS
	}
	if k, err := encoder.ParseKind(s.OutputType); err == nil {
		s.OutputType = k.String()
	}
	s.Outline = strings.TrimSpace(s.Outline)
	return s
}

// Validate checks every field.
func (s Settings) Validate() error {
	if !s.ASIS() {
		if _, ok := dimension.Preset(s.OutputSize); !ok {
			return fmt.Errorf("unknown output size %q (want ASIS, %s)",
				s.OutputSize, strings.Join(dimension.PresetNames(), ", "))
		}
	}
	if _, err := encoder.ParseKind(s.OutputType); err != nil {
		return err
	}
	if s.Colors < 0 || s.Colors > 256 {
		return fmt.Errorf("colors %d out of range 0-256", s.Colors)
	}
	if _, err := mask.OutlineStyleByName(s.Outline); err != nil {
		return err
	}
	return nil
}

// Kind returns the output format kind.
func (s Settings) Kind() encoder.Kind {
	k, _ := encoder.ParseKind(s.OutputType)
	return k
}

// ASIS reports whether sources keep their size.
func (s Settings) ASIS() bool {
	return strings.EqualFold(strings.TrimSpace(s.OutputSize), dimension.ASIS) || s.OutputSize == ""
}

// Scales lists the outputs produced per source. The x2 and x4 companions
// exist only for preset sizes.
func (s Settings) Scales() []Scale {
	scales := []Scale{{Factor: 1}}
	if s.ASIS() {
		return scales
	}
	if s.ScaleX2 {
		scales = append(scales, Scale{Factor: 2, Suffix: ".x2"})
	}
	if s.ScaleX4 {
		scales = append(scales, Scale{Factor: 4, Suffix: ".x4"})
	}
	return scales
}

// Options returns the conversion options for one scale factor. JPEG output
// turns masking, quantization and outlines off; outlines also need a mask.
func (s Settings) Options(factor int) (processor.Options, error) {
	opts := processor.Options{
		ImageSize: s.OutputSize,
		Scale:     factor,
		Colors:    s.Colors,
		Mask:      s.Mask,
	}
	if s.Kind() == encoder.KindJPEG {
		opts.Mask = false
		opts.Colors = 0
		return opts, nil
	}
	if !opts.Mask {
		return opts, nil
	}
	style, err := mask.OutlineStyleByName(s.Outline)
	if err != nil {
		return processor.Options{}, err
	}
	opts.Outline = style
	return opts, nil
}

// Format returns the encoder format. PNG carries transparency exactly when
// the background is masked.
func (s Settings) Format() encoder.Format {
	switch s.Kind() {
	case encoder.KindPNG:
		return encoder.PNG(s.Mask)
	case encoder.KindJPEG:
		return encoder.JPEG(encoder.DefaultJPEGQuality)
	}
	return encoder.BMP()
}

// DefaultPath returns the settings file in the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "wirthmage", FileName), nil
}

// Load reads settings from path. Fields missing from the file keep their
// defaults; a missing file yields Default().
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes s to path as indented JSON, creating parent directories.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
