// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultExtension is appended to derived script names.
	DefaultExtension = ".sh"
	// DefaultShell is the interpreter written to generated scripts.
	DefaultShell = "/bin/sh"
	// DefaultLineLength is the number of base64 characters per payload line.
	DefaultLineLength LineLength = 76

	minLineLength = 4
	maxLineLength = 4096
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLineLength is returned when a LineLength value is out of range.
	ErrInvalidLineLength = errors.New("invalid line length")
	// ErrInvalidScriptConfig is the sentinel error wrapped by InvalidScriptConfigError.
	ErrInvalidScriptConfig = errors.New("invalid script config")
	// ErrInvalidScratchConfig is the sentinel error wrapped by InvalidScratchConfigError.
	ErrInvalidScratchConfig = errors.New("invalid scratch config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the terminal palette.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LineLength is the number of base64 characters per payload line.
	// Valid values are multiples of 4 between 4 and 4096.
	LineLength int

	// InvalidLineLengthError is returned when a LineLength value is out of range
	// or not a multiple of 4.
	InvalidLineLengthError struct {
		Value LineLength
	}

	// InvalidScriptConfigError wraps the field errors of a ScriptConfig.
	InvalidScriptConfigError struct {
		FieldErrors []error
	}

	// InvalidScratchConfigError wraps the field errors of a ScratchConfig.
	InvalidScratchConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError wraps the field errors of a UIConfig.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError wraps the section errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Script configures the generated script template
		Script ScriptConfig `json:"script" mapstructure:"script" toml:"script"`
		// Scratch configures the intermediate encoded file
		Scratch ScratchConfig `json:"scratch" mapstructure:"scratch" toml:"scratch"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
	}

	// ScriptConfig configures the generated script.
	ScriptConfig struct {
		// Extension is appended to derived script names (e.g. ".sh").
		Extension string `json:"extension" mapstructure:"extension" toml:"extension"`
		// Shell is the interpreter on the shebang line.
		Shell string `json:"shell" mapstructure:"shell" toml:"shell"`
		// LineLength is the base64 line length of the embedded payload.
		LineLength LineLength `json:"line_length" mapstructure:"line_length" toml:"line_length"`
		// PostUnpack is appended after the extension marker of every generated script.
		PostUnpack string `json:"post_unpack" mapstructure:"post_unpack" toml:"post_unpack"`
	}

	// ScratchConfig configures the intermediate encoded file.
	ScratchConfig struct {
		// Dir is where the scratch file is created. Empty means os.TempDir().
		Dir string `json:"dir" mapstructure:"dir" toml:"dir"`
		// Keep leaves the scratch file in place after generation.
		Keep bool `json:"keep" mapstructure:"keep" toml:"keep"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}
)

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidLineLengthError.
func (e *InvalidLineLengthError) Error() string {
	return fmt.Sprintf("invalid line length %d (must be a multiple of 4 between %d and %d)", int(e.Value), minLineLength, maxLineLength)
}

// Unwrap returns ErrInvalidLineLength for errors.Is() compatibility.
func (e *InvalidLineLengthError) Unwrap() error { return ErrInvalidLineLength }

// Int returns the line length as an int.
func (l LineLength) Int() int { return int(l) }

// IsValid returns whether the LineLength can be used for base64 payload lines.
func (l LineLength) IsValid() (bool, []error) {
	if l < minLineLength || l > maxLineLength || l%4 != 0 {
		return false, []error{&InvalidLineLengthError{Value: l}}
	}
	return true, nil
}

// IsValid validates the script section. An empty extension is invalid; the
// shebang interpreter must be an absolute path.
func (c ScriptConfig) IsValid() (bool, []error) {
	var errs []error
	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		errs = append(errs, fmt.Errorf("extension %q must start with '.' and name a suffix", c.Extension))
	}
	if !strings.HasPrefix(c.Shell, "/") {
		errs = append(errs, fmt.Errorf("shell %q must be an absolute path", c.Shell))
	}
	if strings.ContainsAny(c.Shell, "\n\r") {
		errs = append(errs, fmt.Errorf("shell %q must be a single line", c.Shell))
	}
	if valid, fieldErrs := c.LineLength.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidScriptConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidScriptConfigError.
func (e *InvalidScriptConfigError) Error() string {
	return "invalid script config: " + joinFieldErrors(e.FieldErrors)
}

// Unwrap returns ErrInvalidScriptConfig for errors.Is() compatibility.
func (e *InvalidScriptConfigError) Unwrap() error { return ErrInvalidScriptConfig }

// IsValid validates the scratch section. The zero value is valid.
func (c ScratchConfig) IsValid() (bool, []error) {
	if c.Dir != "" && strings.TrimSpace(c.Dir) == "" {
		return false, []error{&InvalidScratchConfigError{
			FieldErrors: []error{fmt.Errorf("scratch dir %q must not be whitespace-only", c.Dir)},
		}}
	}
	return true, nil
}

// Error implements the error interface for InvalidScratchConfigError.
func (e *InvalidScratchConfigError) Error() string {
	return "invalid scratch config: " + joinFieldErrors(e.FieldErrors)
}

// Unwrap returns ErrInvalidScratchConfig for errors.Is() compatibility.
func (e *InvalidScratchConfigError) Unwrap() error { return ErrInvalidScratchConfig }

// IsValid validates the UI section.
func (c UIConfig) IsValid() (bool, []error) {
	if valid, errs := c.ColorScheme.IsValid(); !valid {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return "invalid UI config: " + joinFieldErrors(e.FieldErrors)
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid validates every section of the Config.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Script.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Scratch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return "invalid config: " + joinFieldErrors(e.FieldErrors)
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Script: ScriptConfig{
			Extension:  DefaultExtension,
			Shell:      DefaultShell,
			LineLength: DefaultLineLength,
			PostUnpack: "",
		},
		Scratch: ScratchConfig{
			Dir:  "", // Will use os.TempDir() if empty
			Keep: false,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

func joinFieldErrors(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
