// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/embedscript/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/embedscript/config.cue on macOS, %APPDATA%\embedscript\config.cue
// on Windows), falling back to ./config.cue. It controls the generated script template
// (extension, interpreter, payload line length, post-unpack snippet), scratch file handling
// and UI settings.
//
// Configuration is validated against a CUE schema (config_schema.cue) so that invalid
// values are reported with file positions rather than surfacing later as odd behavior.
package config
