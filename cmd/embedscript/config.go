// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"embedscript-cli/internal/config"

	"github.com/spf13/cobra"
)

const (
	formatCUE  = "cue"
	formatTOML = "toml"
)

// newConfigCommand creates the `embedscript config` command tree.
// Subcommands read the configuration loaded by the root command.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage embedscript configuration",
		Long: `Manage embedscript configuration.

Configuration is stored in:
  - Linux: ~/.config/embedscript/config.cue
  - macOS: ~/Library/Application Support/embedscript/config.cue
  - Windows: %APPDATA%\embedscript\config.cue

A config.cue in the current directory is used when the file above is absent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			showConfig(app)
			return nil
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dumpConfig(app, format)
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", formatCUE, "output format (cue, toml)")
	cfgCmd.AddCommand(dumpCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(app)
		},
	})

	return cfgCmd
}

func showConfig(app *App) {
	cfg := app.cfg
	out := app.stdout

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	if app.configPath != "" {
		fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), app.configPath)
	} else {
		fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", KeyStyle.Render("script"))
	fmt.Fprintf(out, "  extension: %s\n", SuccessStyle.Render(cfg.Script.Extension))
	fmt.Fprintf(out, "  shell: %s\n", SuccessStyle.Render(cfg.Script.Shell))
	fmt.Fprintf(out, "  line_length: %s\n", SuccessStyle.Render(fmt.Sprint(cfg.Script.LineLength.Int())))
	if cfg.Script.PostUnpack == "" {
		fmt.Fprintf(out, "  post_unpack: %s\n", SubtitleStyle.Render("(none)"))
	} else {
		fmt.Fprintf(out, "  post_unpack: %s\n", SuccessStyle.Render(fmt.Sprintf("%q", cfg.Script.PostUnpack)))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", KeyStyle.Render("scratch"))
	if cfg.Scratch.Dir == "" {
		fmt.Fprintf(out, "  dir: %s\n", SubtitleStyle.Render("(system temp directory)"))
	} else {
		fmt.Fprintf(out, "  dir: %s\n", SuccessStyle.Render(cfg.Scratch.Dir))
	}
	fmt.Fprintf(out, "  keep: %s\n", SuccessStyle.Render(fmt.Sprint(cfg.Scratch.Keep)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", KeyStyle.Render("ui"))
	fmt.Fprintf(out, "  color_scheme: %s\n", SuccessStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(out, "  verbose: %s\n", SuccessStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
}

func dumpConfig(app *App, format string) error {
	switch format {
	case formatCUE:
		fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
		return nil
	case formatTOML:
		out, err := config.GenerateTOML(app.cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(app.stdout, out)
		return nil
	default:
		return fmt.Errorf("unknown format %q (valid: %s, %s)", format, formatCUE, formatTOML)
	}
}

func showConfigPath(app *App) error {
	cfgPath, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", filepath.Dir(cfgPath))
	fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
	if app.configPath != "" && app.configPath != cfgPath {
		fmt.Fprintf(app.stdout, "Loaded from: %s\n", app.configPath)
	}
	return nil
}

func initConfig(app *App) error {
	cfgPath, created, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if created {
		fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	} else {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", SubtitleStyle.Render("•"), cfgPath)
	}
	return nil
}
