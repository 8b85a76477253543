// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"embedscript-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the flags shared by every command.
type rootFlags struct {
	verbose bool
	cfgFile string
}

// newRootCommand creates the embedscript command tree. The root command itself
// generates scripts; inspect and config are subcommands.
func newRootCommand(app *App) *cobra.Command {
	var (
		flags rootFlags
		gen   generateFlags
	)

	rootCmd := &cobra.Command{
		Use:   "embedscript",
		Short: "Embed a file in a self-extracting shell script",
		Long: TitleStyle.Render("embedscript") + SubtitleStyle.Render(" - embed a file in a self-extracting shell script") + `

embedscript encodes a file as base64 text and writes a POSIX sh script that
recreates the file, byte for byte, when it runs. The script has a marked spot
where code that works with the unpacked file can be added.

` + SubtitleStyle.Render("Examples:") + `
  embedscript -i photo.bin                     Write photo_bin_expand.sh next to photo.bin
  embedscript -i photo.bin -o /tmp/photo.bin   Recreate the file somewhere else
  embedscript -i photo.bin -s dist/unpack.sh   Choose the script path
  embedscript inspect photo_bin_expand.sh      Show what a script contains`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			app.loadConfig(cmd.Context(), flags.cfgFile, flags.verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), app, gen)
		},
	}

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.cfgFile, "config", "", "config file (default is $HOME/.config/embedscript/config.cue)")

	rootCmd.Flags().StringVarP(&gen.infile, "infile", "i", "", "file to embed (required)")
	rootCmd.Flags().StringVarP(&gen.outfile, "outfile", "o", "", "path the script recreates (default: the input file)")
	rootCmd.Flags().StringVarP(&gen.script, "script", "s", "", "path of the generated script (default: <infile>_expand.sh next to infile)")

	rootCmd.AddCommand(newInspectCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the command's exit code.
// This is called by main.main().
func Execute() {
	if err := execute(context.Background(), NewApp(Dependencies{}), os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// execute runs the command tree for args through fang.
func execute(ctx context.Context, app *App, args []string) error {
	rootCmd := newRootCommand(app)
	rootCmd.SetArgs(args)

	// fang overrides rootCmd.Version, so the version goes through fang.WithVersion().
	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	)
}

// handleError prints errors that no command handler has reported yet, such as
// unknown flags, using fang's styling.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Reported {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
