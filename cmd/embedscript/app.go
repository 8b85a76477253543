// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"embedscript-cli/internal/config"
	"embedscript-cli/internal/issue"
	"embedscript-cli/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference and read configuration through it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		// Set by the root PersistentPreRunE for the running command.
		cfg        *config.Config
		configPath string
		verbose    bool
		logger     *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		LoadWithSource(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		cfg:    config.DefaultConfig(),
		logger: newLogger(deps.Stderr, false),
	}
}

// newLogger builds the stderr logger. Debug output is only shown when verbose.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: config.AppName})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// loadConfig loads configuration for the current invocation. A broken config
// file is reported as a warning and the defaults are used, so that a bad edit
// never blocks generating or inspecting scripts.
func (a *App) loadConfig(ctx context.Context, cfgFile string, verboseFlag bool) {
	a.verbose = verboseFlag
	a.logger = newLogger(a.stderr, a.verbose)

	cfg, source, err := a.Config.LoadWithSource(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(cfgFile)})
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.verbose))
		if a.verbose {
			a.renderIssue(issue.For(err))
		}
		cfg, source = config.DefaultConfig(), ""
	}

	a.cfg = cfg
	a.configPath = source
	if !a.verbose && cfg.UI.Verbose {
		a.verbose = true
		a.logger = newLogger(a.stderr, true)
	}
	if source != "" {
		a.logger.Debug("loaded configuration", "path", source)
	}
}

// report prints the one-line diagnostic for a failed command to stdout and,
// in verbose mode, the matching issue help to stderr.
func (a *App) report(code types.ExitCode, msg string, id issue.Id, err error) *ExitError {
	fmt.Fprintln(a.stdout, msg)
	if a.verbose {
		a.renderIssue(issue.Get(id))
	}
	return &ExitError{Code: code, Err: err, Reported: true}
}

// fail reports ae: its message on stdout and, in verbose mode, its
// suggestions, cause chain and catalog entry on stderr.
func (a *App) fail(code types.ExitCode, ae *issue.ActionableError) *ExitError {
	fmt.Fprintln(a.stdout, ae.Error())
	if a.verbose {
		fmt.Fprintln(a.stderr, ae.Format(true))
		a.renderIssue(issue.Get(ae.Issue))
	}
	return &ExitError{Code: code, Err: ae, Reported: true}
}

// renderIssue writes a catalog entry to stderr using the configured color scheme.
func (a *App) renderIssue(entry *issue.Issue) {
	if entry == nil {
		return
	}
	rendered, err := entry.Render(a.cfg.UI.ColorScheme.String())
	if err != nil {
		a.logger.Warn("failed to render issue help", "issue", entry.Id(), "error", err)
		return
	}
	fmt.Fprint(a.stderr, rendered)
}
