// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"embedscript-cli/internal/issue"
	"embedscript-cli/internal/script"
	"embedscript-cli/pkg/types"

	"github.com/spf13/cobra"
)

var errPayloadMismatch = errors.New("embedded payload differs")

type inspectFlags struct {
	check   string
	extract string
}

// newInspectCommand creates `embedscript inspect`.
func newInspectCommand(app *App) *cobra.Command {
	var flags inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect SCRIPT",
		Short: "Show the file embedded in a generated script",
		Long: `Show the file embedded in a generated script without running it.

With --check, compare the embedded bytes with a file and exit with status 4
when they differ. With --extract, write the embedded bytes to a path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(app, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.check, "check", "", "compare the embedded file with this file")
	cmd.Flags().StringVar(&flags.extract, "extract", "", "write the embedded file to this path")

	return cmd
}

func runInspect(app *App, path string, flags inspectFlags) error {
	f, err := os.Open(path)
	if err != nil {
		return app.fail(types.ExitInvalidPath, issue.NewErrorContext().
			WithOperation("open script").
			WithResource(path).
			WithSuggestion("Check the script path").
			Wrap(err).
			Build())
	}
	defer f.Close()

	ins, err := script.Inspect(f, path)
	if err != nil {
		return app.fail(types.ExitEncodingFailed, issue.NewErrorContext().
			WithOperation("inspect script").
			WithIssue(issue.NoPayloadId).
			WithSuggestion("Pass a script written by embedscript").
			WithSuggestion("Regenerate the script if it was edited by hand").
			Wrap(err).
			Build())
	}

	printInspection(app, path, ins)

	if flags.check != "" {
		want, err := os.ReadFile(flags.check)
		if err != nil {
			return app.fail(types.ExitInvalidPath, issue.NewErrorContext().
				WithOperation("read file to check").
				WithResource(flags.check).
				Wrap(err).
				Build())
		}
		if !bytes.Equal(ins.Data, want) {
			return app.fail(types.ExitPayloadMismatch, issue.NewErrorContext().
				WithOperation("verify embedded payload").
				WithResource(flags.check).
				WithIssue(issue.PayloadMismatchId).
				WithSuggestion("Regenerate the script from the current file").
				Wrap(fmt.Errorf("%w (%d bytes embedded, %d bytes on disk)", errPayloadMismatch, len(ins.Data), len(want))).
				Build())
		}
		fmt.Fprintf(app.stdout, "%s Embedded payload matches %s\n", SuccessStyle.Render("✓"), flags.check)
	}

	if flags.extract != "" {
		if err := extractPayload(flags.extract, ins); err != nil {
			return app.fail(types.ExitEncodingFailed, issue.NewErrorContext().
				WithOperation("extract payload").
				WithResource(flags.extract).
				WithIssue(issue.PermissionDeniedId).
				WithSuggestion("Check that the destination directory exists and is writable").
				Wrap(err).
				Build())
		}
		fmt.Fprintf(app.stdout, "%s Extracted %d bytes to %s\n", SuccessStyle.Render("✓"), len(ins.Data), flags.extract)
	}

	return nil
}

func printInspection(app *App, path string, ins script.Inspection) {
	row := func(key, value string) {
		fmt.Fprintf(app.stdout, "%s : %s\n", KeyStyle.Render(fmt.Sprintf("%-8s", key)), value)
	}
	row("script", path)
	row("shell", ins.Shell)
	row("name", ins.Header.Name)
	row("mode", fmt.Sprintf("%04o", uint32(ins.Header.Mode.Perm())))
	row("size", fmt.Sprintf("%d bytes", len(ins.Data)))
	row("outfile", ins.Outfile)
}

// extractPayload writes the embedded bytes with the recorded permission bits.
func extractPayload(path string, ins script.Inspection) error {
	mode := ins.Header.Mode.Perm()
	if err := os.WriteFile(path, ins.Data, mode); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, mode)
}
