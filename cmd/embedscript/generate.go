// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"embedscript-cli/internal/issue"
	"embedscript-cli/internal/script"
	"embedscript-cli/pkg/types"
)

const missingInfileMessage = "You require an input file"

// generateFlags are the root command's path flags.
type generateFlags struct {
	infile  string
	outfile string
	script  string
}

// runGenerate resolves the paths, prints the summary and writes the script.
// Exit codes: 1 without --infile, 2 for invalid paths, 3 when encoding or
// writing fails.
func runGenerate(ctx context.Context, app *App, flags generateFlags) error {
	if flags.infile == "" {
		return app.report(types.ExitMissingArgument, missingInfileMessage, issue.MissingInfileId, nil)
	}

	cfg := app.cfg
	plan, err := script.Resolve(script.Request{
		Infile:    types.FilesystemPath(flags.infile),
		Outfile:   types.FilesystemPath(flags.outfile),
		Script:    types.FilesystemPath(flags.script),
		Extension: cfg.Script.Extension,
	})
	if err != nil {
		code, msg, id := classify(err)
		return app.report(code, msg, id, err)
	}

	printSummary(app, plan)

	gen := &script.Generator{
		Template: script.Template{
			Shell:      cfg.Script.Shell,
			Version:    Version,
			PostUnpack: cfg.Script.PostUnpack,
		},
		LineLength:  cfg.Script.LineLength.Int(),
		ScratchDir:  cfg.Scratch.Dir,
		KeepScratch: cfg.Scratch.Keep,
		Logger:      app.logger,
	}

	res, err := gen.Generate(ctx, plan)
	if err != nil {
		code, msg, id := classify(err)
		return app.report(code, msg, id, err)
	}

	if res.ScratchPath != "" {
		fmt.Fprintf(app.stdout, "%-10s : %s\n", "scratch", res.ScratchPath)
	}
	app.logger.Debug("script written",
		"script", res.Plan.Script,
		"payload_bytes", res.PayloadSize,
		"script_bytes", res.ScriptSize,
		"mode", fmt.Sprintf("%04o", uint32(res.Header.Mode.Perm())),
	)
	return nil
}

// printSummary prints the resolved paths before any encoding work.
func printSummary(app *App, plan script.Plan) {
	fmt.Fprintf(app.stdout, "%-10s : %s\n", "infile", plan.Infile)
	fmt.Fprintf(app.stdout, "%-10s : %s\n", "outfile", plan.Outfile)
	fmt.Fprintf(app.stdout, "%-10s : %s\n", "script", plan.Script)
}
