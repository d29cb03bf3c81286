// Command go resolves a job-system path and prints the shell commands
// to set env vars and cd into it. Its stdout is meant to be consumed by
// an outer `eval`.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dd-studio/jobsys/clishared"
	"github.com/dd-studio/jobsys/options"
	"github.com/dd-studio/jobsys/session"
	"github.com/dd-studio/jobsys/shellemit"
	"github.com/dd-studio/jobsys/template"
)

func main() {
	app := &cli.App{
		Name:      "go",
		Usage:     "emit shell commands to move into a job-system path",
		ArgsUsage: "TERMS...",
		Flags: []cli.Flag{
			clishared.LevelFlag(),
			clishared.InputFlag(),
			clishared.ForcePathFlag(),
			clishared.VerboseFlag(),
			clishared.ShellFlag(),
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	opts := options.New()
	opts.SetVerbose(c.Bool("verbose"), clishared.IsTerminal(os.Stderr))

	result, err := template.Load(c.String("input"), opts)
	if err != nil {
		return fail(opts, err)
	}

	opts.Logger.Debugf("loaded template from %s (%d nodes)", opts.TemplatePath, result.Graph.Len())

	np, err := clishared.ResolveNodePath(opts, result.Graph, c.String("level"), c.Args().Slice(), c.Bool("force-path"))
	if err != nil {
		return fail(opts, err)
	}

	target, err := np.ToPath()
	if err != nil {
		return fail(opts, err)
	}

	opts.Logger.Debugf("resolved node-path %s -> %s", np.String(), target)

	shell, err := shellemit.New(c.String("shell"))
	if err != nil {
		return fail(opts, err)
	}

	sess := session.New(shell, opts.Env)
	sess.EmitVars(opts.Writer, clishared.CollectVarBindings(np))
	sess.EmitAliases(opts.Writer, nil)

	fmt.Fprintln(opts.Writer, shell.Cd(target))

	return nil
}

func fail(opts *options.Options, err error) error {
	fmt.Fprintln(opts.ErrWriter, clishared.FormatDiagnostic(opts, err))
	return cli.Exit("", 1)
}
