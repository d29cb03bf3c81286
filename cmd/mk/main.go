// Command mk validates or synthesizes a job-system path and creates
// whatever directories are missing from it.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dd-studio/jobsys/clishared"
	"github.com/dd-studio/jobsys/materialize"
	"github.com/dd-studio/jobsys/options"
	"github.com/dd-studio/jobsys/template"
)

func main() {
	app := &cli.App{
		Name:      "mk",
		Usage:     "create a job-system directory from a levelspec or a path",
		ArgsUsage: "TERMS...",
		Flags: []cli.Flag{
			clishared.LevelFlag(),
			clishared.InputFlag(),
			clishared.ForcePathFlag(),
			clishared.VerboseFlag(),
			clishared.DryRunFlag(),
			clishared.CheckTemplateFlag(),
			clishared.StickyFlag(),
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

	if c.Bool("check-template") {
		return checkTemplate(opts, result)
	}

	np, err := clishared.ResolveNodePath(opts, result.Graph, c.String("level"), c.Args().Slice(), c.Bool("force-path"))
	if err != nil {
		return fail(opts, err)
	}

	target, err := np.ToPath()
	if err != nil {
		return fail(opts, err)
	}

	opts.Logger.Debugf("resolved node-path %s -> %s", np.String(), target)

	if c.Bool("dry-run") {
		fmt.Fprintln(opts.Writer, target)
		return nil
	}

	mat := materialize.New(materialize.NewUnixIdentity(), opts, c.Bool("sticky"))
	if err := mat.Materialize(np); err != nil {
		return fail(opts, err)
	}

	fmt.Fprintln(opts.Writer, target)

	return nil
}

// checkTemplate implements --check-template: report every declared
// node unreachable from root (a structural template bug) instead of
// resolving or creating anything.
func checkTemplate(opts *options.Options, result *template.Result) error {
	unreachable := result.Graph.Unreachable()
	if len(unreachable) == 0 {
		fmt.Fprintln(opts.Writer, "template ok: every declared node is reachable from root")
		return nil
	}

	for _, idx := range unreachable {
		fmt.Fprintln(opts.ErrWriter, "unreachable node: "+result.Graph.Vertex(idx).String())
	}

	return cli.Exit("", 1)
}

func fail(opts *options.Options, err error) error {
	fmt.Fprintln(opts.ErrWriter, clishared.FormatDiagnostic(opts, err))
	return cli.Exit("", 1)
}
