// Package clishared holds the urfave/cli/v2 flags and terminal
// diagnostic rendering shared by cmd/mk and cmd/go.
package clishared

import "github.com/urfave/cli/v2"

// LevelFlag is the explicit -l/--level override for the positional
// levelspec.
func LevelFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "level",
		Aliases: []string{"l"},
		Usage:   "explicit levelspec (overrides the first positional TERM)",
	}
}

// InputFlag is -i/--input, the explicit template path overriding
// $JSP_PATH.
func InputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "template file (defaults to $JSP_PATH)",
	}
}

// ForcePathFlag is -f/--force-path, forcing TERMS to be interpreted as
// a single absolute path regardless of its shape.
func ForcePathFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "force-path",
		Aliases: []string{"f"},
		Usage:   "treat the single TERM as an absolute path",
	}
}

// VerboseFlag is -v/--verbose, enabling colorized, detailed
// diagnostics.
func VerboseFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "colorized, detailed diagnostics",
	}
}

// DryRunFlag is mk's -n/--dry-run: resolve and print the target path
// without touching the filesystem.
func DryRunFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "dry-run",
		Aliases: []string{"n"},
		Usage:   "print the resolved path without creating anything",
	}
}

// CheckTemplateFlag is mk's --check-template: load the template,
// report any declared node unreachable from root, and exit without
// resolving or creating anything.
func CheckTemplateFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "check-template",
		Usage: "validate template structure (unreachable nodes) and exit",
	}
}

// StickyFlag is mk's --sticky, requesting the sticky bit on the
// deepest managed directory created.
func StickyFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "sticky",
		Usage: "set the sticky bit on the deepest managed directory",
	}
}

// ShellFlag is go's -s/--shell, selecting the target shell dialect.
func ShellFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "shell",
		Aliases: []string{"s"},
		Value:   "bash",
		Usage:   "shell dialect to emit for: bash or tcsh",
	}
}
