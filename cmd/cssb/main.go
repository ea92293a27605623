package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"cssb/config"
	"cssb/generate"
	"cssb/misc"
	"cssb/state"
)

const buildHelp = `%s
SOURCE:
    selector document (YAML), directory - every *.yaml and *.yml file under
    it is processed recursively, or zip bundle of documents

DESTINATION:
    output file or existing directory, if absent - STDOUT
    in directory output names are derived from source names (or document
    titles) and source directory structure is kept
`

const dumpConfigHelp = `%s
DESTINATION:
    file to write configuration to, if absent - STDOUT

Active configuration is embedded defaults with configuration file (if any)
laid on top of them. Use --default to see defaults only.
`

func newApp() *cli.Command {
	return &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "builds, checks and normalizes CSS selectors",
		Version:         fmt.Sprintf("%s (%s) : %s", misc.GetVersion(), runtime.Version(), misc.GetGitHash()),
		HideHelpCommand: true,
		Before:          before,
		After:           after,
		OnUsageError:    onUsageError,
		ExitErrHandler:  onExitError,
		CommandNotFound: onUnknownCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log everything and collect debug report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:               "build",
				Usage:              "Builds selector document(s)",
				ArgsUsage:          "SOURCE [DESTINATION]",
				OnUsageError:       onUsageError,
				Action:             generate.Run,
				CustomHelpTemplate: fmt.Sprintf(buildHelp, cli.CommandHelpTemplate),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to",
						Usage: "output `TYPE`, overrides configuration (" + strings.Join(config.OutputFmtNames(), ", ") + ")"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "replace existing output files"},
					&cli.StringFlag{Name: "force-zip-cp",
						Usage: "decode non UTF-8 entry names in zip bundles using `ENCODING` (IANA character set name)"},
				},
			},
			{
				Name:         "normalize",
				Usage:        "Checks selectors and prints them in canonical form",
				ArgsUsage:    "SELECTOR...",
				OnUsageError: onUsageError,
				Action:       generate.Normalize,
			},
			{
				Name:               "dumpconfig",
				Usage:              "Writes default or active configuration (YAML)",
				ArgsUsage:          "[DESTINATION]",
				OnUsageError:       onUsageError,
				Action:             generate.DumpConfig,
				CustomHelpTemplate: fmt.Sprintf(dumpConfigHelp, cli.CommandHelpTemplate),
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "write embedded defaults"},
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	err := newApp().Run(ctx, os.Args)
	stop()

	if err != nil {
		if !errLogged {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		}
		os.Exit(1)
	}
}
