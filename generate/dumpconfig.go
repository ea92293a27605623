package generate

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssb/config"
	"cssb/state"
)

// DumpConfig writes either embedded default or active configuration -
// "dumpconfig" subcommand.
func DumpConfig(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("dumpconfig")

	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	return dumpConfig(env, cmd.Args().Get(0), cmd.Bool("default"), log)
}

func dumpConfig(env *state.LocalEnv, fname string, defaults bool, log *zap.Logger) (err error) {
	var data []byte
	if defaults {
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	out, where := env.Stdout, "STDOUT"
	if len(fname) > 0 {
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer func() {
			if e := f.Close(); e != nil && err == nil {
				err = e
			}
		}()
		out, where = f, fname
	}

	log.Info("Writing configuration", zap.Bool("default", defaults), zap.String("destination", where))
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
