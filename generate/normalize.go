package generate

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssb/css"
	"cssb/state"
)

// Normalize reads selectors given on command line and prints their canonical
// form - "normalize" subcommand.
func Normalize(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("normalize")

	if cmd.Args().Len() == 0 {
		return errors.New("no selectors have been specified")
	}
	return normalize(env, css.NewParser(log), cmd.Args().Slice())
}

func normalize(env *state.LocalEnv, p *css.Parser, selectors []string) error {
	for _, text := range selectors {
		sel, err := p.Parse(text)
		if err != nil {
			return err
		}
		out, err := sel.Stringify()
		if err != nil {
			return fmt.Errorf("unable to render %q: %w", text, err)
		}
		if out != text {
			env.Log.Debug("Selector normalized", zap.String("from", text), zap.String("to", out))
		}
		if _, err := fmt.Fprintln(env.Stdout, out); err != nil {
			return err
		}
	}
	return nil
}
