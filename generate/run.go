// Package generate implements cssb subcommands.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"cssb/archive"
	"cssb/config"
	"cssb/document"
	"cssb/state"
)

// Run builds selector document(s) - "build" subcommand.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) > 0 {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	format := env.Cfg.Output.Format
	if to := cmd.String("to"); len(to) > 0 {
		if format, err = config.ParseOutputFmt(to); err != nil {
			log.Warn("Unknown output format requested, using configured one", zap.Error(err), zap.Stringer("format", env.Cfg.Output.Format))
			format = env.Cfg.Output.Format
		}
	}
	env.Overwrite = cmd.Bool("overwrite")

	// zip does not define entry name encoding, old bundles may need a code page
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		if env.CodePage, err = ianaindex.IANA.Encoding(cp); err != nil || env.CodePage == nil {
			log.Warn("Unknown character set, ignoring", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Converting non UTF-8 entry names in bundles", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, env, src, dst, format, log)
}

// process handles the core logic independently of CLI framework. Source is
// either a single document, a zip bundle of documents or a directory which is
// searched for documents recursively.
func process(ctx context.Context, env *state.LocalEnv, src, dst string, format config.OutputFmt, log *zap.Logger) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}
	if !fi.IsDir() {
		if strings.EqualFold(filepath.Ext(src), ".zip") {
			return processBundle(ctx, env, src, dst, format, log)
		}
		return processDocument(ctx, env, src, dst, format, log)
	}

	count := 0
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isDocumentFile(path) {
			return nil
		}
		count++
		// in directory mode destination is always directory
		target := dst
		if len(target) > 0 {
			target = filepath.Join(dst, filepath.Dir(strings.TrimPrefix(path, src)))
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("unable to create output directory: %w", err)
			}
		}
		if err := processDocument(ctx, env, path, target, format, log); err != nil {
			return fmt.Errorf("unable to process %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if count == 0 {
		log.Warn("No selector documents found", zap.String("directory", src))
	}
	return nil
}

// processBundle handles every document in zip bundle, directory structure of
// the bundle is kept in destination.
func processBundle(ctx context.Context, env *state.LocalEnv, src, dst string, format config.OutputFmt, log *zap.Logger) error {
	env.Rpt.Store("sources/"+filepath.Base(src), src)

	count := 0
	w := &archive.Walker{Names: env.CodePage, Match: isDocumentFile}
	err := w.Walk(ctx, src, func(name string, r io.Reader) error {
		count++
		target := dst
		if len(target) > 0 {
			target = filepath.Join(dst, filepath.FromSlash(path.Dir(name)))
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("unable to create output directory: %w", err)
			}
		}
		if err := buildDocument(ctx, env, name, r, target, format, log); err != nil {
			return fmt.Errorf("unable to process %s in %s: %w", name, src, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if count == 0 {
		log.Warn("No selector documents found", zap.String("bundle", src))
	}
	return nil
}

func isDocumentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// processDocument loads, builds and writes out single document.
func processDocument(ctx context.Context, env *state.LocalEnv, src, dst string, format config.OutputFmt, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := env.Rpt.StoreCopy("sources/"+filepath.Base(src), src); err != nil {
		log.Warn("Unable to store source in report", zap.String("file", src), zap.Error(err))
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open selector document: %w", err)
	}
	defer f.Close()

	return buildDocument(ctx, env, src, f, dst, format, log)
}

// buildDocument builds document read from r. The src names the document and
// is used to derive output file name.
func buildDocument(ctx context.Context, env *state.LocalEnv, src string, r io.Reader, dst string, format config.OutputFmt, log *zap.Logger) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := document.Load(r)
	if err != nil {
		return err
	}
	named, err := doc.Build(log)
	if err != nil {
		return err
	}
	log.Debug("Document built", zap.String("file", src), zap.Int("selectors", len(named)))

	if len(dst) == 0 {
		return write(env.Stdout, named, format, env.Cfg.Output.IndentString())
	}

	out := buildOutputPath(doc, src, dst, format, env)
	if _, err := os.Stat(out); err == nil && !env.Overwrite {
		return fmt.Errorf("output file already exists: %s", out)
	}

	o, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		if e := o.Close(); e != nil && err == nil {
			err = e
		}
	}()

	if err := write(o, named, format, env.Cfg.Output.IndentString()); err != nil {
		return err
	}
	log.Info("Output written", zap.String("file", out), zap.Int("selectors", len(named)))
	return nil
}

// write outputs built selectors in requested format.
func write(w io.Writer, named []document.Named, format config.OutputFmt, indent string) error {
	switch format {
	case config.OutputFmtCss:
		if _, err := document.Stylesheet(named, indent).WriteTo(w); err != nil {
			return fmt.Errorf("unable to write stylesheet: %w", err)
		}
	default:
		for _, n := range named {
			text, err := n.Selector.Stringify()
			if err != nil {
				return fmt.Errorf("selector %q: %w", n.Name, err)
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\n", n.Name, text); err != nil {
				return err
			}
		}
	}
	return nil
}
