// Package state keeps program wide state shared by commands through context.
package state

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"cssb/config"
)

type envKey struct{}

// LocalEnv is created before command line is parsed and filled by hooks and
// commands as they run.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// build: replace existing output files
	Overwrite bool
	// build: decoder for legacy zip entry names, nil leaves them as is
	CodePage encoding.Encoding
	// destination of results when command has none
	Stdout io.Writer

	start   time.Time
	undoLog []func()
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		Log:    zap.NewNop(),
		Stdout: os.Stdout,
		start:  time.Now(),
	}
}

// ContextWithEnv attaches fresh LocalEnv to ctx.
func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

// EnvFromContext panics when ctx was not prepared with ContextWithEnv, this
// is programming error.
func EnvFromContext(ctx context.Context) *LocalEnv {
	env, ok := ctx.Value(envKey{}).(*LocalEnv)
	if !ok {
		panic("state: context carries no LocalEnv")
	}
	return env
}

// Uptime is time passed since env was created.
func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog sends standard library log output to current Log at info
// level. Calls may be repeated, RestoreStdLog undoes all of them.
func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.undoLog = append(e.undoLog, zap.RedirectStdLog(e.Log))
}

// RestoreStdLog flushes Log and returns standard library log to its original
// state.
func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	for i := len(e.undoLog) - 1; i >= 0; i-- {
		e.undoLog[i]()
	}
	e.undoLog = nil
}
