package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"cssb/misc"
)

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	FileLogger    LoggerConfig `yaml:"file"`
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// level maps configured level name, "none" (or anything unknown) disables
// output.
func level(name string) (zapcore.Level, bool) {
	switch name {
	case "debug":
		return zapcore.DebugLevel, true
	case "normal":
		return zapcore.InfoLevel, true
	}
	return zapcore.InvalidLevel, false
}

// Prepare builds program logger: console output split between stdout and
// stderr plus optional file log. When report is requested file log is always
// written at debug level and stored in the report together with panic output.
func (conf *LoggingConfig) Prepare(rpt *Report) (*zap.Logger, error) {
	cores := consoleCores(conf.ConsoleLogger.Level)

	fileLevel, mode := conf.FileLogger.Level, conf.FileLogger.Mode
	if rpt != nil {
		fileLevel, mode = "debug", "overwrite"
	}

	var redirected string
	if lvl, ok := level(fileLevel); ok {
		capturePanics(conf.FileLogger.Destination, mode, rpt)

		f, err := openLog(conf.FileLogger.Destination, mode)
		if err != nil {
			if f, err = os.CreateTemp("", misc.GetAppName()+".*.log"); err != nil {
				return nil, fmt.Errorf("unable to open log file (%s): %w", conf.FileLogger.Destination, err)
			}
			redirected = f.Name()
		}
		rpt.Store("final.log", f.Name())
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(f), lvl))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named(misc.GetAppName())
	if len(redirected) > 0 {
		log.Warn("Unable to use configured log file, logging to temporary one", zap.String("location", redirected))
	}
	return log, nil
}

// consoleCores sends messages below error level to stdout and errors to
// stderr. Errors are always printed unless console is off.
func consoleCores(name string) []zapcore.Core {
	lvl, ok := level(name)
	if !ok {
		return nil
	}
	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= lvl && l < zapcore.ErrorLevel })
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= zapcore.ErrorLevel })
	return []zapcore.Core{
		zapcore.NewCore(flatErrors{zapcore.NewConsoleEncoder(consoleEncoderConfig(os.Stdout))}, zapcore.Lock(os.Stdout), low),
		zapcore.NewCore(flatErrors{zapcore.NewConsoleEncoder(consoleEncoderConfig(os.Stderr))}, zapcore.Lock(os.Stderr), high),
	}
}

func consoleEncoderConfig(stream *os.File) zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if colorOutput(stream) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	}
	return ec
}

func openLog(fname, mode string) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if mode == "append" {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	return os.OpenFile(fname, flags, 0644)
}

func panicLogName(logName string) string {
	return filepath.Join(filepath.Dir(logName), misc.GetAppName()+"-panic.log")
}

// capturePanics redirects runtime crash output next to the log file (or to
// temporary location) when possible, errors are quietly ignored.
func capturePanics(logName, mode string, rpt *Report) {
	f, err := openLog(panicLogName(logName), mode)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-panic.*.log"); err != nil {
			return
		}
	}
	defer f.Close()
	if err := debug.SetCrashOutput(f, debug.CrashOptions{}); err == nil {
		rpt.Store("panic.log", f.Name())
	}
}

// Close stops crash output redirection and removes panic log if nothing was
// written there.
func (conf *LoggingConfig) Close() error {
	debug.SetCrashOutput(nil, debug.CrashOptions{})
	if len(conf.FileLogger.Destination) == 0 {
		return nil
	}
	fname := panicLogName(conf.FileLogger.Destination)
	if fi, err := os.Stat(fname); err != nil || fi.Size() != 0 {
		return nil
	}
	if err := os.Remove(fname); err != nil {
		return fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, err)
	}
	return nil
}

// flatErrors prints errors on console as a single message. Without it zap
// adds verbose form and, for aggregated errors of combined selectors, the
// list of causes, which are already part of the message.
type flatErrors struct {
	zapcore.Encoder
}

func (c flatErrors) Clone() zapcore.Encoder {
	return flatErrors{c.Encoder.Clone()}
}

func (c flatErrors) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	flat, copied := fields, false
	for i, f := range fields {
		if f.Type != zapcore.ErrorType {
			continue
		}
		// fields belong to caller
		if !copied {
			flat, copied = slices.Clone(fields), true
		}
		flat[i].Interface = errors.New(f.Interface.(error).Error())
	}
	return c.Encoder.EncodeEntry(ent, flat)
}
