package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLoggingConfig_FileLog(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "cssb.log")
	conf := &LoggingConfig{
		FileLogger:    LoggerConfig{Level: "debug", Destination: dest, Mode: "overwrite"},
		ConsoleLogger: LoggerConfig{Level: "none"},
	}

	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("Selector built")
	_ = log.Sync()

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), "Selector built") {
		t.Errorf("log file does not contain message:\n%s", data)
	}

	panicLog := filepath.Join(dir, "cssb-panic.log")
	if _, err := os.Stat(panicLog); err != nil {
		t.Fatalf("panic log not prepared: %v", err)
	}
	if err := conf.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(panicLog); !os.IsNotExist(err) {
		t.Error("empty panic log must be removed")
	}
}

func TestLoggingConfig_Report(t *testing.T) {
	r, _ := openReport(t)
	defer r.Close()

	conf := &LoggingConfig{
		// report forces debug file log even when it is off
		FileLogger:    LoggerConfig{Level: "none", Destination: filepath.Join(t.TempDir(), "cssb.log")},
		ConsoleLogger: LoggerConfig{Level: "none"},
	}
	if _, err := conf.Prepare(r); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	defer conf.Close()

	for _, name := range []string{"final.log", "panic.log"} {
		if _, ok := r.entries[name]; !ok {
			t.Errorf("report has no %s", name)
		}
	}
}

func TestLoggingConfig_NoFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "cssb.log")
	conf := &LoggingConfig{
		FileLogger:    LoggerConfig{Level: "none", Destination: dest},
		ConsoleLogger: LoggerConfig{Level: "normal"},
	}
	if _, err := conf.Prepare(nil); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("log file must not be created when file logging is off")
	}
	if err := conf.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestFlatErrors(t *testing.T) {
	enc := flatErrors{zapcore.NewConsoleEncoder(zapcore.EncoderConfig{MessageKey: "msg"})}
	err := multierr.Combine(errors.New("left: bad id"), errors.New("right: bad class"))
	fields := []zapcore.Field{zap.String("name", "card"), zap.Error(err)}

	buf, encErr := enc.EncodeEntry(zapcore.Entry{Message: "Unable to build"}, fields)
	if encErr != nil {
		t.Fatalf("EncodeEntry() error = %v", encErr)
	}
	out := buf.String()
	if strings.Contains(out, "errorCauses") {
		t.Errorf("causes must not be listed on console:\n%s", out)
	}
	if !strings.Contains(out, "left: bad id; right: bad class") {
		t.Errorf("error message lost:\n%s", out)
	}
	if fields[1].Interface != err {
		t.Error("caller fields must not be modified")
	}
}
