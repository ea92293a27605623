package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	OutputConfig struct {
		Format        OutputFmt `yaml:"format" validate:"gte=0,lte=1"`
		Indent        int       `yaml:"indent" validate:"min=0,max=8"`
		NameFromTitle bool      `yaml:"name_from_title"`
		Transliterate bool      `yaml:"transliterate"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// IndentString returns declaration indentation for stylesheets.
func (oc *OutputConfig) IndentString() string {
	if oc.Indent == 0 {
		return "\t"
	}
	return strings.Repeat(" ", oc.Indent)
}

// decodeConfig lays YAML data over cfg. Keys which do not map to a Config
// field are errors.
func decodeConfig(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

func checkConfig(cfg *Config) error {
	if err := gencfg.Sanitize(cfg); err != nil {
		return err
	}
	return gencfg.Validate(cfg)
}

// LoadConfiguration returns expanded embedded template with file at path (if
// any) laid on top of it. Only the final result is sanitized and validated.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	defaults, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to expand configuration template: %w", err)
	}

	cfg := &Config{}
	if err := decodeConfig(defaults, cfg); err != nil {
		return nil, fmt.Errorf("bad configuration template: %w", err)
	}

	source := "configuration template"
	if len(path) > 0 {
		source = "configuration file " + path
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %w", source, err)
		}
		if err := decodeConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("bad %s: %w", source, err)
		}
	}

	if err := checkConfig(cfg); err != nil {
		return nil, fmt.Errorf("bad %s: %w", source, err)
	}
	return cfg, nil
}

// Prepare returns expanded configuration template, this is what program uses
// when no configuration file is given.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

// Dump returns active configuration as YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to write configuration: %w", err)
	}
	return data, nil
}
