package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	GeneratorConfig struct {
		Root          string     `yaml:"root" validate:"required"`
		Output        string     `yaml:"output" validate:"required"`
		Index         string     `yaml:"index"`
		Extension     string     `yaml:"extension" validate:"required,startswith=."`
		PartialPrefix string     `yaml:"partial_prefix"`
		Reserved      []string   `yaml:"reserved" validate:"dive,required"`
		Exclude       []string   `yaml:"exclude" validate:"dive,required"`
		Order         EntryOrder `yaml:"order"`
	}

	DispatcherConfig struct {
		MixinName    string `yaml:"mixin_name" validate:"required"`
		ScopeWrapper string `yaml:"scope_wrapper" validate:"required"`
		Header       bool   `yaml:"header"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Generator  GeneratorConfig  `yaml:"generator"`
		Dispatcher DispatcherConfig `yaml:"dispatcher"`
		Logging    LoggingConfig    `yaml:"logging"`
		Reporting  ReporterConfig   `yaml:"reporting"`
	}
)

// OutputPath is where generated dispatcher is written when definitions are
// scanned under root. Empty root means configured one.
func (g *GeneratorConfig) OutputPath(root string) string {
	if len(root) == 0 {
		root = g.Root
	}
	return filepath.Join(root, g.Output)
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
		if filepath.Base(cfg.Generator.Output) != cfg.Generator.Output {
			return nil, errors.New("generator output must be a file name without directories")
		}
		for _, pat := range cfg.Generator.Exclude {
			if !doublestar.ValidatePattern(pat) {
				return nil, fmt.Errorf("malformed exclude pattern '%s'", pat)
			}
		}
		if !cfg.Generator.Order.IsValid() {
			return nil, fmt.Errorf("unknown directory entry order %d", cfg.Generator.Order)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
