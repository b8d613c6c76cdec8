package spvopt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/spvopt/opt"
)

// Config is a pipeline file:
//
//	passes:
//	  - interface-cleanup
//	  - simplify-instructions
//	spirv_versions: ">= 1.0, <= 1.6"
//	verify_analyses: false
//	log_level: info
//
// Omitted keys keep their DefaultConfig value.
type Config struct {
	Passes         []string `yaml:"passes"`
	SPIRVVersions  string   `yaml:"spirv_versions"`
	VerifyAnalyses bool     `yaml:"verify_analyses"`
	LogLevel       string   `yaml:"log_level"`
}

// DefaultConfig returns the configuration matching DefaultOptions.
func DefaultConfig() Config {
	return Config{
		Passes:        opt.DefaultPipeline(),
		SPIRVVersions: DefaultSPIRVVersions,
		LogLevel:      "info",
	}
}

// LoadConfig reads and validates a pipeline file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates a pipeline file. Unknown keys are
// rejected.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks pass names, the version range and the log level. All
// problems are reported together.
func (c Config) Validate() error {
	var errs []error
	for _, name := range c.Passes {
		if _, err := opt.NewPass(name); err != nil {
			errs = append(errs, err)
		}
	}
	if c.SPIRVVersions != "" {
		if _, err := parseVersionRange(c.SPIRVVersions); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the slog level named by LogLevel. Empty means info.
func (c Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// ToOptions converts c to Options logging through logger.
func (c Config) ToOptions(logger *slog.Logger) Options {
	return Options{
		Passes:         c.Passes,
		SPIRVVersions:  c.SPIRVVersions,
		VerifyAnalyses: c.VerifyAnalyses,
		Logger:         logger,
	}
}
