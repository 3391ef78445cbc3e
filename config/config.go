// Package config loads the actornode settings from a YAML file, a .env file
// and the environment, in increasing order of precedence.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/super-flat/actornode/actors"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "ACTORNODE"

// address generators
const (
	GeneratorUUID   = "uuid"
	GeneratorNanoID = "nanoid"
)

// log formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config defines the node settings
type Config struct {
	// Generator names the address generator, uuid or nanoid
	Generator string `yaml:"generator"`
	// NanoIDSize is the identifier length used by the nanoid generator
	NanoIDSize int `yaml:"nanoid_size"`
	// InitialCapacity is the number of actors the registry is sized for
	InitialCapacity int           `yaml:"initial_capacity"`
	Log             LogConfig     `yaml:"log"`
	Metrics         MetricsConfig `yaml:"metrics"`
}

// LogConfig defines the logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// Console enables the lifecycle console listener
	Console bool `yaml:"console"`
	// Color forces colorized console output
	Color bool `yaml:"color"`
}

// MetricsConfig defines the Prometheus endpoint. An empty address disables it.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// Default returns the settings used when nothing else is given
func Default() *Config {
	return &Config{
		Generator:       GeneratorUUID,
		NanoIDSize:      21,
		InitialCapacity: 100,
		Log: LogConfig{
			Level:   "info",
			Format:  FormatText,
			Console: true,
			Color:   true,
		},
	}
}

// Load reads the YAML file at path (skipped when empty), then the dotenv
// files (skipped when absent) and finally ACTORNODE_* environment variables
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}
	for _, file := range envFiles {
		// godotenv never overrides variables already set
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(err, "load env file %s", file)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if val, ok := lookupEnv("GENERATOR"); ok {
		c.Generator = val
	}
	if val, ok := lookupEnv("NANOID_SIZE"); ok {
		size, err := strconv.Atoi(val)
		if err != nil {
			return errors.Wrapf(err, "invalid %s_NANOID_SIZE", EnvPrefix)
		}
		c.NanoIDSize = size
	}
	if val, ok := lookupEnv("INITIAL_CAPACITY"); ok {
		capacity, err := strconv.Atoi(val)
		if err != nil {
			return errors.Wrapf(err, "invalid %s_INITIAL_CAPACITY", EnvPrefix)
		}
		c.InitialCapacity = capacity
	}
	if val, ok := lookupEnv("LOG_LEVEL"); ok {
		c.Log.Level = val
	}
	if val, ok := lookupEnv("LOG_FORMAT"); ok {
		c.Log.Format = val
	}
	if val, ok := lookupEnv("LOG_CONSOLE"); ok {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return errors.Wrapf(err, "invalid %s_LOG_CONSOLE", EnvPrefix)
		}
		c.Log.Console = enabled
	}
	if val, ok := lookupEnv("LOG_COLOR"); ok {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return errors.Wrapf(err, "invalid %s_LOG_COLOR", EnvPrefix)
		}
		c.Log.Color = enabled
	}
	if val, ok := lookupEnv("METRICS_ADDRESS"); ok {
		c.Metrics.Address = val
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	val, ok := os.LookupEnv(EnvPrefix + "_" + name)
	return strings.TrimSpace(val), ok
}

// Validate checks the settings
func (c *Config) Validate() error {
	switch c.Generator {
	case GeneratorUUID:
	case GeneratorNanoID:
		if c.NanoIDSize <= 0 {
			return errors.Errorf("nanoid size must be positive, got %d", c.NanoIDSize)
		}
	default:
		return errors.Errorf("unknown address generator %q", c.Generator)
	}
	if c.InitialCapacity <= 0 {
		return errors.Errorf("initial capacity must be positive, got %d", c.InitialCapacity)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	switch c.Log.Format {
	case FormatText, FormatJSON:
	default:
		return errors.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// NodeOpts returns the node options derived from the settings
func (c *Config) NodeOpts() []actors.NodeOpt {
	return []actors.NodeOpt{
		actors.WithAddressGenerator(c.AddressGenerator()),
		actors.WithInitialCapacity(c.InitialCapacity),
	}
}

// AddressGenerator returns the generator named by the settings
func (c *Config) AddressGenerator() actors.AddressGenerator {
	if c.Generator == GeneratorNanoID {
		return actors.NanoIDGenerator{Size: c.NanoIDSize}
	}
	return actors.UUIDGenerator{}
}

// Logger configures logger with the level and format of the settings
func (c *Config) Logger(logger *logrus.Logger) *logrus.Logger {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err == nil {
		logger.SetLevel(level)
	}
	if c.Log.Format == FormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
