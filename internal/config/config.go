package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Duration struct{ time.Duration }

// [Duration] implements [yaml.Marshaler]
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.New("invalid duration")
	}
	switch node.Tag {
	case "!!int":
		var value int64
		if err := node.Decode(&value); err != nil {
			return err
		}
		d.Duration = time.Duration(value)
		return nil
	case "!!str":
		var err error
		d.Duration, err = time.ParseDuration(node.Value)
		return err
	default:
		return errors.New("invalid duration")
	}
}

type Config struct {
	Port        string   `yaml:"port"`
	BasePath    string   `yaml:"base_path"`
	Development bool     `yaml:"development"`
	CorsOrigins []string `yaml:"cors_origins"`
	Sessions    Sessions `yaml:"sessions"`
}

type Sessions struct {
	TTL             Duration `yaml:"ttl"`
	JanitorInterval Duration `yaml:"janitor_interval"`
	Seed            *uint64  `yaml:"seed"`
}

func Default() Config {
	return Config{
		Port: "8080",
		Sessions: Sessions{
			TTL:             Duration{time.Hour},
			JanitorInterval: Duration{time.Minute},
		},
	}
}

// Load reads the YAML file at path, if any, on top of the defaults, then
// lets the environment override it.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		if err := ReadConfig(path, &c); err != nil {
			return c, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func ReadConfig(path string, config *Config) error {
	if b, err := os.ReadFile(path); err != nil {
		return err
	} else {
		return yaml.Unmarshal(b, config)
	}
}

func (c *Config) applyEnv() error {
	if port, ok := Port(); ok {
		c.Port = port
	}
	if basePath, ok := BasePath(); ok {
		c.BasePath = basePath
	}
	if development, ok := Development(); ok {
		c.Development = development
	}
	if origins, ok := CorsOrigins(); ok {
		c.CorsOrigins = origins
	}
	ttl, ok, err := SessionTTL()
	if err != nil {
		return err
	}
	if ok {
		c.Sessions.TTL = Duration{ttl}
	}
	seed, ok, err := Seed()
	if err != nil {
		return err
	}
	if ok {
		c.Sessions.Seed = &seed
	}
	return nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is not set")
	}
	if c.Sessions.TTL.Duration <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Sessions.TTL)
	}
	if c.Sessions.JanitorInterval.Duration <= 0 {
		return fmt.Errorf("janitor interval must be positive, got %s", c.Sessions.JanitorInterval)
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("base path must start with a slash, got %q", c.BasePath)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) LogValue() slog.Value {
	seed := "random"
	if c.Sessions.Seed != nil {
		seed = fmt.Sprint(*c.Sessions.Seed)
	}
	return slog.GroupValue(
		slog.String("addr", c.Addr()),
		slog.String("base_path", c.BasePath),
		slog.Bool("development", c.Development),
		slog.Any("cors_origins", c.CorsOrigins),
		slog.String("session_ttl", c.Sessions.TTL.String()),
		slog.String("janitor_interval", c.Sessions.JanitorInterval.String()),
		slog.String("seed", seed),
	)
}
