package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/KonishchevDmitry/whales/internal/engine"
)

const EnvPrefix = "WHALES"

type Config struct {
	Engine       string        `mapstructure:"engine" validate:"required"`
	Host         string        `mapstructure:"host"`
	Context      string        `mapstructure:"context"`
	EngineConfig string        `mapstructure:"engine-config"`
	Debounce     time.Duration `mapstructure:"debounce" validate:"gt=0"`
	Devel        bool          `mapstructure:"devel"`
	Exporter     Exporter      `mapstructure:"exporter"`
}

type Exporter struct {
	Listen string `mapstructure:"listen" validate:"required,hostname_port"`
	// How often engine version is requested
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
}

var defaults = map[string]any{
	"engine":            engine.DefaultBinary,
	"host":              "",
	"context":           "",
	"engine-config":     "",
	"debounce":          engine.DefaultDebounce,
	"devel":             false,
	"exporter.listen":   "127.0.0.1:9101",
	"exporter.interval": time.Minute,
}

// Command line flags which are named differently from their configuration keys
var flagKeys = map[string]string{
	"listen":           "exporter.listen",
	"version-interval": "exporter.interval",
}

// Load reads configuration with the following priority: command line flags, WHALES_* environment variables,
// configuration file, defaults.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, xerrors.Errorf("Failed to read %q: %w", path, err)
		}
	}

	if flags != nil {
		var bindErr error

		flags.VisitAll(func(flag *pflag.Flag) {
			key, ok := flagKeys[flag.Name]
			if !ok {
				if _, known := defaults[flag.Name]; !known {
					return
				}
				key = flag.Name
			}

			if err := v.BindPFlag(key, flag); err != nil && bindErr == nil {
				bindErr = err
			}
		})

		if bindErr != nil {
			return nil, bindErr
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, xerrors.Errorf("Invalid configuration: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&config); err != nil {
		return nil, xerrors.Errorf("Invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) GlobalOptions() engine.GlobalOptions {
	return engine.GlobalOptions{
		Host:    c.Host,
		Context: c.Context,
		Config:  c.EngineConfig,
	}
}

func (c *Config) CallerOptions() []engine.CallerOption {
	return []engine.CallerOption{engine.WithDebounce(c.Debounce)}
}
