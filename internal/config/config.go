// Package config loads the ndnlited daemon configuration from a YAML
// file, NDNLITE_* environment variables, and CLI flags, in that order
// of precedence, and validates the result.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the daemon's static configuration. Dynamic state (routes,
// registered prefixes, trust rules) is managed at runtime through the
// diagnostics API and CLI, not persisted here.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	HTTPAPI   HTTPAPIConfig   `mapstructure:"httpapi"`
	Tables    TablesConfig    `mapstructure:"tables"`
	Faces     []FaceConfig    `mapstructure:"faces"`
	Schema    SchemaConfig    `mapstructure:"schema"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

// BootstrapConfig enables the security bootstrap (sign-on) exchange.
// Leaving TrustAnchorName empty disables it: POST /bootstrap on the
// diagnostics API then responds 404 rather than attempting a sign-on
// with no anchor to trust.
type BootstrapConfig struct {
	TrustAnchorName string `mapstructure:"trust_anchor_name"`
	SignOnPrefix    string `mapstructure:"sign_on_prefix" validate:"required_with=TrustAnchorName"`
}

// LoggingConfig controls the internal/logger wrapper.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
	Output string `mapstructure:"output" validate:"required"`
}

// MetricsConfig controls the Prometheus metrics HTTP endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// HTTPAPIConfig controls the diagnostics HTTP API (table snapshots plus
// route admin and bootstrap endpoints).
type HTTPAPIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr" validate:"required"`
}

// TablesConfig bounds the forwarder's fixed-capacity tables.
type TablesConfig struct {
	FaceCapacity     int           `mapstructure:"face_capacity" validate:"required,gt=0"`
	FIBCapacity      int           `mapstructure:"fib_capacity" validate:"required,gt=0"`
	PITCapacity      int           `mapstructure:"pit_capacity" validate:"required,gt=0"`
	CSCapacity       int           `mapstructure:"cs_capacity" validate:"required,gt=0"`
	NameTreeCapacity int           `mapstructure:"nametree_capacity" validate:"required,gt=0"`
	MsgQueueCapacity int           `mapstructure:"msgqueue_capacity" validate:"required,gt=0"`
	PITSweepInterval time.Duration `mapstructure:"pit_sweep_interval" validate:"required,gt=0"`
}

// FaceConfig describes one statically configured face.
type FaceConfig struct {
	// Name identifies the face in logs and the diagnostics API.
	Name string `mapstructure:"name" validate:"required"`
	// Type selects the face transport: "net" (TCP/unix via net.Conn) or
	// "app" (in-process, registered by an appsupport consumer).
	Type string `mapstructure:"type" validate:"required,oneof=net app"`
	// Network is the net.Dial network for Type=="net" ("tcp" or "unix").
	Network string `mapstructure:"network"`
	// Address is the net.Dial address for Type=="net".
	Address string `mapstructure:"address"`
	// MTU bounds the fragment payload size (spec §6 fragmentation).
	MTU int `mapstructure:"mtu" validate:"omitempty,gt=0"`
	// Routes are name prefixes this face is a nexthop for.
	Routes []string `mapstructure:"routes"`
}

// SchemaConfig points at an optional trust-schema rule file, each line
// "name: <data-pattern> => <key-pattern>".
type SchemaConfig struct {
	RulesPath string `mapstructure:"rules_path"`
}

// Load reads configuration from configPath (YAML), overlays
// NDNLITE_*-prefixed environment variables, overlays flags, applies
// defaults for anything still unset, and validates the result.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NDNLITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(defaultConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read config file: %w", err)
	}
	return true, nil
}

func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ndnlite")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "ndnlite")
}

var validate = validator.New()

// Validate checks cfg against its `validate` tags.
func Validate(cfg *Config) error {
	return validate.Struct(cfg)
}
