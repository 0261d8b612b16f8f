package app

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/corey/shapegen/internal/domain/hierarchy"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (SHAPEGEN_LOG_LEVEL, ...).
const EnvPrefix = "SHAPEGEN"

// Config is the resolved shapegen configuration.
type Config struct {
	DBPath         string    `mapstructure:"db_path"`         // run store, relative to the project root
	CatalogDir     string    `mapstructure:"catalog_dir"`     // empty = embedded catalog
	Provenance     string    `mapstructure:"provenance"`      // most-specific | literal
	InterfaceDepth int       `mapstructure:"interface_depth"` // exhaustive interface lattice depth
	Persist        bool      `mapstructure:"persist"`         // save runs to the store
	Log            LogConfig `mapstructure:"log"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db_path", DirName+"/shapegen.db")
	v.SetDefault("catalog_dir", "")
	v.SetDefault("provenance", hierarchy.MostSpecific.String())
	v.SetDefault("interface_depth", 2)
	v.SetDefault("persist", true)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "warn")
}

// NewViper builds a viper instance with defaults, SHAPEGEN_ environment
// overrides and, when present, shapegen.toml from .shapegen/ or the project
// root (in that order). Callers bind CLI flags on top.
func NewViper(projectRoot string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	v.SetConfigName("shapegen")
	v.SetConfigType("toml")
	v.AddConfigPath(NewPaths(projectRoot).Root)
	v.AddConfigPath(projectRoot)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read shapegen.toml")
		}
	}
	return v, nil
}

// LoadConfig unmarshals and validates the configuration held by v.
func LoadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no command could run with.
func (c *Config) Validate() error {
	if _, err := c.Filter(); err != nil {
		return err
	}
	if c.InterfaceDepth < 1 {
		return errors.WithHint(
			errors.Newf("interface_depth must be at least 1, got %d", c.InterfaceDepth),
			"depth 2 builds the 21 standard lattices")
	}
	if strings.TrimSpace(c.DBPath) == "" && c.Persist {
		return errors.New("db_path is empty but persist is enabled")
	}
	return nil
}

// Filter returns the configured provenance filter.
func (c *Config) Filter() (hierarchy.ProvenanceFilter, error) {
	return hierarchy.ParseProvenanceFilter(c.Provenance)
}
