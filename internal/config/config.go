package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database_config" toml:"database_config"`
	Log      LogConfig      `mapstructure:"log_config" toml:"log_config"`
}

// DatabaseConfig locates the sqlite file and its migrations.
type DatabaseConfig struct {
	Database string `mapstructure:"database" toml:"database"`
	Migrates string `mapstructure:"migrates" toml:"migrates"`
}

// LogConfig holds diagnostics settings.
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
}

// Paths are the on-disk locations derived from a root directory.
type Paths struct {
	Root        string
	ConfigFile  string
	DatabaseDir string
}

// DefaultPaths places everything under <home>/.rustance.
// RUSTANCE_CONFIG overrides the config file location.
func DefaultPaths(home string) Paths {
	root := filepath.Join(home, ".rustance")
	p := Paths{
		Root:        root,
		ConfigFile:  filepath.Join(root, "config_manager.toml"),
		DatabaseDir: filepath.Join(root, "database"),
	}
	if cfgPath := os.Getenv("RUSTANCE_CONFIG"); cfgPath != "" {
		p.ConfigFile = cfgPath
	}
	return p
}

// Defaults is the configuration written on first run.
func (p Paths) Defaults() Config {
	return Config{
		Database: DatabaseConfig{
			Database: filepath.Join(p.DatabaseDir, "wallet.db"),
			Migrates: filepath.Join(p.DatabaseDir, "migrates"),
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load reads configuration from file and env, creating the config file and
// the database directory if they are missing. An existing file is never
// rewritten. Env var overrides use prefix RUSTANCE_.
func Load(p Paths) (Config, error) {
	if err := os.MkdirAll(p.DatabaseDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("mkdir database dir: %w", err)
	}
	if err := writeDefaultIfMissing(p); err != nil {
		return Config{}, err
	}

	def := p.Defaults()
	v := viper.New()
	v.SetDefault("database_config.database", def.Database.Database)
	v.SetDefault("database_config.migrates", def.Database.Migrates)
	v.SetDefault("log_config.level", def.Log.Level)

	v.SetConfigType("toml")
	v.SetConfigFile(p.ConfigFile)

	v.SetEnvPrefix("RUSTANCE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", p.ConfigFile, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports missing required settings.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Database.Database) == "" {
		missing = append(missing, "database_config.database")
	}
	if strings.TrimSpace(c.Database.Migrates) == "" {
		missing = append(missing, "database_config.migrates")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func writeDefaultIfMissing(p Paths) error {
	if _, err := os.Stat(p.ConfigFile); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.ConfigFile), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p.Defaults()); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(p.ConfigFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
