// Package config loads the settings shared by the posty CLI and postyd.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. POSTY_BACKEND_URL.
const EnvPrefix = "POSTY"

type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log"`
	Session SessionConfig `mapstructure:"session"`
	Server  ServerConfig  `mapstructure:"server"`
}

// BackendConfig tells the client where the API lives.
type BackendConfig struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
}

type StoreConfig struct {
	LatestFetchWins bool `mapstructure:"latest_fetch_wins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SessionConfig locates the file holding the CLI's session cookies.
type SessionConfig struct {
	File string `mapstructure:"file"`
}

type ServerConfig struct {
	Listen     string       `mapstructure:"listen"`
	SessionKey string       `mapstructure:"session_key"`
	Storage    string       `mapstructure:"storage"`
	BcryptCost int          `mapstructure:"bcrypt_cost"`
	Dynamo     DynamoConfig `mapstructure:"dynamo"`
}

type DynamoConfig struct {
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	Profile      string `mapstructure:"profile"`
	CreateTables bool   `mapstructure:"create_tables"`
}

// Storage backends for postyd.
const (
	StorageMemory = "memory"
	StorageDynamo = "dynamo"
)

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()
	v.SetDefault("backend.url", "http://localhost:8080")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("backend.rate_limit", 0)
	v.SetDefault("backend.burst", 1)
	v.SetDefault("store.latest_fetch_wins", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("session.file", filepath.Join(home, ".config", "posty", "session.yaml"))
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.session_key", "")
	v.SetDefault("server.storage", StorageMemory)
	v.SetDefault("server.bcrypt_cost", 10)
	v.SetDefault("server.dynamo.region", "eu-central-1")
	v.SetDefault("server.dynamo.endpoint", "")
	v.SetDefault("server.dynamo.profile", "")
	v.SetDefault("server.dynamo.create_tables", false)
}

// Load reads configuration from defaults, the file named by POSTY_CONFIG (or
// ~/.config/posty/config.yaml) and the environment, in increasing priority.
// The result is not validated; callers apply their overrides first.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	cfgPath := os.Getenv(EnvPrefix + "_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "posty"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate rejects settings the programs cannot run with.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Server.Storage {
	case StorageMemory, StorageDynamo:
	default:
		return fmt.Errorf("server.storage: unknown backend %q", c.Server.Storage)
	}
	if c.Backend.RateLimit < 0 {
		return errors.New("backend.rate_limit must not be negative")
	}
	return nil
}

// ApplyLogging sets the global logrus level.
func (c LogConfig) ApplyLogging() {
	lvl, err := logrus.ParseLevel(c.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
