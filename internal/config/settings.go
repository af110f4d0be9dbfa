package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override settings,
// e.g. FLAPPY_STORE or FLAPPY_LOG_LEVEL.
const EnvPrefix = "FLAPPY"

// Settings are process-level options: where scores live, how to log, and
// which addresses the servers bind. They come from (in priority order)
// command-line flags, FLAPPY_* environment variables, an optional
// settings.yaml, and the defaults below.
type Settings struct {
	FPS      int    `mapstructure:"fps"`
	Seed     int64  `mapstructure:"seed"`
	Store    string `mapstructure:"store"`
	Config   string `mapstructure:"config"`
	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`

	Server ServerSettings `mapstructure:"server"`
}

// ServerSettings configure `flappy serve`.
type ServerSettings struct {
	SSHAddr     string        `mapstructure:"ssh"`
	HTTPAddr    string        `mapstructure:"http"`
	HostKey     string        `mapstructure:"host_key"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// StateDir returns the directory flappy keeps its files in (~/.flappy),
// or ".flappy" when the home directory is unavailable.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flappy"
	}
	return filepath.Join(home, ".flappy")
}

// NewViper returns a viper instance with defaults, environment binding and
// the optional settings file search path configured. Flags are bound by
// the caller.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("fps", 60)
	v.SetDefault("seed", 0)
	v.SetDefault("store", filepath.Join(StateDir(), "scores.db"))
	v.SetDefault("config", "")
	v.SetDefault("log_file", filepath.Join(StateDir(), "flappy.log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("server.ssh", ":23234")
	v.SetDefault("server.http", "")
	v.SetDefault("server.host_key", "")
	v.SetDefault("server.idle_timeout", 30*time.Minute)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("settings")
	v.SetConfigType("yaml")
	v.AddConfigPath(StateDir())
	v.AddConfigPath(".")

	return v
}

// LoadSettings reads the optional settings file and decodes everything
// into Settings. A missing settings file is not an error.
func LoadSettings(v *viper.Viper) (Settings, error) {
	var s Settings

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return s, fmt.Errorf("config: cannot read settings: %w", err)
		}
	}
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("config: cannot decode settings: %w", err)
	}
	if s.FPS <= 0 {
		return s, fmt.Errorf("config: fps must be positive, got %d", s.FPS)
	}
	return s, nil
}
