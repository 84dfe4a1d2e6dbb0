// Package config resolves console settings from defaults, an optional YAML
// file, HMS_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

// Keys. Flags bound with viper.BindPFlag use the same names.
const (
	KeyServer         = "server"
	KeyDataDir        = "data_dir"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
	KeyTimeout        = "timeout"
	KeyRetries        = "retries"
	KeyPollInterval   = "poll_interval"
	KeyDebounce       = "debounce"
	KeyStrictEnvelope = "strict_envelope"
	KeyOutput         = "output"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. HMS_SERVER, HMS_LOG_LEVEL.
const EnvPrefix = "HMS"

// Console holds configuration for hmsctl.
type Console struct {
	Server         string        `mapstructure:"server"`          // Backend base URL including /api
	DataDir        string        `mapstructure:"data_dir"`        // Holds console.db and config.yaml
	LogLevel       string        `mapstructure:"log_level"`       // debug, info, warn, error
	LogFormat      string        `mapstructure:"log_format"`      // text, json
	Timeout        time.Duration `mapstructure:"timeout"`         // Per-request timeout, 0 for none
	Retries        int           `mapstructure:"retries"`         // Extra attempts for failed reads
	PollInterval   time.Duration `mapstructure:"poll_interval"`   // Unread notification refresh period
	Debounce       time.Duration `mapstructure:"debounce"`        // Quiet period before a search fires
	StrictEnvelope bool          `mapstructure:"strict_envelope"` // Treat success=false as an error
	Output         string        `mapstructure:"output"`          // table, json, yaml
}

// DefaultConsoleConfig returns sensible defaults.
func DefaultConsoleConfig() Console {
	return Console{
		Server:       hms.DefaultBaseURL,
		DataDir:      DefaultDataDir(),
		LogLevel:     "warn",
		LogFormat:    "text",
		Retries:      hms.DefaultMaxRetries,
		PollInterval: 30 * time.Second,
		Debounce:     300 * time.Millisecond,
		Output:       "table",
	}
}

// DefaultDataDir returns ~/.hms, or .hms when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hms"
	}
	return filepath.Join(home, ".hms")
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	d := DefaultConsoleConfig()
	v := viper.New()
	v.SetDefault(KeyServer, d.Server)
	v.SetDefault(KeyDataDir, d.DataDir)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyRetries, d.Retries)
	v.SetDefault(KeyPollInterval, d.PollInterval)
	v.SetDefault(KeyDebounce, d.Debounce)
	v.SetDefault(KeyStrictEnvelope, d.StrictEnvelope)
	v.SetDefault(KeyOutput, d.Output)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file and decodes the result. With an explicit path
// the file must exist; otherwise config.yaml in the data directory is read
// when present.
func Load(v *viper.Viper, path string) (*Console, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString(KeyDataDir))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Console{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the console cannot work with.
func (c *Console) Validate() error {
	switch strings.ToLower(c.Output) {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid output %q: must be table, json or yaml", c.Output)
	}
	if c.Retries < 0 {
		return fmt.Errorf("invalid retries %d: must not be negative", c.Retries)
	}
	if c.Server == "" {
		return fmt.Errorf("server is required")
	}
	return nil
}

// ClientConfig derives the API client settings.
func (c *Console) ClientConfig() hms.Config {
	cfg := hms.DefaultConfig().
		WithBaseURL(c.Server).
		WithTimeout(c.Timeout).
		WithRetries(c.Retries)
	cfg.StrictEnvelope = c.StrictEnvelope
	return cfg
}
