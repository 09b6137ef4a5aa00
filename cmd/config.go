package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration, loaded from
// ~/.conflictfewer.yaml, the working directory, environment variables
// (CONFLICTFEWER_*) and command-line flags, in increasing precedence.
type Config struct {
	// AuthorizedCalendars lists the calendars the engine may act on.
	AuthorizedCalendars []string `mapstructure:"authorized_calendars"`

	// WorkdayStartHour and WorkdayEndHour bound the slot suggestion window
	// in local clock hours. Zero values fall back to the engine defaults.
	WorkdayStartHour int `mapstructure:"workday_start_hour"`
	WorkdayEndHour   int `mapstructure:"workday_end_hour"`

	// Metrics configures the optional Prometheus metrics server.
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: false)
	Enabled bool `mapstructure:"enabled"`

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string `mapstructure:"addr"`
}

// loadConfig reads the configuration. A missing config file is not an error;
// the defaults apply. An explicit cfgFile that cannot be read is an error.
func loadConfig(cfgFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("authorized_calendars", []string{"primary"})
	v.SetDefault("workday_start_hour", 0)
	v.SetDefault("workday_end_hour", 0)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".conflictfewer")
		v.SetConfigType("yaml")
		v.AddConfigPath(homeDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CONFLICTFEWER")
	// Nested keys like metrics.enabled map to CONFLICTFEWER_METRICS_ENABLED
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
