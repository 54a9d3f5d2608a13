package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Guide    GuideConfig    `mapstructure:"guide"`
	API      APIConfig      `mapstructure:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // sqlite or postgres
	Path     string `mapstructure:"path"`   // sqlite file path
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// FeedConfig holds guide feed settings
type FeedConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// GuideConfig holds grid and ingestion settings
type GuideConfig struct {
	Timezone                  string  `mapstructure:"timezone"`
	StartHour                 int     `mapstructure:"start_hour"`
	MinProgramDurationSeconds int     `mapstructure:"min_program_duration_seconds"`
	PointsPerMinute           float64 `mapstructure:"points_per_minute"`
	MinProgramWidth           float64 `mapstructure:"min_program_width"`
	RowHeight                 float64 `mapstructure:"row_height"`
}

// APIConfig holds API server settings
type APIConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	Format   string         `mapstructure:"format"`
	App      LogLevelConfig `mapstructure:"app"`
	Database LogLevelConfig `mapstructure:"database"`
}

// LogLevelConfig represents log level configuration for a specific component
type LogLevelConfig struct {
	Level string `mapstructure:"level"`
}

var (
	cfg        *Config
	configFile string
)

// SetConfigFile points Load at an explicit config file instead of the
// default search path.
func SetConfigFile(path string) {
	configFile = path
}

// bindEnvWithAlternatives binds a viper key to environment variables with
// alternative names, so both TELEGRID_FEED_URL and FEED_URL work.
func bindEnvWithAlternatives(key string, alternatives ...string) {
	viper.BindEnv(key)
	for _, alt := range alternatives {
		if value := os.Getenv(alt); value != "" {
			viper.Set(key, value)
			break
		}
	}
}

// Load reads configuration from file and environment variables
func Load() error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/telegrid")
	}

	setDefaults()

	viper.SetEnvPrefix("TELEGRID")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvWithAlternatives("database.driver", "DB_DRIVER")
	bindEnvWithAlternatives("database.path", "DB_PATH")
	bindEnvWithAlternatives("database.host", "DB_HOST")
	bindEnvWithAlternatives("database.port", "DB_PORT")
	bindEnvWithAlternatives("database.user", "DB_USER")
	bindEnvWithAlternatives("database.password", "DB_PASSWORD")
	bindEnvWithAlternatives("database.dbname", "DB_NAME")
	bindEnvWithAlternatives("database.sslmode", "DB_SSLMODE")

	bindEnvWithAlternatives("feed.url", "FEED_URL")
	viper.BindEnv("feed.timeout_seconds")

	bindEnvWithAlternatives("guide.timezone", "GUIDE_TIMEZONE")
	bindEnvWithAlternatives("guide.start_hour", "START_HOUR")
	viper.BindEnv("guide.min_program_duration_seconds")
	viper.BindEnv("guide.points_per_minute")
	viper.BindEnv("guide.min_program_width")
	viper.BindEnv("guide.row_height")

	bindEnvWithAlternatives("api.port", "API_PORT")

	bindEnvWithAlternatives("logging.level", "LOG_LEVEL")
	viper.BindEnv("logging.format")
	viper.BindEnv("logging.app.level")
	viper.BindEnv("logging.database.level")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		return &Config{}
	}
	return cfg
}

// SaveStartHour persists a changed start hour back to the config file, so the
// chosen hour survives restarts. A missing config file is not an error; the
// value still applies for the running process.
func SaveStartHour(hour int) error {
	viper.Set("guide.start_hour", hour)
	if cfg != nil {
		cfg.Guide.StartHour = hour
	}
	if viper.ConfigFileUsed() == "" {
		return nil
	}
	return viper.WriteConfig()
}

func setDefaults() {
	// Database defaults
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "./data/telegrid.db")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	// Feed defaults
	viper.SetDefault("feed.url", "https://raw.githubusercontent.com/dp247/Freeview-EPG/master/epg.xml")
	viper.SetDefault("feed.timeout_seconds", 60)

	// Guide defaults
	viper.SetDefault("guide.timezone", "Europe/London")
	viper.SetDefault("guide.start_hour", 9)
	viper.SetDefault("guide.min_program_duration_seconds", 300)
	viper.SetDefault("guide.points_per_minute", 2.666)
	viper.SetDefault("guide.min_program_width", 30.0)
	viper.SetDefault("guide.row_height", 60.0)

	// API defaults
	viper.SetDefault("api.port", 8080)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

func validate() error {
	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be one of: sqlite, postgres")
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.Path == "" {
		return fmt.Errorf("database.path is required for the sqlite driver")
	}
	if cfg.Database.Driver == "postgres" {
		if cfg.Database.User == "" {
			return fmt.Errorf("database.user is required for the postgres driver")
		}
		if cfg.Database.DBName == "" {
			return fmt.Errorf("database.dbname is required for the postgres driver")
		}
	}

	if cfg.Feed.URL == "" {
		return fmt.Errorf("feed.url is required")
	}
	if cfg.Feed.TimeoutSeconds < 0 {
		return fmt.Errorf("feed.timeout_seconds must not be negative")
	}

	if cfg.Guide.StartHour < 0 || cfg.Guide.StartHour > 23 {
		return fmt.Errorf("guide.start_hour must be between 0 and 23")
	}
	if cfg.Guide.MinProgramDurationSeconds < 0 {
		return fmt.Errorf("guide.min_program_duration_seconds must not be negative")
	}
	if cfg.Guide.PointsPerMinute <= 0 {
		return fmt.Errorf("guide.points_per_minute must be positive")
	}

	validLevels := map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] || !validLevels[cfg.Logging.App.Level] || !validLevels[cfg.Logging.Database.Level] {
		return fmt.Errorf("log levels must be one of: debug, info, warn, error")
	}
	if cfg.Logging.Format != "" && cfg.Logging.Format != "json" && cfg.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// GetAppLogLevel returns the log level for application logging
func (c *Config) GetAppLogLevel() string {
	if c.Logging.App.Level != "" {
		return c.Logging.App.Level
	}
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	return "info"
}

// GetDatabaseLogLevel returns the log level for database logging
func (c *Config) GetDatabaseLogLevel() string {
	if c.Logging.Database.Level != "" {
		return c.Logging.Database.Level
	}
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	return "info"
}
