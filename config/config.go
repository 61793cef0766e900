// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configPath = pflag.String("config-path", ".", "Directory containing config.toml")
	_          = pflag.Bool("migrate", true, "Automatically migrate database tables on start")

	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers      = []string{"postgres", "sqlite"}
	validEnvironments = []string{"development", "production", "test"}
)

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	// Same file the frontend tooling writes, missing is fine
	_ = godotenv.Load(".env.local")

	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configPath)

	bindEnvs()
	SetDefaults()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		zap.L().Info("No config.toml found, using environment and defaults")
	}

	return Validate()
}

func bindEnvs() {
	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")
	v.BindEnv("app.environment", "APP_ENVIRONMENT", "NODE_ENV")

	v.BindEnv("host.port", "HOST_PORT", "PORT")
	v.BindEnv("host.frontend_url", "FRONTEND_APP_URL")
	v.BindEnv("host.localhost_url", "LOCALHOST_APP_URL")

	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.dsn", "DATABASE_URL")
	v.BindEnv("database.max_open_conns", "DATABASE_MAX_OPEN_CONNS")

	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.region", "STORAGE_REGION")
	v.BindEnv("storage.access_key_id", "STORAGE_ACCESS_KEY_ID")
	v.BindEnv("storage.secret_access_key", "STORAGE_SECRET_ACCESS_KEY")
	v.BindEnv("storage.check_buckets", "STORAGE_CHECK_BUCKETS")
	v.BindEnv("storage.oauth_avatar_host", "STORAGE_OAUTH_AVATAR_HOST")

	v.BindEnv("security.rate_limit.requests", "SECURITY_RATE_LIMIT_REQUESTS")
	v.BindEnv("security.rate_limit.window", "SECURITY_RATE_LIMIT_WINDOW")

	v.BindEnv("classrooms.max_per_day", "CLASSROOMS_MAX_PER_DAY")
	v.BindEnv("sessions.cleanup_interval", "SESSIONS_CLEANUP_INTERVAL")
}

// SetDefaults registers the default value of every key
func SetDefaults() {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.environment", "development")

	v.SetDefault("host.port", 8080)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_open_conns", 20)

	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.check_buckets", true)
	v.SetDefault("storage.oauth_avatar_host", "lh3.googleusercontent.com")

	v.SetDefault("security.rate_limit.requests", 100)
	v.SetDefault("security.rate_limit.window", 15*time.Minute)

	v.SetDefault("classrooms.max_per_day", 10)
	v.SetDefault("sessions.cleanup_interval", 24*time.Hour)
}

// Validate checks the loaded values
func Validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if !slices.Contains(validEnvironments, v.GetString("app.environment")) {
		return errors.New("invalid environment provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	if v.GetInt("database.max_open_conns") <= 0 {
		return errors.New("database.max_open_conns must be bigger than 0")
	}

	if v.GetString("storage.endpoint") == "" {
		return errors.New("storage endpoint can't be empty")
	}
	if v.GetString("storage.access_key_id") == "" {
		return errors.New("storage access key id can't be empty")
	}
	if v.GetString("storage.secret_access_key") == "" {
		return errors.New("storage secret access key can't be empty")
	}

	if v.GetString("storage.oauth_avatar_host") == "" {
		zap.L().Warn("No storage.oauth_avatar_host set, every avatar will be treated as ours")
	}

	if v.GetInt("security.rate_limit.requests") <= 0 {
		return errors.New("security.rate_limit.requests must be bigger than 0")
	}

	if v.GetDuration("security.rate_limit.window") <= 0 {
		return errors.New("security.rate_limit.window must be a positive duration")
	}

	if v.GetInt("classrooms.max_per_day") <= 0 {
		return errors.New("classrooms.max_per_day must be bigger than 0")
	}

	if v.GetDuration("sessions.cleanup_interval") <= 0 {
		return errors.New("sessions.cleanup_interval must be a positive duration")
	}

	if v.GetString("host.frontend_url") == "" && v.GetString("app.environment") == "production" {
		return errors.New("host.frontend_url is required in production")
	}

	if len(AllowedOrigins()) == 0 {
		return errors.New("no CORS origin set, provide host.frontend_url or host.localhost_url")
	}

	return nil
}

// AllowedOrigins returns the origins CORS accepts. Production only allows the
// frontend, other environments also allow the local dev server.
func AllowedOrigins() []string {
	origins := []string{}

	if u := v.GetString("host.frontend_url"); u != "" {
		origins = append(origins, u)
	}

	if v.GetString("app.environment") != "production" {
		if u := v.GetString("host.localhost_url"); u != "" {
			origins = append(origins, u)
		}
	}

	return origins
}
