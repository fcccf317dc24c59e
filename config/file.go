package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the environment keys that may be set from a YAML file.
// Zero values leave the defaults untouched.
type fileConfig struct {
	Port     string `yaml:"port"`
	Database struct {
		URL          string `yaml:"url"`
		Name         string `yaml:"name"`
		Host         string `yaml:"host"`
		Port         string `yaml:"port"`
		User         string `yaml:"user"`
		Password     string `yaml:"password"`
		PoolMin      int32  `yaml:"pool_min"`
		PoolMax      int32  `yaml:"pool_max"`
		QueryTimeout string `yaml:"query_timeout"`
	} `yaml:"database"`
	Auth struct {
		Mode                   string `yaml:"mode"`
		JWTSecret              string `yaml:"jwt_secret"`
		JWTExpire              string `yaml:"jwt_expire"`
		DemoUserID             string `yaml:"demo_user_id"`
		DemoUserEmail          string `yaml:"demo_user_email"`
		MaxFailedLoginAttempts int    `yaml:"max_failed_login_attempts"`
		LockoutDurationMinutes int    `yaml:"lockout_duration_minutes"`
		RedisURL               string `yaml:"redis_url"`
	} `yaml:"auth"`
	RateLimit struct {
		WindowMS    int `yaml:"window_ms"`
		MaxRequests int `yaml:"max_requests"`
	} `yaml:"rate_limit"`
	CORSOrigins    []string `yaml:"cors_origins"`
	TrustedProxies []string `yaml:"trusted_proxies"`
	NATS           struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
	StatusUpdateInterval string `yaml:"status_update_interval"`
	Environment          string `yaml:"environment"`
	LogLevel             string `yaml:"log_level"`
}

func applyFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	overlay(&config.Port, fc.Port)
	overlay(&config.DatabaseURL, fc.Database.URL)
	overlay(&config.DatabaseName, fc.Database.Name)
	overlay(&config.DBHost, fc.Database.Host)
	overlay(&config.DBPort, fc.Database.Port)
	overlay(&config.DBUser, fc.Database.User)
	overlay(&config.DBPassword, fc.Database.Password)
	if fc.Database.PoolMin > 0 {
		config.DBPoolMin = fc.Database.PoolMin
	}
	if fc.Database.PoolMax > 0 {
		config.DBPoolMax = fc.Database.PoolMax
	}
	if err := overlayDuration(&config.DBQueryTimeout, fc.Database.QueryTimeout); err != nil {
		return err
	}

	overlay(&config.AuthMode, fc.Auth.Mode)
	overlay(&config.JWTSecret, fc.Auth.JWTSecret)
	if err := overlayDuration(&config.JWTExpire, fc.Auth.JWTExpire); err != nil {
		return err
	}
	overlay(&config.DemoUserID, fc.Auth.DemoUserID)
	overlay(&config.DemoUserEmail, fc.Auth.DemoUserEmail)
	if fc.Auth.MaxFailedLoginAttempts > 0 {
		config.MaxFailedLoginAttempts = fc.Auth.MaxFailedLoginAttempts
	}
	if fc.Auth.LockoutDurationMinutes > 0 {
		config.LockoutDuration = time.Duration(fc.Auth.LockoutDurationMinutes) * time.Minute
	}
	overlay(&config.RedisURL, fc.Auth.RedisURL)

	if fc.RateLimit.WindowMS > 0 {
		config.RateLimitWindow = time.Duration(fc.RateLimit.WindowMS) * time.Millisecond
	}
	if fc.RateLimit.MaxRequests > 0 {
		config.RateLimitMaxRequests = fc.RateLimit.MaxRequests
	}
	if len(fc.CORSOrigins) > 0 {
		config.CORSOrigins = fc.CORSOrigins
	}
	if len(fc.TrustedProxies) > 0 {
		config.TrustedProxies = fc.TrustedProxies
	}

	overlay(&config.NATSURL, fc.NATS.URL)
	overlay(&config.NATSSubjectPrefix, fc.NATS.SubjectPrefix)
	if err := overlayDuration(&config.StatusUpdateInterval, fc.StatusUpdateInterval); err != nil {
		return err
	}
	overlay(&config.Environment, fc.Environment)
	overlay(&config.LogLevel, fc.LogLevel)

	return nil
}

func overlay(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func overlayDuration(target *time.Duration, value string) error {
	if value == "" {
		return nil
	}
	d, err := ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration in config file: %w", err)
	}
	*target = d
	return nil
}
