package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"oversight/database"
)

// Auth modes
const (
	AuthModeJWT  = "jwt"
	AuthModeDemo = "demo"
)

// Config holds all application configuration
type Config struct {
	// HTTP server
	Port string

	// Database configuration
	DatabaseURL    string
	DatabaseName   string
	DBHost         string
	DBPort         string
	DBName         string
	DBUser         string
	DBPassword     string
	DBPoolMin      int32
	DBPoolMax      int32
	DBQueryTimeout time.Duration

	// Authentication
	JWTSecret              string
	JWTExpire              time.Duration
	AuthMode               string
	DemoUserID             string
	DemoUserEmail          string
	MaxFailedLoginAttempts int
	LockoutDuration        time.Duration
	RedisURL               string

	// Request limits
	RateLimitWindow      time.Duration
	RateLimitMaxRequests int
	CORSOrigins          []string
	TrustedProxies       []string

	// Messaging
	NATSURL           string
	NATSSubjectPrefix string

	// Automation
	StatusUpdateInterval time.Duration

	// Environment
	Environment string // "development", "production" or "test"
	LogLevel    string
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Load reads configuration without touching the global instance
func Load() (*Config, error) {
	return load()
}

// IsDevelopment reports whether verbose error details may be exposed
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// GetDatabaseURL returns the connection string, building it from discrete parts when
// DATABASE_URL is not set
func (c *Config) GetDatabaseURL() string {
	if c.DatabaseURL != "" {
		return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
	}
	return database.BuildDatabaseURL(c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// load loads configuration from the optional YAML file and then the environment
func load() (*Config, error) {
	config := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(config, path); err != nil {
			return nil, err
		}
	}

	applyEnv(config)

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func defaults() *Config {
	return &Config{
		Port:                   "5000",
		DBHost:                 "localhost",
		DBPort:                 "5432",
		DBName:                 "dga_oversight",
		DBUser:                 "postgres",
		DBPoolMin:              2,
		DBPoolMax:              10,
		DBQueryTimeout:         10 * time.Second,
		JWTExpire:              24 * time.Hour,
		AuthMode:               AuthModeJWT,
		DemoUserEmail:          "demo@dga.sa",
		MaxFailedLoginAttempts: 5,
		LockoutDuration:        15 * time.Minute,
		RateLimitWindow:        15 * time.Minute,
		RateLimitMaxRequests:   100,
		CORSOrigins:            []string{"http://localhost:3000"},
		NATSSubjectPrefix:      "oversight",
		Environment:            "development",
		LogLevel:               "info",
	}
}

func applyEnv(config *Config) {
	setString(&config.Port, "PORT")
	setString(&config.DatabaseURL, "DATABASE_URL")
	setString(&config.DatabaseName, "DATABASE_NAME")
	setString(&config.DBHost, "DB_HOST")
	setString(&config.DBPort, "DB_PORT")
	setString(&config.DBName, "DB_NAME")
	setString(&config.DBUser, "DB_USER")
	setString(&config.DBPassword, "DB_PASSWORD")
	setString(&config.JWTSecret, "JWT_SECRET")
	setString(&config.AuthMode, "AUTH_MODE")
	setString(&config.DemoUserID, "DEMO_USER_ID")
	setString(&config.DemoUserEmail, "DEMO_USER_EMAIL")
	setString(&config.RedisURL, "REDIS_URL")
	setString(&config.NATSURL, "NATS_URL")
	setString(&config.NATSSubjectPrefix, "NATS_SUBJECT_PREFIX")
	setString(&config.Environment, "ENVIRONMENT")
	setString(&config.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("DB_POOL_MIN"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			config.DBPoolMin = int32(n)
		}
	}
	if v := os.Getenv("DB_POOL_MAX"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			config.DBPoolMax = int32(n)
		}
	}
	if v := os.Getenv("DB_QUERY_TIMEOUT"); v != "" {
		if d, err := ParseDuration(v); err == nil {
			config.DBQueryTimeout = d
		}
	}
	if v := os.Getenv("JWT_EXPIRE"); v != "" {
		if d, err := ParseDuration(v); err == nil {
			config.JWTExpire = d
		}
	}
	if v := os.Getenv("MAX_FAILED_LOGIN_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.MaxFailedLoginAttempts = n
		}
	}
	if v := os.Getenv("LOCKOUT_DURATION_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.LockoutDuration = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.RateLimitWindow = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("RATE_LIMIT_MAX_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.RateLimitMaxRequests = n
		}
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		config.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		config.TrustedProxies = splitList(v)
	}
	if v := os.Getenv("STATUS_UPDATE_INTERVAL"); v != "" {
		if d, err := ParseDuration(v); err == nil {
			config.StatusUpdateInterval = d
		}
	}
}

func (c *Config) validate() error {
	if c.AuthMode != AuthModeJWT && c.AuthMode != AuthModeDemo {
		return fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeJWT, AuthModeDemo, c.AuthMode)
	}
	if c.DBPoolMax < c.DBPoolMin {
		return fmt.Errorf("DB_POOL_MAX (%d) must not be lower than DB_POOL_MIN (%d)", c.DBPoolMax, c.DBPoolMin)
	}

	if c.Environment != "test" {
		if c.DatabaseURL == "" && c.DBHost == "" {
			return fmt.Errorf("DATABASE_URL or DB_HOST is required")
		}
		if c.AuthMode == AuthModeJWT && c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE=%s", AuthModeJWT)
		}
	}
	return nil
}

// ParseDuration accepts Go durations plus a day suffix ("7d")
func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if strings.HasSuffix(value, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(value, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", value, err)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(value)
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SetTestConfig replaces the global configuration (tests only)
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig clears the global configuration so the next Get reloads it
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig returns a configuration suitable for tests
func NewTestConfig() *Config {
	config := defaults()
	config.Environment = "test"
	config.JWTSecret = "test-secret"
	config.AuthMode = AuthModeJWT
	config.LogLevel = "error"
	return config
}
