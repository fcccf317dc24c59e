package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("DATABASE_URL", "postgres://dga@db:5432")
	t.Setenv("DATABASE_NAME", "dga_oversight")
	t.Setenv("JWT_EXPIRE", "7d")
	t.Setenv("LOCKOUT_DURATION_MINUTES", "30")
	t.Setenv("RATE_LIMIT_WINDOW_MS", "60000")
	t.Setenv("CORS_ORIGIN", "https://a.gov.sa, https://b.gov.sa,")
	t.Setenv("DB_POOL_MIN", "4")
	t.Setenv("DB_POOL_MAX", "20")
	t.Setenv("MAX_FAILED_LOGIN_ATTEMPTS", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpire)
	assert.Equal(t, 30*time.Minute, cfg.LockoutDuration)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, []string{"https://a.gov.sa", "https://b.gov.sa"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.TrustedProxies)
	assert.Equal(t, int32(4), cfg.DBPoolMin)
	assert.Equal(t, int32(20), cfg.DBPoolMax)
	assert.Equal(t, 5, cfg.MaxFailedLoginAttempts, "unparseable values keep the default")
	assert.Contains(t, cfg.GetDatabaseURL(), "/dga_oversight")
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "jwt secret required outside tests",
			env:  map[string]string{"ENVIRONMENT": "production", "JWT_SECRET": "", "AUTH_MODE": "jwt"},
			want: "JWT_SECRET is required",
		},
		{
			name: "unknown auth mode",
			env:  map[string]string{"ENVIRONMENT": "test", "AUTH_MODE": "ldap"},
			want: "AUTH_MODE must be",
		},
		{
			name: "inverted pool bounds",
			env:  map[string]string{"ENVIRONMENT": "test", "DB_POOL_MIN": "8", "DB_POOL_MAX": "2"},
			want: "DB_POOL_MAX (2) must not be lower than DB_POOL_MIN (8)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_DemoModeNeedsNoSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("AUTH_MODE", AuthModeDemo)
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, AuthModeDemo, cfg.AuthMode)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oversight.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8080"
environment: test
database:
  host: pg.internal
  pool_max: 25
  query_timeout: 3s
auth:
  jwt_secret: from-file
  lockout_duration_minutes: 5
rate_limit:
  max_requests: 250
cors_origins:
  - https://portal.dga.gov.sa
nats:
  url: nats://nats:4222
status_update_interval: 1h
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port, "environment wins over the file")
	assert.Equal(t, int32(25), cfg.DBPoolMax)
	assert.Equal(t, 3*time.Second, cfg.DBQueryTimeout)
	assert.Equal(t, 5*time.Minute, cfg.LockoutDuration)
	assert.Equal(t, 250, cfg.RateLimitMaxRequests)
	assert.Equal(t, []string{"https://portal.dga.gov.sa"}, cfg.CORSOrigins)
	assert.Equal(t, time.Hour, cfg.StatusUpdateInterval)
}

func TestLoad_FileErrors(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.ErrorContains(t, err, "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("status_update_interval: soon\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	_, err = Load()
	assert.ErrorContains(t, err, "invalid duration in config file")
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("24h")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, d)

	d, err = ParseDuration(" 2d ")
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, d)

	_, err = ParseDuration("xd")
	assert.Error(t, err)
}

func TestGlobalConfig(t *testing.T) {
	testConfig := NewTestConfig()
	testConfig.Port = "1234"
	SetTestConfig(testConfig)
	t.Cleanup(ResetConfig)

	assert.Same(t, testConfig, Get())
	assert.Equal(t, "test-secret", Get().JWTSecret)
}
