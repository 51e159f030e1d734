package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_DefaultValues verifies the hardcoded defaults without any YAML
// files present.
func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "quotedesk", cfg.App.Name)
	assert.Equal(t, "dev", cfg.App.Version)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.Equal(t, "SummitPoint Services", cfg.Company.Name)
	assert.Equal(t, 5*time.Second, cfg.Builder.QuietPeriod)
	assert.Equal(t, 30*time.Second, cfg.Builder.SaveTimeout)
	assert.Equal(t, "remote", cfg.Store.Driver)

	assert.Equal(t, DefaultClientRetryMaxAttempts, cfg.Client.Retry.MaxAttempts)
	assert.Equal(t, DefaultClientCircuitMaxFailures, cfg.Client.CircuitBreaker.MaxFailures)

	// The store collaborator must not retry: a failed save surfaces to
	// the session instead of being replayed behind its back.
	assert.Equal(t, 1, cfg.Collaborators.Store.MaxAttempts)
	assert.Zero(t, cfg.Collaborators.Notifier.MaxAttempts, "notifier uses the shared attempt count")

	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, "X-Access-Key", cfg.Auth.KeyHeader)
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("APP_STORE_DRIVER", "sqlite")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
}

func TestLoad_DurationParsing(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Client.Retry.InitialInterval)
	assert.Equal(t, 5*time.Second, cfg.Client.Retry.MaxInterval)
	assert.Equal(t, 5*time.Second, cfg.Builder.QuietPeriod)
}

func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := Load("does-not-exist")
	require.NoError(t, err, "missing profile files are ignored")
	assert.NotNil(t, cfg)
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "missing company name",
			mutate: func(c *Config) { c.Company.Name = "" },
			want:   "company.name is required",
		},
		{
			name:   "invalid store driver",
			mutate: func(c *Config) { c.Store.Driver = "postgres" },
			want:   "store.driver must be one of",
		},
		{
			name:   "quiet period too short",
			mutate: func(c *Config) { c.Builder.QuietPeriod = 100 * time.Millisecond },
			want:   "builder.quietperiod must be at least",
		},
		{
			name:   "invalid port",
			mutate: func(c *Config) { c.Server.Port = 70000 },
			want:   "server.port must be at most",
		},
		{
			name:   "invalid log level",
			mutate: func(c *Config) { c.Log.Level = "trace2" },
			want:   "log.level must be one of",
		},
		{
			name:   "auth enabled without key",
			mutate: func(c *Config) { c.Auth.Enabled = true },
			want:   "auth.accesskey is required when",
		},
		{
			name:   "bad collaborator url",
			mutate: func(c *Config) { c.Collaborators.Notifier.BaseURL = "not-a-url" },
			want:   "must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)

			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
