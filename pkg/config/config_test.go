package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "/api/v1", cfg.Server.APIPrefix())
	assert.Equal(t, 10, cfg.SMS.MinLength)
	assert.Equal(t, 1000, cfg.SMS.MaxLength)
	assert.False(t, cfg.SMS.LogCredits)
	assert.Equal(t, 50*time.Minute, cfg.Cache.StatsTTL)
	assert.Equal(t, "0 2 1 * *", cfg.Digest.Schedule)
	assert.False(t, cfg.Digest.Enabled())
	assert.True(t, cfg.Observability.MetricsEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_KEY", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("API_VERSION", "v2")
	t.Setenv("STATS_CACHE_TTL", "120")
	t.Setenv("SERVER_READ_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("LOG_CREDITS", "true")
	t.Setenv("RESEND_API_KEY", "re_123")
	t.Setenv("DIGEST_TO", "me@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/api/v2", cfg.Server.APIPrefix())
	assert.Equal(t, 2*time.Minute, cfg.Cache.StatsTTL)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.SMS.LogCredits)
	assert.True(t, cfg.Digest.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "missing api key", env: map[string]string{"API_KEY": ""}, wantErr: "API_KEY is required"},
		{name: "inverted bounds", env: map[string]string{"API_KEY": "k", "MIN_SMS_LENGTH": "50", "MAX_SMS_LENGTH": "20"}, wantErr: "invalid SMS length bounds 50..20"},
		{name: "zero rate", env: map[string]string{"API_KEY": "k", "SERVER_RATE_LIMIT_PER_SECOND": "0"}, wantErr: "SERVER_RATE_LIMIT_PER_SECOND must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "ledger", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=ledger sslmode=disable", db.DSN())
}
