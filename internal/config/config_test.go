package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendlens/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "spendlens", cfg.App.Name)
	assert.Equal(t, config.StorageMemory, cfg.App.Storage)
	assert.Equal(t, 2*time.Second, cfg.Analysis.Delay)
	assert.Equal(t, "INR", cfg.Currency.Display)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)

	rate, err := cfg.ConversionRate()
	require.NoError(t, err)
	assert.Equal(t, "83", rate.String())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORAGE", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("ANALYSIS_DELAY", "0s")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	driver, dsn := cfg.DSN()
	assert.Equal(t, "sqlite", driver)
	assert.Equal(t, "/tmp/x.db", dsn)
	assert.Zero(t, cfg.Analysis.Delay)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
}

func TestValidate(t *testing.T) {
	type testCase struct {
		name    string
		env     map[string]string
		wantErr string
	}

	tests := []testCase{
		{name: "UnknownStorage", env: map[string]string{"STORAGE": "mongo"}, wantErr: `unknown STORAGE "mongo"`},
		{name: "BadPort", env: map[string]string{"PORT": "70000"}, wantErr: "invalid PORT 70000"},
		{name: "ZeroRate", env: map[string]string{"CONVERSION_RATE": "0"}, wantErr: "CONVERSION_RATE must be greater than zero"},
		{name: "BadRate", env: map[string]string{"CONVERSION_RATE": "eighty"}, wantErr: "invalid CONVERSION_RATE"},
		{name: "AuthWithoutSecret", env: map[string]string{"AUTH_ENABLED": "true"}, wantErr: "JWT_SECRET is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
