package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB_NAME", "argus_test")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5, cfg.KGramSize)
	assert.Equal(t, 4, cfg.WinnowWindow)
	assert.Equal(t, 0.6, cfg.JaccardWeight)
	assert.Equal(t, 0.4, cfg.LCSWeight)
	assert.Equal(t, 0.7, cfg.FlagThreshold)
	assert.Equal(t, "localhost:6379", cfg.RedisHost)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "argus", cfg.JWTIssuer)
	assert.True(t, cfg.StreamConsumerEnabled)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("KGRAM_SIZE", "7")
	t.Setenv("SIM_FLAG_THRESHOLD", "0.85")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 7, cfg.KGramSize)
	assert.Equal(t, 0.85, cfg.FlagThreshold)
}

func TestLoadStreamConsumerToggle(t *testing.T) {
	setRequired(t)
	t.Setenv("STREAM_CONSUMER_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.StreamConsumerEnabled)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"tiny k-gram", "KGRAM_SIZE", "1"},
		{"zero window", "WINNOW_WINDOW", "0"},
		{"weights not summing to one", "SIM_JACCARD_WEIGHT", "0.9"},
		{"threshold above one", "SIM_FLAG_THRESHOLD", "1.5"},
		{"zero batch concurrency", "MAX_CONCURRENT_BATCH", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateRequiresSecrets(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGO_DB_NAME", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}
