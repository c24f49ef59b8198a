package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"PORT", "MONGO_DATABASE", "TOKEN_TTL", "UPLOADS_DIR", "ALLOWED_ORIGINS",
		"REDIS_ADDR", "ENV", "AUTH_RATE_LIMIT", "ENFORCE_TUTOR_OWNERSHIP"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.ListenAddr())
	assert.Equal(t, "tutoring", cfg.MongoDatabase)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "uploads", cfg.UploadsDir)
	assert.Equal(t, 5, cfg.AuthRateLimit)
	assert.False(t, cfg.EnforceTutorOwnership)
	assert.Contains(t, cfg.Origins(), "http://localhost:5173")
	assert.Len(t, cfg.Origins(), 4)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", ":8080")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("ENFORCE_TUTOR_OWNERSHIP", "true")
	t.Setenv("AUTH_RATE_LIMIT", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr())
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
	assert.True(t, cfg.EnforceTutorOwnership)
	assert.Equal(t, 10, cfg.AuthRateLimit)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	assert.ErrorContains(t, err, "MONGO_URI")

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")

	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	setRequired(t)

	t.Setenv("TOKEN_TTL", "forever")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("TOKEN_TTL", "")
	t.Setenv("ENFORCE_TUTOR_OWNERSHIP", "maybe")
	_, err = Load()
	assert.Error(t, err)
}
