package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "MONGO_URI", "MONGODB_URI", "DB_NAME", "USER_API_TIMEOUT", "GEOCODE_TTL", "INACTIVE_AFTER"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	s, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, "fieldtrack", s.DBName)
	assert.Equal(t, 15*time.Second, s.UserAPITimeout)
	assert.Equal(t, time.Hour, s.GeocodeTTL)
	assert.Equal(t, 30*time.Minute, s.InactiveAfter)
	assert.Empty(t, s.MongoURI)
}

func TestFromEnvMongoURIFallbacks(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	os.Unsetenv("MONGO_URI")
	t.Setenv("ENV", "production")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	s, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db:27017", s.MongoURI)

	os.Unsetenv("MONGODB_URI")
	t.Setenv("ENV", "development")
	s, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", s.MongoURI)
}

func TestFromEnvRejectsBadDuration(t *testing.T) {
	t.Setenv("GEOCODE_TTL", "soon")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestMaskMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://admin:***@db:27017/?authSource=admin", maskMongoURI("mongodb://admin:s3cret@db:27017/?authSource=admin"))
	assert.Equal(t, "mongodb://db:27017", maskMongoURI("mongodb://db:27017"))
	assert.Equal(t, "mongodb://reader@db:27017", maskMongoURI("mongodb://reader@db:27017"))
}
