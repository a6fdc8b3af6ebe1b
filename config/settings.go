package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/HSouheill/fieldtrack_backend/logging"
)

// Settings is the process configuration read from the environment.
type Settings struct {
	Port string `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"ENV" default:"production"`

	MongoURI     string        `envconfig:"MONGO_URI"`
	MongoDBURI   string        `envconfig:"MONGODB_URI"`
	DBName       string        `envconfig:"DB_NAME" default:"fieldtrack"`
	MongoTimeout time.Duration `envconfig:"MONGO_TIMEOUT" default:"10s"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	UserAPIURL     string        `envconfig:"USER_API_URL"`
	UserAPIToken   string        `envconfig:"USER_API_TOKEN"`
	UserAPITimeout time.Duration `envconfig:"USER_API_TIMEOUT" default:"15s"`

	GeocoderURL       string        `envconfig:"GEOCODER_URL" default:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent string        `envconfig:"GEOCODER_USER_AGENT" default:"fieldtrack-backend/1.0"`
	GeocodeTTL        time.Duration `envconfig:"GEOCODE_TTL" default:"1h"`

	FollowUpAPIURL   string `envconfig:"FOLLOWUP_API_URL"`
	FollowUpAPIToken string `envconfig:"FOLLOWUP_API_TOKEN"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	InactiveAfter time.Duration `envconfig:"INACTIVE_AFTER" default:"30m"`
}

// Load reads .env when present and then the environment.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		logging.Warn().Msg(".env file not found, using environment")
	}
	return FromEnv()
}

// FromEnv parses the environment without touching .env.
func FromEnv() (*Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if s.MongoURI == "" {
		s.MongoURI = s.MongoDBURI
	}
	if s.MongoURI == "" && s.IsDevelopment() {
		s.MongoURI = "mongodb://localhost:27017"
	}
	return &s, nil
}

func (s *Settings) IsDevelopment() bool {
	env := strings.ToLower(s.Env)
	return env == "development" || env == "dev"
}
