// Package config loads service settings from the environment and an optional
// .env file.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port        string
	APIPrefix   string
	StoreDriver string
	MongoURI    string
	MongoDB     string
	CORSOrigins []string

	AuthEnabled   bool
	JWTSecret     string
	AdminUsername string
	AdminEmail    string
	AdminPassword string

	LoginRateRPS   float64
	LoginRateBurst int

	LogLevel string
	GinMode  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_PORT", "8080")
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "school")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("ADMIN_EMAIL", "admin@school.local")
	v.SetDefault("LOGIN_RATE_RPS", 1.0)
	v.SetDefault("LOGIN_RATE_BURST", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GIN_MODE", "release")
}

// Load reads .env files (if present) into the process environment and then
// builds a Config from it.
func Load(files ...string) (*Config, bool) {
	found := godotenv.Load(files...) == nil

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), found
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:           v.GetString("API_PORT"),
		APIPrefix:      "/" + strings.Trim(v.GetString("API_PREFIX"), "/"),
		StoreDriver:    strings.ToLower(v.GetString("STORE_DRIVER")),
		MongoURI:       v.GetString("MONGO_URI"),
		MongoDB:        v.GetString("MONGO_DATABASE"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		AuthEnabled:    v.GetBool("AUTH_ENABLED"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		AdminUsername:  v.GetString("ADMIN_USERNAME"),
		AdminEmail:     v.GetString("ADMIN_EMAIL"),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
		LoginRateRPS:   v.GetFloat64("LOGIN_RATE_RPS"),
		LoginRateBurst: v.GetInt("LOGIN_RATE_BURST"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		GinMode:        v.GetString("GIN_MODE"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverMemory:
	default:
		return errors.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.AuthEnabled && c.JWTSecret == "" {
		return errors.New("AUTH_ENABLED requires JWT_SECRET")
	}
	if c.LoginRateRPS <= 0 || c.LoginRateBurst <= 0 {
		return errors.New("LOGIN_RATE_RPS and LOGIN_RATE_BURST must be positive")
	}
	return nil
}
