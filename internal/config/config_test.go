package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.AuthEnabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_PREFIX", "v1/")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "secret")

	cfg, _ := Load("testdata/does-not-exist.env")

	assert.Equal(t, "/v1", cfg.APIPrefix)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.AuthEnabled)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		v := viper.New()
		setDefaults(v)
		return fromViper(v)
	}

	bad := base()
	bad.StoreDriver = "postgres"
	assert.Error(t, bad.Validate())

	noSecret := base()
	noSecret.AuthEnabled = true
	assert.Error(t, noSecret.Validate())

	noRate := base()
	noRate.LoginRateBurst = 0
	assert.Error(t, noRate.Validate())
}
