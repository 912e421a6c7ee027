package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getValidConfig() Config {
	return Config{
		RunningEnvironment: Production,
		API: APIConfig{
			Origin:  "http://localhost:8080",
			BaseURL: "/api",
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type: StorageTypeRedis,
			Redis: RedisConfig{
				Addresses: []string{"localhost:6379"},
			},
		},
		Server: ServerConfig{
			Port:              3000,
			SessionCookieName: "_portal_session",
		},
		Refresh: RefreshConfig{
			Proactive:           true,
			IntervalSeconds:     60,
			ExpiryMarginSeconds: 120,
		},
	}
}

func TestValidConfig(t *testing.T) {
	config := getValidConfig()

	err := config.Validate()

	assert.NoError(t, err)
}

func TestInvalidRunningEnvironment(t *testing.T) {
	config := getValidConfig()
	config.RunningEnvironment = "staging"

	err := config.Validate()

	assert.ErrorContains(t, err, "unknown running environment")
}

func TestInvalidAPIConfig(t *testing.T) {
	config := getValidConfig()
	config.API.Origin = "localhost"

	err := config.Validate()

	assert.ErrorContains(t, err, "has to be an absolute URL")
}

func TestAbsoluteBaseURLIgnoresOrigin(t *testing.T) {
	config := getValidConfig()
	config.API.Origin = ""
	config.API.BaseURL = "https://backend.example.org/api/"

	baseURL, err := config.API.ResolvedBaseURL()

	require.NoError(t, err)
	assert.Equal(t, "https://backend.example.org/api", baseURL.String())
}

func TestInvalidStorageConfig(t *testing.T) {
	config := getValidConfig()
	config.Storage.Type = StorageTypeRedisMock

	err := config.Validate()

	assert.ErrorContains(t, err, "cannot be \"redis-mock\" in production")
}

func TestRedisStorageNeedsAddresses(t *testing.T) {
	config := getValidConfig()
	config.Storage.Redis.Addresses = nil

	err := config.Validate()

	assert.Error(t, err)
}

func TestInvalidEncryptionKey(t *testing.T) {
	config := getValidConfig()
	config.Storage.Encryption = EncryptionConfig{Enabled: true, SecretKey: "invalid"}

	err := config.Validate()

	assert.ErrorContains(t, err, "credential encryption key has to be 32 bytes long, the provided one is 7 long")
}

func TestInvalidServerConfig(t *testing.T) {
	config := getValidConfig()
	config.Server.Port = 0

	err := config.Validate()

	assert.ErrorContains(t, err, "invalid server port 0")
}

func TestInvalidRefreshConfig(t *testing.T) {
	config := getValidConfig()
	config.Refresh.IntervalSeconds = -60

	err := config.Validate()

	assert.ErrorContains(t, err, "refresh interval seconds (-60) needs to be greater than 0")
}

func TestInvalidRateLimits(t *testing.T) {
	config := getValidConfig()
	config.API.RateLimit = RateLimits{Enabled: true, Rate: 0, Burst: 1}

	err := config.Validate()

	assert.Error(t, err)
}
