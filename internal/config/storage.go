package config

import (
	"fmt"
	"os"
	"path/filepath"
)

type StorageConfig struct {
	Type          string
	FilePath      string
	CookieJarPath string
	Redis         RedisConfig
	Encryption    EncryptionConfig
}

type RedisConfig struct {
	Addresses  []string
	IsSentinel bool
	Password   RedactedString
	MasterName string
	DBIndex    int
}

type EncryptionConfig struct {
	Enabled   bool
	SecretKey RedactedString
}

const StorageTypeFile string = "file"
const StorageTypeRedis string = "redis"
const StorageTypeRedisMock string = "redis-mock"

const defaultStorageDir string = "insurance-portal"

func (c StorageConfig) Validate(e RunningEnvironment) error {
	switch c.Type {
	case StorageTypeFile:
	case StorageTypeRedis:
		if len(c.Redis.Addresses) == 0 {
			return fmt.Errorf("at least one redis address is required for the redis storage")
		}
		if c.Redis.IsSentinel && c.Redis.MasterName == "" {
			return fmt.Errorf("the redis master name is required when using sentinel")
		}
	case StorageTypeRedisMock:
		if e != Development {
			return fmt.Errorf("storage type cannot be \"redis-mock\" in production")
		}
	default:
		return fmt.Errorf("unknown storage type %q (must be one of file, redis, redis-mock)", c.Type)
	}
	if c.Encryption.Enabled && len(c.Encryption.SecretKey) != 32 {
		return fmt.Errorf(
			"credential encryption key has to be 32 bytes long, the provided one is %d long",
			len(c.Encryption.SecretKey),
		)
	}
	return nil
}

// CredentialFilePath returns the configured credential file or a file in the user config directory.
func (c StorageConfig) CredentialFilePath() (string, error) {
	if c.FilePath != "" {
		return c.FilePath, nil
	}
	return defaultStoragePath("credentials.json")
}

// CookieFilePath returns the configured cookie jar file or a file in the user config directory.
func (c StorageConfig) CookieFilePath() (string, error) {
	if c.CookieJarPath != "" {
		return c.CookieJarPath, nil
	}
	return defaultStoragePath("cookies.json")
}

func defaultStoragePath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultStorageDir, name), nil
}
