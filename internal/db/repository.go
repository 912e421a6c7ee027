package db

import (
	"log/slog"

	"github.com/capstone-insurance/portal/internal/config"
	"github.com/capstone-insurance/portal/internal/models"
)

// NewCredentialRepository creates the credential repository selected by the storage configuration.
func NewCredentialRepository(storage config.StorageConfig) (models.CredentialRepository, error) {
	encrypt := storage.Encryption.Enabled && storage.Encryption.SecretKey != ""
	if encrypt {
		slog.Info("DB", "message", "credential encryption is enabled")
	}
	if storage.Type == config.StorageTypeFile {
		path, err := storage.CredentialFilePath()
		if err != nil {
			return nil, err
		}
		options := []FileAdapterOption{WithFilePath(path)}
		if encrypt {
			options = append(options, WithFileEncryption(string(storage.Encryption.SecretKey)))
		}
		return NewFileAdapter(options...)
	}
	options := []RedisAdapterOption{WithRedisConfig(storage.Type, storage.Redis)}
	if encrypt {
		options = append(options, WithEncryption(string(storage.Encryption.SecretKey)))
	}
	return NewRedisAdapter(options...)
}
