package db

import (
	"context"

	"github.com/capstone-insurance/portal/internal/models"
)

// CredentialStore binds a credential repository to a single storage key.
type CredentialStore struct {
	repo models.CredentialRepository
	key  string
}

func NewCredentialStore(repo models.CredentialRepository, key string) *CredentialStore {
	if key == "" {
		key = models.CredentialStorageKey
	}
	return &CredentialStore{repo: repo, key: key}
}

// NamespacedKey returns the storage key of a credential that belongs to one of many concurrent users.
func NamespacedKey(namespace string) string {
	if namespace == "" {
		return models.CredentialStorageKey
	}
	return models.CredentialStorageKey + ":" + namespace
}

func (c *CredentialStore) Key() string {
	return c.key
}

func (c *CredentialStore) Load(ctx context.Context) (models.SessionCredential, error) {
	return c.repo.GetCredential(ctx, c.key)
}

func (c *CredentialStore) Save(ctx context.Context, credential models.SessionCredential) error {
	return c.repo.SetCredential(ctx, c.key, credential)
}

func (c *CredentialStore) Clear(ctx context.Context) error {
	return c.repo.RemoveCredential(ctx, c.key)
}
