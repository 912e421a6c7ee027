package db

import (
	"context"
	"log/slog"

	"github.com/capstone-insurance/portal/internal/gwerrors"
	"github.com/capstone-insurance/portal/internal/models"
)

// GetCredential reads the session credential stored under the key, decrypting the token if necessary.
func (r RedisAdapter) GetCredential(ctx context.Context, key string) (models.SessionCredential, error) {
	output := models.SessionCredential{}
	raw, err := r.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return output, err
	}
	err = r.deserializeToStruct(raw, &output)
	if err != nil {
		if err == gwerrors.ErrMissingDBResource {
			return models.SessionCredential{}, gwerrors.ErrCredentialNotFound
		}
		slog.Info("CREDENTIAL STORE", "message", "cannot deserialize credential", "key", key, "error", err)
		return models.SessionCredential{}, gwerrors.ErrInvalidCredential
	}
	decCredential, err := output.Decrypt(r.encryptor)
	if err != nil {
		slog.Info("CREDENTIAL STORE", "message", "cannot decrypt credential", "key", key, "error", err)
		return models.SessionCredential{}, gwerrors.ErrInvalidCredential
	}
	return decCredential, nil
}

func (r RedisAdapter) SetCredential(ctx context.Context, key string, credential models.SessionCredential) error {
	encCredential, err := credential.Encrypt(r.encryptor)
	if err != nil {
		return err
	}
	slog.Debug(
		"CREDENTIAL STORE",
		"message",
		"saving credential",
		"key",
		key,
		"credential",
		credential,
	)
	return r.rdb.HSet(
		ctx,
		key,
		r.serializeStruct(encCredential)...,
	).Err()
}

func (r RedisAdapter) RemoveCredential(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}
