package models

import (
	"context"
)

type Encryptor interface {
	Encrypt(value string) (encrypted string, err error)
	Decrypt(value string) (decrypted string, err error)
}

type IDGenerator interface {
	ID() (string, error)
}

type CredentialGetter interface {
	GetCredential(ctx context.Context, key string) (SessionCredential, error)
}

type CredentialSetter interface {
	SetCredential(ctx context.Context, key string, credential SessionCredential) error
}

type CredentialRemover interface {
	RemoveCredential(ctx context.Context, key string) error
}

type CredentialRepository interface {
	CredentialGetter
	CredentialSetter
	CredentialRemover
}
