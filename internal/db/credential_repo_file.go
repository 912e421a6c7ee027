package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/capstone-insurance/portal/internal/gwerrors"
	"github.com/capstone-insurance/portal/internal/models"
)

// FileAdapter keeps credentials in a single JSON document on disk, keyed the same way as the redis adapter.
// It is meant for the command line client where there is a single user per machine account.
type FileAdapter struct {
	path      string
	encryptor models.Encryptor
	lock      sync.Mutex
}

type FileAdapterOption func(*FileAdapter) error

func WithFilePath(path string) FileAdapterOption {
	return func(f *FileAdapter) error {
		f.path = path
		return nil
	}
}

func WithFileEncryption(secretKey string) FileAdapterOption {
	return func(f *FileAdapter) error {
		encryptor, err := NewGCMEncryptor(secretKey)
		if err != nil {
			return err
		}
		f.encryptor = encryptor
		return nil
	}
}

func NewFileAdapter(options ...FileAdapterOption) (*FileAdapter, error) {
	adapter := FileAdapter{}
	for _, opt := range options {
		err := opt(&adapter)
		if err != nil {
			return &FileAdapter{}, err
		}
	}
	if adapter.path == "" {
		return &FileAdapter{}, fmt.Errorf("the credential file path is not set")
	}
	return &adapter, nil
}

type storedCredential struct {
	Token    string              `json:"token"`
	User     models.UserIdentity `json:"user"`
	StoredAt string              `json:"storedAt,omitempty"`
}

// read loads the whole document. A missing file is an empty document.
func (f *FileAdapter) read() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	output := map[string]json.RawMessage{}
	if len(raw) == 0 {
		return output, nil
	}
	err = json.Unmarshal(raw, &output)
	if err != nil {
		slog.Info("CREDENTIAL STORE", "message", "the credential file is not valid JSON", "path", f.path, "error", err)
		return nil, gwerrors.ErrInvalidCredential
	}
	return output, nil
}

func (f *FileAdapter) write(doc map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	err = os.MkdirAll(filepath.Dir(f.path), 0700)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".credentials-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	_, err = tmp.Write(raw)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Chmod(0600)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *FileAdapter) GetCredential(_ context.Context, key string) (models.SessionCredential, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	doc, err := f.read()
	if err != nil {
		return models.SessionCredential{}, err
	}
	raw, found := doc[key]
	if !found {
		return models.SessionCredential{}, gwerrors.ErrCredentialNotFound
	}
	stored := storedCredential{}
	err = json.Unmarshal(raw, &stored)
	if err != nil {
		slog.Info("CREDENTIAL STORE", "message", "cannot deserialize credential", "key", key, "error", err)
		return models.SessionCredential{}, gwerrors.ErrInvalidCredential
	}
	output := models.SessionCredential{
		Token:    stored.Token,
		Username: stored.User.Username,
		Role:     stored.User.Role,
		UserID:   stored.User.UserID,
	}
	if stored.StoredAt != "" {
		err = output.StoredAt.UnmarshalText([]byte(stored.StoredAt))
		if err != nil {
			return models.SessionCredential{}, gwerrors.ErrInvalidCredential
		}
	}
	output, err = output.Decrypt(f.encryptor)
	if err != nil {
		slog.Info("CREDENTIAL STORE", "message", "cannot decrypt credential", "key", key, "error", err)
		return models.SessionCredential{}, gwerrors.ErrInvalidCredential
	}
	return output, nil
}

func (f *FileAdapter) SetCredential(_ context.Context, key string, credential models.SessionCredential) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	encCredential, err := credential.Encrypt(f.encryptor)
	if err != nil {
		return err
	}
	doc, err := f.read()
	if err != nil {
		// a corrupt document is replaced
		doc = map[string]json.RawMessage{}
	}
	storedAt, err := encCredential.StoredAt.MarshalText()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(storedCredential{
		Token:    encCredential.Token,
		User:     encCredential.Identity(),
		StoredAt: string(storedAt),
	})
	if err != nil {
		return err
	}
	doc[key] = raw
	return f.write(doc)
}

func (f *FileAdapter) RemoveCredential(_ context.Context, key string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	doc, err := f.read()
	if err != nil {
		doc = map[string]json.RawMessage{}
	}
	if _, found := doc[key]; !found && err == nil {
		return nil
	}
	delete(doc, key)
	return f.write(doc)
}
