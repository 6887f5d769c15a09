package accounts

import (
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// SecretStore is a small encrypted-at-rest KV wrapper (Badger) holding api
// secrets, so the json savefile only needs to carry names, hosts and key ids.
// Note: encryption is provided by Badger options, not by this wrapper.
type SecretStore struct {
	db *badger.DB
}

// SecretStoreOptions open options for the store.
type SecretStoreOptions struct {
	Path          string
	EncryptionKey []byte // 32 bytes; if nil, DB is opened without encryption
	ReadOnly      bool
}

// OpenSecretStore opens (or creates) the badger-backed store.
func OpenSecretStore(opts SecretStoreOptions) (*SecretStore, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("secretstore: path is required")
	}
	bopts := badger.DefaultOptions(opts.Path).
		WithLogger(nil).
		WithReadOnly(opts.ReadOnly)
	if len(opts.EncryptionKey) > 0 {
		// Badger requires index cache for encrypted workloads
		bopts = bopts.
			WithEncryptionKey(opts.EncryptionKey).
			WithIndexCacheSize(100 << 20)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}
	return &SecretStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SecretStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func secretKey(name string) []byte {
	return []byte("account:" + name + ":secret")
}

// PutSecret stores the api secret for an account name.
func (s *SecretStore) PutSecret(name, secret string) error {
	if s == nil || s.db == nil {
		return errors.New("secretstore: not opened")
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("secretstore: account name is empty")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(secretKey(name), []byte(secret))
	})
}

// GetSecret returns the api secret for an account name, if present.
func (s *SecretStore) GetSecret(name string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, errors.New("secretstore: not opened")
	}
	var out string
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(secretKey(name))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			out = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false, err
	}
	return out, found, nil
}

// DeleteSecret removes the stored secret for an account name.
func (s *SecretStore) DeleteSecret(name string) error {
	if s == nil || s.db == nil {
		return errors.New("secretstore: not opened")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(secretKey(name))
	})
}

// Hydrate fills empty Secret fields of the registry from the store. Accounts
// whose savefile entry already carries a secret are left untouched.
func (r *Registry) Hydrate(store *SecretStore) error {
	for _, a := range r.All() {
		if a.Secret != "" {
			continue
		}
		secret, ok, err := store.GetSecret(a.Name)
		if err != nil {
			return errors.Wrapf(err, "hydrate account %q", a.Name)
		}
		if !ok {
			continue
		}
		a.Secret = secret
		if err := r.Replace(a.Name, a); err != nil {
			return err
		}
	}
	return nil
}
