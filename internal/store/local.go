// Package store persists accounts and transactions in a single bolt file laid
// out like browser local storage: one bucket of string keys to JSON values.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/boltdb/bolt"
	"github.com/rs/zerolog"
)

var bucketName = []byte("local")

// Keys used in the local bucket.
const (
	keyAccounts          = "bankAccounts"
	keyActiveAccount     = "activeBankAccountId"
	transactionKeyPrefix = "transactions_"
)

// ErrUnreadable means a stored value is JSON of an unexpected shape. Unlike
// text that is not JSON at all, it is never read as empty, so a later save
// cannot overwrite it.
var ErrUnreadable = errors.New("stored value has an unexpected shape")

// Local is a key-value store over a bolt database.
type Local struct {
	db  *bolt.DB
	log zerolog.Logger
}

// Open opens (creating if needed) the bolt file at path.
func Open(path string, log zerolog.Logger) (*Local, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Local{db: db, log: log.With().Str("component", "store").Logger()}, nil
}

// Close releases the bolt file.
func (l *Local) Close() error {
	return l.db.Close()
}

// GetItem returns the value stored under key. ok is false when absent.
func (l *Local) GetItem(key string) (value string, ok bool, err error) {
	err = l.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			value, ok = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, ok, nil
}

// SetItem stores value under key, replacing any previous value.
func (l *Local) SetItem(key, value string) error {
	if err := l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	}); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// RemoveItem deletes key. Removing a missing key is not an error.
func (l *Local) RemoveItem(key string) error {
	if err := l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	}); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// removePrefix deletes every key starting with prefix in one transaction and
// returns how many were removed.
func (l *Local) removePrefix(prefix string) (int, error) {
	n := 0
	err := l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		var doomed [][]byte
		c := b.Cursor()
		for k, _ := c.Seek([]byte(prefix)); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			doomed = append(doomed, append([]byte(nil), k...))
		}
		for _, k := range doomed {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		n = len(doomed)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("removing %s*: %w", prefix, err)
	}
	return n, nil
}

// decodeItem unmarshals the value stored under key into v. Syntax errors are
// returned as is; shape errors wrap ErrUnreadable.
func decodeItem(key, raw string, v any) error {
	err := json.Unmarshal([]byte(raw), v)
	var syntaxErr *json.SyntaxError
	if err == nil || errors.As(err, &syntaxErr) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrUnreadable, key, err)
}
