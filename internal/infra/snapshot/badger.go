package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	badger "github.com/dgraph-io/badger/v3"

	"github.com/callsight/callsight/internal/domain/analysis"
)

// ErrNoSnapshot is returned when no snapshot has been stored for a tenant.
var ErrNoSnapshot = errors.New("no snapshot stored")

const keyPrefix = "dashboard/"

// Store keeps the most recent analysis per tenant in a local badger DB so the
// dashboard can recover its last state across restarts.
type Store struct {
	db *badger.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Put(tenantID string, a *analysis.Analysis) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+tenantID), payload)
	})
}

func (s *Store) Get(tenantID string) (*analysis.Analysis, error) {
	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + tenantID))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}

	var a analysis.Analysis
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("malformed snapshot %q: %w", truncate(payload, 80), err)
	}
	return &a, nil
}

// Ping confirms the store is open and readable.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return errors.New("snapshot db is closed")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
