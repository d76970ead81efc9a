package feedback

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/attendanceterminal/internal/keys"
	"github.com/dgraph-io/badger/v4"
)

type Store struct {
	db            *badger.DB
	encryptionKey *keys.Key
}

func NewStore(
	db *badger.DB,
	encryptionKey *keys.Key,
) *Store {
	return &Store{
		db:            db,
		encryptionKey: encryptionKey,
	}
}

// Append adds entry to the log. Entries are never updated or removed.
func (s *Store) Append(_ context.Context, entry *Entry) error {
	encoded, err := entry.Encode(s.encryptionKey)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(encoded)
		if err != nil {
			return err
		}
		return txn.Set(entryKey(entry), data)
	})
}

// List returns all entries, oldest first.
func (s *Store) List(_ context.Context) ([]*Entry, error) {
	var entries []*Entry
	if err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("feedback/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var encoded EncodedEntry
			if err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &encoded)
			}); err != nil {
				return err
			}
			entry, err := encoded.Decode(s.encryptionKey)
			if err != nil {
				return fmt.Errorf("decode %q: %w", it.Item().Key(), err)
			}
			entries = append(entries, entry)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return entries, nil
}

// entryKey sorts by time: the timestamp is zero padded to a fixed width.
func entryKey(entry *Entry) []byte {
	return []byte(fmt.Sprintf("feedback/%020d/%s", entry.Time.UnixNano(), entry.ID))
}
