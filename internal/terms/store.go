package terms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

type Store struct {
	db *badger.DB
}

func NewStore(db *badger.DB) *Store {
	return &Store{
		db: db,
	}
}

var ErrNotFound = errors.New("not found")

func (s *Store) Insert(_ context.Context, term *Term) error {
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(term)
		if err != nil {
			return err
		}
		return txn.Set(idKey(term.ID), data)
	})
}

func (s *Store) FindByID(_ context.Context, id ID) (*Term, error) {
	var term Term
	if err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &term)
		})
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &term, nil
}

// List returns all terms ordered by name.
func (s *Store) List(_ context.Context) ([]*Term, error) {
	var terms []*Term
	if err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("terms/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(value []byte) error {
				term := &Term{}
				if err := json.Unmarshal(value, term); err != nil {
					return err
				}
				terms = append(terms, term)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	slices.SortFunc(terms, func(a, b *Term) int {
		return strings.Compare(a.Name, b.Name)
	})
	return terms, nil
}

func idKey(id ID) []byte {
	return []byte(fmt.Sprintf("terms/%s", id))
}
