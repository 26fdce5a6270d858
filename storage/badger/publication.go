package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/lectio/core"
	"github.com/poiesic/lectio/storage"
)

// PublicationRepository implements storage.PublicationRepository for BadgerDB.
// The log is append-only: entries are written once and never touched again.
type PublicationRepository struct {
	backend *Backend
}

var _ storage.PublicationRepository = (*PublicationRepository)(nil)

// NewPublicationRepository creates a new PublicationRepository.
func NewPublicationRepository(backend *Backend) *PublicationRepository {
	return &PublicationRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *PublicationRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *PublicationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AppendEntry records a publication. The existence check and the write
// share one transaction, so two concurrent appends for the same chunk
// cannot both land.
func (r *PublicationRepository) AppendEntry(ctx context.Context, entry *core.PublicationEntry) (*core.PublicationEntry, error) {
	if err := core.ValidatePublicationEntry(entry); err != nil {
		return nil, err
	}

	var result *core.PublicationEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makePublicationKey(entry.ChunkIndex)

		existing, err := r.readEntry(tx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		if err := tx.Set(key, storage.MarshalPublicationEntry(entry)); err != nil {
			return err
		}
		result = entry
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetEntry retrieves the publication entry for a chunk index.
func (r *PublicationRepository) GetEntry(ctx context.Context, chunkIndex int) (*core.PublicationEntry, error) {
	var result *core.PublicationEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readEntry(tx, makePublicationKey(chunkIndex))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetEntries retrieves all publication entries ordered by chunk index.
func (r *PublicationRepository) GetEntries(ctx context.Context) ([]*core.PublicationEntry, error) {
	var results []*core.PublicationEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pubEntryPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				entry, err := storage.UnmarshalPublicationEntry(val)
				if err != nil {
					return err
				}
				results = append(results, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return results, nil
}

// PublishedCount returns the number of publication entries.
func (r *PublicationRepository) PublishedCount(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pubEntryPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readEntry reads a publication entry by key within a transaction.
// Returns (nil, nil) if the key doesn't exist.
func (r *PublicationRepository) readEntry(tx *badger.Txn, key []byte) (*core.PublicationEntry, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry *core.PublicationEntry
	err = item.Value(func(val []byte) error {
		entry, err = storage.UnmarshalPublicationEntry(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
