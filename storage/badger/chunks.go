package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
//
// Each document is written in a single Badger transaction, so a document is
// either fully replaced or left untouched. Very large documents can exceed
// Badger's transaction size limit; such writes fail with storage.ErrWriteFailed.
type ChunkRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository on an open backend.
// The repository does not own the backend; close both when done.
//
// Returns storage.ChunkRepository interface to enforce abstraction.
func NewChunkRepository(backend *Backend) (storage.ChunkRepository, error) {
	if backend == nil || backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	return &ChunkRepository{
		backend: backend,
		logger:  backend.logger.With("repository", "chunks"),
	}, nil
}

// Close releases resources. ChunkRepository has no resources to release.
func (r *ChunkRepository) Close() error {
	return nil
}

// StoreChunks atomically replaces the chunks of documentID with records.
func (r *ChunkRepository) StoreChunks(ctx context.Context, documentID string, records []*core.StorageRecord) error {
	if err := r.ready(ctx); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrWriteFailed, err)
	}
	if err := validateBatch(documentID, records); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrWriteFailed, err)
	}

	now := time.Now().UTC()
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keysWithPrefix(tx, makeChunkPrefix(documentID)) {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}

		manifestKey := makeManifestKey(documentID)
		if len(records) == 0 {
			if err := tx.Delete(manifestKey); err != nil {
				return err
			}
			return tx.Commit()
		}

		for _, record := range records {
			stored := *record
			stored.InsertedAt = now
			if err := tx.Set(makeChunkKey(documentID, record.Index), storage.MarshalStorageRecord(&stored)); err != nil {
				return err
			}
		}

		first := records[0]
		manifest := &core.DocumentManifest{
			DocumentID:   documentID,
			DocumentType: first.DocumentType,
			Scope:        first.Scope,
			BusinessID:   first.BusinessID,
			DatasetID:    first.DatasetID,
			ChunkCount:   len(records),
			UpdatedAt:    now,
		}
		if err := tx.Set(manifestKey, storage.MarshalManifest(manifest)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		r.logger.Error("failed to store document", "document", documentID, "chunks", len(records), "err", err)
		return fmt.Errorf("%w: document %q: %w", storage.ErrWriteFailed, documentID, err)
	}

	r.logger.Debug("stored document", "document", documentID, "chunks", len(records))
	return nil
}

// GetDocumentChunks returns the chunks of a document ordered by index.
func (r *ChunkRepository) GetDocumentChunks(ctx context.Context, documentID string) ([]*core.StorageRecord, error) {
	if err := r.ready(ctx); err != nil {
		return nil, err
	}

	var records []*core.StorageRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		manifest, err := readManifest(tx, makeManifestKey(documentID))
		if err != nil {
			return err
		}
		if manifest == nil {
			return storage.ErrNotFound
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkPrefix(documentID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.StorageRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalStorageRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetManifest returns the manifest of a document.
func (r *ChunkRepository) GetManifest(ctx context.Context, documentID string) (*core.DocumentManifest, error) {
	if err := r.ready(ctx); err != nil {
		return nil, err
	}

	var manifest *core.DocumentManifest
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		manifest, err = readManifest(tx, makeManifestKey(documentID))
		if err != nil {
			return err
		}
		if manifest == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return manifest, err
}

// ListManifests returns the manifests matching filter ordered by document ID.
func (r *ChunkRepository) ListManifests(ctx context.Context, filter storage.ManifestFilter) ([]*core.DocumentManifest, error) {
	if err := r.ready(ctx); err != nil {
		return nil, err
	}

	var manifests []*core.DocumentManifest
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(manifestPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var manifest *core.DocumentManifest
			err := iter.Item().Value(func(val []byte) error {
				var err error
				manifest, err = storage.UnmarshalManifest(val)
				return err
			})
			if err != nil {
				return err
			}
			if filter.Matches(manifest) {
				manifests = append(manifests, manifest)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return manifests, nil
}

// UpdateChunkEmbeddings replaces the embeddings of existing chunks.
func (r *ChunkRepository) UpdateChunkEmbeddings(ctx context.Context, records ...*core.StorageRecord) error {
	if err := r.ready(ctx); err != nil {
		return err
	}
	for _, record := range records {
		if len(record.Embedding) == 0 {
			return fmt.Errorf("%w: %w", core.ErrInvalidRecord, core.ErrEmptyEmbedding)
		}
	}

	now := time.Now().UTC()
	return r.backend.WithTx(func(tx *badger.Txn) error {
		touched := make(map[string]bool)
		for _, record := range records {
			key := makeChunkKey(record.DocumentID, record.Index)
			stored, err := readRecord(tx, key)
			if err != nil {
				return err
			}
			if stored == nil {
				return fmt.Errorf("%w: chunk %d of document %q", storage.ErrNotFound, record.Index, record.DocumentID)
			}

			stored.Embedding = append([]float32(nil), record.Embedding...)
			if err := tx.Set(key, storage.MarshalStorageRecord(stored)); err != nil {
				return err
			}
			touched[record.DocumentID] = true
		}

		for documentID := range touched {
			key := makeManifestKey(documentID)
			manifest, err := readManifest(tx, key)
			if err != nil {
				return err
			}
			if manifest == nil {
				continue
			}
			manifest.UpdatedAt = now
			if err := tx.Set(key, storage.MarshalManifest(manifest)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteDocument removes a document and all of its chunks.
func (r *ChunkRepository) DeleteDocument(ctx context.Context, documentID string) error {
	if err := r.ready(ctx); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		manifestKey := makeManifestKey(documentID)
		manifest, err := readManifest(tx, manifestKey)
		if err != nil {
			return err
		}
		if manifest == nil {
			return storage.ErrNotFound
		}

		for _, key := range keysWithPrefix(tx, makeChunkPrefix(documentID)) {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		if err := tx.Delete(manifestKey); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Helper methods

func (r *ChunkRepository) ready(ctx context.Context) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return ctx.Err()
}

// validateBatch checks that records all belong to documentID and have distinct indices.
func validateBatch(documentID string, records []*core.StorageRecord) error {
	if !validDocumentID(documentID) {
		return fmt.Errorf("%w: invalid document id %q", core.ErrInvalidRecord, documentID)
	}

	seen := make(map[int]bool, len(records))
	for _, record := range records {
		if err := core.ValidateStorageRecord(record); err != nil {
			return err
		}
		if record.DocumentID != documentID {
			return fmt.Errorf("%w: record belongs to %q, not %q", core.ErrInvalidRecord, record.DocumentID, documentID)
		}
		if record.Index < 0 || int64(record.Index) > math.MaxUint32 {
			return fmt.Errorf("%w: index %d out of range", core.ErrInvalidRecord, record.Index)
		}
		if seen[record.Index] {
			return fmt.Errorf("%w: duplicate index %d", core.ErrInvalidRecord, record.Index)
		}
		seen[record.Index] = true
	}
	return nil
}

// readRecord reads a chunk record from the transaction. Missing keys yield nil.
func readRecord(tx *badger.Txn, key []byte) (*core.StorageRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.StorageRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalStorageRecord(val)
		return unmarshalErr
	})
	return record, err
}

// readManifest reads a document manifest from the transaction. Missing keys yield nil.
func readManifest(tx *badger.Txn, key []byte) (*core.DocumentManifest, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var manifest *core.DocumentManifest
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		manifest, unmarshalErr = storage.UnmarshalManifest(val)
		return unmarshalErr
	})
	return manifest, err
}
