// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/locbench/core"
	"github.com/poiesic/locbench/storage"
)

// RunRepository implements storage.RunRepository for BadgerDB.
type RunRepository struct {
	backend *Backend
}

var _ storage.RunRepository = (*RunRepository)(nil)

// NewRunRepository creates a run registry on the given backend.
func NewRunRepository(backend *Backend) (storage.RunRepository, error) {
	if backend == nil {
		return nil, storage.ErrInvalidQuery
	}
	return &RunRepository{backend: backend}, nil
}

// SaveRun stores a run manifest along with its date index entry.
func (r *RunRepository) SaveRun(ctx context.Context, record *core.RunRecord) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if err := core.ValidateRunRecord(record); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		value := storage.MarshalRunRecord(record)
		if err := tx.Set(makeRunRecordKey(record.Id), value); err != nil {
			return err
		}
		// Date index points back at the primary key's ID.
		if err := tx.Set(makeRunDateKey(record.StartedAt, record.Id), storage.MarshalID(record.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetRun retrieves a run manifest by ID.
func (r *RunRepository) GetRun(ctx context.Context, id core.ID) (*core.RunRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var record *core.RunRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRunRecordKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalRunRecord(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListRuns returns up to limit manifests, most recent first, by walking the
// date index in reverse.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*core.RunRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	prefix := []byte(runRecordDatePrefix + ":")
	var ids []core.ID

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// In reverse mode the iterator must be seeked past the last key of
		// the prefix range.
		seek := make([]byte, len(prefix)+16)
		copy(seek, prefix)
		for i := len(prefix); i < len(seek); i++ {
			seek[i] = 0xFF
		}

		for iter.Seek(seek); iter.ValidForPrefix(prefix) && len(ids) < limit; iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				id, err := storage.UnmarshalID(val)
				if err != nil {
					return err
				}
				ids = append(ids, id)
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

	records := make([]*core.RunRecord, 0, len(ids))
	for _, id := range ids {
		record, err := r.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Close releases repository resources. The backend is closed separately.
func (r *RunRepository) Close() error {
	return nil
}
