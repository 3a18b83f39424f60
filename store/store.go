// Copyright 2021 ChainSafe Systems
// SPDX-License-Identifier: LGPL-3.0-only

package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/axonweb3/axon-bridge/bridge"
	"github.com/axonweb3/axon-bridge/metadata"
	"github.com/syndtr/goleveldb/leveldb"
)

var (
	CheckpointKey     = "metadata:epoch:%d"
	NonceKey          = "crossFromCKB:nonce"
	BridgeSnapshotKey = "bridge:snapshot"
)

type KeyValueReader interface {
	GetByKey(key []byte) ([]byte, error)
}

type KeyValueWriter interface {
	SetByKey(key []byte, value []byte) error
}

type KeyValueReaderWriter interface {
	KeyValueReader
	KeyValueWriter
}

// BatchWriter is implemented by databases able to write several keys atomically.
type BatchWriter interface {
	SetBatch(entries map[string][]byte) error
}

type StateStore struct {
	db KeyValueReaderWriter
}

func NewStateStore(db KeyValueReaderWriter) *StateStore {
	return &StateStore{
		db: db,
	}
}

// StoreCheckpoint stores the checkpoint under its epoch
func (s *StateStore) StoreCheckpoint(m metadata.Metadata) error {
	value, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.db.SetByKey(checkpointKey(m.Epoch), value)
}

// Checkpoint returns the checkpoint stored for epoch, false if it is missing
func (s *StateStore) Checkpoint(epoch uint64) (metadata.Metadata, bool, error) {
	v, err := s.db.GetByKey(checkpointKey(epoch))
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return metadata.Metadata{}, false, nil
		}
		return metadata.Metadata{}, false, err
	}

	var m metadata.Metadata
	if err := json.Unmarshal(v, &m); err != nil {
		return metadata.Metadata{}, false, err
	}
	return m, true, nil
}

// Checkpoints returns every stored checkpoint in epoch order. Stored
// chains start at epoch 0 or 1.
func (s *StateStore) Checkpoints() ([]metadata.Metadata, error) {
	checkpoints := make([]metadata.Metadata, 0)
	for epoch := uint64(0); ; epoch++ {
		m, ok, err := s.Checkpoint(epoch)
		if err != nil {
			return nil, err
		}
		if !ok {
			if epoch == 0 {
				continue
			}
			return checkpoints, nil
		}
		checkpoints = append(checkpoints, m)
	}
}

// StoreBridgeSnapshot stores the bridge state and its inbound nonce
func (s *StateStore) StoreBridgeSnapshot(snapshot bridge.Snapshot) error {
	value, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	nonce := []byte(strconv.FormatUint(snapshot.Nonce, 10))
	if batch, ok := s.db.(BatchWriter); ok {
		return batch.SetBatch(map[string][]byte{
			BridgeSnapshotKey: value,
			NonceKey:          nonce,
		})
	}

	err = s.db.SetByKey([]byte(BridgeSnapshotKey), value)
	if err != nil {
		return err
	}

	return s.db.SetByKey([]byte(NonceKey), nonce)
}

// BridgeSnapshot returns the last stored bridge state, false if none was stored
func (s *StateStore) BridgeSnapshot() (bridge.Snapshot, bool, error) {
	v, err := s.db.GetByKey([]byte(BridgeSnapshotKey))
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return bridge.Snapshot{}, false, nil
		}
		return bridge.Snapshot{}, false, err
	}

	var snapshot bridge.Snapshot
	if err := json.Unmarshal(v, &snapshot); err != nil {
		return bridge.Snapshot{}, false, err
	}
	return snapshot, true, nil
}

// Nonce returns the last stored inbound nonce, 0 if none was stored
func (s *StateStore) Nonce() (uint64, error) {
	v, err := s.db.GetByKey([]byte(NonceKey))
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return strconv.ParseUint(string(v), 10, 64)
}

func checkpointKey(epoch uint64) []byte {
	key := bytes.Buffer{}
	key.WriteString(fmt.Sprintf(CheckpointKey, epoch))
	return key.Bytes()
}
