// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"math/big"

	"github.com/axonweb3/axon-bridge/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// LimitQueue holds transfers waiting for manual release in insertion
// order, indexed by entry ID.
type LimitQueue struct {
	entries []LimitTx
	ids     map[common.Hash]struct{}
	journal *state.Journal
}

func NewLimitQueue(journal *state.Journal) *LimitQueue {
	return &LimitQueue{
		ids:     make(map[common.Hash]struct{}),
		journal: journal,
	}
}

// Push appends tx unless an entry with the same ID is already queued.
func (q *LimitQueue) Push(tx LimitTx) bool {
	if q.Contains(tx.ID) {
		return false
	}
	q.setEntries(append(q.entries[:len(q.entries):len(q.entries)], tx))
	state.Set(q.journal, q.ids, tx.ID, struct{}{})
	return true
}

// Remove deletes the entry equal to tx in every field.
func (q *LimitQueue) Remove(tx LimitTx) error {
	for i, entry := range q.entries {
		if entry == tx {
			q.removeAt(i)
			return nil
		}
	}
	return ErrNotFound
}

func (q *LimitQueue) RemoveByID(id common.Hash) (LimitTx, error) {
	for i, entry := range q.entries {
		if entry.ID == id {
			q.removeAt(i)
			return entry, nil
		}
	}
	return LimitTx{}, ErrNotFound
}

func (q *LimitQueue) Contains(id common.Hash) bool {
	_, ok := q.ids[id]
	return ok
}

func (q *LimitQueue) List() []LimitTx {
	return append([]LimitTx{}, q.entries...)
}

// IDs returns entry IDs of the given direction in queue order.
func (q *LimitQueue) IDs(direction Direction) []common.Hash {
	ids := make([]common.Hash, 0, len(q.entries))
	for _, entry := range q.entries {
		if entry.Direction == direction {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

func (q *LimitQueue) Len() int {
	return len(q.entries)
}

// Restore replaces the queue content. It is not journaled.
func (q *LimitQueue) Restore(entries []LimitTx) {
	q.entries = append([]LimitTx{}, entries...)
	q.ids = make(map[common.Hash]struct{}, len(entries))
	for _, entry := range entries {
		q.ids[entry.ID] = struct{}{}
	}
}

func (q *LimitQueue) removeAt(i int) {
	id := q.entries[i].ID
	entries := make([]LimitTx, 0, len(q.entries)-1)
	entries = append(entries, q.entries[:i]...)
	entries = append(entries, q.entries[i+1:]...)
	q.setEntries(entries)
	state.Delete(q.journal, q.ids, id)
}

func (q *LimitQueue) setEntries(entries []LimitTx) {
	state.Assign(q.journal, &q.entries, entries)
}

// outboundID identifies an outbound entry by its content and limit sign.
func outboundID(tx LimitTx) common.Hash {
	amount := tx.Amount.Bytes32()
	minWCKB := tx.MinWCKBAmount.Bytes32()
	sign := common.BigToHash(new(big.Int).SetUint64(tx.LimitSign))
	return crypto.Keccak256Hash(
		[]byte(tx.To),
		tx.Token.Bytes(),
		amount[:],
		minWCKB[:],
		sign[:],
	)
}
