// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"github.com/axonweb3/axon-bridge/events"
	"github.com/axonweb3/axon-bridge/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// LimitTxes returns the transfers waiting for release in insertion order.
func (b *Bridge) LimitTxes() []LimitTx {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.limits.List()
}

// RemoveLimitTx releases the queued entry equal to entry. Outbound entries
// are bridged, removing an inbound entry acknowledges it so the record can
// be resubmitted.
func (b *Bridge) RemoveLimitTx(call state.Call, entry LimitTx) error {
	return b.execute(call, "removeLimitTx", func() error {
		if err := b.requireManager(call); err != nil {
			return err
		}
		if err := b.limits.Remove(entry); err != nil {
			return err
		}
		b.release(entry)
		return nil
	})
}

func (b *Bridge) RemoveLimitTxByID(call state.Call, id common.Hash) error {
	return b.execute(call, "removeLimitTx", func() error {
		if err := b.requireManager(call); err != nil {
			return err
		}
		entry, err := b.limits.RemoveByID(id)
		if err != nil {
			return err
		}
		b.release(entry)
		return nil
	})
}

func (b *Bridge) release(entry LimitTx) {
	switch entry.Direction {
	case ToCKB:
		b.emit(events.CrossToCKBSig, events.CrossToCKB{
			To:            entry.To,
			Token:         entry.Token,
			Amount:        new(uint256.Int).Set(&entry.Amount),
			MinWCKBAmount: new(uint256.Int).Set(&entry.MinWCKBAmount),
			Sequence:      b.nextSequence(entry.Token),
		})
	case FromCKB:
		b.emit(events.CrossLimitRecordSig, events.CrossLimitRecord{
			CurrentRecordHash: entry.ID,
			RemainRecordsHash: b.limits.IDs(FromCKB),
		})
	}
	b.log.Info().Str("id", entry.ID.Hex()).Str("direction", entry.Direction.String()).Msg("Released limit tx")
}
