// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"fmt"

	"github.com/axonweb3/axon-bridge/events"
	"github.com/axonweb3/axon-bridge/state"
	"github.com/axonweb3/axon-bridge/token"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// CrossFromCKB settles a batch of records produced on CKB. The caller must
// be a proposer of the current epoch and, when a quorum is configured,
// signatures of distinct verifiers over the batch must reach it.
func (b *Bridge) CrossFromCKB(call state.Call, records []CKBToAxonRecord, signatures [][]byte, nonce uint64) error {
	var settled, queued int
	err := b.execute(call, "crossFromCKB", func() error {
		if !b.metadata.IsProposer(call.From, call.BlockNumber) {
			return ErrNotAProposer
		}
		if err := b.verifySignatures(call, records, signatures, nonce); err != nil {
			return err
		}
		if nonce != b.nonce {
			return fmt.Errorf("%w: expected %d, got %d", ErrInvalidNonce, b.nonce, nonce)
		}

		settledRecords := make([]events.Record, 0, len(records))
		for _, record := range records {
			ok, err := b.processRecord(record)
			if err != nil {
				return fmt.Errorf("record %s: %w", record.TxHash.Hex(), err)
			}
			if !ok {
				queued++
				continue
			}
			settledRecords = append(settledRecords, record.event())
		}
		settled = len(settledRecords)

		state.Assign(b.journal, &b.nonce, b.nonce+1)
		b.emit(events.CrossFromCKBSig, events.CrossFromCKB{
			Records: settledRecords,
			Nonce:   nonce,
		})
		return nil
	})
	if err != nil {
		return err
	}

	b.metadata.IncrementProposeCount(call.From, call.BlockNumber)
	b.metrics.TrackCrossFromCKB(settled, queued)
	b.log.Info().
		Uint64("nonce", nonce).
		Int("settled", settled).
		Int("queued", queued).
		Str("proposer", call.From.Hex()).
		Msg("Processed inbound batch")
	return nil
}

func (b *Bridge) verifySignatures(call state.Call, records []CKBToAxonRecord, signatures [][]byte, nonce uint64) error {
	if b.quorum <= 0 {
		return nil
	}
	if len(signatures) < b.quorum {
		return ErrInsufficientSignatures
	}

	domainSeparator, structHash, err := b.domain.BatchHashParts(records, nonce)
	if err != nil {
		return err
	}
	signers := make(map[common.Address]struct{})
	for _, sig := range signatures {
		signer, err := RecoverSigner(domainSeparator, structHash, sig)
		if err != nil {
			b.log.Debug().Err(err).Msg("Skipping invalid signature")
			continue
		}
		if !b.metadata.IsVerifier(signer, call.BlockNumber) {
			continue
		}
		signers[signer] = struct{}{}
	}
	if len(signers) < b.quorum {
		return ErrInsufficientValidSignatures
	}
	return nil
}

// processRecord settles a single record, returning false when the record
// was routed to the limit queue instead.
func (b *Bridge) processRecord(record CKBToAxonRecord) (bool, error) {
	if _, ok := b.settled[record.TxHash]; ok {
		return false, ErrRecordSettled
	}

	sudtAmount := record.sudtAmount()
	ckbAmount := record.ckbAmount()
	wckbAddress := b.config.WCKB()
	overSUDT := sudtAmount.Gt(b.config.Threshold(record.TokenAddress))
	overCKB := ckbAmount.Gt(b.config.Threshold(wckbAddress))

	if (overSUDT || overCKB) && record.Retry == 0 {
		tx := LimitTx{
			ID:        record.TxHash,
			Direction: FromCKB,
			To:        record.To.Hex(),
			Token:     record.TokenAddress,
			Amount:    *sudtAmount,
			CKBAmount: *ckbAmount,
			TxHash:    record.TxHash,
		}
		if !b.limits.Push(tx) {
			return false, nil
		}
		if overSUDT {
			b.emit(events.CrossFromCKBAlertSig, events.CrossFromCKBAlert{
				To:     record.To,
				Token:  record.TokenAddress,
				Amount: new(uint256.Int).Set(sudtAmount),
				TxHash: record.TxHash,
			})
		}
		if overCKB {
			b.emit(events.CrossFromCKBAlertSig, events.CrossFromCKBAlert{
				To:     record.To,
				Token:  wckbAddress,
				Amount: new(uint256.Int).Set(ckbAmount),
				TxHash: record.TxHash,
			})
		}
		b.log.Warn().Str("txHash", record.TxHash.Hex()).Str("to", record.To.Hex()).Msg("Inbound record exceeds threshold")
		return false, nil
	}

	if err := b.releaseCKB(record.To, ckbAmount); err != nil {
		return false, err
	}
	if err := b.releaseToken(record.To, record.TokenAddress, sudtAmount); err != nil {
		return false, err
	}
	state.Set(b.journal, b.settled, record.TxHash, struct{}{})
	return true, nil
}

// releaseCKB delivers CKB value as wckb, paying from the bridge balance
// first and minting the shortfall.
func (b *Bridge) releaseCKB(to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	wckb, err := b.wckb()
	if err != nil {
		return err
	}

	released := wckb.BalanceOf(b.address)
	if released.Gt(amount) {
		released.Set(amount)
	}
	if !released.IsZero() {
		if err := wckb.Transfer(b.address, to, released); err != nil {
			return err
		}
	}
	shortfall := new(uint256.Int).Sub(amount, released)
	if shortfall.IsZero() {
		return nil
	}
	return wckb.Mint(b.address, to, shortfall)
}

func (b *Bridge) releaseToken(to, tokenAddress common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}

	switch {
	case tokenAddress == token.NativeAddress:
		return b.tokens.Native().Transfer(b.address, to, amount)
	case tokenAddress == b.config.WCKB() || b.config.IsMirrorToken(tokenAddress):
		mirror, ok := b.tokens.Mintable(tokenAddress)
		if !ok {
			return ErrTokenNotSupported
		}
		return mirror.Mint(b.address, to, amount)
	case b.config.IsEscrowed(tokenAddress):
		t, ok := b.tokens.Get(tokenAddress)
		if !ok {
			return ErrTokenNotSupported
		}
		return t.Transfer(b.address, to, amount)
	}
	return ErrTokenNotSupported
}
