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

// LockAT locks the native value attached to call and bridges it to the
// CKB address to.
func (b *Bridge) LockAT(call state.Call, to string) error {
	return b.execute(call, "lockAT", func() error {
		value := call.CallValue()
		if value.IsZero() {
			return ErrZeroAmount
		}
		if err := b.tokens.Native().Transfer(call.From, b.address, value); err != nil {
			return err
		}
		if err := b.collectFee(call.From, token.NativeAddress); err != nil {
			return err
		}
		b.crossToCKB(to, token.NativeAddress, value)
		return nil
	})
}

// CrossTokenToCKB bridges amount of an ERC-20 token to the CKB address to.
// Mirror tokens and wckb are burned, escrowable tokens are locked.
func (b *Bridge) CrossTokenToCKB(call state.Call, to string, tokenAddress common.Address, amount *uint256.Int) error {
	return b.execute(call, "crossTokenToCKB", func() error {
		if amount == nil || amount.IsZero() {
			return ErrZeroAmount
		}

		net := new(uint256.Int).Set(amount)
		switch {
		case tokenAddress == token.NativeAddress:
			return fmt.Errorf("%w: native coin crosses with lockAT", ErrTokenNotSupported)
		case tokenAddress == b.config.WCKB():
			wckb, err := b.wckb()
			if err != nil {
				return err
			}
			fee := b.config.Fee(tokenAddress)
			if !amount.Gt(fee) {
				return ErrAmountBelowFee
			}
			if wckb.BalanceOf(call.From).Lt(amount) {
				return token.ErrBurnExceedsBalance
			}
			if err := wckb.Transfer(call.From, b.address, fee); err != nil {
				return err
			}
			net.Sub(amount, fee)
			if err := wckb.Burn(b.address, call.From, net); err != nil {
				return err
			}
		case b.config.IsMirrorToken(tokenAddress):
			mirror, ok := b.tokens.Mintable(tokenAddress)
			if !ok {
				return ErrTokenNotSupported
			}
			if err := mirror.Burn(b.address, call.From, amount); err != nil {
				return err
			}
			if err := b.collectFee(call.From, tokenAddress); err != nil {
				return err
			}
		case b.config.IsEscrowed(tokenAddress):
			t, ok := b.tokens.Get(tokenAddress)
			if !ok {
				return ErrTokenNotSupported
			}
			if err := t.TransferFrom(b.address, call.From, b.address, amount); err != nil {
				return err
			}
			if err := b.collectFee(call.From, tokenAddress); err != nil {
				return err
			}
		default:
			return ErrTokenNotSupported
		}

		b.crossToCKB(to, tokenAddress, net)
		return nil
	})
}

// collectFee pulls the flat fee configured for tokenAddress from the
// caller's wckb allowance into the bridge.
func (b *Bridge) collectFee(from, tokenAddress common.Address) error {
	fee := b.config.Fee(tokenAddress)
	if fee.IsZero() {
		return nil
	}
	wckb, err := b.wckb()
	if err != nil {
		return err
	}
	if err := wckb.TransferFrom(b.address, from, b.address, fee); err != nil {
		return fmt.Errorf("%w: %v", ErrInsufficientFeeTokenBalance, err)
	}
	return nil
}

// crossToCKB emits the outbound event, routing transfers above the token
// threshold to the limit queue.
func (b *Bridge) crossToCKB(to string, tokenAddress common.Address, amount *uint256.Int) {
	minWCKB := b.config.WCKBMin()
	if amount.Gt(b.config.Threshold(tokenAddress)) {
		tx := LimitTx{
			Direction:     ToCKB,
			To:            to,
			Token:         tokenAddress,
			Amount:        *amount,
			MinWCKBAmount: *minWCKB,
			LimitSign:     b.limitSign,
		}
		tx.ID = outboundID(tx)
		state.Assign(b.journal, &b.limitSign, b.limitSign+1)
		b.limits.Push(tx)

		b.emit(events.CrossToCKBAlertSig, events.CrossToCKBAlert{
			To:            to,
			Token:         tokenAddress,
			Amount:        new(uint256.Int).Set(amount),
			MinWCKBAmount: minWCKB,
		})
		b.metrics.TrackCrossToCKB(tokenAddress, amount, true)
		b.log.Warn().Str("to", to).Str("token", tokenAddress.Hex()).Str("amount", amount.Dec()).Msg("Outbound transfer exceeds threshold")
		return
	}

	b.emit(events.CrossToCKBSig, events.CrossToCKB{
		To:            to,
		Token:         tokenAddress,
		Amount:        new(uint256.Int).Set(amount),
		MinWCKBAmount: minWCKB,
		Sequence:      b.nextSequence(tokenAddress),
	})
	b.metrics.TrackCrossToCKB(tokenAddress, amount, false)
}
