// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import "errors"

var (
	ErrZeroAmount                  = errors.New("amount must be more than 0")
	ErrAmountBelowFee              = errors.New("amount must be more than fee")
	ErrInsufficientFeeTokenBalance = errors.New("amount of wckb is insufficient")
	ErrTokenNotSupported           = errors.New("token is not supported")
	ErrWCKBNotSet                  = errors.New("wckb address is not set")
	ErrNotAProposer                = errors.New("not a proposer")
	ErrInsufficientSignatures      = errors.New("insufficient signatures")
	ErrInsufficientValidSignatures = errors.New("insufficient valid signatures")
	ErrInvalidNonce                = errors.New("invalid nonce")
	ErrRecordSettled               = errors.New("record already settled")
	ErrNotFound                    = errors.New("limit tx not found")
	ErrInvalidSignature            = errors.New("invalid signature")
)
