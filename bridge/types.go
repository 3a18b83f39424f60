// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"encoding/json"

	"github.com/axonweb3/axon-bridge/events"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// TokenConfig is the bridging policy of a single token. Fee is charged in
// wckb units, transfers above Threshold wait in the limit queue.
type TokenConfig struct {
	Fee       *uint256.Int `json:"fee" mapstructure:"fee"`
	Threshold *uint256.Int `json:"threshold" mapstructure:"threshold"`
}

func (c TokenConfig) normalize() TokenConfig {
	n := TokenConfig{Fee: new(uint256.Int), Threshold: new(uint256.Int)}
	if c.Fee != nil {
		n.Fee.Set(c.Fee)
	}
	if c.Threshold != nil {
		n.Threshold.Set(c.Threshold)
	}
	return n
}

// CKBToAxonRecord is a single transfer settled by an inbound batch.
type CKBToAxonRecord struct {
	To           common.Address `json:"to"`
	TokenAddress common.Address `json:"tokenAddress"`
	SUDTAmount   *uint256.Int   `json:"sUDTAmount"`
	CKBAmount    *uint256.Int   `json:"CKBAmount"`
	TxHash       common.Hash    `json:"txHash"`
	// Non zero for resubmissions of records released by an operator
	Retry uint8 `json:"retry"`
}

func (r CKBToAxonRecord) sudtAmount() *uint256.Int {
	if r.SUDTAmount == nil {
		return new(uint256.Int)
	}
	return r.SUDTAmount
}

func (r CKBToAxonRecord) ckbAmount() *uint256.Int {
	if r.CKBAmount == nil {
		return new(uint256.Int)
	}
	return r.CKBAmount
}

func (r CKBToAxonRecord) event() events.Record {
	return events.Record{
		To:           r.To,
		TokenAddress: r.TokenAddress,
		SUDTAmount:   new(uint256.Int).Set(r.sudtAmount()),
		CKBAmount:    new(uint256.Int).Set(r.ckbAmount()),
		TxHash:       r.TxHash,
	}
}

type Direction uint8

const (
	ToCKB Direction = iota + 1
	FromCKB
)

func (d Direction) String() string {
	switch d {
	case ToCKB:
		return "toCKB"
	case FromCKB:
		return "fromCKB"
	}
	return "unknown"
}

// LimitTx is a transfer held back for manual release. Entries are
// compared by value.
type LimitTx struct {
	ID            common.Hash
	Direction     Direction
	To            string
	Token         common.Address
	Amount        uint256.Int
	CKBAmount     uint256.Int
	MinWCKBAmount uint256.Int
	TxHash        common.Hash
	LimitSign     uint64
}

type limitTxJSON struct {
	ID            common.Hash    `json:"id"`
	Direction     Direction      `json:"direction"`
	To            string         `json:"to"`
	Token         common.Address `json:"token"`
	Amount        *uint256.Int   `json:"amount"`
	CKBAmount     *uint256.Int   `json:"CKBAmount"`
	MinWCKBAmount *uint256.Int   `json:"minWCKBAmount"`
	TxHash        common.Hash    `json:"txHash"`
	LimitSign     uint64         `json:"limitSign"`
}

func (tx LimitTx) MarshalJSON() ([]byte, error) {
	return json.Marshal(limitTxJSON{
		ID:            tx.ID,
		Direction:     tx.Direction,
		To:            tx.To,
		Token:         tx.Token,
		Amount:        new(uint256.Int).Set(&tx.Amount),
		CKBAmount:     new(uint256.Int).Set(&tx.CKBAmount),
		MinWCKBAmount: new(uint256.Int).Set(&tx.MinWCKBAmount),
		TxHash:        tx.TxHash,
		LimitSign:     tx.LimitSign,
	})
}

func (tx *LimitTx) UnmarshalJSON(data []byte) error {
	var dec limitTxJSON
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}
	*tx = LimitTx{
		ID:        dec.ID,
		Direction: dec.Direction,
		To:        dec.To,
		Token:     dec.Token,
		TxHash:    dec.TxHash,
		LimitSign: dec.LimitSign,
	}
	if dec.Amount != nil {
		tx.Amount.Set(dec.Amount)
	}
	if dec.CKBAmount != nil {
		tx.CKBAmount.Set(dec.CKBAmount)
	}
	if dec.MinWCKBAmount != nil {
		tx.MinWCKBAmount.Set(dec.MinWCKBAmount)
	}
	return nil
}
