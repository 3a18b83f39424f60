// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package events

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

type EventSig string

func (es EventSig) GetTopic() common.Hash {
	return crypto.Keccak256Hash([]byte(es))
}

// Name returns the event name without its argument list.
func (es EventSig) Name() string {
	name, _, _ := strings.Cut(string(es), "(")
	return name
}

const (
	CrossToCKBSig        EventSig = "CrossToCKB(string,address,uint256,uint256)"
	CrossToCKBAlertSig   EventSig = "CrossToCKBAlert(string,address,uint256,uint256)"
	CrossFromCKBSig      EventSig = "CrossFromCKB((address,address,uint256,uint256,bytes32)[])"
	CrossFromCKBAlertSig EventSig = "CrossFromCKBAlert(address,address,uint256)"
	CrossLimitRecordSig  EventSig = "CrossLimitRecord(bytes32,bytes32[])"
	ChangeTokenConfigSig EventSig = "ChangeTokenConfig(address,(uint256,uint256))"
	ChangeMinWCKBSig     EventSig = "ChangeMinWCKB(uint256)"
)

// CrossToCKB is emitted when value leaves toward CKB.
type CrossToCKB struct {
	To            string         `json:"to"`
	Token         common.Address `json:"token"`
	Amount        *uint256.Int   `json:"amount"`
	MinWCKBAmount *uint256.Int   `json:"minWCKBAmount"`
	// Per token lock sequence, starting at 1
	Sequence uint64 `json:"sequence"`
}

// CrossToCKBAlert is emitted instead of CrossToCKB when the transfer
// exceeds the token threshold and waits for manual release.
type CrossToCKBAlert struct {
	To            string         `json:"to"`
	Token         common.Address `json:"token"`
	Amount        *uint256.Int   `json:"amount"`
	MinWCKBAmount *uint256.Int   `json:"minWCKBAmount"`
}

type Record struct {
	To           common.Address `json:"to"`
	TokenAddress common.Address `json:"tokenAddress"`
	SUDTAmount   *uint256.Int   `json:"sUDTAmount"`
	CKBAmount    *uint256.Int   `json:"CKBAmount"`
	TxHash       common.Hash    `json:"txHash"`
}

// CrossFromCKB lists the records settled by one inbound batch.
type CrossFromCKB struct {
	Records []Record `json:"records"`
	Nonce   uint64   `json:"nonce"`
}

type CrossFromCKBAlert struct {
	To     common.Address `json:"to"`
	Token  common.Address `json:"token"`
	Amount *uint256.Int   `json:"amount"`
	TxHash common.Hash    `json:"txHash"`
}

type CrossLimitRecord struct {
	CurrentRecordHash common.Hash   `json:"currentRecordHash"`
	RemainRecordsHash []common.Hash `json:"remainRecordsHash"`
}

type ChangeTokenConfig struct {
	Token     common.Address `json:"token"`
	Fee       *uint256.Int   `json:"fee"`
	Threshold *uint256.Int   `json:"threshold"`
}

type ChangeMinWCKB struct {
	MinWCKB *uint256.Int `json:"minWCKB"`
}

// Log is an emitted event together with the block it was emitted in.
type Log struct {
	Name        string      `json:"name"`
	Topic       common.Hash `json:"topic"`
	BlockNumber uint64      `json:"blockNumber"`
	Index       uint64      `json:"logIndex"`
	Data        interface{} `json:"data"`
}

func NewLog(sig EventSig, blockNumber uint64, data interface{}) Log {
	return Log{
		Name:        sig.Name(),
		Topic:       sig.GetTopic(),
		BlockNumber: blockNumber,
		Data:        data,
	}
}
