// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package api

import (
	"github.com/axonweb3/axon-bridge/bridge"
	"github.com/axonweb3/axon-bridge/events"
	"github.com/axonweb3/axon-bridge/metadata"
	"github.com/axonweb3/axon-bridge/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// CallArgs is the execution context every mutating request carries.
type CallArgs struct {
	From        common.Address `json:"from"`
	Value       *uint256.Int   `json:"value"`
	BlockNumber uint64         `json:"blockNumber"`
}

func (a CallArgs) call() state.Call {
	return state.Call{From: a.From, Value: a.Value, BlockNumber: a.BlockNumber}
}

type EmptyArgs struct{}

type EmptyReply struct{}

type AppendMetadataArgs struct {
	CallArgs
	Metadata metadata.Metadata `json:"metadata"`
}

type EpochArgs struct {
	Epoch uint64 `json:"epoch"`
}

type BlockArgs struct {
	BlockNumber uint64 `json:"blockNumber"`
}

type EpochReply struct {
	Epoch uint64 `json:"epoch"`
	Found bool   `json:"found"`
}

type AccountArgs struct {
	Address     common.Address `json:"address"`
	BlockNumber uint64         `json:"blockNumber"`
}

type BoolReply struct {
	Result bool `json:"result"`
}

type LockATArgs struct {
	CallArgs
	To string `json:"to"`
}

type CrossTokenToCKBArgs struct {
	CallArgs
	To     string         `json:"to"`
	Token  common.Address `json:"token"`
	Amount *uint256.Int   `json:"amount"`
}

type CrossFromCKBArgs struct {
	CallArgs
	Records    []bridge.CKBToAxonRecord `json:"records"`
	Signatures []hexutil.Bytes          `json:"signatures"`
	Nonce      uint64                   `json:"nonce"`
}

type BatchArgs struct {
	Records []bridge.CKBToAxonRecord `json:"records"`
	Nonce   uint64                   `json:"nonce"`
}

type HashReply struct {
	Hash hexutil.Bytes `json:"hash"`
}

type LimitTxesReply struct {
	LimitTxes []bridge.LimitTx `json:"limitTxes"`
}

type RemoveLimitTxArgs struct {
	CallArgs
	LimitTx bridge.LimitTx `json:"limitTx"`
}

type RemoveLimitTxByIDArgs struct {
	CallArgs
	ID common.Hash `json:"id"`
}

type TokenArgs struct {
	Token common.Address `json:"token"`
}

type TokenCallArgs struct {
	CallArgs
	Token common.Address `json:"token"`
}

type SetTokenConfigArgs struct {
	CallArgs
	Token  common.Address     `json:"token"`
	Config bridge.TokenConfig `json:"config"`
}

type TypehashArgs struct {
	CallArgs
	Token    common.Address `json:"token"`
	Typehash common.Hash    `json:"typehash"`
}

type AmountArgs struct {
	CallArgs
	Amount *uint256.Int `json:"amount"`
}

type AmountReply struct {
	Amount *uint256.Int `json:"amount"`
}

type RoleArgs struct {
	CallArgs
	Role    common.Hash    `json:"role"`
	Account common.Address `json:"account"`
}

type ApproveArgs struct {
	CallArgs
	Token   common.Address `json:"token"`
	Spender common.Address `json:"spender"`
	Amount  *uint256.Int   `json:"amount"`
}

type BalanceArgs struct {
	Token   common.Address `json:"token"`
	Account common.Address `json:"account"`
}

type BridgeInfoReply struct {
	Address      common.Address   `json:"address"`
	WCKB         common.Address   `json:"wckb"`
	WCKBMin      *uint256.Int     `json:"wckbMin"`
	Nonce        uint64           `json:"nonce"`
	MirrorTokens []common.Address `json:"mirrorTokens"`
	Whitelist    []common.Address `json:"whitelist"`
}

type TokenInfoReply struct {
	Config    bridge.TokenConfig `json:"config"`
	Typehash  common.Hash        `json:"typehash"`
	Mirror    bool               `json:"mirror"`
	Whitelist bool               `json:"whitelist"`
}

type TokenByTypehashArgs struct {
	Typehash common.Hash `json:"typehash"`
}

type AddressReply struct {
	Address common.Address `json:"address"`
}

type LogsReply struct {
	Logs []events.Log `json:"logs"`
}
