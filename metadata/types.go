// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package metadata

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Version is the inclusive block range a checkpoint is authoritative for.
type Version struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

func (v Version) Contains(blockNumber uint64) bool {
	return v.Start <= blockNumber && blockNumber <= v.End
}

type ValidatorExtend struct {
	BlsPubKey     hexutil.Bytes  `json:"bls_pub_key"`
	PubKey        hexutil.Bytes  `json:"pub_key"`
	Address       common.Address `json:"address"`
	ProposeWeight uint32         `json:"propose_weight"`
	VoteWeight    uint32         `json:"vote_weight"`
}

type ProposeCount struct {
	Address common.Address `json:"address"`
	Count   uint64         `json:"count"`
}

// Metadata is a validator set checkpoint together with the consensus
// parameters in force during its version.
type Metadata struct {
	Version                 Version           `json:"version"`
	Epoch                   uint64            `json:"epoch"`
	GasLimit                uint64            `json:"gas_limit"`
	GasPrice                uint64            `json:"gas_price"`
	Interval                uint64            `json:"interval"`
	VerifierList            []ValidatorExtend `json:"verifier_list"`
	ProposeRatio            uint64            `json:"propose_ratio"`
	PrevoteRatio            uint64            `json:"prevote_ratio"`
	PrecommitRatio          uint64            `json:"precommit_ratio"`
	BrakeRatio              uint64            `json:"brake_ratio"`
	TxNumLimit              uint64            `json:"tx_num_limit"`
	MaxTxSize               uint64            `json:"max_tx_size"`
	LastCheckpointBlockHash common.Hash       `json:"last_checkpoint_block_hash"`
	ProposeCounter          []ProposeCount    `json:"propose_counter"`
}

// Verifier returns the verifier entry registered under address.
func (m *Metadata) Verifier(address common.Address) (ValidatorExtend, bool) {
	for _, v := range m.VerifierList {
		if v.Address == address {
			return v, true
		}
	}
	return ValidatorExtend{}, false
}

// Copy returns a deep copy so stored checkpoints cannot be mutated by callers.
func (m Metadata) Copy() Metadata {
	c := m
	c.VerifierList = make([]ValidatorExtend, len(m.VerifierList))
	for i, v := range m.VerifierList {
		c.VerifierList[i] = ValidatorExtend{
			BlsPubKey:     append(hexutil.Bytes(nil), v.BlsPubKey...),
			PubKey:        append(hexutil.Bytes(nil), v.PubKey...),
			Address:       v.Address,
			ProposeWeight: v.ProposeWeight,
			VoteWeight:    v.VoteWeight,
		}
	}
	c.ProposeCounter = append([]ProposeCount(nil), m.ProposeCounter...)
	return c
}
