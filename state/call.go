// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Call carries the context a state transition executes in.
type Call struct {
	From        common.Address
	Value       *uint256.Int
	BlockNumber uint64
}

// CallValue returns the attached native value, zero when none was sent.
func (c Call) CallValue() *uint256.Int {
	if c.Value == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(c.Value)
}
