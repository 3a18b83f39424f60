// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package token

import (
	"github.com/axonweb3/axon-bridge/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// NativeAddress identifies the chain's native coin in token keyed maps.
var NativeAddress = common.Address{}

// Native holds account balances of the chain's native coin.
type Native struct {
	*Ledger
}

func NewNative(symbol string, journal *state.Journal) *Native {
	return &Native{Ledger: NewLedger(NativeAddress, "Native", symbol, 18, journal)}
}

// Credit adds newly issued coins to account, used for genesis allocations.
func (n *Native) Credit(account common.Address, amount *uint256.Int) error {
	return n.mint(account, amount)
}

func (n *Native) TransferFrom(spender, from, to common.Address, amount *uint256.Int) error {
	if spender != from {
		return ErrInsufficientAllowance
	}
	return n.Transfer(from, to, amount)
}
