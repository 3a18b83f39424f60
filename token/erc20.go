// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package token

import (
	"errors"

	"github.com/axonweb3/axon-bridge/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var ErrCallerNotOwner = errors.New("Ownable: caller is not the owner")

// Token is the ERC-20 surface the bridge escrows into.
type Token interface {
	Address() common.Address
	Symbol() string
	BalanceOf(account common.Address) *uint256.Int
	TotalSupply() *uint256.Int
	Transfer(from, to common.Address, amount *uint256.Int) error
	TransferFrom(spender, from, to common.Address, amount *uint256.Int) error
	Snapshot() LedgerSnapshot
	Restore(snapshot LedgerSnapshot)
}

// Mintable is implemented by tokens whose supply the bridge controls.
type Mintable interface {
	Token
	Mint(caller, to common.Address, amount *uint256.Int) error
	Burn(caller, from common.Address, amount *uint256.Int) error
}

// ERC20 is a plain token with a fixed owner allowed to mint new supply.
type ERC20 struct {
	*Ledger
	owner common.Address
}

func NewERC20(address, owner common.Address, name, symbol string, decimals uint8, journal *state.Journal) *ERC20 {
	return &ERC20{
		Ledger: NewLedger(address, name, symbol, decimals, journal),
		owner:  owner,
	}
}

func (t *ERC20) Owner() common.Address {
	return t.owner
}

func (t *ERC20) Mint(caller, to common.Address, amount *uint256.Int) error {
	if caller != t.owner {
		return ErrCallerNotOwner
	}
	return t.mint(to, amount)
}
