// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package token

import (
	"errors"

	"github.com/axonweb3/axon-bridge/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	ErrTransferExceedsBalance = errors.New("ERC20: transfer amount exceeds balance")
	ErrInsufficientAllowance  = errors.New("ERC20: insufficient allowance")
	ErrBurnExceedsBalance     = errors.New("ERC20: burn amount exceeds balance")
	ErrTransferToZeroAddress  = errors.New("ERC20: transfer to the zero address")
	ErrMintToZeroAddress      = errors.New("ERC20: mint to the zero address")
	ErrSupplyOverflow         = errors.New("ERC20: total supply overflow")
)

// Ledger keeps balances, allowances and total supply of a single asset.
// All mutations are recorded in the journal so they can be reverted.
type Ledger struct {
	address     common.Address
	name        string
	symbol      string
	decimals    uint8
	totalSupply uint256.Int
	balances    map[common.Address]uint256.Int
	allowances  map[common.Address]map[common.Address]uint256.Int
	journal     *state.Journal
}

func NewLedger(address common.Address, name, symbol string, decimals uint8, journal *state.Journal) *Ledger {
	return &Ledger{
		address:    address,
		name:       name,
		symbol:     symbol,
		decimals:   decimals,
		balances:   make(map[common.Address]uint256.Int),
		allowances: make(map[common.Address]map[common.Address]uint256.Int),
		journal:    journal,
	}
}

func (l *Ledger) Address() common.Address { return l.address }
func (l *Ledger) Name() string            { return l.name }
func (l *Ledger) Symbol() string          { return l.symbol }
func (l *Ledger) Decimals() uint8         { return l.decimals }

func (l *Ledger) TotalSupply() *uint256.Int {
	supply := l.totalSupply
	return &supply
}

func (l *Ledger) BalanceOf(account common.Address) *uint256.Int {
	balance := l.balances[account]
	return &balance
}

func (l *Ledger) Allowance(owner, spender common.Address) *uint256.Int {
	allowance := l.allowances[owner][spender]
	return &allowance
}

// Transfer moves amount from one account to another.
func (l *Ledger) Transfer(from, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) && l.address != (common.Address{}) {
		return ErrTransferToZeroAddress
	}
	balance := l.balances[from]
	if balance.Lt(amount) {
		return ErrTransferExceedsBalance
	}
	l.setBalance(from, new(uint256.Int).Sub(&balance, amount))
	received := l.balances[to]
	l.setBalance(to, new(uint256.Int).Add(&received, amount))
	return nil
}

func (l *Ledger) Approve(owner, spender common.Address, amount *uint256.Int) {
	l.setAllowance(owner, spender, amount)
}

// TransferFrom moves amount out of from's balance on behalf of spender,
// consuming spender's allowance.
func (l *Ledger) TransferFrom(spender, from, to common.Address, amount *uint256.Int) error {
	allowance := l.Allowance(from, spender)
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	if err := l.Transfer(from, to, amount); err != nil {
		return err
	}
	l.setAllowance(from, spender, new(uint256.Int).Sub(allowance, amount))
	return nil
}

func (l *Ledger) mint(to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrMintToZeroAddress
	}
	supply, overflow := new(uint256.Int).AddOverflow(&l.totalSupply, amount)
	if overflow {
		return ErrSupplyOverflow
	}
	l.setTotalSupply(supply)
	balance := l.balances[to]
	l.setBalance(to, new(uint256.Int).Add(&balance, amount))
	return nil
}

func (l *Ledger) burn(from common.Address, amount *uint256.Int) error {
	balance := l.balances[from]
	if balance.Lt(amount) {
		return ErrBurnExceedsBalance
	}
	l.setBalance(from, new(uint256.Int).Sub(&balance, amount))
	l.setTotalSupply(new(uint256.Int).Sub(&l.totalSupply, amount))
	return nil
}

func (l *Ledger) setBalance(account common.Address, amount *uint256.Int) {
	prev, existed := l.balances[account]
	l.balances[account] = *amount
	l.journal.Append(func() {
		if existed {
			l.balances[account] = prev
		} else {
			delete(l.balances, account)
		}
	})
}

func (l *Ledger) setAllowance(owner, spender common.Address, amount *uint256.Int) {
	if _, ok := l.allowances[owner]; !ok {
		l.allowances[owner] = make(map[common.Address]uint256.Int)
	}
	prev, existed := l.allowances[owner][spender]
	l.allowances[owner][spender] = *amount
	l.journal.Append(func() {
		if existed {
			l.allowances[owner][spender] = prev
		} else {
			delete(l.allowances[owner], spender)
		}
	})
}

func (l *Ledger) setTotalSupply(amount *uint256.Int) {
	prev := l.totalSupply
	l.totalSupply = *amount
	l.journal.Append(func() { l.totalSupply = prev })
}

// LedgerSnapshot is the persisted form of a ledger.
type LedgerSnapshot struct {
	TotalSupply *uint256.Int                                       `json:"totalSupply"`
	Balances    map[common.Address]*uint256.Int                    `json:"balances"`
	Allowances  map[common.Address]map[common.Address]*uint256.Int `json:"allowances"`
}

func (l *Ledger) Snapshot() LedgerSnapshot {
	snapshot := LedgerSnapshot{
		TotalSupply: l.TotalSupply(),
		Balances:    make(map[common.Address]*uint256.Int, len(l.balances)),
		Allowances:  make(map[common.Address]map[common.Address]*uint256.Int),
	}
	for account := range l.balances {
		snapshot.Balances[account] = l.BalanceOf(account)
	}
	for owner, spenders := range l.allowances {
		if len(spenders) == 0 {
			continue
		}
		allowances := make(map[common.Address]*uint256.Int, len(spenders))
		for spender := range spenders {
			allowances[spender] = l.Allowance(owner, spender)
		}
		snapshot.Allowances[owner] = allowances
	}
	return snapshot
}

// Restore replaces the ledger state with a persisted snapshot. The change
// is not journaled.
func (l *Ledger) Restore(snapshot LedgerSnapshot) {
	l.totalSupply = uint256.Int{}
	if snapshot.TotalSupply != nil {
		l.totalSupply = *snapshot.TotalSupply
	}
	l.balances = make(map[common.Address]uint256.Int, len(snapshot.Balances))
	for account, amount := range snapshot.Balances {
		if amount != nil {
			l.balances[account] = *amount
		}
	}
	l.allowances = make(map[common.Address]map[common.Address]uint256.Int, len(snapshot.Allowances))
	for owner, spenders := range snapshot.Allowances {
		allowances := make(map[common.Address]uint256.Int, len(spenders))
		for spender, amount := range spenders {
			if amount != nil {
				allowances[spender] = *amount
			}
		}
		l.allowances[owner] = allowances
	}
}
