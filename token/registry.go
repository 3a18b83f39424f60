// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package token

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/slices"
)

var ErrUnknownToken = errors.New("unknown token")

// Registry resolves token addresses to deployed tokens.
type Registry struct {
	lock   sync.RWMutex
	native *Native
	tokens map[common.Address]Token
}

func NewRegistry(native *Native) *Registry {
	return &Registry{
		native: native,
		tokens: make(map[common.Address]Token),
	}
}

func (r *Registry) Native() *Native {
	return r.native
}

func (r *Registry) Register(t Token) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if t.Address() == NativeAddress {
		return fmt.Errorf("token %s uses the native coin address", t.Symbol())
	}
	if _, ok := r.tokens[t.Address()]; ok {
		return fmt.Errorf("token %s already registered", t.Address().Hex())
	}
	r.tokens[t.Address()] = t
	return nil
}

// Get returns the token deployed at address. The zero address resolves to
// the native coin.
func (r *Registry) Get(address common.Address) (Token, bool) {
	if address == NativeAddress {
		return r.native, r.native != nil
	}

	r.lock.RLock()
	defer r.lock.RUnlock()
	t, ok := r.tokens[address]
	return t, ok
}

func (r *Registry) Mintable(address common.Address) (Mintable, bool) {
	t, ok := r.Get(address)
	if !ok {
		return nil, false
	}
	m, ok := t.(Mintable)
	return m, ok
}

// Tokens returns the registered token addresses in ascending order.
func (r *Registry) Tokens() []common.Address {
	r.lock.RLock()
	defer r.lock.RUnlock()

	addresses := make([]common.Address, 0, len(r.tokens))
	for address := range r.tokens {
		addresses = append(addresses, address)
	}
	slices.SortFunc(addresses, func(a, b common.Address) int {
		return a.Cmp(b)
	})
	return addresses
}

// Snapshot returns the ledger state of the native coin and every
// registered token, keyed by token address.
func (r *Registry) Snapshot() map[common.Address]LedgerSnapshot {
	r.lock.RLock()
	defer r.lock.RUnlock()

	snapshots := make(map[common.Address]LedgerSnapshot, len(r.tokens)+1)
	if r.native != nil {
		snapshots[NativeAddress] = r.native.Snapshot()
	}
	for address, t := range r.tokens {
		snapshots[address] = t.Snapshot()
	}
	return snapshots
}

// Restore loads persisted ledger state. Nothing is restored unless every
// persisted ledger belongs to a registered token.
func (r *Registry) Restore(snapshots map[common.Address]LedgerSnapshot) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	targets := make(map[common.Address]Token, len(snapshots))
	for address := range snapshots {
		if address == NativeAddress && r.native != nil {
			targets[address] = r.native
			continue
		}
		t, ok := r.tokens[address]
		if !ok {
			return fmt.Errorf("%w: persisted ledger for %s", ErrUnknownToken, address.Hex())
		}
		targets[address] = t
	}
	for address, t := range targets {
		t.Restore(snapshots[address])
	}
	return nil
}
