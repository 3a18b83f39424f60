// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"fmt"

	"github.com/axonweb3/axon-bridge/access"
	"github.com/axonweb3/axon-bridge/events"
	"github.com/axonweb3/axon-bridge/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func (b *Bridge) SetTokenConfig(call state.Call, tokenAddress common.Address, config TokenConfig) error {
	return b.execute(call, "setTokenConfig", func() error {
		if err := b.requireManager(call); err != nil {
			return err
		}
		config = config.normalize()
		b.config.SetTokenConfig(tokenAddress, config)
		b.emit(events.ChangeTokenConfigSig, events.ChangeTokenConfig{
			Token:     tokenAddress,
			Fee:       config.Fee,
			Threshold: config.Threshold,
		})
		return nil
	})
}

// AddMirrorToken registers a deployed mirror token as the representation
// of the CKB asset identified by typehash.
func (b *Bridge) AddMirrorToken(call state.Call, tokenAddress common.Address, typehash common.Hash) error {
	return b.execute(call, "addMirrorToken", func() error {
		if err := b.requireManager(call); err != nil {
			return err
		}
		if _, ok := b.tokens.Mintable(tokenAddress); !ok {
			return fmt.Errorf("%w: %s is not mintable", ErrTokenNotSupported, tokenAddress.Hex())
		}
		b.config.AddMirrorToken(tokenAddress, typehash)
		return nil
	})
}

// AddToken registers an escrowed token crossing as the CKB asset
// identified by typehash.
func (b *Bridge) AddToken(call state.Call, tokenAddress common.Address, typehash common.Hash) error {
	return b.execute(call, "addToken", func() error {
		if err := b.requireManager(call); err != nil {
			return err
		}
		if _, ok := b.tokens.Get(tokenAddress); !ok {
			return fmt.Errorf("%w: %s is not deployed", ErrTokenNotSupported, tokenAddress.Hex())
		}
		b.config.AddToken(tokenAddress, typehash)
		return nil
	})
}

func (b *Bridge) AddWhitelist(call state.Call, tokenAddress common.Address) error {
	return b.execute(call, "addWhitelist", func() error {
		if err := b.requireManager(call); err != nil {
			return err
		}
		if _, ok := b.tokens.Get(tokenAddress); !ok {
			return fmt.Errorf("%w: %s is not deployed", ErrTokenNotSupported, tokenAddress.Hex())
		}
		b.config.AddWhitelist(tokenAddress)
		return nil
	})
}

func (b *Bridge) RemoveWhitelist(call state.Call, tokenAddress common.Address) error {
	return b.execute(call, "removeWhitelist", func() error {
		if err := b.requireManager(call); err != nil {
			return err
		}
		b.config.RemoveWhitelist(tokenAddress)
		return nil
	})
}

func (b *Bridge) SetWCKB(call state.Call, tokenAddress common.Address) error {
	return b.execute(call, "setWCKB", func() error {
		if err := b.requireManager(call); err != nil {
			return err
		}
		if _, ok := b.tokens.Mintable(tokenAddress); !ok {
			return fmt.Errorf("%w: %s is not mintable", ErrTokenNotSupported, tokenAddress.Hex())
		}
		b.config.SetWCKB(tokenAddress)
		return nil
	})
}

func (b *Bridge) SetWCKBMin(call state.Call, amount *uint256.Int) error {
	return b.execute(call, "setWCKBMin", func() error {
		if err := b.requireManager(call); err != nil {
			return err
		}
		if amount == nil {
			amount = new(uint256.Int)
		}
		b.config.SetWCKBMin(amount)
		b.emit(events.ChangeMinWCKBSig, events.ChangeMinWCKB{MinWCKB: new(uint256.Int).Set(amount)})
		return nil
	})
}

// GrantRole grants a bridge role, the caller must hold the admin role.
func (b *Bridge) GrantRole(call state.Call, role access.Role, account common.Address) error {
	return b.execute(call, "grantRole", func() error {
		return b.roles.GrantRole(call.From, role, account)
	})
}

func (b *Bridge) RevokeRole(call state.Call, role access.Role, account common.Address) error {
	return b.execute(call, "revokeRole", func() error {
		return b.roles.RevokeRole(call.From, role, account)
	})
}

func (b *Bridge) HasRole(role access.Role, account common.Address) bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.roles.HasRole(role, account)
}

// Approve lets spender move amount of the caller's tokens.
func (b *Bridge) Approve(call state.Call, tokenAddress, spender common.Address, amount *uint256.Int) error {
	return b.execute(call, "approve", func() error {
		t, ok := b.tokens.Get(tokenAddress)
		if !ok {
			return ErrTokenNotSupported
		}
		approver, ok := t.(interface {
			Approve(owner, spender common.Address, amount *uint256.Int)
		})
		if !ok || tokenAddress == (common.Address{}) {
			return fmt.Errorf("%w: %s has no allowances", ErrTokenNotSupported, tokenAddress.Hex())
		}
		approver.Approve(call.From, spender, amount)
		return nil
	})
}

func (b *Bridge) BalanceOf(tokenAddress, account common.Address) (*uint256.Int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	t, ok := b.tokens.Get(tokenAddress)
	if !ok {
		return nil, ErrTokenNotSupported
	}
	return t.BalanceOf(account), nil
}

func (b *Bridge) GetTokenConfig(tokenAddress common.Address) TokenConfig {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.config.TokenConfig(tokenAddress)
}

func (b *Bridge) Fee(tokenAddress common.Address) *uint256.Int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.config.Fee(tokenAddress)
}

func (b *Bridge) IsMirrorToken(tokenAddress common.Address) bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.config.IsMirrorToken(tokenAddress)
}

func (b *Bridge) IsWhitelist(tokenAddress common.Address) bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.config.IsWhitelist(tokenAddress)
}

func (b *Bridge) MirrorTokens() []common.Address {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.config.MirrorTokens()
}

func (b *Bridge) Whitelist() []common.Address {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.config.Whitelist()
}

func (b *Bridge) GetTypehash(tokenAddress common.Address) common.Hash {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.config.GetTypehash(tokenAddress)
}

func (b *Bridge) GetTokenAddress(typehash common.Hash) common.Address {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.config.GetTokenAddress(typehash)
}

func (b *Bridge) GetWCKBAddress() common.Address {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.config.WCKB()
}

func (b *Bridge) GetWCKBMin() *uint256.Int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.config.WCKBMin()
}

func (b *Bridge) CrossFromCKBNonce() uint64 {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.nonce
}
