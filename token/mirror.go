// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package token

import (
	"github.com/axonweb3/axon-bridge/access"
	"github.com/axonweb3/axon-bridge/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// MirrorToken is the host-chain representation of an asset native to CKB.
// Supply changes are restricted to accounts holding the minter, burner or
// manager roles.
type MirrorToken struct {
	*Ledger
	roles *access.RoleRegistry
}

// NewMirrorToken deploys a mirror token administered by admin.
func NewMirrorToken(address, admin common.Address, name, symbol string, decimals uint8, journal *state.Journal) *MirrorToken {
	return &MirrorToken{
		Ledger: NewLedger(address, name, symbol, decimals, journal),
		roles:  access.NewRoleRegistry(admin, journal),
	}
}

func (t *MirrorToken) Roles() *access.RoleRegistry {
	return t.roles
}

func (t *MirrorToken) Mint(caller, to common.Address, amount *uint256.Int) error {
	if err := t.roles.CheckRole(caller, access.MinterRole, access.ManagerRole); err != nil {
		return err
	}
	return t.mint(to, amount)
}

func (t *MirrorToken) Burn(caller, from common.Address, amount *uint256.Int) error {
	if err := t.roles.CheckRole(caller, access.BurnerRole, access.ManagerRole); err != nil {
		return err
	}
	return t.burn(from, amount)
}
