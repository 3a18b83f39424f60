// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package access

import (
	"errors"
	"fmt"

	"github.com/axonweb3/axon-bridge/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Role common.Hash

var (
	DefaultAdminRole = Role{}
	ManagerRole      = NewRole("MANAGER_ROLE")
	MinterRole       = NewRole("MINTER_ROLE")
	BurnerRole       = NewRole("BURNER_ROLE")
)

var ErrMissingRole = errors.New("access control: account is missing role")

// NewRole derives a role identifier the same way the solidity contracts do.
func NewRole(name string) Role {
	return Role(crypto.Keccak256Hash([]byte(name)))
}

func (r Role) String() string {
	switch r {
	case DefaultAdminRole:
		return "DEFAULT_ADMIN_ROLE"
	case ManagerRole:
		return "MANAGER_ROLE"
	case MinterRole:
		return "MINTER_ROLE"
	case BurnerRole:
		return "BURNER_ROLE"
	}
	return common.Hash(r).Hex()
}

// RoleRegistry maps accounts to the roles they hold. Every role is
// administered by DefaultAdminRole.
type RoleRegistry struct {
	members map[Role]map[common.Address]struct{}
	journal *state.Journal
}

// NewRoleRegistry creates a registry where admin holds DefaultAdminRole
// and ManagerRole.
func NewRoleRegistry(admin common.Address, journal *state.Journal) *RoleRegistry {
	r := &RoleRegistry{
		members: make(map[Role]map[common.Address]struct{}),
		journal: journal,
	}
	r.grant(DefaultAdminRole, admin)
	r.grant(ManagerRole, admin)
	return r
}

func (r *RoleRegistry) HasRole(role Role, account common.Address) bool {
	_, ok := r.members[role][account]
	return ok
}

// HasAnyRole returns true if account holds at least one of the roles.
func (r *RoleRegistry) HasAnyRole(account common.Address, roles ...Role) bool {
	for _, role := range roles {
		if r.HasRole(role, account) {
			return true
		}
	}
	return false
}

// CheckRole returns ErrMissingRole if account holds none of the roles.
func (r *RoleRegistry) CheckRole(account common.Address, roles ...Role) error {
	if r.HasAnyRole(account, roles...) {
		return nil
	}
	return fmt.Errorf("%w %s: %s", ErrMissingRole, roles[0], account.Hex())
}

func (r *RoleRegistry) GrantRole(caller common.Address, role Role, account common.Address) error {
	if err := r.CheckRole(caller, DefaultAdminRole); err != nil {
		return err
	}
	r.grant(role, account)
	return nil
}

func (r *RoleRegistry) RevokeRole(caller common.Address, role Role, account common.Address) error {
	if err := r.CheckRole(caller, DefaultAdminRole); err != nil {
		return err
	}
	r.revoke(role, account)
	return nil
}

// Members returns the accounts holding role, in no particular order.
func (r *RoleRegistry) Members(role Role) []common.Address {
	members := make([]common.Address, 0, len(r.members[role]))
	for account := range r.members[role] {
		members = append(members, account)
	}
	return members
}

// Snapshot returns the members of every non-empty role, ordered by address.
func (r *RoleRegistry) Snapshot() map[common.Hash][]common.Address {
	snapshot := make(map[common.Hash][]common.Address, len(r.members))
	for role, members := range r.members {
		if len(members) == 0 {
			continue
		}
		accounts := maps.Keys(members)
		slices.SortFunc(accounts, func(a, b common.Address) int {
			return a.Cmp(b)
		})
		snapshot[common.Hash(role)] = accounts
	}
	return snapshot
}

// Restore replaces every role membership with a persisted snapshot. The
// change is not journaled.
func (r *RoleRegistry) Restore(snapshot map[common.Hash][]common.Address) {
	r.members = make(map[Role]map[common.Address]struct{}, len(snapshot))
	for role, accounts := range snapshot {
		members := make(map[common.Address]struct{}, len(accounts))
		for _, account := range accounts {
			members[account] = struct{}{}
		}
		r.members[Role(role)] = members
	}
}

func (r *RoleRegistry) grant(role Role, account common.Address) {
	if r.HasRole(role, account) {
		return
	}
	if _, ok := r.members[role]; !ok {
		r.members[role] = make(map[common.Address]struct{})
	}
	r.members[role][account] = struct{}{}
	r.journal.Append(func() { delete(r.members[role], account) })
}

func (r *RoleRegistry) revoke(role Role, account common.Address) {
	if !r.HasRole(role, account) {
		return
	}
	delete(r.members[role], account)
	r.journal.Append(func() { r.members[role][account] = struct{}{} })
}
