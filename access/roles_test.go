// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package access_test

import (
	"errors"
	"testing"

	"github.com/axonweb3/axon-bridge/access"
	"github.com/axonweb3/axon-bridge/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"
)

type RoleRegistryTestSuite struct {
	suite.Suite
	admin    common.Address
	account  common.Address
	journal  *state.Journal
	registry *access.RoleRegistry
}

func TestRunRoleRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RoleRegistryTestSuite))
}

func (s *RoleRegistryTestSuite) SetupTest() {
	s.admin = common.HexToAddress("0x1")
	s.account = common.HexToAddress("0x2")
	s.journal = state.NewJournal()
	s.registry = access.NewRoleRegistry(s.admin, s.journal)
}

func (s *RoleRegistryTestSuite) Test_NewRole_MatchesSolidityKeccak() {
	s.Equal(common.Hash(access.ManagerRole), crypto.Keccak256Hash([]byte("MANAGER_ROLE")))
	s.Equal("MANAGER_ROLE", access.ManagerRole.String())
}

func (s *RoleRegistryTestSuite) Test_AdminHoldsAdminAndManager() {
	s.True(s.registry.HasRole(access.DefaultAdminRole, s.admin))
	s.True(s.registry.HasRole(access.ManagerRole, s.admin))
	s.False(s.registry.HasRole(access.ManagerRole, s.account))
}

func (s *RoleRegistryTestSuite) Test_GrantRole_NonAdminFails() {
	err := s.registry.GrantRole(s.account, access.MinterRole, s.account)

	s.True(errors.Is(err, access.ErrMissingRole))
	s.False(s.registry.HasRole(access.MinterRole, s.account))
}

func (s *RoleRegistryTestSuite) Test_GrantAndRevokeRole() {
	err := s.registry.GrantRole(s.admin, access.MinterRole, s.account)
	s.Nil(err)
	s.True(s.registry.HasAnyRole(s.account, access.ManagerRole, access.MinterRole))
	s.Nil(s.registry.CheckRole(s.account, access.MinterRole))

	err = s.registry.RevokeRole(s.admin, access.MinterRole, s.account)
	s.Nil(err)
	s.NotNil(s.registry.CheckRole(s.account, access.MinterRole))
}

func (s *RoleRegistryTestSuite) Test_GrantRole_Reverted() {
	id := s.journal.Snapshot()
	_ = s.registry.GrantRole(s.admin, access.BurnerRole, s.account)

	s.journal.RevertToSnapshot(id)

	s.False(s.registry.HasRole(access.BurnerRole, s.account))
	s.Len(s.registry.Members(access.BurnerRole), 0)
}

func (s *RoleRegistryTestSuite) Test_Snapshot_Restore() {
	s.Nil(s.registry.GrantRole(s.admin, access.ManagerRole, s.account))
	s.Nil(s.registry.RevokeRole(s.admin, access.ManagerRole, s.admin))
	snapshot := s.registry.Snapshot()

	restored := access.NewRoleRegistry(common.HexToAddress("0x3"), state.NewJournal())
	restored.Restore(snapshot)

	s.True(restored.HasRole(access.DefaultAdminRole, s.admin))
	s.True(restored.HasRole(access.ManagerRole, s.account))
	s.False(restored.HasRole(access.ManagerRole, s.admin))
	s.False(restored.HasRole(access.DefaultAdminRole, common.HexToAddress("0x3")))
	s.Equal(snapshot, restored.Snapshot())
}
