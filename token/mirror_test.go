// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package token_test

import (
	"errors"
	"testing"

	"github.com/axonweb3/axon-bridge/access"
	"github.com/axonweb3/axon-bridge/state"
	"github.com/axonweb3/axon-bridge/token"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/suite"
)

var (
	owner   = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	alice   = common.HexToAddress("0x0000000000000000000000000000000000000a02")
	bob     = common.HexToAddress("0x0000000000000000000000000000000000000a03")
	mallory = common.HexToAddress("0x0000000000000000000000000000000000000a04")
	tokenAt = common.HexToAddress("0x0000000000000000000000000000000000000b01")
)

type MirrorTokenTestSuite struct {
	suite.Suite
	journal *state.Journal
	token   *token.MirrorToken
}

func TestRunMirrorTokenTestSuite(t *testing.T) {
	suite.Run(t, new(MirrorTokenTestSuite))
}

func (s *MirrorTokenTestSuite) SetupTest() {
	s.journal = state.NewJournal()
	s.token = token.NewMirrorToken(tokenAt, owner, "testName", "testSymbol", 8, s.journal)
}

func (s *MirrorTokenTestSuite) Test_Deploy_NameAndSymbol() {
	s.Equal("testName", s.token.Name())
	s.Equal("testSymbol", s.token.Symbol())
	s.Equal(uint8(8), s.token.Decimals())
	s.True(s.token.TotalSupply().IsZero())
}

func (s *MirrorTokenTestSuite) Test_Mint_OnlyPrivilegedAccounts() {
	err := s.token.Mint(owner, alice, uint256.NewInt(10))
	s.Nil(err)
	s.Equal(uint64(10), s.token.BalanceOf(alice).Uint64())

	err = s.token.Mint(bob, mallory, uint256.NewInt(10))
	s.True(errors.Is(err, access.ErrMissingRole))
	s.True(s.token.BalanceOf(mallory).IsZero())
	s.Equal(uint64(10), s.token.TotalSupply().Uint64())
}

func (s *MirrorTokenTestSuite) Test_Burn_OnlyPrivilegedAccounts() {
	s.Nil(s.token.Mint(owner, alice, uint256.NewInt(10)))

	s.Nil(s.token.Burn(owner, alice, uint256.NewInt(1)))
	s.Equal(uint64(9), s.token.BalanceOf(alice).Uint64())

	err := s.token.Burn(mallory, alice, uint256.NewInt(5))
	s.True(errors.Is(err, access.ErrMissingRole))
	s.Equal(uint64(9), s.token.BalanceOf(alice).Uint64())
}

func (s *MirrorTokenTestSuite) Test_MinterRole_CanMint() {
	s.Nil(s.token.Roles().GrantRole(owner, access.MinterRole, bob))

	s.Nil(s.token.Mint(bob, alice, uint256.NewInt(3)))
	err := s.token.Burn(bob, alice, uint256.NewInt(1))

	s.True(errors.Is(err, access.ErrMissingRole))
	s.Equal(uint64(3), s.token.BalanceOf(alice).Uint64())
}

func (s *MirrorTokenTestSuite) Test_Burn_ExceedsBalance() {
	s.Nil(s.token.Mint(owner, alice, uint256.NewInt(2)))

	err := s.token.Burn(owner, alice, uint256.NewInt(3))

	s.Equal(token.ErrBurnExceedsBalance, err)
	s.Equal(uint64(2), s.token.TotalSupply().Uint64())
}

func (s *MirrorTokenTestSuite) Test_RevertToSnapshot_RestoresSupply() {
	s.Nil(s.token.Mint(owner, alice, uint256.NewInt(5)))
	id := s.journal.Snapshot()

	s.Nil(s.token.Mint(owner, bob, uint256.NewInt(7)))
	s.Nil(s.token.Burn(owner, alice, uint256.NewInt(5)))
	s.journal.RevertToSnapshot(id)

	s.Equal(uint64(5), s.token.BalanceOf(alice).Uint64())
	s.True(s.token.BalanceOf(bob).IsZero())
	s.Equal(uint64(5), s.token.TotalSupply().Uint64())
}
