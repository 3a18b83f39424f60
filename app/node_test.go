// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package app

import (
	"testing"

	"github.com/axonweb3/axon-bridge/access"
	"github.com/axonweb3/axon-bridge/bridge"
	"github.com/axonweb3/axon-bridge/config/node"
	"github.com/axonweb3/axon-bridge/events"
	"github.com/axonweb3/axon-bridge/lvldb"
	"github.com/axonweb3/axon-bridge/metadata"
	"github.com/axonweb3/axon-bridge/state"
	"github.com/axonweb3/axon-bridge/store"
	"github.com/axonweb3/axon-bridge/token"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/suite"
)

var (
	admin      = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	user       = common.HexToAddress("0x0000000000000000000000000000000000000a02")
	verifier   = common.HexToAddress("0x0000000000000000000000000000000000000a03")
	bridgeAddr = common.HexToAddress("0x0000000000000000000000000000000000000f01")
	wckbAddr   = common.HexToAddress("0x0000000000000000000000000000000000000b01")
	mirrorAddr = common.HexToAddress("0x0000000000000000000000000000000000000b02")
	erc20Addr  = common.HexToAddress("0x0000000000000000000000000000000000000b03")
)

type NodeTestSuite struct {
	suite.Suite
	db         *lvldb.LVLDB
	stateStore *store.StateStore
}

func TestRunNodeTestSuite(t *testing.T) {
	suite.Run(t, new(NodeTestSuite))
}

func (s *NodeTestSuite) SetupTest() {
	db, err := lvldb.NewMemDB()
	s.Require().Nil(err)
	s.db = db
	s.stateStore = store.NewStateStore(db)
}

func (s *NodeTestSuite) TearDownTest() {
	_ = s.db.Close()
}

func nodeConfig() node.NodeConfig {
	return node.NodeConfig{
		BridgeConfig: bridge.Config{
			Address: bridgeAddr,
			Admin:   admin,
			Quorum:  1,
			Domain:  bridge.Domain{Name: "Axon", Version: "1", ChainID: 2022, VerifyingContract: bridgeAddr},
			WCKBMin: uint256.NewInt(0),
		},
	}
}

func tokenConfigs() []*token.Config {
	return []*token.Config{
		{
			Kind:      token.NativeKind,
			Symbol:    "AT",
			Fee:       uint256.NewInt(1),
			Threshold: uint256.NewInt(1000),
			Balances:  map[common.Address]*uint256.Int{user: uint256.NewInt(5000)},
		},
		{
			Kind:      token.WCKBKind,
			Address:   wckbAddr,
			Name:      "Wrapped CKB",
			Symbol:    "WCKB",
			Decimals:  8,
			Fee:       uint256.NewInt(1),
			Threshold: uint256.NewInt(1000),
			Balances:  map[common.Address]*uint256.Int{user: uint256.NewInt(100)},
		},
		{
			Kind:      token.MirrorKind,
			Address:   mirrorAddr,
			Name:      "Mirror USDC",
			Symbol:    "mUSDC",
			Decimals:  6,
			Fee:       uint256.NewInt(2),
			Threshold: uint256.NewInt(100),
			TypeHash:  common.HexToHash("0xaa"),
		},
		{
			Kind:      token.ERC20Kind,
			Address:   erc20Addr,
			Name:      "TestToken",
			Symbol:    "TT",
			Decimals:  18,
			Fee:       uint256.NewInt(2),
			Threshold: uint256.NewInt(100),
			TypeHash:  common.HexToHash("0xbb"),
			Whitelist: true,
			Balances:  map[common.Address]*uint256.Int{user: uint256.NewInt(50)},
		},
	}
}

func genesis() []metadata.Metadata {
	return []metadata.Metadata{{
		Epoch:   0,
		Version: metadata.Version{Start: 1, End: 100},
		VerifierList: []metadata.ValidatorExtend{{
			BlsPubKey:     []byte{0x01},
			PubKey:        []byte{0x02},
			Address:       verifier,
			ProposeWeight: 1,
			VoteWeight:    1,
		}},
	}}
}

func (s *NodeTestSuite) Test_NewNode_DeploysGenesisTokens() {
	n, err := NewNode(nodeConfig(), tokenConfigs(), genesis(), s.stateStore, nil)

	s.Nil(err)
	s.Equal(wckbAddr, n.Bridge.GetWCKBAddress())
	s.Equal([]common.Address{mirrorAddr}, n.Bridge.MirrorTokens())
	s.Equal([]common.Address{erc20Addr}, n.Bridge.Whitelist())
	s.Equal(erc20Addr, n.Bridge.GetTokenAddress(common.HexToHash("0xbb")))
	s.Equal(uint64(2), n.Bridge.Fee(mirrorAddr).Uint64())

	balance, err := n.Bridge.BalanceOf(token.NativeAddress, user)
	s.Nil(err)
	s.Equal(uint64(5000), balance.Uint64())
	balance, err = n.Bridge.BalanceOf(wckbAddr, user)
	s.Nil(err)
	s.Equal(uint64(100), balance.Uint64())

	s.True(n.Registry.IsVerifier(verifier, 50))
	stored, err := s.stateStore.Checkpoints()
	s.Nil(err)
	s.Len(stored, 1)
}

func (s *NodeTestSuite) Test_NewNode_RestoresPersistedState() {
	n, err := NewNode(nodeConfig(), tokenConfigs(), genesis(), s.stateStore, nil)
	s.Require().Nil(err)

	s.Nil(n.Bridge.Approve(state.Call{From: user}, wckbAddr, bridgeAddr, uint256.NewInt(100)))
	s.Nil(n.Bridge.LockAT(state.Call{From: user, Value: uint256.NewInt(2000), BlockNumber: 10}, "ckt1qyq"))
	s.Len(n.Bridge.LimitTxes(), 1)

	restarted, err := NewNode(nodeConfig(), tokenConfigs(), nil, s.stateStore, nil)

	s.Nil(err)
	s.Equal(n.Bridge.LimitTxes(), restarted.Bridge.LimitTxes())
	s.True(restarted.Registry.IsVerifier(verifier, 50))
}

func (s *NodeTestSuite) Test_NewNode_RestoresLedgers() {
	n, err := NewNode(nodeConfig(), tokenConfigs(), genesis(), s.stateStore, nil)
	s.Require().Nil(err)
	s.Require().Nil(n.Bridge.Approve(state.Call{From: user}, wckbAddr, bridgeAddr, uint256.NewInt(100)))
	s.Require().Nil(n.Bridge.LockAT(state.Call{From: user, Value: uint256.NewInt(500), BlockNumber: 10}, "ckt1qyq"))
	s.Require().Nil(n.Bridge.Approve(state.Call{From: user}, erc20Addr, bridgeAddr, uint256.NewInt(20)))
	s.Require().Nil(n.Bridge.GrantRole(state.Call{From: admin}, access.ManagerRole, user))
	s.Empty(n.Bridge.LimitTxes())

	restarted, err := NewNode(nodeConfig(), tokenConfigs(), nil, s.stateStore, nil)

	s.Nil(err)
	balance, err := restarted.Bridge.BalanceOf(token.NativeAddress, user)
	s.Nil(err)
	s.Equal(uint64(4500), balance.Uint64())
	escrow, err := restarted.Bridge.BalanceOf(token.NativeAddress, bridgeAddr)
	s.Nil(err)
	s.Equal(uint64(500), escrow.Uint64())
	fees, err := restarted.Bridge.BalanceOf(wckbAddr, bridgeAddr)
	s.Nil(err)
	s.Equal(uint64(1), fees.Uint64())
	s.Equal(n.Tokens.Snapshot(), restarted.Tokens.Snapshot())
	s.Equal(uint64(20), restarted.Tokens.Snapshot()[erc20Addr].Allowances[user][bridgeAddr].Uint64())
	s.True(restarted.Bridge.HasRole(access.ManagerRole, user))
}

func (s *NodeTestSuite) Test_NewNode_RestartKeepsTokenConfig() {
	changeTokenConfig := events.Filter{Topics: []common.Hash{events.ChangeTokenConfigSig.GetTopic()}}
	n, err := NewNode(nodeConfig(), tokenConfigs(), genesis(), s.stateStore, nil)
	s.Require().Nil(err)
	s.Len(n.Recorder.Logs(changeTokenConfig), 4)
	s.Require().Nil(n.Bridge.SetTokenConfig(state.Call{From: admin, BlockNumber: 10}, mirrorAddr, bridge.TokenConfig{
		Fee:       uint256.NewInt(7),
		Threshold: uint256.NewInt(300),
	}))

	restarted, err := NewNode(nodeConfig(), tokenConfigs(), nil, s.stateStore, nil)

	s.Nil(err)
	s.Empty(restarted.Recorder.Logs(changeTokenConfig))
	s.Equal(uint64(7), restarted.Bridge.Fee(mirrorAddr).Uint64())
	s.Equal(uint64(300), restarted.Bridge.GetTokenConfig(mirrorAddr).Threshold.Uint64())
	s.Equal(wckbAddr, restarted.Bridge.GetWCKBAddress())
	s.Equal([]common.Address{erc20Addr}, restarted.Bridge.Whitelist())
}

func (s *NodeTestSuite) Test_NewNode_InvalidGenesisSequence() {
	checkpoints := genesis()
	checkpoints[0].Epoch = 3

	_, err := NewNode(nodeConfig(), tokenConfigs(), checkpoints, s.stateStore, nil)

	s.ErrorIs(err, metadata.ErrDiscontinuousEpoch)
}

func (s *NodeTestSuite) Test_DecodeCheckpoints() {
	checkpoints, err := decodeCheckpoints([]map[string]interface{}{{
		"epoch":   float64(0),
		"version": map[string]interface{}{"start": float64(1), "end": float64(100)},
		"verifier_list": []interface{}{map[string]interface{}{
			"address":        verifier.Hex(),
			"propose_weight": float64(1),
			"vote_weight":    float64(1),
			"bls_pub_key":    "0x01",
			"pub_key":        "0x02",
		}},
	}})

	s.Nil(err)
	s.Len(checkpoints, 1)
	s.Equal(metadata.Version{Start: 1, End: 100}, checkpoints[0].Version)
	s.Equal(verifier, checkpoints[0].VerifierList[0].Address)
	s.Equal(uint32(1), checkpoints[0].VerifierList[0].ProposeWeight)
}

func (s *NodeTestSuite) Test_DecodeCheckpoints_Invalid() {
	_, err := decodeCheckpoints([]map[string]interface{}{{"epoch": "zero"}})

	s.NotNil(err)
}
