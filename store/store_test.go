// Copyright 2021 ChainSafe Systems
// SPDX-License-Identifier: LGPL-3.0-only

package store_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/axonweb3/axon-bridge/bridge"
	"github.com/axonweb3/axon-bridge/lvldb"
	"github.com/axonweb3/axon-bridge/metadata"
	"github.com/axonweb3/axon-bridge/store"
	mock_store "github.com/axonweb3/axon-bridge/store/mock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/golang/mock/gomock"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/suite"
	"github.com/syndtr/goleveldb/leveldb"
)

type StateStoreTestSuite struct {
	suite.Suite
	stateStore           *store.StateStore
	keyValueReaderWriter *mock_store.MockKeyValueReaderWriter
}

func TestRunStateStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StateStoreTestSuite))
}

func (s *StateStoreTestSuite) SetupTest() {
	gomockController := gomock.NewController(s.T())
	s.keyValueReaderWriter = mock_store.NewMockKeyValueReaderWriter(gomockController)
	s.stateStore = store.NewStateStore(s.keyValueReaderWriter)
}

func checkpoint(epoch uint64) metadata.Metadata {
	return metadata.Metadata{
		Epoch:   epoch,
		Version: metadata.Version{Start: epoch * 10, End: epoch*10 + 9},
		VerifierList: []metadata.ValidatorExtend{
			{
				BlsPubKey:     hexutil.Bytes{0x01},
				PubKey:        hexutil.Bytes{0x02},
				Address:       common.HexToAddress("0xc1"),
				ProposeWeight: 1,
				VoteWeight:    1,
			},
		},
		ProposeCounter: []metadata.ProposeCount{{Address: common.HexToAddress("0xc1"), Count: epoch}},
	}
}

func encode(v interface{}) []byte {
	data, _ := json.Marshal(v)
	return data
}

func (s *StateStoreTestSuite) Test_StoreCheckpoint_FailedStore() {
	s.keyValueReaderWriter.EXPECT().SetByKey([]byte("metadata:epoch:1"), gomock.Any()).Return(errors.New("error"))

	err := s.stateStore.StoreCheckpoint(checkpoint(1))

	s.NotNil(err)
}

func (s *StateStoreTestSuite) Test_StoreCheckpoint_SuccessfulStore() {
	s.keyValueReaderWriter.EXPECT().SetByKey([]byte("metadata:epoch:1"), encode(checkpoint(1))).Return(nil)

	err := s.stateStore.StoreCheckpoint(checkpoint(1))

	s.Nil(err)
}

func (s *StateStoreTestSuite) Test_Checkpoint_NotFound() {
	s.keyValueReaderWriter.EXPECT().GetByKey([]byte("metadata:epoch:4")).Return(nil, leveldb.ErrNotFound)

	_, ok, err := s.stateStore.Checkpoint(4)

	s.Nil(err)
	s.False(ok)
}

func (s *StateStoreTestSuite) Test_Checkpoint_FailedFetch() {
	s.keyValueReaderWriter.EXPECT().GetByKey([]byte("metadata:epoch:4")).Return(nil, errors.New("error"))

	_, _, err := s.stateStore.Checkpoint(4)

	s.NotNil(err)
}

func (s *StateStoreTestSuite) Test_Checkpoints_StartingAtEpochOne() {
	gomock.InOrder(
		s.keyValueReaderWriter.EXPECT().GetByKey([]byte("metadata:epoch:0")).Return(nil, leveldb.ErrNotFound),
		s.keyValueReaderWriter.EXPECT().GetByKey([]byte("metadata:epoch:1")).Return(encode(checkpoint(1)), nil),
		s.keyValueReaderWriter.EXPECT().GetByKey([]byte("metadata:epoch:2")).Return(encode(checkpoint(2)), nil),
		s.keyValueReaderWriter.EXPECT().GetByKey([]byte("metadata:epoch:3")).Return(nil, leveldb.ErrNotFound),
	)

	checkpoints, err := s.stateStore.Checkpoints()

	s.Nil(err)
	s.Equal([]metadata.Metadata{checkpoint(1), checkpoint(2)}, checkpoints)
}

func (s *StateStoreTestSuite) Test_Checkpoints_Empty() {
	s.keyValueReaderWriter.EXPECT().GetByKey([]byte("metadata:epoch:0")).Return(nil, leveldb.ErrNotFound)
	s.keyValueReaderWriter.EXPECT().GetByKey([]byte("metadata:epoch:1")).Return(nil, leveldb.ErrNotFound)

	checkpoints, err := s.stateStore.Checkpoints()

	s.Nil(err)
	s.Empty(checkpoints)
}

func (s *StateStoreTestSuite) Test_StoreBridgeSnapshot_StoresNonce() {
	snapshot := bridge.Snapshot{Nonce: 12}
	s.keyValueReaderWriter.EXPECT().SetByKey([]byte("bridge:snapshot"), encode(snapshot)).Return(nil)
	s.keyValueReaderWriter.EXPECT().SetByKey([]byte("crossFromCKB:nonce"), []byte("12")).Return(nil)

	err := s.stateStore.StoreBridgeSnapshot(snapshot)

	s.Nil(err)
}

func (s *StateStoreTestSuite) Test_StoreBridgeSnapshot_FailedStore() {
	s.keyValueReaderWriter.EXPECT().SetByKey([]byte("bridge:snapshot"), gomock.Any()).Return(errors.New("error"))

	err := s.stateStore.StoreBridgeSnapshot(bridge.Snapshot{})

	s.NotNil(err)
}

func (s *StateStoreTestSuite) Test_BridgeSnapshot_SuccessfulFetch() {
	snapshot := bridge.Snapshot{
		Nonce:     3,
		Sequences: map[common.Address]uint64{common.HexToAddress("0xb1"): 4},
		Settled:   []common.Hash{common.HexToHash("0x01")},
		LimitTxes: []bridge.LimitTx{{
			ID:        common.HexToHash("0x02"),
			Direction: bridge.FromCKB,
			To:        common.HexToAddress("0xa1").Hex(),
			Amount:    *uint256.NewInt(101),
			TxHash:    common.HexToHash("0x02"),
		}},
	}
	s.keyValueReaderWriter.EXPECT().GetByKey([]byte("bridge:snapshot")).Return(encode(snapshot), nil)

	restored, ok, err := s.stateStore.BridgeSnapshot()

	s.Nil(err)
	s.True(ok)
	s.Equal(snapshot.Nonce, restored.Nonce)
	s.Equal(snapshot.Sequences, restored.Sequences)
	s.Equal(snapshot.LimitTxes, restored.LimitTxes)
}

func (s *StateStoreTestSuite) Test_BridgeSnapshot_NotFound() {
	s.keyValueReaderWriter.EXPECT().GetByKey([]byte("bridge:snapshot")).Return(nil, leveldb.ErrNotFound)

	_, ok, err := s.stateStore.BridgeSnapshot()

	s.Nil(err)
	s.False(ok)
}

func (s *StateStoreTestSuite) Test_Nonce() {
	s.keyValueReaderWriter.EXPECT().GetByKey([]byte("crossFromCKB:nonce")).Return([]byte("7"), nil)

	nonce, err := s.stateStore.Nonce()

	s.Nil(err)
	s.Equal(uint64(7), nonce)
}

func (s *StateStoreTestSuite) Test_Nonce_NotFound() {
	s.keyValueReaderWriter.EXPECT().GetByKey([]byte("crossFromCKB:nonce")).Return(nil, leveldb.ErrNotFound)

	nonce, err := s.stateStore.Nonce()

	s.Nil(err)
	s.Equal(uint64(0), nonce)
}

func (s *StateStoreTestSuite) Test_LevelDB_RoundTrip() {
	db, err := lvldb.NewMemDB()
	s.Require().Nil(err)
	defer db.Close()
	stateStore := store.NewStateStore(db)

	s.Nil(stateStore.StoreCheckpoint(checkpoint(0)))
	s.Nil(stateStore.StoreCheckpoint(checkpoint(1)))
	s.Nil(stateStore.StoreBridgeSnapshot(bridge.Snapshot{Nonce: 5}))

	checkpoints, err := stateStore.Checkpoints()
	s.Nil(err)
	s.Equal([]metadata.Metadata{checkpoint(0), checkpoint(1)}, checkpoints)
	nonce, err := stateStore.Nonce()
	s.Nil(err)
	s.Equal(uint64(5), nonce)
}
