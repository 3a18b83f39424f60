// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package metadata_test

import (
	"testing"

	"github.com/axonweb3/axon-bridge/metadata"
	"github.com/axonweb3/axon-bridge/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/suite"
)

var (
	verifier = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	observer = common.HexToAddress("0x00000000000000000000000000000000000000c2")
)

func checkpoint(epoch, start, end uint64, verifiers ...common.Address) metadata.Metadata {
	list := make([]metadata.ValidatorExtend, len(verifiers))
	for i, v := range verifiers {
		list[i] = metadata.ValidatorExtend{
			BlsPubKey:     hexutil.MustDecode("0x68656c6c6f20776f726c64"),
			PubKey:        hexutil.MustDecode("0x68656c6c6f20776f726c64"),
			Address:       v,
			ProposeWeight: 3,
			VoteWeight:    10,
		}
	}
	return metadata.Metadata{
		Version:        metadata.Version{Start: start, End: end},
		Epoch:          epoch,
		GasLimit:       1000,
		GasPrice:       1000000,
		Interval:       20,
		VerifierList:   list,
		ProposeRatio:   23,
		PrevoteRatio:   135,
		PrecommitRatio: 8,
		BrakeRatio:     1008,
		TxNumLimit:     55,
		MaxTxSize:      400000,
		LastCheckpointBlockHash: common.HexToHash(
			"0x63b9fe46a9217a85203fc0cd7b67f3238ec93889d21fefb7cf11d40a1c3ddd9c",
		),
	}
}

type RegistryTestSuite struct {
	suite.Suite
	registry *metadata.Registry
}

func TestRunRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) SetupTest() {
	s.registry = metadata.NewRegistry()
}

func (s *RegistryTestSuite) appendAt(block uint64, m metadata.Metadata) error {
	return s.registry.AppendMetadata(state.Call{From: verifier, BlockNumber: block}, m)
}

func (s *RegistryTestSuite) Test_GetMetadata_NonIndexedEpoch() {
	_, err := s.registry.GetMetadata(1)

	s.Equal(metadata.ErrNonIndexedEpoch, err)
}

func (s *RegistryTestSuite) Test_AppendMetadata_Sequence() {
	s.Nil(s.appendAt(2, checkpoint(1, 2, 3, verifier)))

	m, err := s.registry.GetMetadata(1)
	s.Nil(err)
	s.Equal(uint64(1), m.Epoch)
	s.Equal(metadata.Version{Start: 2, End: 3}, m.Version)
	s.Equal([]metadata.ProposeCount{{Address: verifier}}, m.ProposeCounter)

	s.Equal(metadata.ErrDiscontinuousEpoch, s.appendAt(4, checkpoint(3, 4, 5, verifier)))
	s.Nil(s.appendAt(4, checkpoint(2, 4, 5, verifier)))

	latest, ok := s.registry.LatestEpoch()
	s.True(ok)
	s.Equal(uint64(2), latest)
	_, err = s.registry.GetMetadata(0)
	s.Equal(metadata.ErrNonIndexedEpoch, err)
}

func (s *RegistryTestSuite) Test_AppendMetadata_FirstEpochZero() {
	s.Nil(s.appendAt(0, checkpoint(0, 0, 9, verifier)))

	m, err := s.registry.GetMetadata(0)
	s.Nil(err)
	s.Equal(uint64(0), m.Epoch)
}

func (s *RegistryTestSuite) Test_AppendMetadata_FirstEpochTooHigh() {
	s.Equal(metadata.ErrDiscontinuousEpoch, s.appendAt(1, checkpoint(2, 1, 2, verifier)))
}

func (s *RegistryTestSuite) Test_AppendMetadata_RejectionsInOrder() {
	s.Nil(s.appendAt(2, checkpoint(1, 1, 2, verifier)))
	s.Nil(s.appendAt(3, checkpoint(2, 3, 4, verifier)))

	s.Equal(metadata.ErrNotAVerifier, s.appendAt(4, checkpoint(3, 5, 6, observer)))
	s.Equal(metadata.ErrDiscontinuousEpoch, s.appendAt(5, checkpoint(4, 5, 6, verifier)))
	s.Equal(metadata.ErrDiscontinuousVersion, s.appendAt(6, checkpoint(3, 6, 7, verifier)))
	s.Equal(metadata.ErrInvalidVersion, s.appendAt(7, checkpoint(3, 5, 6, verifier)))

	s.Len(s.registry.Checkpoints(), 2)
}

func (s *RegistryTestSuite) Test_AppendMetadata_StartAfterEnd() {
	s.Equal(metadata.ErrInvalidVersion, s.appendAt(5, checkpoint(1, 5, 4, verifier)))
}

func (s *RegistryTestSuite) Test_StoredCheckpoint_IsImmutable() {
	m := checkpoint(1, 1, 10, verifier)
	s.Nil(s.appendAt(1, m))

	m.VerifierList[0].Address = observer
	stored, err := s.registry.GetMetadata(1)
	s.Nil(err)
	stored.VerifierList[0].PubKey[0] = 0xff

	again, _ := s.registry.GetMetadata(1)
	s.Equal(verifier, again.VerifierList[0].Address)
	s.Equal(byte(0x68), again.VerifierList[0].PubKey[0])
}

func (s *RegistryTestSuite) Test_IsProposer_UsesCoveringCheckpoint() {
	first := checkpoint(1, 1, 10, verifier)
	second := checkpoint(2, 11, 20, verifier, observer)
	second.VerifierList[1].ProposeWeight = 0
	s.Nil(s.appendAt(1, first))
	s.Nil(s.registry.AppendMetadata(state.Call{From: verifier, BlockNumber: 11}, second))

	s.False(s.registry.IsVerifier(observer, 5))
	s.True(s.registry.IsVerifier(observer, 15))
	s.False(s.registry.IsProposer(observer, 15))
	s.True(s.registry.IsProposer(verifier, 15))
	// beyond the last version the latest checkpoint applies
	s.True(s.registry.IsVerifier(observer, 100))

	epoch, err := s.registry.EpochByBlockNumber(12)
	s.Nil(err)
	s.Equal(uint64(2), epoch)
	_, err = s.registry.EpochByBlockNumber(21)
	s.Equal(metadata.ErrNonIndexedEpoch, err)
}

func (s *RegistryTestSuite) Test_IsVerifier_EmptyRegistry() {
	s.False(s.registry.IsVerifier(verifier, 1))
	s.False(s.registry.IsProposer(verifier, 1))
}

func (s *RegistryTestSuite) Test_IncrementProposeCount() {
	s.Nil(s.appendAt(1, checkpoint(1, 1, 10, verifier, observer)))

	s.registry.IncrementProposeCount(observer, 3)
	s.registry.IncrementProposeCount(observer, 4)

	m, _ := s.registry.GetMetadataByBlockNumber(3)
	s.Equal(uint64(0), m.ProposeCounter[0].Count)
	s.Equal(uint64(2), m.ProposeCounter[1].Count)
}

func (s *RegistryTestSuite) Test_Restore() {
	s.Nil(s.appendAt(1, checkpoint(1, 1, 10, verifier)))
	s.Nil(s.appendAt(11, checkpoint(2, 11, 20, verifier)))

	restored, err := metadata.Restore(s.registry.Checkpoints())
	s.Nil(err)
	s.Equal(s.registry.Checkpoints(), restored.Checkpoints())

	_, err = metadata.Restore([]metadata.Metadata{checkpoint(1, 1, 2), checkpoint(3, 3, 4)})
	s.Equal(metadata.ErrDiscontinuousEpoch, err)
}
