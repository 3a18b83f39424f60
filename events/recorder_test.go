// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package events_test

import (
	"testing"

	"github.com/axonweb3/axon-bridge/events"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/suite"
)

type RecorderTestSuite struct {
	suite.Suite
	recorder *events.Recorder
}

func TestRunRecorderTestSuite(t *testing.T) {
	suite.Run(t, new(RecorderTestSuite))
}

func (s *RecorderTestSuite) SetupTest() {
	s.recorder = events.NewRecorder(3)
}

func (s *RecorderTestSuite) Test_EventSig_TopicAndName() {
	s.Equal(crypto.Keccak256Hash([]byte("ChangeMinWCKB(uint256)")), events.ChangeMinWCKBSig.GetTopic())
	s.Equal("CrossFromCKB", events.CrossFromCKBSig.Name())
}

func (s *RecorderTestSuite) Test_Emit_AssignsIndexesAndTrims() {
	for i := uint64(1); i <= 4; i++ {
		s.recorder.Emit(events.NewLog(events.ChangeMinWCKBSig, i, events.ChangeMinWCKB{MinWCKB: uint256.NewInt(i)}))
	}

	logs := s.recorder.Logs(events.Filter{})
	s.Len(logs, 3)
	s.Equal(uint64(1), logs[0].Index)
	s.Equal(uint64(3), logs[2].Index)
	s.Equal("ChangeMinWCKB", logs[0].Name)
}

func (s *RecorderTestSuite) Test_Logs_Filter() {
	s.recorder.Emit(
		events.NewLog(events.CrossToCKBSig, 1, events.CrossToCKB{}),
		events.NewLog(events.CrossToCKBAlertSig, 2, events.CrossToCKBAlert{}),
		events.NewLog(events.CrossToCKBSig, 3, events.CrossToCKB{}),
	)

	byTopic := s.recorder.Logs(events.Filter{Topics: []common.Hash{events.CrossToCKBSig.GetTopic()}})
	s.Len(byTopic, 2)
	s.Equal(uint64(3), byTopic[1].BlockNumber)

	byRange := s.recorder.Logs(events.Filter{FromBlock: 2, ToBlock: 2})
	s.Len(byRange, 1)
	s.Equal("CrossToCKBAlert", byRange[0].Name)

	s.Len(s.recorder.Logs(events.Filter{FromBlock: 2}), 2)
}
