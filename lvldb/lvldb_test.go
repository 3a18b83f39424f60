// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package lvldb_test

import (
	"errors"
	"testing"

	"github.com/axonweb3/axon-bridge/lvldb"
	"github.com/stretchr/testify/suite"
	"github.com/syndtr/goleveldb/leveldb"
)

type LVLDBTestSuite struct {
	suite.Suite
	db *lvldb.LVLDB
}

func TestRunLVLDBTestSuite(t *testing.T) {
	suite.Run(t, new(LVLDBTestSuite))
}

func (s *LVLDBTestSuite) SetupTest() {
	db, err := lvldb.NewLvlDB(s.T().TempDir())
	s.Require().Nil(err)
	s.db = db
}

func (s *LVLDBTestSuite) TearDownTest() {
	s.Nil(s.db.Close())
}

func (s *LVLDBTestSuite) Test_GetByKey_Missing() {
	_, err := s.db.GetByKey([]byte("missing"))

	s.True(errors.Is(err, leveldb.ErrNotFound))
}

func (s *LVLDBTestSuite) Test_SetByKey_RoundTrip() {
	s.Nil(s.db.SetByKey([]byte("key"), []byte("value")))

	v, err := s.db.GetByKey([]byte("key"))

	s.Nil(err)
	s.Equal([]byte("value"), v)
}

func (s *LVLDBTestSuite) Test_SetBatch() {
	s.Nil(s.db.SetBatch(map[string][]byte{"a": []byte("1"), "b": []byte("2")}))

	v, err := s.db.GetByKey([]byte("b"))

	s.Nil(err)
	s.Equal([]byte("2"), v)
}

func (s *LVLDBTestSuite) Test_MemDB() {
	db, err := lvldb.NewMemDB()
	s.Require().Nil(err)
	defer db.Close()

	s.Nil(db.SetByKey([]byte("key"), []byte("value")))
	v, err := db.GetByKey([]byte("key"))
	s.Nil(err)
	s.Equal([]byte("value"), v)
}
