// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"github.com/axonweb3/axon-bridge/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// TokenStore holds the per token policy and the sets deciding how a token
// crosses: mirror tokens are burned and minted, added and whitelisted
// tokens are escrowed.
type TokenStore struct {
	configs    map[common.Address]TokenConfig
	mirrors    map[common.Address]common.Hash
	added      map[common.Address]common.Hash
	typehashes map[common.Hash]common.Address
	whitelist  map[common.Address]struct{}
	wckb       common.Address
	wckbMin    uint256.Int
	journal    *state.Journal
}

func NewTokenStore(journal *state.Journal) *TokenStore {
	return &TokenStore{
		configs:    make(map[common.Address]TokenConfig),
		mirrors:    make(map[common.Address]common.Hash),
		added:      make(map[common.Address]common.Hash),
		typehashes: make(map[common.Hash]common.Address),
		whitelist:  make(map[common.Address]struct{}),
		journal:    journal,
	}
}

func (s *TokenStore) SetTokenConfig(token common.Address, config TokenConfig) {
	state.Set(s.journal, s.configs, token, config.normalize())
}

// TokenConfig returns the configuration of token, zeroed when unset.
func (s *TokenStore) TokenConfig(token common.Address) TokenConfig {
	return s.configs[token].normalize()
}

func (s *TokenStore) Fee(token common.Address) *uint256.Int {
	return s.TokenConfig(token).Fee
}

func (s *TokenStore) Threshold(token common.Address) *uint256.Int {
	return s.TokenConfig(token).Threshold
}

func (s *TokenStore) AddMirrorToken(token common.Address, typehash common.Hash) {
	state.Set(s.journal, s.mirrors, token, typehash)
	state.Set(s.journal, s.typehashes, typehash, token)
}

func (s *TokenStore) AddToken(token common.Address, typehash common.Hash) {
	state.Set(s.journal, s.added, token, typehash)
	state.Set(s.journal, s.typehashes, typehash, token)
}

func (s *TokenStore) AddWhitelist(token common.Address) {
	state.Set(s.journal, s.whitelist, token, struct{}{})
}

func (s *TokenStore) RemoveWhitelist(token common.Address) {
	state.Delete(s.journal, s.whitelist, token)
}

func (s *TokenStore) SetWCKB(token common.Address) {
	state.Assign(s.journal, &s.wckb, token)
}

func (s *TokenStore) SetWCKBMin(amount *uint256.Int) {
	state.Assign(s.journal, &s.wckbMin, *amount)
}

func (s *TokenStore) IsMirrorToken(token common.Address) bool {
	_, ok := s.mirrors[token]
	return ok
}

func (s *TokenStore) IsWhitelist(token common.Address) bool {
	_, ok := s.whitelist[token]
	return ok
}

// IsEscrowed returns true for tokens locked in the bridge when crossing.
func (s *TokenStore) IsEscrowed(token common.Address) bool {
	_, added := s.added[token]
	return added || s.IsWhitelist(token)
}

func (s *TokenStore) MirrorTokens() []common.Address {
	return sortedAddresses(maps.Keys(s.mirrors))
}

func (s *TokenStore) Whitelist() []common.Address {
	return sortedAddresses(maps.Keys(s.whitelist))
}

func (s *TokenStore) GetTypehash(token common.Address) common.Hash {
	if typehash, ok := s.mirrors[token]; ok {
		return typehash
	}
	return s.added[token]
}

func (s *TokenStore) GetTokenAddress(typehash common.Hash) common.Address {
	return s.typehashes[typehash]
}

func (s *TokenStore) WCKB() common.Address {
	return s.wckb
}

func (s *TokenStore) WCKBMin() *uint256.Int {
	wckbMin := s.wckbMin
	return &wckbMin
}

// TokenStoreSnapshot is the persisted form of a TokenStore.
type TokenStoreSnapshot struct {
	Configs   map[common.Address]TokenConfig `json:"configs"`
	Mirrors   map[common.Address]common.Hash `json:"mirrors"`
	Added     map[common.Address]common.Hash `json:"added"`
	Whitelist []common.Address               `json:"whitelist"`
	WCKB      common.Address                 `json:"wckb"`
	WCKBMin   *uint256.Int                   `json:"wckbMin"`
}

func (s *TokenStore) Snapshot() TokenStoreSnapshot {
	configs := make(map[common.Address]TokenConfig, len(s.configs))
	for token, config := range s.configs {
		configs[token] = config.normalize()
	}
	return TokenStoreSnapshot{
		Configs:   configs,
		Mirrors:   maps.Clone(s.mirrors),
		Added:     maps.Clone(s.added),
		Whitelist: s.Whitelist(),
		WCKB:      s.wckb,
		WCKBMin:   s.WCKBMin(),
	}
}

// Restore replaces the store content with snapshot. It is not journaled.
func (s *TokenStore) Restore(snapshot TokenStoreSnapshot) {
	journal := s.journal
	*s = *NewTokenStore(nil)
	for token, config := range snapshot.Configs {
		s.SetTokenConfig(token, config)
	}
	for token, typehash := range snapshot.Mirrors {
		s.AddMirrorToken(token, typehash)
	}
	for token, typehash := range snapshot.Added {
		s.AddToken(token, typehash)
	}
	for _, token := range snapshot.Whitelist {
		s.AddWhitelist(token)
	}
	s.wckb = snapshot.WCKB
	if snapshot.WCKBMin != nil {
		s.wckbMin = *snapshot.WCKBMin
	}
	s.journal = journal
}

func sortedAddresses(addresses []common.Address) []common.Address {
	slices.SortFunc(addresses, func(a, b common.Address) int {
		return a.Cmp(b)
	})
	return addresses
}
