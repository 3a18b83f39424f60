// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package metadata

import (
	"errors"
	"sync"

	"github.com/axonweb3/axon-bridge/state"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrNonIndexedEpoch      = errors.New("fatal/non-indexed epoch")
	ErrDiscontinuousEpoch   = errors.New("fatal/discontinuous epoch")
	ErrDiscontinuousVersion = errors.New("fatal/discontinuous version")
	ErrNotAVerifier         = errors.New("fatal/verifier_list has no sender")
	ErrInvalidVersion       = errors.New("fatal/invalid version")
)

// CheckpointStorer persists checkpoints whenever they change.
type CheckpointStorer interface {
	StoreCheckpoint(m Metadata) error
}

// Registry is the append-only chain of validator set checkpoints.
type Registry struct {
	lock        sync.RWMutex
	checkpoints []Metadata
	storer      CheckpointStorer
	log         zerolog.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		log: log.With().Str("component", "metadata").Logger(),
	}
}

// Restore rebuilds a registry from previously persisted checkpoints,
// validating their sequence without caller or block checks.
func Restore(checkpoints []Metadata) (*Registry, error) {
	r := NewRegistry()
	for _, m := range checkpoints {
		if err := r.checkSequence(m); err != nil {
			return nil, err
		}
		r.checkpoints = append(r.checkpoints, m.Copy())
	}
	return r, nil
}

func (r *Registry) SetStorer(storer CheckpointStorer) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.storer = storer
}

// AppendMetadata appends the next checkpoint. The caller must be listed in
// its verifier list and the call must execute inside its version.
func (r *Registry) AppendMetadata(call state.Call, m Metadata) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := r.checkSequence(m); err != nil {
		return err
	}
	if _, ok := m.Verifier(call.From); !ok {
		return ErrNotAVerifier
	}
	if m.Version.Start > m.Version.End || !m.Version.Contains(call.BlockNumber) {
		return ErrInvalidVersion
	}

	stored := m.Copy()
	stored.ProposeCounter = make([]ProposeCount, len(m.VerifierList))
	for i, v := range m.VerifierList {
		stored.ProposeCounter[i] = ProposeCount{Address: v.Address}
	}
	r.checkpoints = append(r.checkpoints, stored)
	r.store(stored)

	r.log.Info().
		Uint64("epoch", m.Epoch).
		Uint64("start", m.Version.Start).
		Uint64("end", m.Version.End).
		Int("verifiers", len(m.VerifierList)).
		Msgf("Appended metadata checkpoint")
	return nil
}

func (r *Registry) checkSequence(m Metadata) error {
	if len(r.checkpoints) == 0 {
		if m.Epoch > 1 {
			return ErrDiscontinuousEpoch
		}
		return nil
	}

	last := r.checkpoints[len(r.checkpoints)-1]
	if m.Epoch != last.Epoch+1 {
		return ErrDiscontinuousEpoch
	}
	if m.Version.Start != last.Version.End+1 {
		return ErrDiscontinuousVersion
	}
	return nil
}

func (r *Registry) GetMetadata(epoch uint64) (Metadata, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	i, ok := r.indexOf(epoch)
	if !ok {
		return Metadata{}, ErrNonIndexedEpoch
	}
	return r.checkpoints[i].Copy(), nil
}

// GetMetadataByBlockNumber returns the checkpoint whose version covers blockNumber.
func (r *Registry) GetMetadataByBlockNumber(blockNumber uint64) (Metadata, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	i, ok := r.indexOfBlock(blockNumber)
	if !ok {
		return Metadata{}, ErrNonIndexedEpoch
	}
	return r.checkpoints[i].Copy(), nil
}

func (r *Registry) EpochByBlockNumber(blockNumber uint64) (uint64, error) {
	m, err := r.GetMetadataByBlockNumber(blockNumber)
	if err != nil {
		return 0, err
	}
	return m.Epoch, nil
}

// LatestEpoch returns the epoch of the last checkpoint and false when the
// registry is empty.
func (r *Registry) LatestEpoch() (uint64, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if len(r.checkpoints) == 0 {
		return 0, false
	}
	return r.checkpoints[len(r.checkpoints)-1].Epoch, true
}

func (r *Registry) Checkpoints() []Metadata {
	r.lock.RLock()
	defer r.lock.RUnlock()

	checkpoints := make([]Metadata, len(r.checkpoints))
	for i, m := range r.checkpoints {
		checkpoints[i] = m.Copy()
	}
	return checkpoints
}

func (r *Registry) IsVerifier(address common.Address, blockNumber uint64) bool {
	_, ok := r.verifier(address, blockNumber)
	return ok
}

func (r *Registry) IsProposer(address common.Address, blockNumber uint64) bool {
	v, ok := r.verifier(address, blockNumber)
	return ok && v.ProposeWeight > 0
}

// IncrementProposeCount records a proposal by address in the checkpoint
// covering blockNumber.
func (r *Registry) IncrementProposeCount(address common.Address, blockNumber uint64) {
	r.lock.Lock()
	defer r.lock.Unlock()

	i, ok := r.authoritative(blockNumber)
	if !ok {
		return
	}
	counter := r.checkpoints[i].ProposeCounter
	for j := range counter {
		if counter[j].Address == address {
			counter[j].Count++
			r.store(r.checkpoints[i])
			return
		}
	}
}

func (r *Registry) store(m Metadata) {
	if r.storer == nil {
		return
	}
	if err := r.storer.StoreCheckpoint(m); err != nil {
		r.log.Error().Err(err).Uint64("epoch", m.Epoch).Msg("Failed persisting metadata checkpoint")
	}
}

func (r *Registry) verifier(address common.Address, blockNumber uint64) (ValidatorExtend, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	i, ok := r.authoritative(blockNumber)
	if !ok {
		return ValidatorExtend{}, false
	}
	return r.checkpoints[i].Verifier(address)
}

// authoritative returns the checkpoint covering blockNumber, falling back
// to the latest one.
func (r *Registry) authoritative(blockNumber uint64) (int, bool) {
	if i, ok := r.indexOfBlock(blockNumber); ok {
		return i, true
	}
	if len(r.checkpoints) == 0 {
		return 0, false
	}
	return len(r.checkpoints) - 1, true
}

func (r *Registry) indexOf(epoch uint64) (int, bool) {
	if len(r.checkpoints) == 0 {
		return 0, false
	}
	first := r.checkpoints[0].Epoch
	if epoch < first || epoch-first >= uint64(len(r.checkpoints)) {
		return 0, false
	}
	return int(epoch - first), true
}

func (r *Registry) indexOfBlock(blockNumber uint64) (int, bool) {
	for i := len(r.checkpoints) - 1; i >= 0; i-- {
		if r.checkpoints[i].Version.Contains(blockNumber) {
			return i, true
		}
	}
	return 0, false
}
