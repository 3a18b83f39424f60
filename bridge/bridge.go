// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"sync"

	"github.com/axonweb3/axon-bridge/access"
	"github.com/axonweb3/axon-bridge/events"
	"github.com/axonweb3/axon-bridge/metadata"
	"github.com/axonweb3/axon-bridge/state"
	"github.com/axonweb3/axon-bridge/token"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
)

type Metrics interface {
	TrackCrossToCKB(token common.Address, amount *uint256.Int, alerted bool)
	TrackCrossFromCKB(settled, queued int)
	TrackLimitQueue(size int)
	TrackRejected(operation string, err error)
}

// SnapshotStorer persists the bridge state after every successful
// operation.
type SnapshotStorer interface {
	StoreBridgeSnapshot(snapshot Snapshot) error
}

type Config struct {
	// Address the bridge holds escrowed funds and collected fees under
	Address common.Address
	Admin   common.Address
	// Number of distinct verifier signatures an inbound batch needs,
	// zero disables signature verification
	Quorum  int
	Domain  Domain
	WCKB    common.Address
	WCKBMin *uint256.Int
}

// Bridge is the cross-chain settlement state machine. Operations are
// serialized and atomic: a failed operation reverts every change it made
// and emits no events.
type Bridge struct {
	lock sync.Mutex

	address common.Address
	quorum  int
	domain  Domain

	journal  *state.Journal
	roles    *access.RoleRegistry
	tokens   *token.Registry
	metadata *metadata.Registry
	config   *TokenStore
	limits   *LimitQueue

	nonce     uint64
	sequences map[common.Address]uint64
	settled   map[common.Hash]struct{}
	limitSign uint64

	pending []events.Log
	emitter events.Emitter
	metrics Metrics
	storer  SnapshotStorer
	log     zerolog.Logger
}

func NewBridge(
	cfg Config,
	journal *state.Journal,
	tokens *token.Registry,
	registry *metadata.Registry,
	emitter events.Emitter,
	metrics Metrics,
) *Bridge {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	b := &Bridge{
		address:   cfg.Address,
		quorum:    cfg.Quorum,
		domain:    cfg.Domain,
		journal:   journal,
		roles:     access.NewRoleRegistry(cfg.Admin, journal),
		tokens:    tokens,
		metadata:  registry,
		config:    NewTokenStore(journal),
		limits:    NewLimitQueue(journal),
		sequences: make(map[common.Address]uint64),
		settled:   make(map[common.Hash]struct{}),
		emitter:   emitter,
		metrics:   metrics,
		log:       log.With().Str("component", "bridge").Str("address", cfg.Address.Hex()).Logger(),
	}
	b.config.SetWCKB(cfg.WCKB)
	if cfg.WCKBMin != nil {
		b.config.SetWCKBMin(cfg.WCKBMin)
	}
	journal.Commit()
	return b
}

// SetStorer makes the bridge persist a snapshot after every committed
// operation.
func (b *Bridge) SetStorer(storer SnapshotStorer) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.storer = storer
}

func (b *Bridge) Address() common.Address {
	return b.address
}

func (b *Bridge) Domain() Domain {
	return b.domain
}

// execute runs fn atomically. Events queued by fn are emitted only when
// it succeeds.
func (b *Bridge) execute(call state.Call, operation string, fn func() error) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	snapshot := b.journal.Snapshot()
	b.pending = b.pending[:0]
	if err := fn(); err != nil {
		b.journal.RevertToSnapshot(snapshot)
		b.pending = b.pending[:0]
		b.metrics.TrackRejected(operation, err)
		b.log.Debug().Err(err).Str("operation", operation).Str("from", call.From.Hex()).Msg("Operation reverted")
		return err
	}
	b.journal.Commit()

	logs := make([]events.Log, len(b.pending))
	for i, l := range b.pending {
		l.BlockNumber = call.BlockNumber
		logs[i] = l
	}
	b.pending = b.pending[:0]
	if b.emitter != nil && len(logs) > 0 {
		b.emitter.Emit(logs...)
	}
	b.metrics.TrackLimitQueue(b.limits.Len())

	if b.storer != nil {
		if err := b.storer.StoreBridgeSnapshot(b.snapshot()); err != nil {
			b.log.Error().Err(err).Str("operation", operation).Msg("Failed persisting bridge state")
		}
	}
	return nil
}

func (b *Bridge) emit(sig events.EventSig, data interface{}) {
	b.pending = append(b.pending, events.NewLog(sig, 0, data))
}

func (b *Bridge) requireManager(call state.Call) error {
	return b.roles.CheckRole(call.From, access.ManagerRole)
}

func (b *Bridge) wckb() (token.Mintable, error) {
	address := b.config.WCKB()
	if address == (common.Address{}) {
		return nil, ErrWCKBNotSet
	}
	wckb, ok := b.tokens.Mintable(address)
	if !ok {
		return nil, ErrWCKBNotSet
	}
	return wckb, nil
}

func (b *Bridge) nextSequence(token common.Address) uint64 {
	sequence := b.sequences[token] + 1
	state.Set(b.journal, b.sequences, token, sequence)
	return sequence
}

// Snapshot is the persisted form of the bridge state, including the
// ledgers of every token the bridge escrows, mints or collects fees in.
type Snapshot struct {
	Nonce     uint64                                  `json:"nonce"`
	Sequences map[common.Address]uint64               `json:"sequences"`
	Settled   []common.Hash                           `json:"settled"`
	LimitTxes []LimitTx                               `json:"limitTxes"`
	LimitSign uint64                                  `json:"limitSign"`
	Tokens    TokenStoreSnapshot                      `json:"tokens"`
	Ledgers   map[common.Address]token.LedgerSnapshot `json:"ledgers"`
	Roles     map[common.Hash][]common.Address        `json:"roles"`
}

func (b *Bridge) Snapshot() Snapshot {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.snapshot()
}

func (b *Bridge) snapshot() Snapshot {
	return Snapshot{
		Nonce:     b.nonce,
		Sequences: maps.Clone(b.sequences),
		Settled:   maps.Keys(b.settled),
		LimitTxes: b.limits.List(),
		LimitSign: b.limitSign,
		Tokens:    b.config.Snapshot(),
		Ledgers:   b.tokens.Snapshot(),
		Roles:     b.roles.Snapshot(),
	}
}

// Restore loads a previously persisted snapshot. Every persisted ledger
// must belong to a registered token.
func (b *Bridge) Restore(snapshot Snapshot) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if err := b.tokens.Restore(snapshot.Ledgers); err != nil {
		return err
	}
	if len(snapshot.Roles) > 0 {
		b.roles.Restore(snapshot.Roles)
	}

	b.nonce = snapshot.Nonce
	b.sequences = make(map[common.Address]uint64)
	for token, sequence := range snapshot.Sequences {
		b.sequences[token] = sequence
	}
	b.settled = make(map[common.Hash]struct{})
	for _, txHash := range snapshot.Settled {
		b.settled[txHash] = struct{}{}
	}
	b.limitSign = snapshot.LimitSign
	b.limits.Restore(snapshot.LimitTxes)
	b.config.Restore(snapshot.Tokens)
	b.journal.Commit()

	b.log.Info().
		Uint64("nonce", b.nonce).
		Int("limitTxes", len(snapshot.LimitTxes)).
		Int("ledgers", len(snapshot.Ledgers)).
		Msg("Restored bridge state")
	return nil
}

type noopMetrics struct{}

func (noopMetrics) TrackCrossToCKB(common.Address, *uint256.Int, bool) {}
func (noopMetrics) TrackCrossFromCKB(int, int)                         {}
func (noopMetrics) TrackLimitQueue(int)                                {}
func (noopMetrics) TrackRejected(string, error)                        {}
