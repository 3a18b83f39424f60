// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package events

import (
	"encoding/json"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
)

type Emitter interface {
	Emit(logs ...Log)
}

// Filter selects logs by block range and topic. A zero ToBlock means no
// upper bound, an empty Topics list matches every event.
type Filter struct {
	FromBlock uint64        `json:"fromBlock"`
	ToBlock   uint64        `json:"toBlock"`
	Topics    []common.Hash `json:"topics"`
}

func (f Filter) Matches(l Log) bool {
	if l.BlockNumber < f.FromBlock || (f.ToBlock != 0 && l.BlockNumber > f.ToBlock) {
		return false
	}
	if len(f.Topics) == 0 {
		return true
	}
	for _, topic := range f.Topics {
		if topic == l.Topic {
			return true
		}
	}
	return false
}

// Recorder keeps the most recent emitted logs in memory and assigns them
// sequential indexes.
type Recorder struct {
	lock      sync.RWMutex
	logs      []Log
	nextIndex uint64
	retention int
}

// NewRecorder keeps at most retention logs, zero keeps all of them.
func NewRecorder(retention int) *Recorder {
	return &Recorder{retention: retention}
}

func (r *Recorder) Emit(logs ...Log) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, l := range logs {
		l.Index = r.nextIndex
		r.nextIndex++
		r.logs = append(r.logs, l)
	}
	if r.retention > 0 && len(r.logs) > r.retention {
		r.logs = append([]Log(nil), r.logs[len(r.logs)-r.retention:]...)
	}
}

func (r *Recorder) Logs(filter Filter) []Log {
	r.lock.RLock()
	defer r.lock.RUnlock()

	logs := make([]Log, 0)
	for _, l := range r.logs {
		if filter.Matches(l) {
			logs = append(logs, l)
		}
	}
	return logs
}

// LogEmitter writes every event to the global logger.
type LogEmitter struct{}

func (LogEmitter) Emit(logs ...Log) {
	for _, l := range logs {
		data, err := json.Marshal(l.Data)
		if err != nil {
			log.Error().Err(err).Str("event", l.Name).Msg("Failed encoding event")
			continue
		}
		log.Info().
			Str("event", l.Name).
			Uint64("block", l.BlockNumber).
			RawJSON("data", data).
			Msg("Emitted bridge event")
	}
}

type multiEmitter []Emitter

func (m multiEmitter) Emit(logs ...Log) {
	for _, e := range m {
		e.Emit(logs...)
	}
}

// Multi fans emitted logs out to every emitter.
func Multi(emitters ...Emitter) Emitter {
	return multiEmitter(emitters)
}
