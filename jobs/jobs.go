package jobs

import (
	"context"
	"time"

	"github.com/axonweb3/axon-bridge/bridge"
	"github.com/rs/zerolog/log"
)

type LimitQueue interface {
	LimitTxes() []bridge.LimitTx
}

// StartLimitQueueReportJob periodically logs the transfers waiting for
// manual release until ctx is cancelled.
func StartLimitQueueReportJob(ctx context.Context, queue LimitQueue, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ReportLimitQueue(queue)
		case <-ctx.Done():
			return
		}
	}
}

// ReportLimitQueue logs every pending limit transaction and returns the
// number of pending entries per direction.
func ReportLimitQueue(queue LimitQueue) map[bridge.Direction]int {
	pending := make(map[bridge.Direction]int)
	for _, tx := range queue.LimitTxes() {
		pending[tx.Direction]++
		log.Warn().
			Str("id", tx.ID.Hex()).
			Str("direction", tx.Direction.String()).
			Str("to", tx.To).
			Str("token", tx.Token.Hex()).
			Str("amount", tx.Amount.Dec()).
			Str("ckbAmount", tx.CKBAmount.Dec()).
			Msg("Limit transaction waiting for release")
	}
	if len(pending) > 0 {
		log.Info().
			Int("toCKB", pending[bridge.ToCKB]).
			Int("fromCKB", pending[bridge.FromCKB]).
			Msg("Pending limit queue")
	}
	return pending
}
