// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"context"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.opentelemetry.io/otel/attribute"
	api "go.opentelemetry.io/otel/metric"
)

type BridgeMetrics struct {
	opts api.MeasurementOption

	CrossToCKBCounter   api.Int64Counter
	CrossToCKBAmount    api.Float64Counter
	CrossFromCKBBatches api.Int64Counter
	CrossFromCKBRecords api.Int64Counter
	RejectedOperations  api.Int64Counter
	LimitQueueSizeGauge api.Int64ObservableGauge
	limitQueueSize      *atomic.Int64
}

// NewBridgeMetrics creates an instance of metrics
func NewBridgeMetrics(meter api.Meter, env, bridgeID string) (*BridgeMetrics, error) {
	opts := api.WithAttributes(attribute.String("env", env), attribute.String("bridge", bridgeID))

	crossToCKBCounter, err := meter.Int64Counter(
		"bridge.CrossToCKB",
		api.WithDescription("Number of outbound transfers"),
	)
	if err != nil {
		return nil, err
	}
	crossToCKBAmount, err := meter.Float64Counter(
		"bridge.CrossToCKBAmount",
		api.WithDescription("Amount of tokens bridged toward CKB"),
	)
	if err != nil {
		return nil, err
	}
	crossFromCKBBatches, err := meter.Int64Counter(
		"bridge.CrossFromCKBBatches",
		api.WithDescription("Number of processed inbound batches"),
	)
	if err != nil {
		return nil, err
	}
	crossFromCKBRecords, err := meter.Int64Counter(
		"bridge.CrossFromCKBRecords",
		api.WithDescription("Number of inbound records by outcome"),
	)
	if err != nil {
		return nil, err
	}
	rejectedOperations, err := meter.Int64Counter(
		"bridge.RejectedOperations",
		api.WithDescription("Number of reverted operations"),
	)
	if err != nil {
		return nil, err
	}

	limitQueueSize := new(atomic.Int64)
	limitQueueSizeGauge, err := meter.Int64ObservableGauge(
		"bridge.LimitQueueSize",
		api.WithInt64Callback(func(ctx context.Context, result api.Int64Observer) error {
			result.Observe(limitQueueSize.Load(), opts)
			return nil
		}),
		api.WithDescription("Number of transfers waiting for manual release"),
	)
	if err != nil {
		return nil, err
	}

	return &BridgeMetrics{
		opts:                opts,
		CrossToCKBCounter:   crossToCKBCounter,
		CrossToCKBAmount:    crossToCKBAmount,
		CrossFromCKBBatches: crossFromCKBBatches,
		CrossFromCKBRecords: crossFromCKBRecords,
		RejectedOperations:  rejectedOperations,
		LimitQueueSizeGauge: limitQueueSizeGauge,
		limitQueueSize:      limitQueueSize,
	}, nil
}

func (m *BridgeMetrics) TrackCrossToCKB(token common.Address, amount *uint256.Int, alerted bool) {
	attrs := api.WithAttributes(attribute.String("token", token.Hex()), attribute.Bool("alerted", alerted))
	m.CrossToCKBCounter.Add(context.Background(), 1, m.opts, attrs)
	m.CrossToCKBAmount.Add(context.Background(), amount.Float64(), m.opts, attrs)
}

func (m *BridgeMetrics) TrackCrossFromCKB(settled, queued int) {
	m.CrossFromCKBBatches.Add(context.Background(), 1, m.opts)
	m.CrossFromCKBRecords.Add(context.Background(), int64(settled), m.opts, api.WithAttributes(attribute.String("status", "settled")))
	m.CrossFromCKBRecords.Add(context.Background(), int64(queued), m.opts, api.WithAttributes(attribute.String("status", "queued")))
}

func (m *BridgeMetrics) TrackLimitQueue(size int) {
	m.limitQueueSize.Store(int64(size))
}

func (m *BridgeMetrics) TrackRejected(operation string, err error) {
	m.RejectedOperations.Add(context.Background(), 1, m.opts, api.WithAttributes(attribute.String("operation", operation)))
}
