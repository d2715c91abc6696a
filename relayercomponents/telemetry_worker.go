package relayercomponents

import (
	"context"
	"time"

	"github.com/Euraxluo/move-bridge/core"
	"github.com/Euraxluo/move-bridge/telemetry"
	"github.com/hashicorp/go-hclog"
)

const defaultTelemetryPullTime = 10 * time.Second

// TelemetryWorker periodically publishes the relayer state gauges: the
// processed message count and the nonce watermark of every source chain.
// Values are cached so unchanged state is not republished every tick.
type TelemetryWorker struct {
	db            core.Database
	authenticator core.Authenticator
	waitTime      time.Duration

	lastProcessedCount uint64
	lastWatermarks     map[string]uint64

	logger hclog.Logger
}

func NewTelemetryWorker(
	db core.Database,
	authenticator core.Authenticator,
	waitTime time.Duration,
	logger hclog.Logger,
) *TelemetryWorker {
	if waitTime <= 0 {
		waitTime = defaultTelemetryPullTime
	}

	return &TelemetryWorker{
		db:             db,
		authenticator:  authenticator,
		waitTime:       waitTime,
		lastWatermarks: map[string]uint64{},
		logger:         logger,
	}
}

func (tw *TelemetryWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(tw.waitTime):
			tw.execute()
		}
	}
}

func (tw *TelemetryWorker) execute() {
	count, err := tw.db.ProcessedMessagesCount()
	if err != nil {
		tw.logger.Warn("failed to retrieve processed messages count", "err", err)
	} else if count != tw.lastProcessedCount {
		tw.lastProcessedCount = count

		telemetry.UpdateRelayerProcessedMessagesGauge(count)
	}

	for chainID, nonce := range tw.authenticator.Watermarks() {
		if tw.lastWatermarks[chainID] != nonce {
			tw.lastWatermarks[chainID] = nonce

			telemetry.UpdateRelayerNonceWatermarkGauge(chainID, nonce)
		}
	}
}
