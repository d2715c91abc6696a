package telemetry

import (
	"github.com/armon/go-metrics"
)

const (
	relayerMetricsPrefix  = "relayer"
	adaptersMetricsPrefix = "adapters"
)

func UpdateRelayerEventsReceivedCounter(chain string, cnt int) {
	metrics.IncrCounter([]string{relayerMetricsPrefix, "events_received_counter", chain}, float32(cnt))
}

func UpdateRelayerMessagesRelayedCounter(chain string, cnt int) {
	metrics.IncrCounter([]string{relayerMetricsPrefix, "messages_relayed_counter", chain}, float32(cnt))
}

func UpdateRelayerMessagesFailedCounter(chain string) {
	metrics.IncrCounter([]string{relayerMetricsPrefix, "messages_failed_counter", chain}, 1)
}

func UpdateRelayerMessagesSkippedCounter(chain string) {
	metrics.IncrCounter([]string{relayerMetricsPrefix, "messages_skipped_counter", chain}, 1)
}

func UpdateRelayerMessagesInjectedCounter(chain string) {
	metrics.IncrCounter([]string{relayerMetricsPrefix, "messages_injected_counter", chain}, 1)
}

func UpdateAdaptersChainErrorsCounter(chain string) {
	metrics.IncrCounter([]string{adaptersMetricsPrefix, "chain_errors_counter", chain}, 1)
}

func UpdateRelayerNonceWatermarkGauge(chain string, nonce uint64) {
	metrics.SetGauge([]string{relayerMetricsPrefix, "nonce_watermark", chain}, float32(nonce))
}

func UpdateRelayerProcessedMessagesGauge(cnt uint64) {
	metrics.SetGauge([]string{relayerMetricsPrefix, "processed_messages"}, float32(cnt))
}
