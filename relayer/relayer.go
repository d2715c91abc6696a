package relayer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Euraxluo/move-bridge/chain"
	"github.com/Euraxluo/move-bridge/common"
	"github.com/Euraxluo/move-bridge/core"
	"github.com/Euraxluo/move-bridge/telemetry"
	"github.com/hashicorp/go-hclog"
	"github.com/sethvargo/go-retry"
)

// maxMessageAgeSeconds is the relay window for observed events. Older
// messages are dropped before any submission attempt.
const maxMessageAgeSeconds = uint64(3600)

type RelayerImpl struct {
	appConfig *core.AppConfig
	verifier  core.MessageVerifier
	db        core.Database
	adapters  map[string]core.ChainAdapter
	logger    hclog.Logger
}

var _ core.Relayer = (*RelayerImpl)(nil)

// NewRelayer builds the orchestrator for every configured chain. Adapters
// passed by the caller are used as is, missing ones come from the factory.
// Any adapter construction failure aborts startup. The adapter map is not
// mutated after construction.
func NewRelayer(
	appConfig *core.AppConfig, verifier core.MessageVerifier, db core.Database,
	adapters map[string]core.ChainAdapter, logger hclog.Logger,
) (*RelayerImpl, error) {
	allAdapters := make(map[string]core.ChainAdapter, len(appConfig.Chains))

	for _, chainConfig := range appConfig.Chains {
		if adapter, exists := adapters[chainConfig.ID]; exists {
			allAdapters[chainConfig.ID] = adapter

			continue
		}

		adapter, err := chain.GetChainAdapter(chainConfig, logger.Named(strings.ToUpper(chainConfig.ID)))
		if err != nil {
			return nil, fmt.Errorf("failed to create adapter for chain %s: %w", chainConfig.ID, err)
		}

		allAdapters[chainConfig.ID] = adapter
	}

	return &RelayerImpl{
		appConfig: appConfig,
		verifier:  verifier,
		db:        db,
		adapters:  allAdapters,
		logger:    logger,
	}, nil
}

func (r *RelayerImpl) Start(ctx context.Context) {
	r.logger.Debug("Relayer started")

	ticker := time.NewTicker(time.Second * time.Duration(r.appConfig.Relayer.PollInterval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		r.execute(ctx)
	}
}

// execute runs one poll cycle. Chains are visited sequentially in
// configuration order; a failing chain is skipped for this cycle only.
func (r *RelayerImpl) execute(ctx context.Context) {
	for _, chainConfig := range r.appConfig.Chains {
		if err := r.processChainEvents(ctx, chainConfig); err != nil {
			r.logger.Error("failed to process events", "chainId", chainConfig.ID, "err", err)
		}
	}
}

func (r *RelayerImpl) processChainEvents(ctx context.Context, chainConfig core.ChainConfig) error {
	adapter := r.adapters[chainConfig.ID]
	if adapter == nil {
		return fmt.Errorf("chain adapter not found: %s", chainConfig.ID)
	}

	messages, err := adapter.ListenEvents(ctx, chainConfig)
	if err != nil {
		return fmt.Errorf("failed to listen for events: %w", err)
	}

	if len(messages) == 0 {
		return nil
	}

	r.logger.Debug("events received", "chainId", chainConfig.ID, "count", len(messages))
	telemetry.UpdateRelayerEventsReceivedCounter(chainConfig.ID, len(messages))

	for _, message := range messages {
		messageID := message.ID()

		processed, err := r.db.IsMessageProcessed(messageID)
		if err != nil {
			return fmt.Errorf("failed to get processed message from db: %w", err)
		}

		if processed {
			telemetry.UpdateRelayerMessagesSkippedCounter(chainConfig.ID)

			continue
		}

		if err := r.relayMessage(ctx, chainConfig.ID, message); err != nil {
			// not marked as processed, a re-emitted message is retried next cycle
			r.logger.Error("failed to relay message",
				"messageId", messageID, "chainId", chainConfig.ID, "err", err)
			telemetry.UpdateRelayerMessagesFailedCounter(chainConfig.ID)

			continue
		}

		if err := r.db.MarkMessageProcessed(messageID); err != nil {
			return fmt.Errorf("failed to insert processed message into db: %w", err)
		}

		telemetry.UpdateRelayerMessagesRelayedCounter(chainConfig.ID, 1)
		telemetry.UpdateRelayerNonceWatermarkGauge(message.Message.SourceChain, message.Message.Nonce)
	}

	return nil
}

func (r *RelayerImpl) relayMessage(ctx context.Context, sourceChainID string, message core.SignedMessage) error {
	targetChainID := message.Message.TargetChain

	targetAdapter := r.adapters[targetChainID]
	if targetAdapter == nil {
		return fmt.Errorf("target chain adapter not found: %s", targetChainID)
	}

	targetConfig := r.appConfig.GetChainConfig(targetChainID)
	if targetConfig == nil {
		return fmt.Errorf("chain config not found: %s", targetChainID)
	}

	if err := r.verifyMessageRules(&message); err != nil {
		return err
	}

	if r.verifier != nil {
		valid, err := r.verifier.VerifyMessage(&message)
		if err != nil {
			return core.NewValidationError("message verification failed: %v", err)
		}

		if !valid {
			return core.NewValidationError("invalid message signature: %s", message.ID())
		}
	}

	if err := r.submitWithRetry(ctx, targetAdapter, *targetConfig, message); err != nil {
		return err
	}

	r.logger.Info("Successfully relayed message",
		"sourceChain", sourceChainID, "targetChain", targetChainID, "nonce", message.Message.Nonce)
	r.logTransferDetails(message)

	return nil
}

// logTransferDetails decodes a transfer payload for the relay log. Contracts
// emit cbor, the injection API and tooling send json; payloads decodable as
// neither stay opaque and are skipped.
func (r *RelayerImpl) logTransferDetails(message core.SignedMessage) {
	if message.Message.MessageType != core.MessageTypeTransfer {
		return
	}

	metadata, err := common.UnmarshalTransferMetadata(
		common.MetadataEncodingTypeCbor, message.Message.Payload)
	if err != nil {
		metadata, err = common.UnmarshalTransferMetadata(
			common.MetadataEncodingTypeJSON, message.Message.Payload)
		if err != nil {
			return
		}
	}

	r.logger.Debug("transfer relayed", "asset", metadata.Asset, "amount", metadata.Amount,
		"sender", metadata.Sender, "receiver", metadata.Receiver)
}

// verifyMessageRules applies the business rules every relayed message must
// satisfy: a plausible timestamp, chains known to the configuration and, for
// transfers, an asset mapped from the source chain onto the target chain.
func (r *RelayerImpl) verifyMessageRules(message *core.SignedMessage) error {
	now := uint64(time.Now().Unix())

	if message.Timestamp > now {
		return core.NewValidationError("message timestamp is in the future")
	}

	if now-message.Timestamp > maxMessageAgeSeconds {
		return core.NewValidationError("message has expired (older than 1 hour)")
	}

	if !r.appConfig.HasChain(message.Message.SourceChain) {
		return core.NewValidationError("invalid source chain: %s", message.Message.SourceChain)
	}

	if !r.appConfig.HasChain(message.Message.TargetChain) {
		return core.NewValidationError("invalid target chain: %s", message.Message.TargetChain)
	}

	if message.Message.MessageType == core.MessageTypeTransfer &&
		!r.hasAssetMapping(message.Message.SourceChain, message.Message.TargetChain) {
		return core.NewValidationError("invalid asset transfer mapping from %s to %s",
			message.Message.SourceChain, message.Message.TargetChain)
	}

	return nil
}

func (r *RelayerImpl) hasAssetMapping(sourceChainID, targetChainID string) bool {
	for _, asset := range r.appConfig.Assets {
		if asset.NativeChain != sourceChainID {
			continue
		}

		if _, exists := asset.Mappings[targetChainID]; exists {
			return true
		}
	}

	return false
}

// LinearBackoff waits baseDelay*k seconds after the k-th failed attempt.
func LinearBackoff(baseDelay uint64) retry.Backoff {
	var attempt uint64

	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++

		return time.Duration(baseDelay*attempt) * time.Second, false
	})
}

// submitWithRetry delivers the message to the target chain with up to
// max_retries total attempts. Validation and serialization failures are
// permanent and end the schedule immediately.
func (r *RelayerImpl) submitWithRetry(
	ctx context.Context, adapter core.ChainAdapter, chainConfig core.ChainConfig, message core.SignedMessage,
) error {
	maxRetries := uint64(r.appConfig.Relayer.MaxRetries)
	backoff := retry.WithMaxRetries(maxRetries-1, LinearBackoff(r.appConfig.Relayer.RetryDelay))

	attempt := uint64(0)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		err := adapter.SubmitMessage(ctx, chainConfig, message)
		if err == nil {
			return nil
		}

		if core.IsValidationError(err) || core.IsSerializationError(err) {
			return err
		}

		r.logger.Warn("retrying message submit",
			"attempt", attempt, "maxRetries", maxRetries, "chainId", chainConfig.ID, "err", err)

		return retry.RetryableError(err)
	})
	if err != nil {
		return fmt.Errorf("failed to submit message: %w", err)
	}

	return nil
}

// ProcessMessage submits the message to chainID directly, bypassing
// deduplication, the business rules and the linear retry schedule. The
// adapter's own retry decorator still applies.
func (r *RelayerImpl) ProcessMessage(ctx context.Context, chainID string, message core.SignedMessage) error {
	chainConfig := r.appConfig.GetChainConfig(chainID)
	if chainConfig == nil {
		return core.NewConfigError("chain config not found: %s", chainID)
	}

	adapter := r.adapters[chainID]
	if adapter == nil {
		return fmt.Errorf("chain adapter not found: %s", chainID)
	}

	if err := adapter.SubmitMessage(ctx, *chainConfig, message); err != nil {
		return fmt.Errorf("failed to submit message: %w", err)
	}

	telemetry.UpdateRelayerMessagesInjectedCounter(chainID)

	return nil
}
