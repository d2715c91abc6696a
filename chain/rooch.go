package chain

import (
	"context"
	"fmt"

	"github.com/Euraxluo/move-bridge/common"
	"github.com/Euraxluo/move-bridge/core"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/hashicorp/go-hclog"
)

const (
	roochGetEventsLimit = 50

	roochStatusProcessed = "processed"
	roochStatusFailed    = "failed"
)

// RoochAdapter talks to a Rooch node over JSON-RPC.
type RoochAdapter struct {
	client *rpc.Client
	policy RetryPolicy
	logger hclog.Logger
}

var _ core.ChainAdapter = (*RoochAdapter)(nil)

func NewRoochAdapter(config core.ChainConfig, logger hclog.Logger) (*RoochAdapter, error) {
	client, err := rpc.Dial(config.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rooch rpc %s: %w", config.RPCURL, err)
	}

	return &RoochAdapter{
		client: client,
		policy: defaultRetryPolicy(),
		logger: logger,
	}, nil
}

func (a *RoochAdapter) ChainType() string {
	return core.AdapterTypeRooch
}

type roochEventQuery struct {
	Address string `json:"address"`
	Start   uint64 `json:"start"`
	Limit   uint64 `json:"limit"`
}

func (a *RoochAdapter) ListenEvents(
	ctx context.Context, config core.ChainConfig,
) ([]core.SignedMessage, error) {
	return executeWithRetry(ctx, a.policy, func(ctx context.Context) ([]core.SignedMessage, error) {
		var messages []core.SignedMessage

		err := a.client.CallContext(ctx, &messages, "rooch_getEvents", roochEventQuery{
			Address: config.BridgeAddress,
			Start:   0,
			Limit:   roochGetEventsLimit,
		})
		if err != nil {
			return nil, &core.ChainError{ChainID: config.ID, Op: "rooch_getEvents", Err: err}
		}

		return messages, nil
	})
}

type roochFunctionCall struct {
	Function string        `json:"function"`
	TypeArgs []string      `json:"type_args"`
	Args     []interface{} `json:"args"`
}

func (a *RoochAdapter) SubmitMessage(
	ctx context.Context, config core.ChainConfig, message core.SignedMessage,
) error {
	_, err := executeWithRetry(ctx, a.policy, func(ctx context.Context) (struct{}, error) {
		var result interface{}

		err := a.client.CallContext(ctx, &result, "rooch_submitTransaction", roochFunctionCall{
			Function: fmt.Sprintf("%s::bridge::process_message", config.BridgeAddress),
			TypeArgs: []string{},
			Args:     []interface{}{message},
		})
		if err != nil {
			return struct{}{}, &core.ChainError{ChainID: config.ID, Op: "rooch_submitTransaction", Err: err}
		}

		a.logger.Debug("rooch transaction submitted", "chainId", config.ID, "messageId", message.ID())

		return struct{}{}, nil
	})

	return err
}

type roochMessageStatusQuery struct {
	BridgeAddress string `json:"bridge_address"`
	MessageHash   string `json:"message_hash"`
}

func (a *RoochAdapter) VerifyMessage(
	ctx context.Context, config core.ChainConfig, message *core.SignedMessage,
) (core.MessageStatus, error) {
	return executeWithRetry(ctx, a.policy, func(ctx context.Context) (core.MessageStatus, error) {
		var status string

		err := a.client.CallContext(ctx, &status, "rooch_getMessageStatus", roochMessageStatusQuery{
			BridgeAddress: config.BridgeAddress,
			MessageHash:   common.EncodeHex(message.Signature),
		})
		if err != nil {
			return core.MessageStatusPending, &core.ChainError{ChainID: config.ID, Op: "rooch_getMessageStatus", Err: err}
		}

		switch status {
		case roochStatusProcessed:
			return core.MessageStatusProcessed, nil
		case roochStatusFailed:
			return core.MessageStatusFailed, nil
		default:
			return core.MessageStatusPending, nil
		}
	})
}
