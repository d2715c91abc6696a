package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Euraxluo/move-bridge/common"
	"github.com/Euraxluo/move-bridge/core"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/hashicorp/go-hclog"
)

const (
	suiBridgeModule       = "bridge"
	suiProcessMessageFunc = "process_message"
	suiDefaultEventName   = "MessageEvent"
	suiQueryEventsLimit   = 50
	suiMoveCallGasBudget  = "10000000"

	suiDigestSize = 32
)

// SuiAdapter talks to a Sui fullnode over JSON-RPC. Bridge events are read
// from the bridge package's module events; submissions go through an
// unsafe_moveCall on bridge::process_message.
type SuiAdapter struct {
	client *rpc.Client
	policy RetryPolicy
	logger hclog.Logger
}

var _ core.ChainAdapter = (*SuiAdapter)(nil)

func NewSuiAdapter(config core.ChainConfig, logger hclog.Logger) (*SuiAdapter, error) {
	client, err := rpc.Dial(config.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial sui rpc %s: %w", config.RPCURL, err)
	}

	return &SuiAdapter{
		client: client,
		policy: defaultRetryPolicy(),
		logger: logger,
	}, nil
}

func (a *SuiAdapter) ChainType() string {
	return core.AdapterTypeSui
}

type suiMoveModuleFilter struct {
	Package string `json:"package"`
	Module  string `json:"module"`
}

type suiEventFilter struct {
	MoveModule suiMoveModuleFilter `json:"MoveModule"`
}

type suiEvent struct {
	Type        string          `json:"type"`
	ParsedJSON  json.RawMessage `json:"parsedJson"`
	TimestampMs string          `json:"timestampMs"`
}

type suiEventPage struct {
	Data        []suiEvent `json:"data"`
	HasNextPage bool       `json:"hasNextPage"`
}

// suiMessageEvent mirrors the fields the bridge contract emits. Numbers
// arrive as strings on sui, hence json.Number for the nonce.
type suiMessageEvent struct {
	Nonce       json.Number `json:"nonce"`
	SourceChain string      `json:"source_chain"`
	TargetChain string      `json:"target_chain"`
	MessageType string      `json:"message_type"`
	Payload     []byte      `json:"payload"`
	Signature   []byte      `json:"signature"`
}

func (a *SuiAdapter) ListenEvents(
	ctx context.Context, config core.ChainConfig,
) ([]core.SignedMessage, error) {
	return executeWithRetry(ctx, a.policy, func(ctx context.Context) ([]core.SignedMessage, error) {
		filter := suiEventFilter{
			MoveModule: suiMoveModuleFilter{
				Package: config.BridgeAddress,
				Module:  suiBridgeModule,
			},
		}

		var page suiEventPage

		err := a.client.CallContext(ctx, &page, "suix_queryEvents", filter, nil, suiQueryEventsLimit, false)
		if err != nil {
			return nil, &core.ChainError{ChainID: config.ID, Op: "suix_queryEvents", Err: err}
		}

		eventNames := acceptedEventNames(config)
		messages := make([]core.SignedMessage, 0, len(page.Data))

		for _, event := range page.Data {
			if !isBridgeEvent(event.Type, eventNames) {
				continue
			}

			message, err := parseSuiMessageEvent(event)
			if err != nil {
				return nil, err
			}

			messages = append(messages, message)
		}

		return messages, nil
	})
}

func (a *SuiAdapter) SubmitMessage(
	ctx context.Context, config core.ChainConfig, message core.SignedMessage,
) error {
	_, err := executeWithRetry(ctx, a.policy, func(ctx context.Context) (struct{}, error) {
		messageBytes, err := json.Marshal(message.Message)
		if err != nil {
			return struct{}{}, &core.SerializationError{Err: err}
		}

		var unsignedTx struct {
			TxBytes string `json:"txBytes"`
		}

		err = a.client.CallContext(ctx, &unsignedTx, "unsafe_moveCall",
			config.BridgeAddress,
			config.BridgeAddress,
			suiBridgeModule,
			suiProcessMessageFunc,
			[]string{},
			[]interface{}{string(messageBytes), common.EncodeHex(message.Signature)},
			nil,
			suiMoveCallGasBudget,
		)
		if err != nil {
			return struct{}{}, &core.ChainError{ChainID: config.ID, Op: "unsafe_moveCall", Err: err}
		}

		var result struct {
			Digest string `json:"digest"`
		}

		err = a.client.CallContext(ctx, &result, "sui_executeTransactionBlock",
			unsignedTx.TxBytes, []string{}, nil, nil)
		if err != nil {
			return struct{}{}, &core.ChainError{ChainID: config.ID, Op: "sui_executeTransactionBlock", Err: err}
		}

		a.logger.Debug("sui transaction executed", "chainId", config.ID, "digest", result.Digest)

		return struct{}{}, nil
	})

	return err
}

func (a *SuiAdapter) VerifyMessage(
	ctx context.Context, config core.ChainConfig, message *core.SignedMessage,
) (core.MessageStatus, error) {
	if len(message.Signature) < suiDigestSize {
		return core.MessageStatusPending,
			core.NewValidationError("signature too short for digest: %d bytes", len(message.Signature))
	}

	digest := common.EncodeBase58(message.Signature[:suiDigestSize])

	return executeWithRetry(ctx, a.policy, func(ctx context.Context) (core.MessageStatus, error) {
		var result struct {
			Effects *struct {
				Status struct {
					Status string `json:"status"`
				} `json:"status"`
			} `json:"effects"`
		}

		err := a.client.CallContext(ctx, &result, "sui_getTransactionBlock",
			digest, map[string]bool{"showEffects": true})
		if err != nil {
			return core.MessageStatusPending, &core.ChainError{ChainID: config.ID, Op: "sui_getTransactionBlock", Err: err}
		}

		if result.Effects == nil {
			return core.MessageStatusPending, nil
		}

		switch result.Effects.Status.Status {
		case "success":
			return core.MessageStatusProcessed, nil
		default:
			return core.MessageStatusFailed, nil
		}
	})
}

func acceptedEventNames(config core.ChainConfig) []string {
	if len(config.EventFilters) == 0 {
		return []string{suiDefaultEventName}
	}

	names := make([]string, 0, len(config.EventFilters))
	for _, filter := range config.EventFilters {
		names = append(names, filter.Name)
	}

	return names
}

func isBridgeEvent(eventType string, eventNames []string) bool {
	for _, name := range eventNames {
		if strings.HasSuffix(eventType, fmt.Sprintf("::%s::%s", suiBridgeModule, name)) {
			return true
		}
	}

	return false
}

func parseSuiMessageEvent(event suiEvent) (core.SignedMessage, error) {
	var parsed suiMessageEvent

	if err := json.Unmarshal(event.ParsedJSON, &parsed); err != nil {
		return core.SignedMessage{}, &core.SerializationError{
			Err: fmt.Errorf("failed to parse event %s: %w", event.Type, err),
		}
	}

	nonce, err := strconv.ParseUint(parsed.Nonce.String(), 10, 64)
	if err != nil {
		return core.SignedMessage{}, &core.SerializationError{
			Err: fmt.Errorf("failed to parse event nonce %q: %w", parsed.Nonce.String(), err),
		}
	}

	timestamp := uint64(time.Now().Unix())

	if event.TimestampMs != "" {
		if ms, err := strconv.ParseUint(event.TimestampMs, 10, 64); err == nil {
			timestamp = ms / 1000
		}
	}

	return core.SignedMessage{
		Message: core.CrossChainMessage{
			Nonce:       nonce,
			SourceChain: parsed.SourceChain,
			TargetChain: parsed.TargetChain,
			MessageType: core.MessageType(parsed.MessageType),
			Payload:     parsed.Payload,
		},
		Signature: parsed.Signature,
		Timestamp: timestamp,
	}, nil
}
