package chain

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/Euraxluo/move-bridge/common"
	"github.com/Euraxluo/move-bridge/core"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func TestIsBridgeEvent(t *testing.T) {
	names := []string{suiDefaultEventName}

	require.True(t, isBridgeEvent("0xabc::bridge::MessageEvent", names))
	require.False(t, isBridgeEvent("0xabc::bridge::OtherEvent", names))
	require.False(t, isBridgeEvent("0xabc::pool::MessageEvent", names))
	require.True(t, isBridgeEvent("0xabc::bridge::TransferEvent", []string{"TransferEvent", "MessageEvent"}))
}

func TestAcceptedEventNames(t *testing.T) {
	t.Run("defaults to MessageEvent", func(t *testing.T) {
		names := acceptedEventNames(core.ChainConfig{})
		require.Equal(t, []string{suiDefaultEventName}, names)
	})

	t.Run("configured filters win", func(t *testing.T) {
		names := acceptedEventNames(core.ChainConfig{
			EventFilters: []core.EventFilterConfig{
				{Name: "TransferEvent", Handler: "handle_transfer"},
				{Name: "MessageEvent", Handler: "handle_message"},
			},
		})
		require.Equal(t, []string{"TransferEvent", "MessageEvent"}, names)
	})
}

func TestParseSuiMessageEvent(t *testing.T) {
	payload := []byte{1, 2, 3}
	signature := []byte{9, 9, 9, 9}

	t.Run("full event", func(t *testing.T) {
		parsedJSON := fmt.Sprintf(
			`{"nonce":"7","source_chain":"sui-testnet","target_chain":"rooch-testnet","message_type":"transfer","payload":%q,"signature":%q}`,
			base64.StdEncoding.EncodeToString(payload),
			base64.StdEncoding.EncodeToString(signature),
		)

		message, err := parseSuiMessageEvent(suiEvent{
			Type:        "0xabc::bridge::MessageEvent",
			ParsedJSON:  json.RawMessage(parsedJSON),
			TimestampMs: "1700000123456",
		})
		require.NoError(t, err)
		require.Equal(t, uint64(7), message.Message.Nonce)
		require.Equal(t, "sui-testnet", message.Message.SourceChain)
		require.Equal(t, "rooch-testnet", message.Message.TargetChain)
		require.Equal(t, core.MessageTypeTransfer, message.Message.MessageType)
		require.Equal(t, payload, message.Message.Payload)
		require.Equal(t, signature, message.Signature)
		require.Equal(t, uint64(1700000123), message.Timestamp)
	})

	t.Run("numeric nonce", func(t *testing.T) {
		message, err := parseSuiMessageEvent(suiEvent{
			ParsedJSON: json.RawMessage(`{"nonce":3,"source_chain":"a","target_chain":"b","message_type":"transfer"}`),
		})
		require.NoError(t, err)
		require.Equal(t, uint64(3), message.Message.Nonce)
	})

	t.Run("missing timestamp falls back to now", func(t *testing.T) {
		message, err := parseSuiMessageEvent(suiEvent{
			ParsedJSON: json.RawMessage(`{"nonce":"1","source_chain":"a","target_chain":"b","message_type":"transfer"}`),
		})
		require.NoError(t, err)
		require.NotZero(t, message.Timestamp)
	})

	t.Run("malformed json is a serialization error", func(t *testing.T) {
		_, err := parseSuiMessageEvent(suiEvent{
			Type:       "0xabc::bridge::MessageEvent",
			ParsedJSON: json.RawMessage(`{"nonce":`),
		})
		require.Error(t, err)
		require.True(t, core.IsSerializationError(err))
	})

	t.Run("unparsable nonce is a serialization error", func(t *testing.T) {
		_, err := parseSuiMessageEvent(suiEvent{
			ParsedJSON: json.RawMessage(`{"nonce":"not-a-number"}`),
		})
		require.Error(t, err)
		require.True(t, core.IsSerializationError(err))
	})
}

func TestSuiAdapterVerifyMessageShortSignature(t *testing.T) {
	adapter, err := NewSuiAdapter(core.ChainConfig{
		ID:          "sui-testnet",
		AdapterType: "sui",
		RPCURL:      "http://localhost:9000",
	}, hclog.NewNullLogger())
	require.NoError(t, err)

	_, err = adapter.VerifyMessage(context.Background(), core.ChainConfig{ID: "sui-testnet"}, &core.SignedMessage{
		Signature: []byte{1, 2, 3},
	})
	require.Error(t, err)
	require.True(t, core.IsValidationError(err))
}

// suiNodeMock serves the suix_/unsafe_/sui_ methods in process.
type suiNodeMock struct {
	page       suiEventPage
	queryErrs  int
	queryCalls int

	moveErrs  int
	moveCalls int
	execCalls int

	txStatus   string
	lastDigest string
}

type suiTxBytesResult struct {
	TxBytes string `json:"txBytes"`
}

type suiExecResult struct {
	Digest string `json:"digest"`
}

type suiTxBlockResult struct {
	Effects *suiTxBlockEffects `json:"effects,omitempty"`
}

type suiTxBlockEffects struct {
	Status suiTxBlockStatus `json:"status"`
}

type suiTxBlockStatus struct {
	Status string `json:"status"`
}

func (m *suiNodeMock) QueryEvents(
	filter suiEventFilter, cursor *string, limit int, descending bool,
) (suiEventPage, error) {
	m.queryCalls++
	if m.queryCalls <= m.queryErrs {
		return suiEventPage{}, errors.New("node busy")
	}

	return m.page, nil
}

func (m *suiNodeMock) MoveCall(
	signer, packageID, module, function string,
	typeArgs []string, args []interface{}, gas interface{}, gasBudget string,
) (suiTxBytesResult, error) {
	m.moveCalls++
	if m.moveCalls <= m.moveErrs {
		return suiTxBytesResult{}, errors.New("gas estimation failed")
	}

	return suiTxBytesResult{TxBytes: "dGVzdA=="}, nil
}

func (m *suiNodeMock) ExecuteTransactionBlock(
	txBytes string, signatures []string, options, requestType interface{},
) (suiExecResult, error) {
	m.execCalls++

	return suiExecResult{Digest: "9WzSXdp3p3q"}, nil
}

func (m *suiNodeMock) GetTransactionBlock(
	digest string, options map[string]bool,
) (suiTxBlockResult, error) {
	m.lastDigest = digest

	if m.txStatus == "" {
		return suiTxBlockResult{}, nil
	}

	return suiTxBlockResult{
		Effects: &suiTxBlockEffects{Status: suiTxBlockStatus{Status: m.txStatus}},
	}, nil
}

func newInprocSuiAdapter(t *testing.T, node *suiNodeMock) *SuiAdapter {
	t.Helper()

	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("suix", node))
	require.NoError(t, server.RegisterName("unsafe", node))
	require.NoError(t, server.RegisterName("sui", node))
	t.Cleanup(server.Stop)

	client := rpc.DialInProc(server)
	t.Cleanup(client.Close)

	return &SuiAdapter{
		client: client,
		policy: RetryPolicy{MaxAttempts: 3, BaseDelaySeconds: 0},
		logger: hclog.NewNullLogger(),
	}
}

func TestSuiAdapterListenEvents(t *testing.T) {
	t.Parallel()

	config := core.ChainConfig{ID: "sui-testnet", BridgeAddress: "0xabc"}
	bridgeEvent := suiEvent{
		Type: "0xabc::bridge::MessageEvent",
		ParsedJSON: json.RawMessage(
			`{"nonce":"7","source_chain":"sui-testnet","target_chain":"rooch-testnet","message_type":"transfer"}`),
		TimestampMs: "1700000123456",
	}
	poolEvent := suiEvent{Type: "0xabc::pool::Swap", ParsedJSON: json.RawMessage(`{}`)}

	t.Run("bridge events are filtered and parsed", func(t *testing.T) {
		node := &suiNodeMock{page: suiEventPage{Data: []suiEvent{poolEvent, bridgeEvent}}}
		adapter := newInprocSuiAdapter(t, node)

		messages, err := adapter.ListenEvents(context.Background(), config)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		require.Equal(t, uint64(7), messages[0].Message.Nonce)
		require.Equal(t, uint64(1700000123), messages[0].Timestamp)
	})

	t.Run("query failures are retried", func(t *testing.T) {
		node := &suiNodeMock{page: suiEventPage{Data: []suiEvent{bridgeEvent}}, queryErrs: 2}
		adapter := newInprocSuiAdapter(t, node)

		messages, err := adapter.ListenEvents(context.Background(), config)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		require.Equal(t, 3, node.queryCalls)
	})

	t.Run("malformed event is permanent", func(t *testing.T) {
		node := &suiNodeMock{page: suiEventPage{Data: []suiEvent{{
			Type:       "0xabc::bridge::MessageEvent",
			ParsedJSON: json.RawMessage(`{"nonce":`),
		}}}}
		adapter := newInprocSuiAdapter(t, node)

		_, err := adapter.ListenEvents(context.Background(), config)
		require.Error(t, err)
		require.True(t, core.IsSerializationError(err))
		require.Equal(t, 1, node.queryCalls)
	})
}

func TestSuiAdapterSubmitMessage(t *testing.T) {
	t.Parallel()

	config := core.ChainConfig{ID: "sui-testnet", BridgeAddress: "0xabc"}
	message := core.SignedMessage{
		Message: core.CrossChainMessage{
			Nonce:       7,
			SourceChain: "rooch-testnet",
			TargetChain: "sui-testnet",
			MessageType: core.MessageTypeTransfer,
		},
		Signature: []byte{0xAA},
		Timestamp: 1700000000,
	}

	t.Run("move call then execution", func(t *testing.T) {
		node := &suiNodeMock{}
		adapter := newInprocSuiAdapter(t, node)

		require.NoError(t, adapter.SubmitMessage(context.Background(), config, message))
		require.Equal(t, 1, node.moveCalls)
		require.Equal(t, 1, node.execCalls)
	})

	t.Run("gas failures are retried", func(t *testing.T) {
		node := &suiNodeMock{moveErrs: 2}
		adapter := newInprocSuiAdapter(t, node)

		require.NoError(t, adapter.SubmitMessage(context.Background(), config, message))
		require.Equal(t, 3, node.moveCalls)
		require.Equal(t, 1, node.execCalls)
	})
}

func TestSuiAdapterVerifyMessage(t *testing.T) {
	t.Parallel()

	config := core.ChainConfig{ID: "sui-testnet", BridgeAddress: "0xabc"}
	message := &core.SignedMessage{Signature: bytes.Repeat([]byte{0x11}, 64)}

	testCases := []struct {
		txStatus string
		expected core.MessageStatus
	}{
		{"success", core.MessageStatusProcessed},
		{"failure", core.MessageStatusFailed},
		{"", core.MessageStatusPending},
	}

	for _, testCase := range testCases {
		node := &suiNodeMock{txStatus: testCase.txStatus}
		adapter := newInprocSuiAdapter(t, node)

		status, err := adapter.VerifyMessage(context.Background(), config, message)
		require.NoError(t, err)
		require.Equal(t, testCase.expected, status)
	}

	t.Run("digest is the base58 signature prefix", func(t *testing.T) {
		node := &suiNodeMock{txStatus: "success"}
		adapter := newInprocSuiAdapter(t, node)

		_, err := adapter.VerifyMessage(context.Background(), config, message)
		require.NoError(t, err)
		require.Equal(t, common.EncodeBase58(message.Signature[:suiDigestSize]), node.lastDigest)
	})
}
