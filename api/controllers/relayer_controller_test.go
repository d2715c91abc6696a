package controllers

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Euraxluo/move-bridge/api/model/request"
	"github.com/Euraxluo/move-bridge/api/model/response"
	"github.com/Euraxluo/move-bridge/common"
	"github.com/Euraxluo/move-bridge/core"
	databaseaccess "github.com/Euraxluo/move-bridge/database_access"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestControllerAppConfig() *core.AppConfig {
	return &core.AppConfig{
		Chains: []core.ChainConfig{
			{ID: "sui-testnet", AdapterType: core.AdapterTypeSui, Name: "Sui Testnet"},
			{ID: "rooch-testnet", AdapterType: core.AdapterTypeRooch, Name: "Rooch Testnet"},
		},
		Assets: []core.AssetConfig{
			{
				Name:        "USDT",
				NativeChain: "sui-testnet",
				Decimals:    6,
				Mappings:    map[string]string{"rooch-testnet": "0xrooch::usdt::USDT"},
			},
		},
		Validators: []core.ValidatorConfig{
			{Address: "0xval1", PublicKey: "a1", Weight: 1, Chains: []string{"sui-testnet"}},
		},
		Relayer: core.RelayerConfig{PollInterval: 10, MaxRetries: 5, RetryDelay: 3},
	}
}

func executeEndpoint(
	t *testing.T, handler http.HandlerFunc, method, url string, requestBody any,
) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if requestBody != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(requestBody))
	}

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(method, url, &body))

	return recorder
}

func TestRelayerControllerEndpoints(t *testing.T) {
	t.Parallel()

	controller := NewRelayerController(
		newTestControllerAppConfig(), &core.RelayerMock{}, &core.AuthenticatorMock{},
		&databaseaccess.DBMock{}, hclog.NewNullLogger())

	require.Equal(t, "relayer", controller.GetPathPrefix())

	endpoints := controller.GetEndpoints()
	require.Len(t, endpoints, 4)

	authRequired := map[string]bool{}
	for _, endpoint := range endpoints {
		authRequired[endpoint.Path] = endpoint.APIKeyAuth
	}

	require.True(t, authRequired["submit"])
	require.True(t, authRequired["sign"])
	require.True(t, authRequired["state"])
	require.False(t, authRequired["settings"])
}

func TestSubmitMessageEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("malformed body", func(t *testing.T) {
		controller := NewRelayerController(
			newTestControllerAppConfig(), &core.RelayerMock{}, &core.AuthenticatorMock{},
			&databaseaccess.DBMock{}, hclog.NewNullLogger())

		recorder := httptest.NewRecorder()
		controller.submitMessage(recorder, httptest.NewRequest(
			http.MethodPost, "/api/v1/relayer/submit", bytes.NewBufferString("not json")))

		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("invalid signature encoding", func(t *testing.T) {
		relayerMock := &core.RelayerMock{}
		controller := NewRelayerController(
			newTestControllerAppConfig(), relayerMock, &core.AuthenticatorMock{},
			&databaseaccess.DBMock{}, hclog.NewNullLogger())

		recorder := executeEndpoint(t, controller.submitMessage,
			http.MethodPost, "/api/v1/relayer/submit", request.SubmitMessageRequest{
				ChainID:   "rooch-testnet",
				Signature: "zzzz",
			})

		require.Equal(t, http.StatusBadRequest, recorder.Code)

		var errResponse response.ErrorResponse

		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &errResponse))
		require.Contains(t, errResponse.Err, "invalid signature")
		relayerMock.AssertNotCalled(t, "ProcessMessage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("relayer failure", func(t *testing.T) {
		relayerMock := &core.RelayerMock{}
		relayerMock.On("ProcessMessage", mock.Anything, mock.Anything, mock.Anything).
			Return(core.NewConfigError("chain config not found: aptos-testnet"))

		controller := NewRelayerController(
			newTestControllerAppConfig(), relayerMock, &core.AuthenticatorMock{},
			&databaseaccess.DBMock{}, hclog.NewNullLogger())

		recorder := executeEndpoint(t, controller.submitMessage,
			http.MethodPost, "/api/v1/relayer/submit", request.SubmitMessageRequest{
				ChainID:   "aptos-testnet",
				Signature: "a1b2",
			})

		require.Equal(t, http.StatusInternalServerError, recorder.Code)

		var errResponse response.ErrorResponse

		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &errResponse))
		require.Contains(t, errResponse.Err, "failed to process message")
	})

	t.Run("message is forwarded", func(t *testing.T) {
		relayerMock := &core.RelayerMock{}
		relayerMock.On("ProcessMessage", mock.Anything, "rooch-testnet", mock.MatchedBy(
			func(message core.SignedMessage) bool {
				return message.Message.Nonce == 42 && bytes.Equal(message.Signature, []byte{0xA1, 0xB2})
			})).Return(nil)

		controller := NewRelayerController(
			newTestControllerAppConfig(), relayerMock, &core.AuthenticatorMock{},
			&databaseaccess.DBMock{}, hclog.NewNullLogger())

		recorder := executeEndpoint(t, controller.submitMessage,
			http.MethodPost, "/api/v1/relayer/submit", request.SubmitMessageRequest{
				ChainID: "rooch-testnet",
				Message: request.CrossChainMessageRequest{
					Nonce:       42,
					SourceChain: "sui-testnet",
					TargetChain: "rooch-testnet",
					MessageType: string(core.MessageTypeTransfer),
					Payload:     []byte(`{"asset":"USDT","amount":"100"}`),
				},
				Signature: "a1b2",
				Timestamp: uint64(time.Now().Unix()),
			})

		require.Equal(t, http.StatusOK, recorder.Code)

		var submitResponse response.SubmitMessageResponse

		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &submitResponse))
		require.Equal(t, "a1b2", submitResponse.MessageID)
		require.Equal(t, "rooch-testnet", submitResponse.ChainID)
		relayerMock.AssertNumberOfCalls(t, "ProcessMessage", 1)
	})
}

func TestSignMessageEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("authenticator failure", func(t *testing.T) {
		authenticatorMock := &core.AuthenticatorMock{}
		authenticatorMock.On("SignMessage", mock.Anything).
			Return(nil, core.NewValidationError("source chain not allowed: aptos-testnet"))

		controller := NewRelayerController(
			newTestControllerAppConfig(), &core.RelayerMock{}, authenticatorMock,
			&databaseaccess.DBMock{}, hclog.NewNullLogger())

		recorder := executeEndpoint(t, controller.signMessage,
			http.MethodPost, "/api/v1/relayer/sign", request.SignMessageRequest{
				Message: request.CrossChainMessageRequest{SourceChain: "aptos-testnet"},
			})

		require.Equal(t, http.StatusBadRequest, recorder.Code)

		var errResponse response.ErrorResponse

		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &errResponse))
		require.Contains(t, errResponse.Err, "failed to sign message")
	})

	t.Run("signature envelope is returned", func(t *testing.T) {
		signedMessage := &core.SignedMessage{
			Message: core.CrossChainMessage{
				Nonce:       7,
				SourceChain: "sui-testnet",
				TargetChain: "rooch-testnet",
				MessageType: core.MessageTypeTransfer,
			},
			Signature: []byte{0xDE, 0xAD, 0xBE, 0xEF},
			Timestamp: 1700000000,
		}

		authenticatorMock := &core.AuthenticatorMock{}
		authenticatorMock.On("SignMessage", mock.MatchedBy(func(message core.CrossChainMessage) bool {
			return message.Nonce == 7 && message.SourceChain == "sui-testnet"
		})).Return(signedMessage, nil)

		controller := NewRelayerController(
			newTestControllerAppConfig(), &core.RelayerMock{}, authenticatorMock,
			&databaseaccess.DBMock{}, hclog.NewNullLogger())

		recorder := executeEndpoint(t, controller.signMessage,
			http.MethodPost, "/api/v1/relayer/sign", request.SignMessageRequest{
				Message: request.CrossChainMessageRequest{
					Nonce:       7,
					SourceChain: "sui-testnet",
					TargetChain: "rooch-testnet",
					MessageType: string(core.MessageTypeTransfer),
				},
			})

		require.Equal(t, http.StatusOK, recorder.Code)

		var signResponse response.SignMessageResponse

		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &signResponse))
		require.Equal(t, "deadbeef", signResponse.Signature)
		require.Equal(t, "deadbeef", signResponse.MessageID)
		require.Equal(t, uint64(1700000000), signResponse.Timestamp)
	})

	t.Run("transfer block is encoded into the payload", func(t *testing.T) {
		authenticatorMock := &core.AuthenticatorMock{}
		authenticatorMock.On("SignMessage", mock.MatchedBy(func(message core.CrossChainMessage) bool {
			metadata, err := common.UnmarshalTransferMetadata(
				common.MetadataEncodingTypeCbor, message.Payload)

			return err == nil && metadata.Asset == "USDT" && metadata.Amount == 250 &&
				metadata.Receiver == "0xB0B"
		})).Return(&core.SignedMessage{Signature: []byte{0x01}}, nil)

		controller := NewRelayerController(
			newTestControllerAppConfig(), &core.RelayerMock{}, authenticatorMock,
			&databaseaccess.DBMock{}, hclog.NewNullLogger())

		recorder := executeEndpoint(t, controller.signMessage,
			http.MethodPost, "/api/v1/relayer/sign", request.SignMessageRequest{
				Message: request.CrossChainMessageRequest{
					Nonce:       8,
					SourceChain: "sui-testnet",
					TargetChain: "rooch-testnet",
					MessageType: string(core.MessageTypeTransfer),
				},
				Transfer: &request.TransferRequest{
					Asset:    "USDT",
					Amount:   250,
					Sender:   "0xA11CE",
					Receiver: "0xB0B",
				},
			})

		require.Equal(t, http.StatusOK, recorder.Code)
		authenticatorMock.AssertNumberOfCalls(t, "SignMessage", 1)
	})

	t.Run("unknown asset in transfer block", func(t *testing.T) {
		authenticatorMock := &core.AuthenticatorMock{}
		controller := NewRelayerController(
			newTestControllerAppConfig(), &core.RelayerMock{}, authenticatorMock,
			&databaseaccess.DBMock{}, hclog.NewNullLogger())

		recorder := executeEndpoint(t, controller.signMessage,
			http.MethodPost, "/api/v1/relayer/sign", request.SignMessageRequest{
				Message:  request.CrossChainMessageRequest{SourceChain: "sui-testnet"},
				Transfer: &request.TransferRequest{Asset: "DOGE", Amount: 1},
			})

		require.Equal(t, http.StatusBadRequest, recorder.Code)

		var errResponse response.ErrorResponse

		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &errResponse))
		require.Contains(t, errResponse.Err, "unknown asset")
		authenticatorMock.AssertNotCalled(t, "SignMessage", mock.Anything)
	})
}

func TestGetStateEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("db failure", func(t *testing.T) {
		dbMock := &databaseaccess.DBMock{}
		dbMock.On("ProcessedMessagesCount").Return(uint64(0), errors.New("db closed"))

		controller := NewRelayerController(
			newTestControllerAppConfig(), &core.RelayerMock{}, &core.AuthenticatorMock{},
			dbMock, hclog.NewNullLogger())

		recorder := executeEndpoint(t, controller.getState, http.MethodGet, "/api/v1/relayer/state", nil)
		require.Equal(t, http.StatusInternalServerError, recorder.Code)
	})

	t.Run("state snapshot", func(t *testing.T) {
		publicKey, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		dbMock := &databaseaccess.DBMock{}
		dbMock.On("ProcessedMessagesCount").Return(uint64(12), nil)

		authenticatorMock := &core.AuthenticatorMock{}
		authenticatorMock.On("Watermarks").Return(map[string]uint64{"sui-testnet": 42})
		authenticatorMock.On("PublicKey").Return(publicKey)

		controller := NewRelayerController(
			newTestControllerAppConfig(), &core.RelayerMock{}, authenticatorMock,
			dbMock, hclog.NewNullLogger())

		recorder := executeEndpoint(t, controller.getState, http.MethodGet, "/api/v1/relayer/state", nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var stateResponse response.RelayerStateResponse

		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &stateResponse))
		require.Equal(t, uint64(12), stateResponse.ProcessedMessagesCount)
		require.Equal(t, uint64(42), stateResponse.NonceWatermarks["sui-testnet"])
		require.NotEmpty(t, stateResponse.PublicKey)
	})
}

func TestGetSettingsEndpoint(t *testing.T) {
	t.Parallel()

	controller := NewRelayerController(
		newTestControllerAppConfig(), &core.RelayerMock{}, &core.AuthenticatorMock{},
		&databaseaccess.DBMock{}, hclog.NewNullLogger())

	recorder := executeEndpoint(t, controller.getSettings, http.MethodGet, "/api/v1/relayer/settings", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var settingsResponse response.SettingsResponse

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &settingsResponse))
	require.Len(t, settingsResponse.Chains, 2)
	require.Len(t, settingsResponse.Assets, 1)
	require.Equal(t, uint64(10), settingsResponse.PollInterval)
	require.Equal(t, uint32(5), settingsResponse.MaxRetries)

	validatorCounts := map[string]int{}
	for _, chain := range settingsResponse.Chains {
		validatorCounts[chain.ID] = chain.ValidatorCount
	}

	require.Equal(t, 1, validatorCounts["sui-testnet"])
	require.Equal(t, 0, validatorCounts["rooch-testnet"])
}
