package controllers

import (
	"fmt"
	"net/http"

	apiCore "github.com/Euraxluo/move-bridge/api/core"
	"github.com/Euraxluo/move-bridge/api/model/request"
	"github.com/Euraxluo/move-bridge/api/model/response"
	apiUtils "github.com/Euraxluo/move-bridge/api/utils"
	"github.com/Euraxluo/move-bridge/common"
	"github.com/Euraxluo/move-bridge/core"
	"github.com/hashicorp/go-hclog"
)

type RelayerControllerImpl struct {
	appConfig     *core.AppConfig
	relayer       core.Relayer
	authenticator core.Authenticator
	db            core.Database
	logger        hclog.Logger
}

var _ apiCore.APIController = (*RelayerControllerImpl)(nil)

func NewRelayerController(
	appConfig *core.AppConfig,
	relayer core.Relayer,
	authenticator core.Authenticator,
	db core.Database,
	logger hclog.Logger,
) *RelayerControllerImpl {
	return &RelayerControllerImpl{
		appConfig:     appConfig,
		relayer:       relayer,
		authenticator: authenticator,
		db:            db,
		logger:        logger,
	}
}

func (*RelayerControllerImpl) GetPathPrefix() string {
	return "relayer"
}

func (c *RelayerControllerImpl) GetEndpoints() []*apiCore.APIEndpoint {
	return []*apiCore.APIEndpoint{
		{Path: "submit", Method: http.MethodPost, Handler: c.submitMessage, APIKeyAuth: true},
		{Path: "sign", Method: http.MethodPost, Handler: c.signMessage, APIKeyAuth: true},
		{Path: "state", Method: http.MethodGet, Handler: c.getState, APIKeyAuth: true},
		{Path: "settings", Method: http.MethodGet, Handler: c.getSettings},
	}
}

// @Summary Submit a signed message directly to a chain
// @Description Injects a signed cross chain message and submits it to the given chain, bypassing the poll loop.
// @Tags Relayer
// @Accept json
// @Produce json
// @Param data body request.SubmitMessageRequest true "message to submit"
// @Success 200 {object} response.SubmitMessageResponse "OK"
// @Failure 400 {object} response.ErrorResponse "Bad Request"
// @Failure 401 {object} response.ErrorResponse "Unauthorized – API key missing or invalid."
// @Security ApiKeyAuth
// @Router /relayer/submit [post]
func (c *RelayerControllerImpl) submitMessage(w http.ResponseWriter, r *http.Request) {
	requestBody, ok := apiUtils.DecodeModel[request.SubmitMessageRequest](w, r, c.logger)
	if !ok {
		return
	}

	c.logger.Debug("submitMessage request", "chainId", requestBody.ChainID, "nonce", requestBody.Message.Nonce)

	signature, err := common.DecodeHex(requestBody.Signature)
	if err != nil {
		apiUtils.WriteErrorResponse(
			w, r, http.StatusBadRequest, fmt.Errorf("invalid signature: %w", err), c.logger)

		return
	}

	message := core.SignedMessage{
		Message: core.CrossChainMessage{
			Nonce:       requestBody.Message.Nonce,
			SourceChain: requestBody.Message.SourceChain,
			TargetChain: requestBody.Message.TargetChain,
			MessageType: core.MessageType(requestBody.Message.MessageType),
			Payload:     requestBody.Message.Payload,
		},
		Signature: signature,
		Timestamp: requestBody.Timestamp,
	}

	if err := c.relayer.ProcessMessage(r.Context(), requestBody.ChainID, message); err != nil {
		apiUtils.WriteErrorResponse(
			w, r, http.StatusInternalServerError, fmt.Errorf("failed to process message: %w", err), c.logger)

		return
	}

	apiUtils.WriteResponse(w, r, http.StatusOK, response.NewSubmitMessageResponse(requestBody.ChainID, message), c.logger)
}

// @Summary Sign a cross chain message
// @Description Signs the message with the relayer authenticator key and returns the signature envelope. A transfer block, when given, is encoded into the payload first.
// @Tags Relayer
// @Accept json
// @Produce json
// @Param data body request.SignMessageRequest true "message to sign"
// @Success 200 {object} response.SignMessageResponse "OK"
// @Failure 400 {object} response.ErrorResponse "Bad Request"
// @Failure 401 {object} response.ErrorResponse "Unauthorized – API key missing or invalid."
// @Security ApiKeyAuth
// @Router /relayer/sign [post]
func (c *RelayerControllerImpl) signMessage(w http.ResponseWriter, r *http.Request) {
	requestBody, ok := apiUtils.DecodeModel[request.SignMessageRequest](w, r, c.logger)
	if !ok {
		return
	}

	payload := requestBody.Message.Payload

	if transfer := requestBody.Transfer; transfer != nil {
		if c.appConfig.GetAssetConfig(transfer.Asset) == nil {
			apiUtils.WriteErrorResponse(
				w, r, http.StatusBadRequest, fmt.Errorf("unknown asset: %s", transfer.Asset), c.logger)

			return
		}

		var err error

		payload, err = common.MarshalTransferMetadata(
			common.MetadataEncodingTypeCbor, common.TransferMetadata{
				Asset:    transfer.Asset,
				Amount:   transfer.Amount,
				Sender:   transfer.Sender,
				Receiver: transfer.Receiver,
			})
		if err != nil {
			apiUtils.WriteErrorResponse(
				w, r, http.StatusBadRequest, fmt.Errorf("invalid transfer: %w", err), c.logger)

			return
		}
	}

	signedMessage, err := c.authenticator.SignMessage(core.CrossChainMessage{
		Nonce:       requestBody.Message.Nonce,
		SourceChain: requestBody.Message.SourceChain,
		TargetChain: requestBody.Message.TargetChain,
		MessageType: core.MessageType(requestBody.Message.MessageType),
		Payload:     payload,
	})
	if err != nil {
		apiUtils.WriteErrorResponse(
			w, r, http.StatusBadRequest, fmt.Errorf("failed to sign message: %w", err), c.logger)

		return
	}

	apiUtils.WriteResponse(w, r, http.StatusOK, response.NewSignMessageResponse(signedMessage), c.logger)
}

// @Summary Get relayer state
// @Description Returns the processed message count and the nonce watermark per source chain.
// @Tags Relayer
// @Produce json
// @Success 200 {object} response.RelayerStateResponse "OK"
// @Failure 401 {object} response.ErrorResponse "Unauthorized – API key missing or invalid."
// @Security ApiKeyAuth
// @Router /relayer/state [get]
func (c *RelayerControllerImpl) getState(w http.ResponseWriter, r *http.Request) {
	count, err := c.db.ProcessedMessagesCount()
	if err != nil {
		apiUtils.WriteErrorResponse(
			w, r, http.StatusInternalServerError, fmt.Errorf("failed to read state: %w", err), c.logger)

		return
	}

	apiUtils.WriteResponse(w, r, http.StatusOK, &response.RelayerStateResponse{
		ProcessedMessagesCount: count,
		NonceWatermarks:        c.authenticator.Watermarks(),
		PublicKey:              common.EncodeHex(c.authenticator.PublicKey()),
	}, c.logger)
}

// @Summary Get relayer settings
// @Description Returns the configured chains, assets and relayer policy.
// @Tags Relayer
// @Produce json
// @Success 200 {object} response.SettingsResponse "OK"
// @Router /relayer/settings [get]
func (c *RelayerControllerImpl) getSettings(w http.ResponseWriter, r *http.Request) {
	apiUtils.WriteResponse(w, r, http.StatusOK, response.NewSettingsResponse(c.appConfig), c.logger)
}
