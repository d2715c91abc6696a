package response

import (
	"encoding/hex"

	"github.com/Euraxluo/move-bridge/core"
)

type SubmitMessageResponse struct {
	MessageID string `json:"messageId"`
	ChainID   string `json:"chainId"`
}

func NewSubmitMessageResponse(chainID string, message core.SignedMessage) *SubmitMessageResponse {
	return &SubmitMessageResponse{
		MessageID: message.ID(),
		ChainID:   chainID,
	}
}

type SignMessageResponse struct {
	MessageID string `json:"messageId"`
	Signature string `json:"signature"`
	Timestamp uint64 `json:"timestamp"`
}

func NewSignMessageResponse(message *core.SignedMessage) *SignMessageResponse {
	return &SignMessageResponse{
		MessageID: message.ID(),
		Signature: hex.EncodeToString(message.Signature),
		Timestamp: message.Timestamp,
	}
}

type RelayerStateResponse struct {
	ProcessedMessagesCount uint64            `json:"processedMessagesCount"`
	NonceWatermarks        map[string]uint64 `json:"nonceWatermarks"`
	PublicKey              string            `json:"publicKey"`
}

type SettingsChainResponse struct {
	ID             string `json:"id"`
	AdapterType    string `json:"adapterType"`
	Name           string `json:"name"`
	ValidatorCount int    `json:"validatorCount"`
}

type SettingsAssetResponse struct {
	Name        string            `json:"name"`
	NativeChain string            `json:"nativeChain"`
	Decimals    uint8             `json:"decimals"`
	Mappings    map[string]string `json:"mappings"`
}

type SettingsResponse struct {
	Chains         []SettingsChainResponse `json:"chains"`
	Assets         []SettingsAssetResponse `json:"assets"`
	ValidatorCount int                     `json:"validatorCount"`
	PollInterval   uint64                  `json:"pollInterval"`
	MaxRetries     uint32                  `json:"maxRetries"`
	RetryDelay     uint64                  `json:"retryDelay"`
}

func NewSettingsResponse(appConfig *core.AppConfig) *SettingsResponse {
	chains := make([]SettingsChainResponse, 0, len(appConfig.Chains))
	for _, chain := range appConfig.Chains {
		chains = append(chains, SettingsChainResponse{
			ID:             chain.ID,
			AdapterType:    chain.AdapterType,
			Name:           chain.Name,
			ValidatorCount: len(appConfig.GetValidatorsForChain(chain.ID)),
		})
	}

	assets := make([]SettingsAssetResponse, 0, len(appConfig.Assets))
	for _, asset := range appConfig.Assets {
		assets = append(assets, SettingsAssetResponse{
			Name:        asset.Name,
			NativeChain: asset.NativeChain,
			Decimals:    asset.Decimals,
			Mappings:    asset.Mappings,
		})
	}

	return &SettingsResponse{
		Chains:         chains,
		Assets:         assets,
		ValidatorCount: len(appConfig.Validators),
		PollInterval:   appConfig.Relayer.PollInterval,
		MaxRetries:     appConfig.Relayer.MaxRetries,
		RetryDelay:     appConfig.Relayer.RetryDelay,
	}
}
