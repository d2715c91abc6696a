package core

import (
	"crypto/ed25519"

	apiCore "github.com/Euraxluo/move-bridge/api/core"
	"github.com/Euraxluo/move-bridge/common"
	"github.com/Euraxluo/move-bridge/logger"
	"github.com/Euraxluo/move-bridge/telemetry"
)

const (
	AdapterTypeSui   = "sui"
	AdapterTypeRooch = "rooch"
)

type EventFilterConfig struct {
	Name    string `json:"name"`
	Handler string `json:"handler"`
}

type ChainConfig struct {
	ID            string              `json:"id"`
	AdapterType   string              `json:"adapter_type"`
	Name          string              `json:"name"`
	RPCURL        string              `json:"rpc_url"`
	BridgeAddress string              `json:"bridge_address"`
	EventFilters  []EventFilterConfig `json:"event_filters"`
}

type AssetConfig struct {
	Name        string            `json:"name"`
	NativeChain string            `json:"native_chain"`
	Type        string            `json:"type"`
	Decimals    uint8             `json:"decimals"`
	Mappings    map[string]string `json:"mappings"`
}

type ValidatorConfig struct {
	Address   string   `json:"address"`
	PublicKey string   `json:"public_key"`
	Weight    uint64   `json:"weight"`
	Chains    []string `json:"chains"`
}

type RelayerConfig struct {
	PollInterval uint64 `json:"poll_interval"` // seconds
	MaxRetries   uint32 `json:"max_retries"`
	RetryDelay   uint64 `json:"retry_delay"` // seconds
}

type AuthenticatorConfig struct {
	// SigningKey is a hex encoded ed25519 seed. Empty means an ephemeral
	// key is generated on startup.
	SigningKey          string   `json:"signing_key"`
	MaxMessageAge       uint64   `json:"max_message_age"` // seconds, 0 means default
	AllowedSourceChains []string `json:"allowed_source_chains"`
	AllowedTargetChains []string `json:"allowed_target_chains"`
}

type AppConfig struct {
	Chains        []ChainConfig             `json:"chains"`
	Assets        []AssetConfig             `json:"assets"`
	Validators    []ValidatorConfig         `json:"validators"`
	Relayer       RelayerConfig             `json:"relayer"`
	Authenticator AuthenticatorConfig       `json:"authenticator"`
	DbPath        string                    `json:"db_path"`
	APIConfig     apiCore.APIConfig         `json:"api"`
	Telemetry     telemetry.TelemetryConfig `json:"telemetry"`
	Logger        logger.LoggerConfig       `json:"logger"`
}

// Validate checks the referential integrity of the configuration and fails
// on the first violation encountered.
func (appConfig *AppConfig) Validate() error {
	chainIDs := make(map[string]bool, len(appConfig.Chains))

	for _, chain := range appConfig.Chains {
		if chain.AdapterType != AdapterTypeSui && chain.AdapterType != AdapterTypeRooch {
			return NewConfigError("invalid adapter type: %s", chain.AdapterType)
		}

		if chainIDs[chain.ID] {
			return NewConfigError("duplicate chain id: %s", chain.ID)
		}

		chainIDs[chain.ID] = true
	}

	for _, asset := range appConfig.Assets {
		if !chainIDs[asset.NativeChain] {
			return NewConfigError("invalid chain id in asset config: %s", asset.NativeChain)
		}

		for chainID := range asset.Mappings {
			if !chainIDs[chainID] {
				return NewConfigError("invalid chain id in asset mapping: %s", chainID)
			}
		}
	}

	for _, validator := range appConfig.Validators {
		if _, err := common.DecodeHex(validator.PublicKey); err != nil {
			return NewConfigError("invalid public key: %s", validator.PublicKey)
		}

		for _, chainID := range validator.Chains {
			if !chainIDs[chainID] {
				return NewConfigError("invalid chain id in validator config: %s", chainID)
			}
		}
	}

	if appConfig.Relayer.PollInterval == 0 {
		return NewConfigError("relayer poll interval must be greater than 0")
	}

	if appConfig.Relayer.MaxRetries == 0 {
		return NewConfigError("relayer max retries must be greater than 0")
	}

	if appConfig.Authenticator.SigningKey != "" {
		key, err := common.DecodeHex(appConfig.Authenticator.SigningKey)
		if err != nil {
			return NewConfigError("invalid signing key: %v", err)
		}

		if len(key) != ed25519.SeedSize {
			return NewConfigError("invalid signing key size: %d", len(key))
		}
	}

	for _, chainID := range appConfig.Authenticator.AllowedSourceChains {
		if !chainIDs[chainID] {
			return NewConfigError("invalid chain id in authenticator source chains: %s", chainID)
		}
	}

	for _, chainID := range appConfig.Authenticator.AllowedTargetChains {
		if !chainIDs[chainID] {
			return NewConfigError("invalid chain id in authenticator target chains: %s", chainID)
		}
	}

	return nil
}

// GetChainConfig returns the configuration for chainID or nil when the chain
// is not configured.
func (appConfig *AppConfig) GetChainConfig(chainID string) *ChainConfig {
	for i := range appConfig.Chains {
		if appConfig.Chains[i].ID == chainID {
			return &appConfig.Chains[i]
		}
	}

	return nil
}

// GetAssetConfig returns the asset with the given name or nil.
func (appConfig *AppConfig) GetAssetConfig(name string) *AssetConfig {
	for i := range appConfig.Assets {
		if appConfig.Assets[i].Name == name {
			return &appConfig.Assets[i]
		}
	}

	return nil
}

// GetValidatorsForChain returns every validator covering chainID.
func (appConfig *AppConfig) GetValidatorsForChain(chainID string) []ValidatorConfig {
	var validators []ValidatorConfig

	for _, validator := range appConfig.Validators {
		for _, id := range validator.Chains {
			if id == chainID {
				validators = append(validators, validator)

				break
			}
		}
	}

	return validators
}

func (appConfig *AppConfig) HasChain(chainID string) bool {
	return appConfig.GetChainConfig(chainID) != nil
}
