package chain

import (
	"testing"

	"github.com/Euraxluo/move-bridge/core"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func TestGetChainAdapter(t *testing.T) {
	logger := hclog.NewNullLogger()

	t.Run("sui adapter", func(t *testing.T) {
		adapter, err := GetChainAdapter(core.ChainConfig{
			ID:          "sui-testnet",
			AdapterType: "sui",
			RPCURL:      "http://localhost:9000",
		}, logger)
		require.NoError(t, err)
		require.Equal(t, core.AdapterTypeSui, adapter.ChainType())
	})

	t.Run("rooch adapter", func(t *testing.T) {
		adapter, err := GetChainAdapter(core.ChainConfig{
			ID:          "rooch-testnet",
			AdapterType: "rooch",
			RPCURL:      "http://localhost:50051",
		}, logger)
		require.NoError(t, err)
		require.Equal(t, core.AdapterTypeRooch, adapter.ChainType())
	})

	t.Run("adapter type is case insensitive", func(t *testing.T) {
		adapter, err := GetChainAdapter(core.ChainConfig{
			ID:          "sui-testnet",
			AdapterType: "SUI",
			RPCURL:      "http://localhost:9000",
		}, logger)
		require.NoError(t, err)
		require.Equal(t, core.AdapterTypeSui, adapter.ChainType())
	})

	t.Run("unknown adapter type fails closed", func(t *testing.T) {
		_, err := GetChainAdapter(core.ChainConfig{
			ID:          "aptos-testnet",
			AdapterType: "aptos",
			RPCURL:      "http://localhost:8080",
		}, logger)
		require.Error(t, err)
		require.ErrorContains(t, err, "unknown adapter type: aptos")
	})
}
