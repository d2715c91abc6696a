package chain

import (
	"fmt"
	"strings"

	"github.com/Euraxluo/move-bridge/core"
	"github.com/hashicorp/go-hclog"
)

// GetChainAdapter returns the adapter for the chain's adapter type. The
// registry fails closed: an unknown type is an error, never a silent default.
func GetChainAdapter(config core.ChainConfig, logger hclog.Logger) (core.ChainAdapter, error) {
	switch strings.ToLower(config.AdapterType) {
	case core.AdapterTypeSui:
		return NewSuiAdapter(config, logger)
	case core.AdapterTypeRooch:
		return NewRoochAdapter(config, logger)
	default:
		return nil, fmt.Errorf("unknown adapter type: %s", config.AdapterType)
	}
}
