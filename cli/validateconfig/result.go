package clivalidateconfig

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/Euraxluo/move-bridge/common"
	"github.com/Euraxluo/move-bridge/core"
)

type CmdResult struct {
	appConfig *core.AppConfig
}

var _ common.ICommandResult = (*CmdResult)(nil)

func (r CmdResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[Configuration is valid]\n")

	chainRows := make([]string, 0, len(r.appConfig.Chains))
	for _, chain := range r.appConfig.Chains {
		chainRows = append(chainRows, fmt.Sprintf("%s|%s (%s)", chain.ID, chain.Name, chain.AdapterType))
	}

	buffer.WriteString("\n[Chains]\n")
	buffer.WriteString(common.FormatKV(chainRows))
	buffer.WriteString("\n")

	assetRows := make([]string, 0, len(r.appConfig.Assets))

	for _, asset := range r.appConfig.Assets {
		mapped := make([]string, 0, len(asset.Mappings))
		for chainID := range asset.Mappings {
			mapped = append(mapped, chainID)
		}

		sort.Strings(mapped)

		assetRows = append(assetRows, fmt.Sprintf("%s|native on %s, mapped to %s",
			asset.Name, asset.NativeChain, strings.Join(mapped, ", ")))
	}

	buffer.WriteString("\n[Assets]\n")
	buffer.WriteString(common.FormatKV(assetRows))
	buffer.WriteString("\n")

	validatorRows := make([]string, 0, len(r.appConfig.Validators))
	for _, validator := range r.appConfig.Validators {
		validatorRows = append(validatorRows, fmt.Sprintf("%s|weight %d|%s",
			validator.Address, validator.Weight, strings.Join(validator.Chains, ", ")))
	}

	buffer.WriteString("\n[Validators]\n")
	buffer.WriteString(common.FormatList(validatorRows))
	buffer.WriteString("\n")

	buffer.WriteString("\n[Relayer]\n")
	buffer.WriteString(common.FormatKV([]string{
		fmt.Sprintf("Poll interval|%ds", r.appConfig.Relayer.PollInterval),
		fmt.Sprintf("Max retries|%d", r.appConfig.Relayer.MaxRetries),
		fmt.Sprintf("Retry delay|%ds", r.appConfig.Relayer.RetryDelay),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
