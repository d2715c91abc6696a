package clivalidateconfig

import (
	"fmt"

	"github.com/Euraxluo/move-bridge/common"
	"github.com/Euraxluo/move-bridge/core"
	"github.com/spf13/cobra"
)

const (
	configFlag     = "config"
	configFlagDesc = "path to config json file"
)

type initParams struct {
	config string
}

func (ip *initParams) validateFlags() error {
	if ip.config == "" {
		return fmt.Errorf("--%s flag not specified", configFlag)
	}

	return nil
}

func (ip *initParams) setFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&ip.config,
		configFlag,
		"",
		configFlagDesc,
	)
}

func (ip *initParams) Execute(_ common.OutputFormatter) (common.ICommandResult, error) {
	appConfig, err := common.LoadJson[core.AppConfig](ip.config)
	if err != nil {
		return nil, err
	}

	if err := appConfig.Validate(); err != nil {
		return nil, err
	}

	return &CmdResult{appConfig: appConfig}, nil
}
