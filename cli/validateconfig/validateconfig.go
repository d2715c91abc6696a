package clivalidateconfig

import (
	"github.com/Euraxluo/move-bridge/common"
	"github.com/spf13/cobra"
)

var initParamsData = &initParams{}

func GetValidateConfigCommand() *cobra.Command {
	validateConfigCmd := &cobra.Command{
		Use:     "validate-config",
		Short:   "validates the relayer configuration file and prints a summary",
		PreRunE: runPreRun,
		Run:     common.GetCliRunCommand(initParamsData),
	}

	initParamsData.setFlags(validateConfigCmd)

	return validateConfigCmd
}

func runPreRun(_ *cobra.Command, _ []string) error {
	return initParamsData.validateFlags()
}
