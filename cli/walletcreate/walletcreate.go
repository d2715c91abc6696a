package cliwalletcreate

import (
	"github.com/Euraxluo/move-bridge/common"
	"github.com/spf13/cobra"
)

var walletCreateParamsData = &walletCreateParams{}

func GetWalletCreateCommand() *cobra.Command {
	walletCreateCmd := &cobra.Command{
		Use:     "wallet-create",
		Short:   "creates a new ed25519 signing key for the message authenticator",
		PreRunE: runPreRun,
		Run:     common.GetCliRunCommand(walletCreateParamsData),
	}

	walletCreateParamsData.setFlags(walletCreateCmd)

	return walletCreateCmd
}

func runPreRun(_ *cobra.Command, _ []string) error {
	return walletCreateParamsData.validateFlags()
}
