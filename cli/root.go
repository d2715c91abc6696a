package cli

import (
	"fmt"
	"os"

	clirelayer "github.com/Euraxluo/move-bridge/cli/relayer"
	clivalidateconfig "github.com/Euraxluo/move-bridge/cli/validateconfig"
	cliversion "github.com/Euraxluo/move-bridge/cli/version"
	cliwalletcreate "github.com/Euraxluo/move-bridge/cli/walletcreate"
	"github.com/spf13/cobra"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Short: "cli commands for the move bridge relayer",
		},
	}

	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		clirelayer.GetStartRelayerCommand(),
		clivalidateconfig.GetValidateConfigCommand(),
		cliwalletcreate.GetWalletCreateCommand(),
		cliversion.GetVersionCommand(),
	)
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
