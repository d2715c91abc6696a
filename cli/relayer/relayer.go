package clirelayer

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Euraxluo/move-bridge/common"
	"github.com/Euraxluo/move-bridge/core"
	"github.com/Euraxluo/move-bridge/logger"
	"github.com/Euraxluo/move-bridge/relayercomponents"
	"github.com/spf13/cobra"
)

var initParamsData = &initParams{}

func GetStartRelayerCommand() *cobra.Command {
	startCmd := &cobra.Command{
		Use:     "start",
		Short:   "runs the relayer service",
		PreRunE: runPreRun,
		Run:     runCommand,
	}

	initParamsData.setFlags(startCmd)

	return startCmd
}

func runPreRun(_ *cobra.Command, _ []string) error {
	return initParamsData.validateFlags()
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := common.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	appConfig, err := common.LoadConfig[core.AppConfig](initParamsData.config, "relayer")
	if err != nil {
		outputter.SetError(err)

		return
	}

	if err := appConfig.Validate(); err != nil {
		outputter.SetError(err)

		return
	}

	serviceLogger, err := logger.NewLogger(appConfig.Logger)
	if err != nil {
		outputter.SetError(err)

		return
	}

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	components, err := relayercomponents.NewRelayerComponents(
		ctx, appConfig, initParamsData.runAPI, serviceLogger)
	if err != nil {
		serviceLogger.Error("relayer components creation failed", "err", err)
		outputter.SetError(fmt.Errorf("failed to create relayer components: %w", err))

		return
	}

	if err := components.Start(); err != nil {
		serviceLogger.Error("relayer components start failed", "err", err)
		outputter.SetError(fmt.Errorf("failed to start relayer components: %w", err))

		return
	}

	defer components.Dispose()

	signalChannel := make(chan os.Signal, 1)
	// Notify the signalChannel when the interrupt signal is received (Ctrl+C)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)

	<-signalChannel

	outputter.SetCommandResult(&CmdResult{})
}
