package clirelayer

import (
	"github.com/Euraxluo/move-bridge/common"
)

type CmdResult struct{}

var _ common.ICommandResult = (*CmdResult)(nil)

func (r CmdResult) GetOutput() string {
	return "relayer stopped"
}
