package cliversion

import (
	"bytes"
	"fmt"

	"github.com/Euraxluo/move-bridge/common"
)

type versionCmdResult struct {
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"buildTime"`
}

var _ common.ICommandResult = (*versionCmdResult)(nil)

func (r versionCmdResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString(common.FormatKV(
		[]string{
			fmt.Sprintf("Commit|%s", r.Commit),
			fmt.Sprintf("Branch|%s", r.Branch),
			fmt.Sprintf("Build Time|%s", r.BuildTime),
		}))

	return buffer.String()
}
