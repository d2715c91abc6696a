package common

import (
	"fmt"
	"io"
	"os"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

// ICommandResult is implemented by every CLI command result.
type ICommandResult interface {
	GetOutput() string
}

type OutputFormatter interface {
	io.Writer

	SetError(err error)
	SetCommandResult(result ICommandResult)
	WriteOutput()
}

// CliCommandExecutor is the work behind one CLI command: validated params
// executing into a printable result.
type CliCommandExecutor interface {
	Execute(outputter OutputFormatter) (ICommandResult, error)
}

func InitializeOutputter(_ *cobra.Command) OutputFormatter {
	return &textOutput{writer: os.Stdout}
}

// GetCliRunCommand adapts an executor into a cobra Run function with the
// outputter lifecycle handled.
func GetCliRunCommand(executor CliCommandExecutor) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, _ []string) {
		outputter := InitializeOutputter(cmd)
		defer outputter.WriteOutput()

		result, err := executor.Execute(outputter)
		if err != nil {
			outputter.SetError(err)

			return
		}

		outputter.SetCommandResult(result)
	}
}

type textOutput struct {
	result ICommandResult
	err    error
	writer io.Writer
}

var _ OutputFormatter = (*textOutput)(nil)

func (o *textOutput) SetError(err error) {
	o.err = err
}

func (o *textOutput) SetCommandResult(result ICommandResult) {
	o.result = result
}

func (o *textOutput) Write(p []byte) (int, error) {
	return o.writer.Write(p)
}

func (o *textOutput) WriteOutput() {
	if o.err != nil {
		_, _ = fmt.Fprintln(os.Stderr, o.err.Error())

		os.Exit(1)
	}

	if o.result != nil {
		_, _ = fmt.Fprintln(o.writer, o.result.GetOutput())
	}
}

// FormatKV aligns "key|value" rows for CLI output.
func FormatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "

	return columnize.Format(in, columnConf)
}

func FormatList(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"

	return columnize.Format(in, columnConf)
}
