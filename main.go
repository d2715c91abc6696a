package main

import (
	"github.com/Euraxluo/move-bridge/cli"
)

func main() {
	cli.NewRootCommand().Execute()
}
