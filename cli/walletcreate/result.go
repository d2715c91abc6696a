package cliwalletcreate

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/Euraxluo/move-bridge/common"
)

type CmdResult struct {
	seed           []byte
	publicKey      ed25519.PublicKey
	showPrivateKey bool
}

var _ common.ICommandResult = (*CmdResult)(nil)

func (r CmdResult) GetOutput() string {
	var (
		buffer bytes.Buffer
		vals   []string
	)

	if r.showPrivateKey {
		vals = append(vals, fmt.Sprintf("Signing Key Seed|%s", common.EncodeHex(r.seed)))
	}

	vals = append(vals, fmt.Sprintf("Public Key|%s", common.EncodeHex(r.publicKey)))

	buffer.WriteString("\n[Authenticator Wallet Created]\n")
	buffer.WriteString(common.FormatKV(vals))
	buffer.WriteString("\n")

	return buffer.String()
}
