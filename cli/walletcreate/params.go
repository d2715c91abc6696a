package cliwalletcreate

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/Euraxluo/move-bridge/common"
	"github.com/spf13/cobra"
)

const (
	showPrivateKeyFlag     = "show-pk"
	showPrivateKeyFlagDesc = "show signing key seed in output"
)

type walletCreateParams struct {
	showPrivateKey bool
}

func (ip *walletCreateParams) validateFlags() error {
	return nil
}

func (ip *walletCreateParams) setFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(
		&ip.showPrivateKey,
		showPrivateKeyFlag,
		false,
		showPrivateKeyFlagDesc,
	)
}

// Execute generates a fresh ed25519 keypair. The seed is what goes into the
// authenticator's signing_key config entry; nothing is written to disk.
func (ip *walletCreateParams) Execute(_ common.OutputFormatter) (common.ICommandResult, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("failed to generate signing key seed: %w", err)
	}

	privateKey := ed25519.NewKeyFromSeed(seed)

	return &CmdResult{
		seed:           seed,
		publicKey:      privateKey.Public().(ed25519.PublicKey),
		showPrivateKey: ip.showPrivateKey,
	}, nil
}
