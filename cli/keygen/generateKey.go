// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package keygen

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	generateKeyCMD = &cobra.Command{
		Use:   "gen-key",
		Short: "Generate a verifier key for signing inbound batches",
		Long:  "Generate a verifier key for signing inbound batches",
		RunE:  generateKey,
	}
)

func generateKey(cmd *cobra.Command, args []string) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return err
	}

	fmt.Printf("Address: %s\n", crypto.PubkeyToAddress(key.PublicKey).Hex())
	fmt.Printf("Private key: %s\n", hexutil.Encode(crypto.FromECDSA(key))[2:])
	return nil
}
