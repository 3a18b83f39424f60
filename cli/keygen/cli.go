// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package keygen

import (
	"github.com/spf13/cobra"
)

// KeygenCLI groups commands managing the secp256k1 keys verifiers sign
// inbound batches with.
var KeygenCLI = &cobra.Command{
	Use:     "keygen",
	Aliases: []string{"keys"},
	Short:   "Verifier key generation",
	Long:    "Generate the keys verifiers use to sign crossFromCKB batches",
}

func init() {
	KeygenCLI.AddCommand(generateKeyCMD)
}
