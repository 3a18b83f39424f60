// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package sign

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/axonweb3/axon-bridge/bridge"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var SignCMD = &cobra.Command{
	Use:   "sign",
	Short: "Sign an inbound batch as a verifier",
	Long:  "Reads a batch of CKB records and prints the verifier signature over its typed data digest. The private key is read from the terminal.",
	RunE:  signCmd,
}

var (
	BatchPath         string
	DomainName        string
	DomainVersion     string
	ChainID           int64
	VerifyingContract string
)

func init() {
	SignCMD.Flags().StringVar(&BatchPath, "batch", "", "path to JSON file with records and nonce")
	SignCMD.Flags().StringVar(&DomainName, "domain-name", "Axon", "typed data domain name")
	SignCMD.Flags().StringVar(&DomainVersion, "domain-version", "1", "typed data domain version")
	SignCMD.Flags().Int64Var(&ChainID, "chain-id", 2022, "typed data domain chain id")
	SignCMD.Flags().StringVar(&VerifyingContract, "verifying-contract", "", "bridge address the signature is bound to")
	_ = SignCMD.MarkFlagRequired("batch")
	_ = SignCMD.MarkFlagRequired("verifying-contract")
}

// Batch is the file format accepted by the sign command.
type Batch struct {
	Records []bridge.CKBToAxonRecord `json:"records"`
	Nonce   uint64                   `json:"nonce"`
}

func signCmd(cmd *cobra.Command, args []string) error {
	if !common.IsHexAddress(VerifyingContract) {
		return fmt.Errorf("invalid verifying contract %s", VerifyingContract)
	}
	rawBatch, err := os.ReadFile(BatchPath)
	if err != nil {
		return err
	}

	fmt.Print("Verifier private key: ")
	rawKey, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	domain := bridge.Domain{
		Name:              DomainName,
		Version:           DomainVersion,
		ChainID:           ChainID,
		VerifyingContract: common.HexToAddress(VerifyingContract),
	}
	signer, signature, err := SignBatch(domain, rawBatch, string(rawKey))
	if err != nil {
		return err
	}

	fmt.Printf("Signer: %s\n", signer.Hex())
	fmt.Printf("Signature: %s\n", hexutil.Encode(signature))
	return nil
}

// SignBatch signs the JSON encoded batch with the hex encoded private key.
func SignBatch(domain bridge.Domain, rawBatch []byte, hexKey string) (common.Address, []byte, error) {
	var batch Batch
	if err := json.Unmarshal(rawBatch, &batch); err != nil {
		return common.Address{}, nil, fmt.Errorf("invalid batch: %w", err)
	}
	if len(batch.Records) == 0 {
		return common.Address{}, nil, fmt.Errorf("batch has no records")
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("invalid private key: %w", err)
	}

	signature, err := domain.SignBatch(batch.Records, batch.Nonce, key)
	if err != nil {
		return common.Address{}, nil, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), signature, nil
}
