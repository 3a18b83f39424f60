// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Domain is the EIP-712 domain verifiers sign inbound batches under.
type Domain struct {
	Name              string
	Version           string
	ChainID           int64
	VerifyingContract common.Address
}

func (d Domain) typedData(records []CKBToAxonRecord, nonce uint64) apitypes.TypedData {
	formattedRecords := make([]interface{}, len(records))
	for i, r := range records {
		formattedRecords[i] = map[string]interface{}{
			"to":           r.To.Hex(),
			"tokenAddress": r.TokenAddress.Hex(),
			"sUDTAmount":   (*math.HexOrDecimal256)(r.sudtAmount().ToBig()),
			"CKBAmount":    (*math.HexOrDecimal256)(r.ckbAmount().ToBig()),
			"txHash":       hexutil.Encode(r.TxHash[:]),
			"retry":        (*math.HexOrDecimal256)(new(big.Int).SetUint64(uint64(r.Retry))),
		}
	}

	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"CKBToAxonRecord": []apitypes.Type{
				{Name: "to", Type: "address"},
				{Name: "tokenAddress", Type: "address"},
				{Name: "sUDTAmount", Type: "uint256"},
				{Name: "CKBAmount", Type: "uint256"},
				{Name: "txHash", Type: "bytes32"},
				{Name: "retry", Type: "uint8"},
			},
			"CrossFromCKB": []apitypes.Type{
				{Name: "records", Type: "CKBToAxonRecord[]"},
				{Name: "nonce", Type: "uint256"},
			},
		},
		PrimaryType: "CrossFromCKB",
		Domain: apitypes.TypedDataDomain{
			Name:              d.Name,
			Version:           d.Version,
			ChainId:           math.NewHexOrDecimal256(d.ChainID),
			VerifyingContract: d.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"records": formattedRecords,
			"nonce":   (*math.HexOrDecimal256)(new(big.Int).SetUint64(nonce)),
		},
	}
}

// BatchHashParts returns the domain separator and the struct hash of an
// inbound batch.
func (d Domain) BatchHashParts(records []CKBToAxonRecord, nonce uint64) ([]byte, []byte, error) {
	typedData := d.typedData(records, nonce)

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, nil, err
	}
	structHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, nil, err
	}
	return domainSeparator, structHash, nil
}

// BatchHash returns the digest verifiers sign for an inbound batch.
func (d Domain) BatchHash(records []CKBToAxonRecord, nonce uint64) ([]byte, error) {
	domainSeparator, structHash, err := d.BatchHashParts(records, nonce)
	if err != nil {
		return nil, err
	}
	return typedDataDigest(domainSeparator, structHash), nil
}

// SignBatch signs the batch digest, returning a 65 byte signature with
// V in {27, 28}.
func (d Domain) SignBatch(records []CKBToAxonRecord, nonce uint64, key *ecdsa.PrivateKey) ([]byte, error) {
	digest, err := d.BatchHash(records, nonce)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(digest, key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// RecoverSigner returns the address that produced signature over the
// typed data identified by domainSeparator and structHash.
func RecoverSigner(domainSeparator, structHash, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(signature))
	}

	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	if sig[crypto.RecoveryIDOffset] > 1 {
		return common.Address{}, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, sig[crypto.RecoveryIDOffset])
	}

	pub, err := crypto.SigToPub(typedDataDigest(domainSeparator, structHash), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

func typedDataDigest(domainSeparator, structHash []byte) []byte {
	rawData := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(structHash)))
	return crypto.Keccak256(rawData)
}
