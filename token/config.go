// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package token

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/mitchellh/mapstructure"
)

type Kind string

const (
	NativeKind Kind = "native"
	WCKBKind   Kind = "wckb"
	MirrorKind Kind = "mirror"
	ERC20Kind  Kind = "erc20"
)

// Config describes a token deployed at node start together with its
// bridge configuration and genesis balances.
type Config struct {
	Kind      Kind
	Address   common.Address
	Name      string
	Symbol    string
	Decimals  uint8
	Fee       *uint256.Int
	Threshold *uint256.Int
	TypeHash  common.Hash
	Whitelist bool
	Balances  map[common.Address]*uint256.Int
}

type RawConfig struct {
	Kind      string            `mapstructure:"kind" default:"erc20"`
	Address   string            `mapstructure:"address"`
	Name      string            `mapstructure:"name"`
	Symbol    string            `mapstructure:"symbol"`
	Decimals  uint8             `mapstructure:"decimals" default:"18"`
	Fee       string            `mapstructure:"fee" default:"0"`
	Threshold string            `mapstructure:"threshold" default:"0"`
	TypeHash  string            `mapstructure:"typeHash"`
	Whitelist bool              `mapstructure:"whitelist"`
	Balances  map[string]string `mapstructure:"balances"`
}

func (c *RawConfig) Validate() error {
	switch Kind(c.Kind) {
	case NativeKind:
		return nil
	case WCKBKind, MirrorKind, ERC20Kind:
	default:
		return fmt.Errorf("unknown token kind %s", c.Kind)
	}
	if !common.IsHexAddress(c.Address) {
		return fmt.Errorf("invalid address %s for token %s", c.Address, c.Symbol)
	}
	if common.HexToAddress(c.Address) == NativeAddress {
		return fmt.Errorf("token %s can not use the native address", c.Symbol)
	}
	if c.Symbol == "" {
		return fmt.Errorf("required field token.Symbol empty for token %s", c.Address)
	}
	return nil
}

// NewConfig decodes and validates an instance of a token Config from
// raw token config
func NewConfig(tokenConfig map[string]interface{}) (*Config, error) {
	var c RawConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &c,
	})
	if err != nil {
		return nil, err
	}
	err = decoder.Decode(tokenConfig)
	if err != nil {
		return nil, err
	}

	err = defaults.Set(&c)
	if err != nil {
		return nil, err
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	fee, err := uint256.FromDecimal(c.Fee)
	if err != nil {
		return nil, fmt.Errorf("invalid fee %s: %w", c.Fee, err)
	}
	threshold, err := uint256.FromDecimal(c.Threshold)
	if err != nil {
		return nil, fmt.Errorf("invalid threshold %s: %w", c.Threshold, err)
	}

	balances := make(map[common.Address]*uint256.Int, len(c.Balances))
	for holder, raw := range c.Balances {
		if !common.IsHexAddress(holder) {
			return nil, fmt.Errorf("invalid balance holder %s", holder)
		}
		amount, err := uint256.FromDecimal(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid balance %s for %s: %w", raw, holder, err)
		}
		balances[common.HexToAddress(holder)] = amount
	}

	config := &Config{
		Kind:      Kind(c.Kind),
		Name:      c.Name,
		Symbol:    c.Symbol,
		Decimals:  c.Decimals,
		Fee:       fee,
		Threshold: threshold,
		Whitelist: c.Whitelist,
		Balances:  balances,
	}
	if config.Kind != NativeKind {
		config.Address = common.HexToAddress(c.Address)
	}
	if c.TypeHash != "" {
		config.TypeHash = common.HexToHash(c.TypeHash)
	}
	if config.Symbol == "" {
		config.Symbol = "AT"
	}
	if config.Name == "" {
		config.Name = config.Symbol
	}
	return config, nil
}
