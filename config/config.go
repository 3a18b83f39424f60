// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/imdario/mergo"
	"github.com/spf13/viper"

	"github.com/axonweb3/axon-bridge/config/node"
)

type Config struct {
	NodeConfig   node.NodeConfig
	TokenConfigs []map[string]interface{}
	Checkpoints  []map[string]interface{}
}

type RawConfig struct {
	NodeConfig   node.RawNodeConfig       `mapstructure:"node" json:"node"`
	TokenConfigs []map[string]interface{} `mapstructure:"tokens" json:"tokens"`
	Checkpoints  []map[string]interface{} `mapstructure:"checkpoints" json:"checkpoints"`
}

// GetConfigFromENV reads config from Env variables, validates it and parses
// it into config suitable for application
//
// Properties of NodeConfig are expected to be defined as separate Env variables
// where Env variable name reflects properties position in structure. Each Env variable needs to be prefixed with AXB.
//
// For example, if you want to set Config.NodeConfig.BridgeConfig.Quorum this would
// translate to Env variable named AXB_NODE_BRIDGECONFIG_QUORUM.
//
// Token configs are read from AXB_TOKEN_1, AXB_TOKEN_2... as JSON objects and
// genesis checkpoints from AXB_CHECKPOINT_1...
func GetConfigFromENV(config *Config) (*Config, error) {
	rawConfig, err := loadFromEnv()
	if err != nil {
		return config, err
	}

	return processRawConfig(rawConfig, config)
}

// GetConfigFromFile reads config from file, validates it and parses
// it into config suitable for application
func GetConfigFromFile(path string, config *Config) (*Config, error) {
	rawConfig := RawConfig{}

	viper.SetConfigFile(path)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return config, err
	}

	err = viper.Unmarshal(&rawConfig)
	if err != nil {
		return config, err
	}

	return processRawConfig(rawConfig, config)
}

func processRawConfig(rawConfig RawConfig, config *Config) (*Config, error) {
	if err := defaults.Set(&rawConfig); err != nil {
		return config, err
	}

	nodeConfig, err := node.NewNodeConfig(rawConfig.NodeConfig)
	if err != nil {
		return config, err
	}

	if len(config.TokenConfigs) > len(rawConfig.TokenConfigs) {
		return config, fmt.Errorf("%d token overrides for %d configured tokens", len(config.TokenConfigs), len(rawConfig.TokenConfigs))
	}

	tokenConfigs := make([]map[string]interface{}, 0)
	for i, tokenConfig := range rawConfig.TokenConfigs {
		if i < len(config.TokenConfigs) {
			err := mergo.Merge(&tokenConfig, config.TokenConfigs[i])
			if err != nil {
				return config, err
			}
		}

		if tokenConfig["symbol"] == "" || tokenConfig["symbol"] == nil {
			return config, fmt.Errorf("token 'symbol' must be provided for every configured token")
		}
		tokenConfigs = append(tokenConfigs, tokenConfig)
	}

	config.TokenConfigs = tokenConfigs
	config.Checkpoints = rawConfig.Checkpoints
	config.NodeConfig = nodeConfig
	return config, nil
}
