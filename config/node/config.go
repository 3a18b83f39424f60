package node

import (
	"fmt"
	"strconv"
	"time"

	"github.com/axonweb3/axon-bridge/bridge"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

type NodeConfig struct {
	OpenTelemetryCollectorURL string
	MetricsInterval           time.Duration
	LogLevel                  zerolog.Level
	LogFile                   string
	Env                       string
	Id                        string
	RPCPort                   uint16
	HealthPort                uint16
	DBPath                    string
	LimitReportInterval       time.Duration
	BridgeConfig              bridge.Config
}

type RawNodeConfig struct {
	OpenTelemetryCollectorURL string          `mapstructure:"OpenTelemetryCollectorURL" json:"opentelemetryCollectorURL"`
	MetricsInterval           string          `mapstructure:"MetricsInterval" json:"metricsInterval" default:"10s"`
	LogLevel                  string          `mapstructure:"LogLevel" json:"logLevel" default:"info"`
	LogFile                   string          `mapstructure:"LogFile" json:"logFile" default:"out.log"`
	Env                       string          `mapstructure:"Env" json:"env"`
	Id                        string          `mapstructure:"Id" json:"id"`
	RPCPort                   string          `mapstructure:"RPCPort" json:"rpcPort" default:"8545"`
	HealthPort                string          `mapstructure:"HealthPort" json:"healthPort" default:"9001"`
	DBPath                    string          `mapstructure:"DBPath" json:"dbPath" default:"lvldbdata"`
	LimitReportInterval       string          `mapstructure:"LimitReportInterval" json:"limitReportInterval" default:"1m"`
	BridgeConfig              RawBridgeConfig `mapstructure:"BridgeConfig" json:"bridgeConfig"`
}

type RawBridgeConfig struct {
	Address string          `mapstructure:"Address" json:"address"`
	Admin   string          `mapstructure:"Admin" json:"admin"`
	Quorum  string          `mapstructure:"Quorum" json:"quorum" default:"1"`
	WCKB    string          `mapstructure:"WCKB" json:"wckb"`
	WCKBMin string          `mapstructure:"WCKBMin" json:"wckbMin" default:"0"`
	Domain  RawDomainConfig `mapstructure:"Domain" json:"domain"`
}

type RawDomainConfig struct {
	Name              string `mapstructure:"Name" json:"name" default:"Axon"`
	Version           string `mapstructure:"Version" json:"version" default:"1"`
	ChainID           string `mapstructure:"ChainID" json:"chainId" default:"2022"`
	VerifyingContract string `mapstructure:"VerifyingContract" json:"verifyingContract"`
}

func (c *RawNodeConfig) Validate() error {
	if !common.IsHexAddress(c.BridgeConfig.Address) {
		return fmt.Errorf("invalid bridge address: %s", c.BridgeConfig.Address)
	}
	if !common.IsHexAddress(c.BridgeConfig.Admin) {
		return fmt.Errorf("invalid bridge admin: %s", c.BridgeConfig.Admin)
	}
	if c.BridgeConfig.WCKB != "" && !common.IsHexAddress(c.BridgeConfig.WCKB) {
		return fmt.Errorf("invalid wckb address: %s", c.BridgeConfig.WCKB)
	}
	if c.BridgeConfig.Domain.VerifyingContract != "" && !common.IsHexAddress(c.BridgeConfig.Domain.VerifyingContract) {
		return fmt.Errorf("invalid verifying contract: %s", c.BridgeConfig.Domain.VerifyingContract)
	}
	return nil
}

// NewNodeConfig parses RawNodeConfig into NodeConfig
func NewNodeConfig(rawConfig RawNodeConfig) (NodeConfig, error) {
	config := NodeConfig{}
	err := rawConfig.Validate()
	if err != nil {
		return config, err
	}

	logLevel, err := zerolog.ParseLevel(rawConfig.LogLevel)
	if err != nil {
		return config, fmt.Errorf("unknown log level: %s", rawConfig.LogLevel)
	}
	config.LogLevel = logLevel
	config.LogFile = rawConfig.LogFile
	config.OpenTelemetryCollectorURL = rawConfig.OpenTelemetryCollectorURL
	config.Env = rawConfig.Env
	config.Id = rawConfig.Id
	config.DBPath = rawConfig.DBPath

	rpcPort, err := strconv.ParseUint(rawConfig.RPCPort, 10, 16)
	if err != nil {
		return config, fmt.Errorf("unable to parse rpc port: %w", err)
	}
	config.RPCPort = uint16(rpcPort)

	healthPort, err := strconv.ParseUint(rawConfig.HealthPort, 10, 16)
	if err != nil {
		return config, fmt.Errorf("unable to parse health port: %w", err)
	}
	config.HealthPort = uint16(healthPort)

	metricsInterval, err := time.ParseDuration(rawConfig.MetricsInterval)
	if err != nil {
		return config, fmt.Errorf("unable to parse metrics interval: %w", err)
	}
	config.MetricsInterval = metricsInterval

	limitReportInterval, err := time.ParseDuration(rawConfig.LimitReportInterval)
	if err != nil {
		return config, fmt.Errorf("unable to parse limit report interval: %w", err)
	}
	config.LimitReportInterval = limitReportInterval

	bridgeConfig, err := newBridgeConfig(rawConfig.BridgeConfig)
	if err != nil {
		return config, err
	}
	config.BridgeConfig = bridgeConfig

	return config, nil
}

func newBridgeConfig(raw RawBridgeConfig) (bridge.Config, error) {
	quorum, err := strconv.Atoi(raw.Quorum)
	if err != nil {
		return bridge.Config{}, fmt.Errorf("unable to parse quorum: %w", err)
	}
	if quorum < 1 {
		return bridge.Config{}, fmt.Errorf("quorum has to be >=1")
	}

	wckbMin, err := uint256.FromDecimal(raw.WCKBMin)
	if err != nil {
		return bridge.Config{}, fmt.Errorf("unable to parse wckb min: %w", err)
	}

	chainID, err := strconv.ParseInt(raw.Domain.ChainID, 10, 64)
	if err != nil {
		return bridge.Config{}, fmt.Errorf("unable to parse domain chain id: %w", err)
	}

	address := common.HexToAddress(raw.Address)
	verifyingContract := address
	if raw.Domain.VerifyingContract != "" {
		verifyingContract = common.HexToAddress(raw.Domain.VerifyingContract)
	}

	var wckb common.Address
	if raw.WCKB != "" {
		wckb = common.HexToAddress(raw.WCKB)
	}

	return bridge.Config{
		Address: address,
		Admin:   common.HexToAddress(raw.Admin),
		Quorum:  quorum,
		Domain: bridge.Domain{
			Name:              raw.Domain.Name,
			Version:           raw.Domain.Version,
			ChainID:           chainID,
			VerifyingContract: verifyingContract,
		},
		WCKB:    wckb,
		WCKBMin: wckbMin,
	}, nil
}
