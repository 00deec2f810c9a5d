package main

import (
	"crypto/ecdsa"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/meverselabs/metamart/cmd/config"
	"github.com/meverselabs/metamart/contract/mynft"
	"github.com/meverselabs/metamart/core/accessor"
)

// environment keys overriding the config file
const (
	EnvPrivateKey = "METAMART_PRIVATE_KEY"
	EnvRPCURL     = "METAMART_RPC_URL"
)

// ContractConfig registers an extra contract by its abi file
type ContractConfig struct {
	Name    string `toml:"name" yaml:"name"`
	Address string `toml:"address" yaml:"address"`
	ABIFile string `toml:"abi_file" yaml:"abi_file"`
}

// Config is the configuration of the service
type Config struct {
	RPCURL           string           `toml:"rpc_url" yaml:"rpc_url"`
	ChainID          int64            `toml:"chain_id" yaml:"chain_id"`
	PrivateKey       string           `toml:"private_key" yaml:"private_key"`
	ContractAddress  string           `toml:"contract_address" yaml:"contract_address"`
	Contracts        []ContractConfig `toml:"contracts" yaml:"contracts"`
	BindAddress      string           `toml:"bind_address" yaml:"bind_address"`
	StoreDriver      string           `toml:"store_driver" yaml:"store_driver"`
	StorePath        string           `toml:"store_path" yaml:"store_path"`
	CacheTTL         string           `toml:"cache_ttl" yaml:"cache_ttl"`
	PollInterval     string           `toml:"poll_interval" yaml:"poll_interval"`
	RefreshAfterMint bool             `toml:"refresh_after_mint" yaml:"refresh_after_mint"`
	WaitMined        bool             `toml:"wait_mined" yaml:"wait_mined"`
	GasLimit         uint64           `toml:"gas_limit" yaml:"gas_limit"`
	LogLevel         string           `toml:"log_level" yaml:"log_level"`
	LogFile          string           `toml:"log_file" yaml:"log_file"`
}

// DefaultConfig returns the values used when the file leaves them empty
func DefaultConfig() *Config {
	return &Config{
		RPCURL:      "http://localhost:8545",
		BindAddress: ":3000",
		StoreDriver: "memory",
		CacheTTL:    "5s",
		LogLevel:    "info",
	}
}

// LoadConfig reads the file of the path over the defaults and applies the environment
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := config.LoadFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides the secrets by the environment
func (cfg *Config) ApplyEnv() {
	config.Override(&cfg.PrivateKey, EnvPrivateKey)
	config.Override(&cfg.RPCURL, EnvRPCURL)
}

// Key returns the signing key, nil when no key is configured
func (cfg *Config) Key() (*ecdsa.PrivateKey, error) {
	if cfg.PrivateKey == "" {
		return nil, nil
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "private_key")
	}
	return key, nil
}

// CacheDuration returns the parsed cache_ttl
func (cfg *Config) CacheDuration() (time.Duration, error) {
	return parseDuration(cfg.CacheTTL, "cache_ttl")
}

// PollDuration returns the parsed poll_interval
func (cfg *Config) PollDuration() (time.Duration, error) {
	return parseDuration(cfg.PollInterval, "poll_interval")
}

func parseDuration(v string, name string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrap(err, name)
	}
	return d, nil
}

// Registry registers MyNFT and the extra contracts
func (cfg *Config) Registry() (*accessor.Registry, error) {
	reg := accessor.NewRegistry()
	if cfg.ContractAddress == "" {
		return nil, errors.New("contract_address is required")
	}
	if _, err := reg.RegisterJSON(mynft.ContractName, cfg.ContractAddress, mynft.ABIJSON()); err != nil {
		return nil, err
	}
	for _, c := range cfg.Contracts {
		bs, err := os.ReadFile(c.ABIFile)
		if err != nil {
			return nil, errors.Wrap(err, c.Name)
		}
		if _, err := reg.RegisterJSON(c.Name, c.Address, string(bs)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
