// Package integration bundles named chain presets so the launcher and tests
// can assemble a chain spec without carrying genesis files around.
package integration

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/DeluxeRaph/bera-reth/bera"
	"github.com/DeluxeRaph/bera-reth/bera/genesis"
)

// Network chain IDs.
const (
	MainnetChainID = 80094
	BepoliaChainID = 80069
	FakeChainID    = 4003
)

// Prague1 activation timestamps of the public networks.
const (
	MainnetPrague1Time = 1754920800
	BepoliaPrague1Time = 1749056400
)

// depositContract is the beacon deposit contract shared by the public
// networks.
var depositContract = common.HexToAddress("0x4242424242424242424242424242424242424242")

func zero() *big.Int { return new(big.Int) }

func uint64p(v uint64) *uint64 { return &v }

// baseConfig returns a genesis config with every upstream fork active from
// genesis, which is how the public networks launched (post-merge from block
// zero).
func baseConfig(chainID int64) *genesis.Config {
	cfg := &genesis.Config{}
	cfg.ChainID = big.NewInt(chainID)
	cfg.HomesteadBlock = zero()
	cfg.EIP150Block = zero()
	cfg.EIP155Block = zero()
	cfg.EIP158Block = zero()
	cfg.ByzantiumBlock = zero()
	cfg.ConstantinopleBlock = zero()
	cfg.PetersburgBlock = zero()
	cfg.IstanbulBlock = zero()
	cfg.MuirGlacierBlock = zero()
	cfg.BerlinBlock = zero()
	cfg.LondonBlock = zero()
	cfg.ArrowGlacierBlock = zero()
	cfg.GrayGlacierBlock = zero()
	cfg.TerminalTotalDifficulty = zero()
	cfg.ShanghaiTime = uint64p(0)
	cfg.CancunTime = uint64p(0)
	cfg.PragueTime = uint64p(0)
	cfg.DepositContractAddress = depositContract
	return cfg
}

// MainnetConfig is the Berachain mainnet genesis configuration.
func MainnetConfig() *genesis.Config {
	cfg := baseConfig(MainnetChainID)
	cfg.Berachain = &genesis.BerachainConfig{
		Prague1: genesis.Prague1Config{
			Time:                     MainnetPrague1Time,
			BaseFeeChangeDenominator: genesis.DefaultBaseFeeChangeDenominator,
			MinimumBaseFeeWei:        genesis.DefaultMinimumBaseFeeWei,
			PolDistributorAddress:    genesis.DefaultPolDistributorAddress,
		},
	}
	return cfg
}

// BepoliaConfig is the Bepolia testnet genesis configuration.
func BepoliaConfig() *genesis.Config {
	cfg := baseConfig(BepoliaChainID)
	cfg.Berachain = &genesis.BerachainConfig{
		Prague1: genesis.Prague1Config{
			Time:                     BepoliaPrague1Time,
			BaseFeeChangeDenominator: genesis.DefaultBaseFeeChangeDenominator,
			MinimumBaseFeeWei:        genesis.DefaultMinimumBaseFeeWei,
			PolDistributorAddress:    genesis.DefaultPolDistributorAddress,
		},
	}
	return cfg
}

// FakeConfig is a throwaway dev chain with Prague1 active at the given
// timestamp (0 = from genesis, constant base-fee params).
func FakeConfig(prague1Time uint64) *genesis.Config {
	cfg := baseConfig(FakeChainID)
	p1 := genesis.DefaultPrague1Config()
	p1.Time = prague1Time
	cfg.Berachain = &genesis.BerachainConfig{Prague1: p1}
	return cfg
}

// MakeChainSpec assembles the chain spec of a named preset.
func MakeChainSpec(name string) (*bera.ChainSpec, error) {
	switch name {
	case "mainnet":
		return bera.FromGenesis(MainnetConfig())
	case "bepolia":
		return bera.FromGenesis(BepoliaConfig())
	case "fake":
		return bera.FromGenesis(FakeConfig(0))
	default:
		return nil, fmt.Errorf("unknown preset: %q (valid: mainnet, bepolia, fake)", name)
	}
}
