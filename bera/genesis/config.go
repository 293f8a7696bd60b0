// Package genesis parses the chain's genesis configuration, including the
// Berachain extension block that schedules the Prague1 hardfork.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethparams "github.com/ethereum/go-ethereum/params"
	"github.com/sirupsen/logrus"
)

// Prague1 defaults, applied when the genesis omits the corresponding field.
const (
	DefaultBaseFeeChangeDenominator = 48
	DefaultMinimumBaseFeeWei        = ethparams.GWei
)

// DefaultPolDistributorAddress is the proof-of-liquidity distributor contract
// used when the genesis does not override it.
var DefaultPolDistributorAddress = common.HexToAddress("0x4200000000000000000000000000000000000042")

var errNoPrague1 = errors.New("berachain config: missing prague1 section")

// Prague1Config carries the Prague1 hardfork parameters from genesis.
type Prague1Config struct {
	// Time is the fork activation timestamp.
	Time uint64
	// BaseFeeChangeDenominator replaces the EIP-1559 denominator once the
	// fork is active.
	BaseFeeChangeDenominator uint64
	// MinimumBaseFeeWei is the floor the next-block base fee is clamped to.
	MinimumBaseFeeWei uint64
	// PolDistributorAddress receives the distributeFor call of every
	// post-fork block.
	PolDistributorAddress common.Address
}

// DefaultPrague1Config returns the Prague1 parameters with the fork active
// from genesis and every field at its default.
func DefaultPrague1Config() Prague1Config {
	return Prague1Config{
		Time:                     0,
		BaseFeeChangeDenominator: DefaultBaseFeeChangeDenominator,
		MinimumBaseFeeWei:        DefaultMinimumBaseFeeWei,
		PolDistributorAddress:    DefaultPolDistributorAddress,
	}
}

// BerachainConfig is the `berachain` extension object of the genesis chain
// config.
type BerachainConfig struct {
	Prague1 Prague1Config
}

type prague1JSON struct {
	Time                     *uint64         `json:"time"`
	BaseFeeChangeDenominator *uint64         `json:"baseFeeChangeDenominator"`
	MinimumBaseFeeWei        *uint64         `json:"minimumBaseFeeWei"`
	PolDistributorAddress    *common.Address `json:"polDistributorAddress"`
}

type berachainJSON struct {
	Prague1 *prague1JSON `json:"prague1"`
}

// UnmarshalJSON decodes the extension strictly: the prague1 section and its
// activation time are required, the remaining fields fall back to defaults.
func (c *BerachainConfig) UnmarshalJSON(data []byte) error {
	var raw berachainJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("berachain config: %w", err)
	}
	if raw.Prague1 == nil {
		return errNoPrague1
	}
	if raw.Prague1.Time == nil {
		return errors.New("berachain config: prague1.time is required")
	}

	cfg := DefaultPrague1Config()
	cfg.Time = *raw.Prague1.Time
	if raw.Prague1.BaseFeeChangeDenominator != nil {
		cfg.BaseFeeChangeDenominator = *raw.Prague1.BaseFeeChangeDenominator
	}
	if raw.Prague1.MinimumBaseFeeWei != nil {
		cfg.MinimumBaseFeeWei = *raw.Prague1.MinimumBaseFeeWei
	}
	if raw.Prague1.PolDistributorAddress != nil {
		cfg.PolDistributorAddress = *raw.Prague1.PolDistributorAddress
	}
	if cfg.BaseFeeChangeDenominator == 0 {
		return errors.New("berachain config: baseFeeChangeDenominator must be non-zero")
	}
	c.Prague1 = cfg
	return nil
}

// MarshalJSON encodes the extension in its genesis JSON form.
func (c BerachainConfig) MarshalJSON() ([]byte, error) {
	p := c.Prague1
	return json.Marshal(berachainJSON{Prague1: &prague1JSON{
		Time:                     &p.Time,
		BaseFeeChangeDenominator: &p.BaseFeeChangeDenominator,
		MinimumBaseFeeWei:        &p.MinimumBaseFeeWei,
		PolDistributorAddress:    &p.PolDistributorAddress,
	}})
}

// Config is the genesis chain configuration: the standard go-ethereum chain
// config plus the Berachain extension.
type Config struct {
	ethparams.ChainConfig
	Berachain *BerachainConfig `json:"berachain,omitempty"`
}

// ConfigFromJSON parses a chain config object. The Berachain extension is
// optional at this layer; chain spec assembly decides whether its absence is
// an error.
func ConfigFromJSON(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("genesis config: %w", err)
	}
	return &cfg, nil
}

// BerachainOrDefault returns the parsed extension, or the defaults with a
// logged warning when the genesis carries none. Only default-construction
// paths use this; explicit construction treats a missing extension as fatal.
func (c *Config) BerachainOrDefault() BerachainConfig {
	if c.Berachain != nil {
		return *c.Berachain
	}
	logrus.WithField("chainId", c.ChainID).
		Warn("genesis has no berachain config, using Prague1 defaults")
	return BerachainConfig{Prague1: DefaultPrague1Config()}
}
