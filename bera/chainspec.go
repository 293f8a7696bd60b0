package bera

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"

	"github.com/DeluxeRaph/bera-reth/bera/genesis"
	"github.com/DeluxeRaph/bera-reth/inter"
)

// BaseFeeParams are the EIP-1559 update parameters in force at some point of
// the schedule.
type BaseFeeParams struct {
	ChangeDenominator    uint64
	ElasticityMultiplier uint64
}

// LondonBaseFeeParams are the stock EIP-1559 parameters.
var LondonBaseFeeParams = BaseFeeParams{
	ChangeDenominator:    params.DefaultBaseFeeChangeDenominator,
	ElasticityMultiplier: params.DefaultElasticityMultiplier,
}

// ChainSpec is the assembled, immutable description of a chain: identity,
// ordered hardfork schedule, base-fee policy and the Prague1 parameters.
// It is built once from genesis and passed by pointer; it is never mutated
// afterwards.
type ChainSpec struct {
	ChainID *big.Int

	// DepositContract is the EIP-6110 deposit contract whose logs are
	// turned into requests.
	DepositContract common.Address
	// DAOForkSupport mirrors the genesis daoForkSupport flag.
	DAOForkSupport bool

	// Prague1 holds the chain-specific fork parameters (activation time is
	// duplicated in the schedule).
	Prague1Params genesis.Prague1Config

	forks []scheduledFork
	index map[Hardfork]ForkCondition

	// constantBaseFeeParams is set when Prague1 is active from genesis;
	// the params then never change over the chain's lifetime.
	constantBaseFeeParams *BaseFeeParams
}

// Condition returns the activation condition of a fork, Never if unscheduled.
func (s *ChainSpec) Condition(fork Hardfork) ForkCondition {
	if c, ok := s.index[fork]; ok {
		return c
	}
	return NeverCondition()
}

// IsActiveAtBlock reports whether a block-scheduled fork is active at the
// given block number.
func (s *ChainSpec) IsActiveAtBlock(fork Hardfork, number uint64) bool {
	return s.Condition(fork).ActiveAtBlock(number)
}

// IsActiveAtTimestamp reports whether a time-scheduled fork is active at the
// given timestamp.
func (s *ChainSpec) IsActiveAtTimestamp(fork Hardfork, time uint64) bool {
	return s.Condition(fork).ActiveAtTimestamp(time)
}

func (s *ChainSpec) IsHomesteadActiveAtBlock(n uint64) bool {
	return s.IsActiveAtBlock(Homestead, n)
}

func (s *ChainSpec) IsSpuriousDragonActiveAtBlock(n uint64) bool {
	return s.IsActiveAtBlock(SpuriousDragon, n)
}

func (s *ChainSpec) IsLondonActiveAtBlock(n uint64) bool {
	return s.IsActiveAtBlock(London, n)
}

func (s *ChainSpec) IsParisActiveAtBlock(n uint64) bool {
	return s.IsActiveAtBlock(Paris, n)
}

func (s *ChainSpec) IsShanghaiActiveAtTimestamp(t uint64) bool {
	return s.IsActiveAtTimestamp(Shanghai, t)
}

func (s *ChainSpec) IsCancunActiveAtTimestamp(t uint64) bool {
	return s.IsActiveAtTimestamp(Cancun, t)
}

func (s *ChainSpec) IsPragueActiveAtTimestamp(t uint64) bool {
	return s.IsActiveAtTimestamp(Prague, t)
}

func (s *ChainSpec) IsOsakaActiveAtTimestamp(t uint64) bool {
	return s.IsActiveAtTimestamp(Osaka, t)
}

// IsPrague1ActiveAtTimestamp reports whether the Prague1 rules (minimum base
// fee, mandatory PoL transaction) are in force at the given timestamp.
func (s *ChainSpec) IsPrague1ActiveAtTimestamp(t uint64) bool {
	return s.IsActiveAtTimestamp(Prague1, t)
}

// DAOTransitionsAtBlock reports whether the DAO irregular state change applies
// exactly at the given block.
func (s *ChainSpec) DAOTransitionsAtBlock(n uint64) bool {
	return s.DAOForkSupport && s.Condition(Dao).TransitionsAtBlock(n)
}

// Forks returns the ordered schedule for display.
func (s *ChainSpec) Forks() []Hardfork {
	out := make([]Hardfork, len(s.forks))
	for i, f := range s.forks {
		out[i] = f.fork
	}
	return out
}

// BaseFeeParamsAt resolves the EIP-1559 parameters in force at a timestamp.
// With Prague1 active from genesis the params are constant; otherwise they
// switch from the London params to the Prague1 denominator at the fork.
func (s *ChainSpec) BaseFeeParamsAt(time uint64) BaseFeeParams {
	if s.constantBaseFeeParams != nil {
		return *s.constantBaseFeeParams
	}
	if s.IsPrague1ActiveAtTimestamp(time) {
		return BaseFeeParams{
			ChangeDenominator:    s.Prague1Params.BaseFeeChangeDenominator,
			ElasticityMultiplier: LondonBaseFeeParams.ElasticityMultiplier,
		}
	}
	return LondonBaseFeeParams
}

// NextBaseFee computes the base fee of the block built on parent: the
// EIP-1559 update with the params resolved at the PARENT's timestamp, clamped
// to the minimum once Prague1 is active at the PARENT's timestamp. Evaluating
// the fork at the parent keeps both the denominator switch and the floor one
// block behind the boundary, which minimizes the fork diff across clients.
// The child timestamp is accepted for signature symmetry and ignored.
func (s *ChainSpec) NextBaseFee(parent *inter.Header, _ uint64) *big.Int {
	if parent.BaseFee == nil {
		// The parent predates London; the first 1559 block starts at the
		// initial base fee.
		return big.NewInt(params.InitialBaseFee)
	}
	p := s.BaseFeeParamsAt(parent.Time)
	next := calcBaseFee(parent, p)
	if s.IsPrague1ActiveAtTimestamp(parent.Time) {
		min := new(big.Int).SetUint64(s.Prague1Params.MinimumBaseFeeWei)
		if next.Cmp(min) < 0 {
			next = min
		}
	}
	return next
}

// calcBaseFee is the EIP-1559 update formula with configurable params.
func calcBaseFee(parent *inter.Header, p BaseFeeParams) *big.Int {
	parentGasTarget := parent.GasLimit / p.ElasticityMultiplier
	if parent.GasUsed == parentGasTarget {
		return new(big.Int).Set(parent.BaseFee)
	}

	var (
		num   = new(big.Int)
		denom = new(big.Int)
	)
	if parent.GasUsed > parentGasTarget {
		num.SetUint64(parent.GasUsed - parentGasTarget)
		num.Mul(num, parent.BaseFee)
		num.Div(num, denom.SetUint64(parentGasTarget))
		num.Div(num, denom.SetUint64(p.ChangeDenominator))
		if num.Cmp(common.Big1) < 0 {
			num.Set(common.Big1)
		}
		return num.Add(parent.BaseFee, num)
	}

	num.SetUint64(parentGasTarget - parent.GasUsed)
	num.Mul(num, parent.BaseFee)
	num.Div(num, denom.SetUint64(parentGasTarget))
	num.Div(num, denom.SetUint64(p.ChangeDenominator))
	num.Sub(parent.BaseFee, num)
	if num.Sign() < 0 {
		num.SetInt64(0)
	}
	return num
}

// PolTransaction builds the canonical PoL distribution transaction for a
// block of this chain. All executions and validations derive the transaction
// through this single path.
func (s *ChainSpec) PolTransaction(pubkey []byte, blockNumber uint64, baseFee *big.Int) (*inter.PolTx, error) {
	return inter.NewPolTx(s.ChainID, s.Prague1Params.PolDistributorAddress, pubkey, blockNumber, baseFee)
}

// FromGenesis assembles a ChainSpec from a parsed genesis config. It is
// strict: a missing Berachain extension or an inconsistent schedule is an
// error, never silently defaulted.
func FromGenesis(cfg *genesis.Config) (*ChainSpec, error) {
	if cfg.Berachain == nil {
		return nil, errors.New("chainspec: genesis has no berachain config")
	}
	return fromGenesis(cfg, *cfg.Berachain)
}

// FromGenesisWithDefaults assembles a ChainSpec, substituting default Prague1
// parameters (with a logged warning) when the genesis has no extension. Meant
// for dev and test chains only.
func FromGenesisWithDefaults(cfg *genesis.Config) (*ChainSpec, error) {
	return fromGenesis(cfg, cfg.BerachainOrDefault())
}

// MustFromGenesis is FromGenesis for statically-known-good configs.
func MustFromGenesis(cfg *genesis.Config) *ChainSpec {
	s, err := FromGenesis(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func fromGenesis(cfg *genesis.Config, ext genesis.BerachainConfig) (*ChainSpec, error) {
	if cfg.ChainID == nil {
		return nil, errors.New("chainspec: genesis has no chainId")
	}

	var forks []scheduledFork
	addBlock := func(f Hardfork, n *big.Int) {
		if n != nil {
			forks = append(forks, scheduledFork{f, BlockCondition(n.Uint64())})
		}
	}
	addTime := func(f Hardfork, t *uint64) {
		if t != nil {
			forks = append(forks, scheduledFork{f, TimestampCondition(*t)})
		}
	}

	forks = append(forks, scheduledFork{Frontier, BlockCondition(0)})
	addBlock(Homestead, cfg.HomesteadBlock)
	addBlock(Dao, cfg.DAOForkBlock)
	addBlock(Tangerine, cfg.EIP150Block)
	addBlock(SpuriousDragon, cfg.EIP158Block)
	addBlock(Byzantium, cfg.ByzantiumBlock)
	addBlock(Constantinople, cfg.ConstantinopleBlock)
	addBlock(Petersburg, cfg.PetersburgBlock)
	addBlock(Istanbul, cfg.IstanbulBlock)
	addBlock(MuirGlacier, cfg.MuirGlacierBlock)
	addBlock(Berlin, cfg.BerlinBlock)
	addBlock(London, cfg.LondonBlock)
	addBlock(ArrowGlacier, cfg.ArrowGlacierBlock)
	addBlock(GrayGlacier, cfg.GrayGlacierBlock)

	if ttd := cfg.TerminalTotalDifficulty; ttd != nil {
		var activation uint64
		var forkBlock *uint64
		if cfg.MergeNetsplitBlock != nil {
			activation = cfg.MergeNetsplitBlock.Uint64()
			forkBlock = &activation
		}
		forks = append(forks, scheduledFork{Paris, TTDCondition(activation, ttd, forkBlock)})
	}

	addTime(Shanghai, cfg.ShanghaiTime)
	addTime(Cancun, cfg.CancunTime)
	addTime(Prague, cfg.PragueTime)
	addTime(Osaka, cfg.OsakaTime)
	forks = append(forks, scheduledFork{Prague1, TimestampCondition(ext.Prague1.Time)})

	forks = orderForks(forks)

	index := make(map[Hardfork]ForkCondition, len(forks))
	for _, f := range forks {
		index[f.fork] = f.condition
	}

	// The base-fee floor extends EIP-1559, and the PoL transaction's gas
	// price is the block base fee. Neither is meaningful without London.
	if _, ok := index[London]; !ok {
		return nil, errors.New("chainspec: prague1 requires london to be scheduled")
	}
	// Prague1 builds on the Prague request/system-call surface.
	if prague, ok := index[Prague]; !ok {
		return nil, errors.New("chainspec: prague1 requires prague to be scheduled")
	} else if ext.Prague1.Time < prague.Time {
		return nil, fmt.Errorf("chainspec: prague1 time %d precedes prague time %d",
			ext.Prague1.Time, prague.Time)
	}

	s := &ChainSpec{
		ChainID:         new(big.Int).Set(cfg.ChainID),
		DepositContract: cfg.DepositContractAddress,
		DAOForkSupport:  cfg.DAOForkSupport,
		Prague1Params:   ext.Prague1,
		forks:           forks,
		index:           index,
	}
	if ext.Prague1.Time == 0 {
		s.constantBaseFeeParams = &BaseFeeParams{
			ChangeDenominator:    ext.Prague1.BaseFeeChangeDenominator,
			ElasticityMultiplier: LondonBaseFeeParams.ElasticityMultiplier,
		}
	}
	return s, nil
}
