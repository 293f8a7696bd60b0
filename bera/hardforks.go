// Package bera defines the chain specification for a Berachain execution
// layer: the hardfork schedule, the base-fee policy and the chain-wide
// constants consumed by block execution and payload validation.
//
// The package mirrors the upstream Ethereum fork set and adds the
// chain-specific Prague1 fork, which enforces a minimum base fee and makes
// the proof-of-liquidity distribution transaction mandatory in every block.
package bera

import (
	"math/big"
)

// Hardfork identifies a protocol rule set by name.
type Hardfork string

// Ethereum hardforks, in canonical mainnet order, plus the chain-specific
// Prague1 fork.
const (
	Frontier        Hardfork = "Frontier"
	Homestead       Hardfork = "Homestead"
	Dao             Hardfork = "DAO"
	Tangerine       Hardfork = "Tangerine"
	SpuriousDragon  Hardfork = "SpuriousDragon"
	Byzantium       Hardfork = "Byzantium"
	Constantinople  Hardfork = "Constantinople"
	Petersburg      Hardfork = "Petersburg"
	Istanbul        Hardfork = "Istanbul"
	MuirGlacier     Hardfork = "MuirGlacier"
	Berlin          Hardfork = "Berlin"
	London          Hardfork = "London"
	ArrowGlacier    Hardfork = "ArrowGlacier"
	GrayGlacier     Hardfork = "GrayGlacier"
	Paris           Hardfork = "Paris"
	Shanghai        Hardfork = "Shanghai"
	Cancun          Hardfork = "Cancun"
	Prague          Hardfork = "Prague"
	Osaka           Hardfork = "Osaka"

	// Prague1 enforces the 1 gwei minimum base fee and the mandatory PoL
	// distribution transaction (BRIP-0002/BRIP-0004).
	Prague1 Hardfork = "Prague1"
)

// mainnetForkOrder is the canonical relative order of the known forks.
// Schedules assembled from genesis keep this order for known forks and
// append unknown (chain-specific) forks after it.
var mainnetForkOrder = []Hardfork{
	Frontier, Homestead, Dao, Tangerine, SpuriousDragon, Byzantium,
	Constantinople, Petersburg, Istanbul, MuirGlacier, Berlin, London,
	ArrowGlacier, GrayGlacier, Paris, Shanghai, Cancun, Prague, Osaka,
}

// ConditionKind discriminates the ways a fork can be scheduled.
type ConditionKind uint8

const (
	// ConditionNever marks a fork that is not scheduled.
	ConditionNever ConditionKind = iota
	// ConditionBlock activates a fork at a block number.
	ConditionBlock
	// ConditionTimestamp activates a fork at a block timestamp.
	ConditionTimestamp
	// ConditionTTD activates a fork once the chain's total difficulty
	// passes a threshold (the merge transition).
	ConditionTTD
)

// ForkCondition describes when a hardfork activates.
type ForkCondition struct {
	Kind ConditionKind

	// Block is the activation block for ConditionBlock.
	Block uint64
	// Time is the activation timestamp for ConditionTimestamp.
	Time uint64

	// ActivationBlock and TotalDifficulty describe a ConditionTTD
	// transition. ForkBlock is the merge netsplit block if one was
	// configured.
	ActivationBlock uint64
	TotalDifficulty *big.Int
	ForkBlock       *uint64
}

// NeverCondition returns the unscheduled condition.
func NeverCondition() ForkCondition {
	return ForkCondition{Kind: ConditionNever}
}

// BlockCondition schedules a fork at the given block number.
func BlockCondition(n uint64) ForkCondition {
	return ForkCondition{Kind: ConditionBlock, Block: n}
}

// TimestampCondition schedules a fork at the given timestamp.
func TimestampCondition(t uint64) ForkCondition {
	return ForkCondition{Kind: ConditionTimestamp, Time: t}
}

// TTDCondition schedules the merge transition.
func TTDCondition(activationBlock uint64, ttd *big.Int, forkBlock *uint64) ForkCondition {
	return ForkCondition{
		Kind:            ConditionTTD,
		ActivationBlock: activationBlock,
		TotalDifficulty: new(big.Int).Set(ttd),
		ForkBlock:       forkBlock,
	}
}

// ActiveAtBlock reports whether the fork is active at the given block number.
// Timestamp-scheduled forks are never considered active by block number alone.
func (c ForkCondition) ActiveAtBlock(n uint64) bool {
	switch c.Kind {
	case ConditionBlock:
		return n >= c.Block
	case ConditionTTD:
		return n >= c.ActivationBlock
	default:
		return false
	}
}

// ActiveAtTimestamp reports whether the fork is active at the given timestamp.
// Block-scheduled forks do not answer by timestamp.
func (c ForkCondition) ActiveAtTimestamp(t uint64) bool {
	return c.Kind == ConditionTimestamp && t >= c.Time
}

// TransitionsAtBlock reports whether the fork activates exactly at block n.
// Used for one-shot irregular state changes (the DAO transition).
func (c ForkCondition) TransitionsAtBlock(n uint64) bool {
	return c.Kind == ConditionBlock && c.Block == n
}

// scheduledFork is one entry of an ordered hardfork schedule.
type scheduledFork struct {
	fork      Hardfork
	condition ForkCondition
}

// orderForks sorts a schedule into the canonical mainnet relative order,
// appending forks unknown to the canonical list (chain-specific ones) in
// their original relative order.
func orderForks(forks []scheduledFork) []scheduledFork {
	ordered := make([]scheduledFork, 0, len(forks))
	rest := make([]scheduledFork, len(forks))
	copy(rest, forks)

	for _, known := range mainnetForkOrder {
		for i, f := range rest {
			if f.fork == known {
				ordered = append(ordered, f)
				rest = append(rest[:i], rest[i+1:]...)
				break
			}
		}
	}
	// Chain-specific forks keep their insertion order after the known set.
	return append(ordered, rest...)
}
