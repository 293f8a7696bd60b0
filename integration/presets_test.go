package integration

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeluxeRaph/bera-reth/bera"
	"github.com/DeluxeRaph/bera-reth/bera/genesis"
)

func TestMakeChainSpec(t *testing.T) {
	require := require.New(t)

	spec, err := MakeChainSpec("mainnet")
	require.NoError(err)
	require.Equal(big.NewInt(MainnetChainID), spec.ChainID)
	require.Equal(uint64(MainnetPrague1Time), spec.Prague1Params.Time)
	require.Equal(depositContract, spec.DepositContract)
	require.False(spec.IsPrague1ActiveAtTimestamp(MainnetPrague1Time-1))
	require.True(spec.IsPrague1ActiveAtTimestamp(MainnetPrague1Time))

	spec, err = MakeChainSpec("bepolia")
	require.NoError(err)
	require.Equal(big.NewInt(BepoliaChainID), spec.ChainID)
	require.Equal(uint64(BepoliaPrague1Time), spec.Prague1Params.Time)

	spec, err = MakeChainSpec("fake")
	require.NoError(err)
	require.Equal(big.NewInt(FakeChainID), spec.ChainID)
	require.True(spec.IsPrague1ActiveAtTimestamp(0), "fake chain forks from genesis")

	_, err = MakeChainSpec("devnet")
	require.ErrorContains(err, "unknown preset")
}

// The public networks launched post-merge from block zero, so every upstream
// fork must be live immediately.
func TestPresetForksActiveFromGenesis(t *testing.T) {
	for _, name := range []string{"mainnet", "bepolia", "fake"} {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			spec, err := MakeChainSpec(name)
			require.NoError(err)
			require.True(spec.IsLondonActiveAtBlock(0))
			require.True(spec.IsParisActiveAtBlock(0))
			require.True(spec.IsShanghaiActiveAtTimestamp(0))
			require.True(spec.IsCancunActiveAtTimestamp(0))
			require.True(spec.IsPragueActiveAtTimestamp(0))
		})
	}
}

func TestPresetPrague1Params(t *testing.T) {
	require := require.New(t)

	for _, cfg := range []*genesis.Config{MainnetConfig(), BepoliaConfig()} {
		p1 := cfg.Berachain.Prague1
		require.Equal(uint64(genesis.DefaultBaseFeeChangeDenominator), p1.BaseFeeChangeDenominator)
		require.Equal(uint64(genesis.DefaultMinimumBaseFeeWei), p1.MinimumBaseFeeWei)
		require.Equal(genesis.DefaultPolDistributorAddress, p1.PolDistributorAddress)
	}
}

func TestFakeConfigCustomForkTime(t *testing.T) {
	require := require.New(t)

	spec, err := bera.FromGenesis(FakeConfig(5000))
	require.NoError(err)
	require.False(spec.IsPrague1ActiveAtTimestamp(4999))
	require.True(spec.IsPrague1ActiveAtTimestamp(5000))
}
