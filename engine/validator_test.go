package engine

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"

	"github.com/DeluxeRaph/bera-reth/bera"
	"github.com/DeluxeRaph/bera-reth/bera/genesis"
	"github.com/DeluxeRaph/bera-reth/evmcore"
	"github.com/DeluxeRaph/bera-reth/inter"
	"github.com/DeluxeRaph/bera-reth/inter/validatorpk"
)

func u64ptr(v uint64) *uint64 {
	return &v
}

// testSpec builds a chain spec with the upstream forks active from genesis
// and Prague1 at the given timestamp.
func testSpec(t *testing.T, prague1Time uint64, mutate ...func(*genesis.Config)) *bera.ChainSpec {
	t.Helper()
	zero := big.NewInt(0)
	cfg := &genesis.Config{}
	cfg.ChainID = big.NewInt(4003)
	cfg.HomesteadBlock = zero
	cfg.EIP150Block = zero
	cfg.EIP155Block = zero
	cfg.EIP158Block = zero
	cfg.ByzantiumBlock = zero
	cfg.ConstantinopleBlock = zero
	cfg.PetersburgBlock = zero
	cfg.IstanbulBlock = zero
	cfg.BerlinBlock = zero
	cfg.LondonBlock = zero
	cfg.TerminalTotalDifficulty = zero
	cfg.MergeNetsplitBlock = zero
	cfg.ShanghaiTime = u64ptr(0)
	cfg.CancunTime = u64ptr(0)
	cfg.PragueTime = u64ptr(0)

	p1 := genesis.DefaultPrague1Config()
	p1.Time = prague1Time
	cfg.Berachain = &genesis.BerachainConfig{Prague1: p1}

	for _, m := range mutate {
		m(cfg)
	}
	spec, err := bera.FromGenesis(cfg)
	require.NoError(t, err)
	return spec
}

func testPubkey(t *testing.T) *validatorpk.PubKey {
	t.Helper()
	raw := make([]byte, validatorpk.Size)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	pk, err := validatorpk.FromBytes(raw)
	require.NoError(t, err)
	return &pk
}

func signedLegacyTx(t *testing.T) *inter.Transaction {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	to := common.HexToAddress("0xEE")
	eth, err := types.SignNewTx(key, types.LatestSignerForChainID(big.NewInt(4003)), &types.LegacyTx{
		Nonce: 0, GasPrice: big.NewInt(params.GWei), Gas: 21_000, To: &to,
		Value: big.NewInt(1),
	})
	require.NoError(t, err)
	return inter.NewEthTransaction(eth)
}

func derivedPol(t *testing.T, spec *bera.ChainSpec, number uint64) *inter.Transaction {
	t.Helper()
	pol, err := spec.PolTransaction(testPubkey(t).Bytes(), number, big.NewInt(params.GWei))
	require.NoError(t, err)
	return inter.NewPolTransaction(pol)
}

// makePayload assembles a structurally complete payload plus sidecar for a
// chain with Shanghai, Cancun and Prague active, then stamps the matching
// block hash on it.
func makePayload(t *testing.T, v *Validator, number, time uint64, txs inter.Transactions, pubkey *validatorpk.PubKey) (*ExecutionPayload, *PayloadSidecar) {
	t.Helper()

	encoded := make([]hexutil.Bytes, len(txs))
	for i, tx := range txs {
		enc, err := tx.MarshalBinary()
		require.NoError(t, err)
		encoded[i] = enc
	}

	blobGas := hexutil.Uint64(0)
	excess := hexutil.Uint64(0)
	payload := &ExecutionPayload{
		ParentHash:    common.HexToHash("0x0A"),
		FeeRecipient:  common.HexToAddress("0xC0"),
		StateRoot:     common.HexToHash("0x01"),
		ReceiptsRoot:  common.HexToHash("0x02"),
		LogsBloom:     make(hexutil.Bytes, types.BloomByteLength),
		PrevRandao:    common.HexToHash("0x03"),
		Number:        hexutil.Uint64(number),
		GasLimit:      30_000_000,
		GasUsed:       0,
		Timestamp:     hexutil.Uint64(time),
		BaseFeePerGas: (*hexutil.Big)(big.NewInt(params.GWei)),
		Transactions:  encoded,
		Withdrawals:   types.Withdrawals{},
		BlobGasUsed:   &blobGas,
		ExcessBlobGas: &excess,
	}
	beaconRoot := common.HexToHash("0x0B")
	sidecar := &PayloadSidecar{
		Cancun:               &CancunFields{ParentBeaconBlockRoot: &beaconRoot},
		Prague:               &PragueFields{Requests: []hexutil.Bytes{}},
		ParentProposerPubkey: pubkey,
	}

	block, err := v.parsePayload(payload, sidecar)
	require.NoError(t, err)
	payload.BlockHash = block.Hash()
	return payload, sidecar
}

func TestEnsureWellFormedPayloadValid(t *testing.T) {
	require := require.New(t)

	spec := testSpec(t, 1000)
	v := NewValidator(spec)

	eth := signedLegacyTx(t)
	payload, sidecar := makePayload(t, v, 5, 1001,
		inter.Transactions{derivedPol(t, spec, 5), eth}, testPubkey(t))

	block, err := v.EnsureWellFormedPayload(payload, sidecar)
	require.NoError(err)
	require.Equal(payload.BlockHash, block.Hash())
	require.Len(block.Senders, 2)
	require.Equal(inter.PolTxSender, block.Senders[0])

	expectedFrom, err := eth.Sender(types.LatestSignerForChainID(spec.ChainID))
	require.NoError(err)
	require.Equal(expectedFrom, block.Senders[1])
}

func TestEnsureWellFormedPayloadPreFork(t *testing.T) {
	spec := testSpec(t, 1000)
	v := NewValidator(spec)

	payload, sidecar := makePayload(t, v, 5, 999,
		inter.Transactions{signedLegacyTx(t)}, nil)

	_, err := v.EnsureWellFormedPayload(payload, sidecar)
	require.NoError(t, err)
}

func TestEnsureWellFormedPayloadBlockHashMismatch(t *testing.T) {
	spec := testSpec(t, 1000)
	v := NewValidator(spec)

	payload, sidecar := makePayload(t, v, 5, 1001,
		inter.Transactions{derivedPol(t, spec, 5)}, testPubkey(t))
	payload.BlockHash = common.HexToHash("0xDEAD")

	_, err := v.EnsureWellFormedPayload(payload, sidecar)
	var hashErr *BlockHashMismatchError
	require.ErrorAs(t, err, &hashErr)
	require.Equal(t, common.HexToHash("0xDEAD"), hashErr.Expected)
}

func TestEnsureWellFormedPayloadBadTransaction(t *testing.T) {
	spec := testSpec(t, 1000)
	v := NewValidator(spec)

	payload, sidecar := makePayload(t, v, 5, 1001,
		inter.Transactions{derivedPol(t, spec, 5)}, testPubkey(t))
	payload.Transactions = []hexutil.Bytes{{0x03, 0xFF}} // truncated blob envelope

	_, err := v.EnsureWellFormedPayload(payload, sidecar)
	require.ErrorContains(t, err, "transaction 0")
}

func TestForkFieldPresence(t *testing.T) {
	spec := testSpec(t, 1000)
	v := NewValidator(spec)
	pol := derivedPol(t, spec, 5)

	rebuild := func(t *testing.T, corrupt func(p *ExecutionPayload, s *PayloadSidecar)) error {
		payload, sidecar := makePayload(t, v, 5, 1001, inter.Transactions{pol}, testPubkey(t))
		corrupt(payload, sidecar)
		// re-stamp the hash so only the structural check can fail
		block, err := v.parsePayload(payload, sidecar)
		require.NoError(t, err)
		payload.BlockHash = block.Hash()
		_, err = v.EnsureWellFormedPayload(payload, sidecar)
		return err
	}

	t.Run("withdrawals missing", func(t *testing.T) {
		err := rebuild(t, func(p *ExecutionPayload, s *PayloadSidecar) {
			p.Withdrawals = nil
		})
		require.ErrorContains(t, err, "withdrawals missing")
	})
	t.Run("blob gas missing", func(t *testing.T) {
		err := rebuild(t, func(p *ExecutionPayload, s *PayloadSidecar) {
			p.BlobGasUsed = nil
		})
		require.ErrorContains(t, err, "blob gas fields missing")
	})
	t.Run("beacon root missing", func(t *testing.T) {
		err := rebuild(t, func(p *ExecutionPayload, s *PayloadSidecar) {
			s.Cancun = nil
		})
		require.ErrorContains(t, err, "parent beacon block root missing")
	})
	t.Run("requests missing", func(t *testing.T) {
		err := rebuild(t, func(p *ExecutionPayload, s *PayloadSidecar) {
			s.Prague = nil
		})
		require.ErrorContains(t, err, "execution requests missing")
	})
	t.Run("pubkey missing post-fork", func(t *testing.T) {
		err := rebuild(t, func(p *ExecutionPayload, s *PayloadSidecar) {
			s.ParentProposerPubkey = nil
		})
		require.ErrorIs(t, err, evmcore.ErrMissingProposerPubkey)
	})
	t.Run("pubkey present pre-fork", func(t *testing.T) {
		err := rebuild(t, func(p *ExecutionPayload, s *PayloadSidecar) {
			p.Timestamp = 999
			p.Transactions = nil
		})
		require.ErrorIs(t, err, evmcore.ErrProposerPubkeyNotAllowed)
	})
}

// The payload path injects the header pubkey from the sidecar, so a mismatch
// is only reachable on a hand-built block.
func TestForkFieldsPubkeyMismatch(t *testing.T) {
	spec := testSpec(t, 1000)
	v := NewValidator(spec)

	payload, sidecar := makePayload(t, v, 5, 1001,
		inter.Transactions{derivedPol(t, spec, 5)}, testPubkey(t))
	block, err := v.parsePayload(payload, sidecar)
	require.NoError(t, err)

	other := validatorpk.PubKey{}
	block.Header.PrevProposerPubkey = &other
	err = v.validateForkFields(block, sidecar)
	require.ErrorContains(t, err, "proposer pubkey differs")
}

func TestPolShape(t *testing.T) {
	spec := testSpec(t, 1000)
	v := NewValidator(spec)
	pubkey := testPubkey(t)

	check := func(t *testing.T, time uint64, txs inter.Transactions, pk *validatorpk.PubKey) error {
		payload, sidecar := makePayload(t, v, 5, time, txs, pk)
		_, err := v.EnsureWellFormedPayload(payload, sidecar)
		return err
	}

	t.Run("empty post-fork", func(t *testing.T) {
		err := check(t, 1001, nil, pubkey)
		require.ErrorIs(t, err, ErrMissingPolTransaction)
	})
	t.Run("first tx not pol", func(t *testing.T) {
		err := check(t, 1001, inter.Transactions{signedLegacyTx(t)}, pubkey)
		require.ErrorIs(t, err, ErrMissingPolTransaction)
	})
	t.Run("wrong pol hash", func(t *testing.T) {
		// PoL derived for a different block number
		err := check(t, 1001, inter.Transactions{derivedPol(t, spec, 6)}, pubkey)
		var hashErr *evmcore.PolTransactionHashMismatchError
		require.ErrorAs(t, err, &hashErr)
	})
	t.Run("second pol", func(t *testing.T) {
		err := check(t, 1001, inter.Transactions{
			derivedPol(t, spec, 5), derivedPol(t, spec, 5),
		}, pubkey)
		var idxErr *evmcore.PolTransactionInvalidIndexError
		require.ErrorAs(t, err, &idxErr)
		require.Equal(t, 1, idxErr.Actual)
	})
	t.Run("pol pre-fork", func(t *testing.T) {
		err := check(t, 999, inter.Transactions{derivedPol(t, spec, 5)}, nil)
		require.ErrorIs(t, err, evmcore.ErrPolTransactionBeforePrague1)
	})
}

func TestValidateVersionSpecificFields(t *testing.T) {
	// staged forks so every version has a valid window
	spec := testSpec(t, 300, func(cfg *genesis.Config) {
		cfg.ShanghaiTime = u64ptr(100)
		cfg.CancunTime = u64ptr(200)
		cfg.PragueTime = u64ptr(300)
	})
	v := NewValidator(spec)

	beaconRoot := common.HexToHash("0x0B")
	withdrawals := types.Withdrawals{}

	cases := []struct {
		name    string
		version Version
		fields  VersionedFields
		errSub  string
	}{
		{"v1 ok", V1, VersionedFields{Timestamp: 50}, ""},
		{"v1 withdrawals", V1, VersionedFields{Timestamp: 50, Withdrawals: withdrawals}, "withdrawals not supported"},
		{"v1 post-shanghai", V1, VersionedFields{Timestamp: 150}, "V1 used post-shanghai"},
		{"v2 ok", V2, VersionedFields{Timestamp: 150, Withdrawals: withdrawals}, ""},
		{"v2 pre-shanghai ok", V2, VersionedFields{Timestamp: 50}, ""},
		{"v2 missing withdrawals", V2, VersionedFields{Timestamp: 150}, "withdrawals missing"},
		{"v2 early withdrawals", V2, VersionedFields{Timestamp: 50, Withdrawals: withdrawals}, "withdrawals present pre-shanghai"},
		{"v2 beacon root", V2, VersionedFields{Timestamp: 150, Withdrawals: withdrawals, ParentBeaconBlockRoot: &beaconRoot}, "parent beacon block root not supported"},
		{"v2 post-cancun", V2, VersionedFields{Timestamp: 250, Withdrawals: withdrawals}, "V2 used post-cancun"},
		{"v3 ok", V3, VersionedFields{Timestamp: 250, Withdrawals: withdrawals, ParentBeaconBlockRoot: &beaconRoot}, ""},
		{"v3 pre-cancun", V3, VersionedFields{Timestamp: 150, Withdrawals: withdrawals}, "V3+ used pre-cancun"},
		{"v3 missing beacon root", V3, VersionedFields{Timestamp: 250, Withdrawals: withdrawals}, "parent beacon block root missing"},
		{"v4 ok", V4, VersionedFields{Timestamp: 350, Withdrawals: withdrawals, ParentBeaconBlockRoot: &beaconRoot}, ""},
		{"v4 pre-prague", V4, VersionedFields{Timestamp: 250, Withdrawals: withdrawals, ParentBeaconBlockRoot: &beaconRoot}, "V4 used pre-prague"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateVersionSpecificFields(tc.version, tc.fields)
			if tc.errSub == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tc.errSub)
			}
		})
	}

	require.ErrorIs(t, v.ValidateVersionSpecificFields(Version(9), VersionedFields{}), errUnsupportedVersion)
}

func TestNextBlockBaseFee(t *testing.T) {
	spec := testSpec(t, 0)
	v := NewValidator(spec)

	parent := &inter.Header{
		Number:   big.NewInt(1),
		GasLimit: 30_000_000,
		GasUsed:  0,
		Time:     10,
		BaseFee:  big.NewInt(params.GWei),
	}
	require.Equal(t, spec.NextBaseFee(parent, 12), v.NextBlockBaseFee(parent, 12))
}
