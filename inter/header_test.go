package inter

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"

	"github.com/DeluxeRaph/bera-reth/inter/validatorpk"
)

func fullTestHeader(t *testing.T) *Header {
	t.Helper()
	pk, err := validatorpk.FromBytes(testPubkey())
	require.NoError(t, err)

	wRoot := common.HexToHash("0x11")
	bRoot := common.HexToHash("0x22")
	rHash := common.HexToHash("0x33")
	blobGas := uint64(131072)
	excess := uint64(0)

	return &Header{
		ParentHash:  common.HexToHash("0x01"),
		UncleHash:   types.EmptyUncleHash,
		Coinbase:    common.HexToAddress("0x02"),
		Root:        common.HexToHash("0x03"),
		TxHash:      common.HexToHash("0x04"),
		ReceiptHash: common.HexToHash("0x05"),
		Difficulty:  big.NewInt(0),
		Number:      big.NewInt(7),
		GasLimit:    30_000_000,
		GasUsed:     21_000,
		Time:        1754920801,
		Extra:       []byte("bera"),
		MixDigest:   common.HexToHash("0x06"),

		BaseFee:            big.NewInt(1e9),
		WithdrawalsRoot:    &wRoot,
		BlobGasUsed:        &blobGas,
		ExcessBlobGas:      &excess,
		ParentBeaconRoot:   &bRoot,
		RequestsHash:       &rHash,
		PrevProposerPubkey: &pk,
	}
}

func TestHeaderRLPRoundTrip(t *testing.T) {
	require := require.New(t)
	h := fullTestHeader(t)

	enc, err := rlp.EncodeToBytes(h)
	require.NoError(err)

	var decoded Header
	require.NoError(rlp.DecodeBytes(enc, &decoded))
	require.Equal(h.Hash(), decoded.Hash())
	require.NotNil(decoded.PrevProposerPubkey)
	require.Equal(*h.PrevProposerPubkey, *decoded.PrevProposerPubkey)
	require.Equal(h.BaseFee, decoded.BaseFee)
	require.Equal(h.RequestsHash, decoded.RequestsHash)
}

// Without the pubkey extension the header is wire- and hash-compatible with
// the upstream type.
func TestHeaderHashMatchesUpstreamWithoutPubkey(t *testing.T) {
	require := require.New(t)

	h := fullTestHeader(t)
	h.PrevProposerPubkey = nil
	require.Equal(h.EthHeader().Hash(), h.Hash())

	// an upstream encoding decodes with a nil pubkey
	enc, err := rlp.EncodeToBytes(h.EthHeader())
	require.NoError(err)
	var decoded Header
	require.NoError(rlp.DecodeBytes(enc, &decoded))
	require.Nil(decoded.PrevProposerPubkey)
	require.Equal(h.Hash(), decoded.Hash())
}

func TestHeaderHashIncludesPubkey(t *testing.T) {
	require := require.New(t)

	with := fullTestHeader(t)
	without := fullTestHeader(t)
	without.PrevProposerPubkey = nil

	require.NotEqual(with.Hash(), without.Hash())
	require.NotEqual(with.Hash(), with.EthHeader().Hash(), "EthHeader drops the pubkey")
}

func TestHeaderCopy(t *testing.T) {
	require := require.New(t)

	h := fullTestHeader(t)
	origHash := h.Hash()

	cpy := h.Copy()
	require.Equal(origHash, cpy.Hash())

	cpy.Number = big.NewInt(8)
	cpy2 := cpy.Copy()
	require.NotEqual(origHash, cpy2.Hash(), "copy does not inherit the cached hash")
	require.Equal(big.NewInt(7), h.Number)

	cpy.BaseFee.SetInt64(5)
	require.Equal(big.NewInt(1e9), h.BaseFee, "deep copy of big ints")
}

func TestHeaderNumberU64(t *testing.T) {
	require.Equal(t, uint64(0), (&Header{}).NumberU64())
	require.Equal(t, uint64(42), (&Header{Number: big.NewInt(42)}).NumberU64())
}
