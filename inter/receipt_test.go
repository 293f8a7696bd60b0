package inter

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/DeluxeRaph/bera-reth/utils/cser"
)

func testReceipts() Receipts {
	return Receipts{
		{
			Type:              PolTxType,
			Status:            types.ReceiptStatusSuccessful,
			CumulativeGasUsed: 0,
			Logs: []*types.Log{{
				Address: common.HexToAddress("0x42"),
				Topics:  []common.Hash{common.HexToHash("0x01")},
				Data:    []byte{0x01, 0x02},
			}},
		},
		{
			Type:              types.LegacyTxType,
			Status:            types.ReceiptStatusSuccessful,
			CumulativeGasUsed: 21_000,
			Logs:              []*types.Log{},
		},
		{
			Type:              types.DynamicFeeTxType,
			Status:            types.ReceiptStatusFailed,
			CumulativeGasUsed: 63_000,
			Logs:              []*types.Log{},
		},
	}
}

func TestReceiptsGasUsed(t *testing.T) {
	require.Equal(t, uint64(0), Receipts{}.GasUsed())
	require.Equal(t, uint64(63_000), testReceipts().GasUsed())
}

func TestReceiptsEthConversion(t *testing.T) {
	require := require.New(t)

	rs := testReceipts()
	eth := rs.EthReceipts()
	require.Len(eth, len(rs))
	for i := range rs {
		require.Equal(rs[i].Type, eth[i].Type)
		require.Equal(rs[i].Status, eth[i].Status)
		require.Equal(rs[i].CumulativeGasUsed, eth[i].CumulativeGasUsed)
		require.Equal(rs[i].Logs, eth[i].Logs)
	}
	require.Equal(uint8(PolTxType), eth[0].Type, "PoL type byte survives conversion")
}

func TestReceiptCSERRoundTrip(t *testing.T) {
	for i, rec := range testReceipts() {
		raw, err := cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
			return ReceiptMarshalCSER(w, rec)
		})
		require.NoError(t, err, "receipt %d", i)

		var decoded *Receipt
		err = cser.UnmarshalBinaryAdapter(raw, func(r *cser.Reader) error {
			var err error
			decoded, err = ReceiptUnmarshalCSER(r)
			return err
		})
		require.NoError(t, err, "receipt %d", i)

		require.Equal(t, rec.Type, decoded.Type)
		require.Equal(t, rec.Status, decoded.Status)
		require.Equal(t, rec.CumulativeGasUsed, decoded.CumulativeGasUsed)
		require.Len(t, decoded.Logs, len(rec.Logs))
		for j := range rec.Logs {
			require.Equal(t, rec.Logs[j].Address, decoded.Logs[j].Address)
			require.Equal(t, rec.Logs[j].Topics, decoded.Logs[j].Topics)
			require.Equal(t, rec.Logs[j].Data, decoded.Logs[j].Data)
		}
	}
}
