package inter

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/stretchr/testify/require"
)

func TestCalcTransactionsRoot(t *testing.T) {
	require := require.New(t)

	key, err := crypto.GenerateKey()
	require.NoError(err)
	signer := types.LatestSignerForChainID(big.NewInt(80094))

	eth, err := types.SignNewTx(key, signer, &types.DynamicFeeTx{
		ChainID:   big.NewInt(80094),
		Nonce:     0,
		GasTipCap: big.NewInt(1e9),
		GasFeeCap: big.NewInt(2e9),
		Gas:       21_000,
		To:        &testTo,
		Value:     big.NewInt(1),
	})
	require.NoError(err)

	// Ethereum-only lists derive the same root as upstream.
	txs := Transactions{NewEthTransaction(eth)}
	require.Equal(
		types.DeriveSha(types.Transactions{eth}, trie.NewStackTrie(nil)),
		CalcTransactionsRoot(txs),
	)

	// The PoL transaction changes the root through its wire encoding.
	withPol := Transactions{NewPolTransaction(newTestPolTx(t, 10)), NewEthTransaction(eth)}
	require.NotEqual(CalcTransactionsRoot(txs), CalcTransactionsRoot(withPol))
	require.Equal(CalcTransactionsRoot(withPol), CalcTransactionsRoot(withPol))
}

func TestCalcWithdrawalsRoot(t *testing.T) {
	ws := types.Withdrawals{{Index: 0, Validator: 1, Address: testTo, Amount: 100}}
	require.Equal(t,
		types.DeriveSha(ws, trie.NewStackTrie(nil)),
		CalcWithdrawalsRoot(ws),
	)
}

func TestRecoverBlock(t *testing.T) {
	require := require.New(t)

	key, err := crypto.GenerateKey()
	require.NoError(err)
	signer := types.LatestSignerForChainID(big.NewInt(80094))
	from := crypto.PubkeyToAddress(key.PublicKey)

	eth, err := types.SignNewTx(key, signer, &types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1e9),
		Gas:      21_000,
		To:       &testTo,
		Value:    big.NewInt(1),
	})
	require.NoError(err)

	block := &Block{
		Header: &Header{Number: big.NewInt(10)},
		Body: Body{Transactions: Transactions{
			NewPolTransaction(newTestPolTx(t, 10)),
			NewEthTransaction(eth),
		}},
	}

	recovered, err := RecoverBlock(block, signer)
	require.NoError(err)
	require.Len(recovered.Senders, 2)
	require.Equal(PolTxSender, recovered.Senders[0])
	require.Equal(from, recovered.Senders[1])
}
