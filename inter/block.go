package inter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/trie"
)

// Body holds the variable part of a block. Ommers are carried for structural
// compatibility and are always empty post-merge.
type Body struct {
	Transactions Transactions
	Ommers       []*Header
	Withdrawals  types.Withdrawals
}

// Block is a sealed header plus its body.
type Block struct {
	Header *Header
	Body   Body
}

// Hash returns the header hash.
func (b *Block) Hash() common.Hash {
	return b.Header.Hash()
}

// NumberU64 returns the block number.
func (b *Block) NumberU64() uint64 {
	return b.Header.NumberU64()
}

// Transactions returns the block's transaction list.
func (b *Block) Transactions() Transactions {
	return b.Body.Transactions
}

// CalcTransactionsRoot derives the transactions trie root over the wire
// encodings.
func CalcTransactionsRoot(txs Transactions) common.Hash {
	return types.DeriveSha(txs, trie.NewStackTrie(nil))
}

// CalcWithdrawalsRoot derives the withdrawals trie root.
func CalcWithdrawalsRoot(ws types.Withdrawals) common.Hash {
	return types.DeriveSha(ws, trie.NewStackTrie(nil))
}

// RecoveredBlock is a block whose transaction senders have been recovered,
// index-aligned with Body.Transactions.
type RecoveredBlock struct {
	Block
	Senders []common.Address
}

// RecoverBlock recovers all senders with the signer appropriate for the
// chain and block. It fails on the first transaction with an invalid
// signature.
func RecoverBlock(block *Block, signer types.Signer) (*RecoveredBlock, error) {
	senders := make([]common.Address, len(block.Body.Transactions))
	for i, tx := range block.Body.Transactions {
		from, err := tx.Sender(signer)
		if err != nil {
			return nil, err
		}
		senders[i] = from
	}
	return &RecoveredBlock{Block: *block, Senders: senders}, nil
}
