package evmcore

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrMissingProposerPubkey marks a post-Prague1 block whose header or
	// sidecar carries no proposer pubkey.
	ErrMissingProposerPubkey = errors.New("missing proposer pubkey")

	// ErrProposerPubkeyNotAllowed marks a pre-Prague1 block that carries a
	// proposer pubkey.
	ErrProposerPubkeyNotAllowed = errors.New("proposer pubkey not allowed before prague1")

	// ErrPolTransactionBeforePrague1 marks a PoL transaction in a block
	// whose timestamp predates the fork.
	ErrPolTransactionBeforePrague1 = errors.New("pol transaction before prague1")
)

// PolTransactionInvalidIndexError reports a PoL transaction anywhere but
// position zero.
type PolTransactionInvalidIndexError struct {
	Expected int
	Actual   int
}

func (e *PolTransactionInvalidIndexError) Error() string {
	return fmt.Sprintf("pol transaction at index %d, must be at %d", e.Actual, e.Expected)
}

// PolTransactionHashMismatchError reports a block whose first transaction is
// not the canonical PoL transaction for that block.
type PolTransactionHashMismatchError struct {
	Expected common.Hash
	Received common.Hash
}

func (e *PolTransactionHashMismatchError) Error() string {
	return fmt.Sprintf("pol transaction hash mismatch: expected %s, received %s",
		e.Expected, e.Received)
}

// BlockGasLimitExceededError reports a transaction whose gas limit does not
// fit the block's remaining gas.
type BlockGasLimitExceededError struct {
	TxGas        uint64
	RemainingGas uint64
}

func (e *BlockGasLimitExceededError) Error() string {
	return fmt.Sprintf("transaction gas limit %d exceeds remaining block gas %d",
		e.TxGas, e.RemainingGas)
}
