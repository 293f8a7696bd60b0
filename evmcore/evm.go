// Package evmcore executes blocks against a host EVM and state engine. The
// executor owns the chain-specific rules around execution: system calls, the
// PoL distribution transaction, request collection and post-block balance
// changes. The EVM itself is behind narrow interfaces supplied by the host.
package evmcore

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/DeluxeRaph/bera-reth/inter"
	"github.com/DeluxeRaph/bera-reth/inter/validatorpk"
)

// ExecutionResult is the outcome of one EVM transaction or system call.
type ExecutionResult struct {
	// Succeeded is false when execution reverted or ran out of gas. A
	// failed result is still a valid block member; the failure lands in
	// the receipt status.
	Succeeded  bool
	GasUsed    uint64
	Logs       []*types.Log
	ReturnData []byte
}

// EVM runs transactions against the host's pending state.
type EVM interface {
	// Transact executes an ordinary transaction from the given sender.
	// An error means the transaction could not be applied at all (as
	// opposed to applied-and-reverted) and fails the whole block.
	Transact(tx *inter.Transaction, sender common.Address) (*ExecutionResult, error)

	// TransactSystemCall executes a protocol-level call. It bypasses
	// nonce and balance checks and consumes none of the block's gas.
	TransactSystemCall(from, to common.Address, input []byte) (*ExecutionResult, error)
}

// StateDB is the mutable state under execution.
type StateDB interface {
	// Commit merges the pending writes of the last execution into the
	// block's state.
	Commit()

	GetBalance(addr common.Address) *uint256.Int
	AddBalance(addr common.Address, amount *uint256.Int)
	SetBalance(addr common.Address, amount *uint256.Int)

	// SetStateClearingEnabled toggles EIP-161 empty-account deletion.
	SetStateClearingEnabled(enabled bool)
}

// BlockExecutionCtx is the part of the block environment that does not live
// in the header under construction.
type BlockExecutionCtx struct {
	ParentHash         common.Hash
	ParentBeaconRoot   *common.Hash
	PrevProposerPubkey *validatorpk.PubKey
	Withdrawals        types.Withdrawals
}

// BlockExecutionResult is what Finish returns to the caller assembling the
// sealed block.
type BlockExecutionResult struct {
	Receipts inter.Receipts
	// Requests are the EIP-7685 request lists (type byte prefixed),
	// empty lists omitted. Nil before Prague.
	Requests [][]byte
	GasUsed  uint64
}
