package evmcore

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"

	"github.com/DeluxeRaph/bera-reth/bera"
	"github.com/DeluxeRaph/bera-reth/inter"
)

// EIP-7685 request type bytes.
const (
	depositRequestType       = 0x00
	withdrawalRequestType    = 0x01
	consolidationRequestType = 0x02
)

// Pre-merge static block rewards, kept for executing historical chains.
var (
	frontierBlockReward       = uint256.NewInt(5e18)
	byzantiumBlockReward      = uint256.NewInt(3e18)
	constantinopleBlockReward = uint256.NewInt(2e18)
)

// BlockExecutor drives one block through its three phases:
// ApplyPreExecutionChanges once, ExecuteTransaction per transaction in
// order, Finish once. A typed error from any phase invalidates the block;
// an EVM revert does not.
type BlockExecutor struct {
	spec   *bera.ChainSpec
	evm    EVM
	state  StateDB
	header *inter.Header
	ctx    BlockExecutionCtx

	receipts inter.Receipts
	gasUsed  uint64
	txIndex  int

	// polTx is the canonical PoL transaction derived in pre-execution,
	// nil before Prague1. The block's first transaction must hash-match it.
	polTx *inter.PolTx
}

// NewBlockExecutor prepares execution of the block described by header and
// ctx. The header carries the environment (number, timestamp, base fee, gas
// limit); execution outputs (roots, bloom, gas used) are left to the caller.
func NewBlockExecutor(spec *bera.ChainSpec, evm EVM, state StateDB, header *inter.Header, ctx BlockExecutionCtx) *BlockExecutor {
	return &BlockExecutor{
		spec:   spec,
		evm:    evm,
		state:  state,
		header: header,
		ctx:    ctx,
	}
}

// ApplyPreExecutionChanges runs everything that precedes the block's first
// ordinary transaction: the state-clear flag, the EIP-2935 and EIP-4788
// system calls, and (once Prague1 is active) the PoL distribution call
// with its zero-gas receipt.
func (e *BlockExecutor) ApplyPreExecutionChanges() error {
	number := e.header.NumberU64()
	time := e.header.Time

	e.state.SetStateClearingEnabled(e.spec.IsSpuriousDragonActiveAtBlock(number))

	if e.spec.IsPragueActiveAtTimestamp(time) && number > 0 {
		if _, err := e.evm.TransactSystemCall(params.SystemAddress, params.HistoryStorageAddress, e.ctx.ParentHash.Bytes()); err != nil {
			return fmt.Errorf("blockhashes system call: %w", err)
		}
		e.state.Commit()
	}
	if e.spec.IsCancunActiveAtTimestamp(time) && e.ctx.ParentBeaconRoot != nil {
		if _, err := e.evm.TransactSystemCall(params.SystemAddress, params.BeaconRootsAddress, e.ctx.ParentBeaconRoot.Bytes()); err != nil {
			return fmt.Errorf("beacon root system call: %w", err)
		}
		e.state.Commit()
	}

	prague1 := e.spec.IsPrague1ActiveAtTimestamp(time)
	if !prague1 {
		if e.ctx.PrevProposerPubkey != nil {
			return ErrProposerPubkeyNotAllowed
		}
		return nil
	}
	if e.ctx.PrevProposerPubkey == nil {
		return ErrMissingProposerPubkey
	}

	polTx, err := e.spec.PolTransaction(e.ctx.PrevProposerPubkey.Bytes(), number, e.header.BaseFee)
	if err != nil {
		return err
	}
	e.polTx = polTx

	res, err := e.evm.TransactSystemCall(polTx.From, polTx.To, polTx.Input)
	if err != nil {
		return fmt.Errorf("pol distribution system call: %w", err)
	}
	if !res.Succeeded {
		log.Warn("PoL distribution call reverted", "block", number, "to", polTx.To)
	}
	e.state.Commit()

	// The receipt sits at index 0 with zero cumulative gas: the call is
	// outside the block gas accounting.
	e.receipts = append(e.receipts, &inter.Receipt{
		Type:              inter.PolTxType,
		Status:            receiptStatus(res.Succeeded),
		CumulativeGasUsed: e.gasUsed,
		Logs:              res.Logs,
	})
	return nil
}

// ExecuteTransaction processes the next transaction of the block. The PoL
// kind is verified against the derived transaction and not re-executed; its
// receipt was produced in pre-execution. Ordinary kinds execute and commit.
func (e *BlockExecutor) ExecuteTransaction(tx *inter.Transaction, sender common.Address) (*inter.Receipt, error) {
	index := e.txIndex
	e.txIndex++

	if tx.IsPol() {
		if index != 0 {
			return nil, &PolTransactionInvalidIndexError{Expected: 0, Actual: index}
		}
		if e.polTx == nil {
			return nil, ErrPolTransactionBeforePrague1
		}
		if expected := e.polTx.Hash(); tx.Hash() != expected {
			return nil, &PolTransactionHashMismatchError{
				Expected: expected,
				Received: tx.Hash(),
			}
		}
		return e.receipts[0], nil
	}

	if remaining := e.header.GasLimit - e.gasUsed; tx.Gas() > remaining {
		return nil, &BlockGasLimitExceededError{TxGas: tx.Gas(), RemainingGas: remaining}
	}

	res, err := e.evm.Transact(tx, sender)
	if err != nil {
		return nil, fmt.Errorf("tx %d (%s): %w", index, tx.Hash(), err)
	}
	e.gasUsed += res.GasUsed

	receipt := &inter.Receipt{
		Type:              tx.Type(),
		Status:            receiptStatus(res.Succeeded),
		CumulativeGasUsed: e.gasUsed,
		Logs:              res.Logs,
	}
	e.receipts = append(e.receipts, receipt)
	e.state.Commit()
	return receipt, nil
}

// Finish applies everything that follows the last transaction: EIP-7685
// request collection, withdrawal and reward balance increments, and the DAO
// irregular state change at its transition block.
func (e *BlockExecutor) Finish() (*BlockExecutionResult, error) {
	number := e.header.NumberU64()
	time := e.header.Time

	var requests [][]byte
	if e.spec.IsPragueActiveAtTimestamp(time) {
		requests = make([][]byte, 0, 3)

		deposits, err := e.depositRequests()
		if err != nil {
			return nil, err
		}
		requests = appendRequest(requests, depositRequestType, deposits)

		withdrawalReqs, err := e.systemCallRequest(params.WithdrawalQueueAddress)
		if err != nil {
			return nil, fmt.Errorf("withdrawal requests system call: %w", err)
		}
		requests = appendRequest(requests, withdrawalRequestType, withdrawalReqs)

		consolidationReqs, err := e.systemCallRequest(params.ConsolidationQueueAddress)
		if err != nil {
			return nil, fmt.Errorf("consolidation requests system call: %w", err)
		}
		requests = appendRequest(requests, consolidationRequestType, consolidationReqs)
	}

	for _, w := range e.ctx.Withdrawals {
		amount := new(uint256.Int).SetUint64(w.Amount)
		amount.Mul(amount, uint256.NewInt(params.GWei))
		e.state.AddBalance(w.Address, amount)
	}

	if !e.spec.IsParisActiveAtBlock(number) {
		e.state.AddBalance(e.header.Coinbase, e.blockReward(number))
	}

	if e.spec.DAOTransitionsAtBlock(number) {
		e.applyDAOHardFork()
	}

	e.state.Commit()
	return &BlockExecutionResult{
		Receipts: e.receipts,
		Requests: requests,
		GasUsed:  e.gasUsed,
	}, nil
}

// depositRequests extracts EIP-6110 deposits from the deposit contract's
// logs, in receipt order.
func (e *BlockExecutor) depositRequests() ([]byte, error) {
	var out []byte
	for _, receipt := range e.receipts {
		for _, l := range receipt.Logs {
			if l.Address != e.spec.DepositContract {
				continue
			}
			req, err := types.DepositLogToRequest(l.Data)
			if err != nil {
				return nil, fmt.Errorf("invalid deposit log: %w", err)
			}
			out = append(out, req...)
		}
	}
	return out, nil
}

// systemCallRequest runs a request-draining system call and returns its raw
// return data.
func (e *BlockExecutor) systemCallRequest(to common.Address) ([]byte, error) {
	res, err := e.evm.TransactSystemCall(params.SystemAddress, to, nil)
	if err != nil {
		return nil, err
	}
	e.state.Commit()
	return res.ReturnData, nil
}

// appendRequest adds a type-prefixed request list, skipping empty ones as
// EIP-7685 requires.
func appendRequest(requests [][]byte, requestType byte, data []byte) [][]byte {
	if len(data) == 0 {
		return requests
	}
	return append(requests, append([]byte{requestType}, data...))
}

func (e *BlockExecutor) blockReward(number uint64) *uint256.Int {
	switch {
	case e.spec.IsActiveAtBlock(bera.Constantinople, number):
		return constantinopleBlockReward
	case e.spec.IsActiveAtBlock(bera.Byzantium, number):
		return byzantiumBlockReward
	default:
		return frontierBlockReward
	}
}

// applyDAOHardFork moves every drained balance to the refund contract.
func (e *BlockExecutor) applyDAOHardFork() {
	for _, addr := range params.DAODrainList() {
		balance := e.state.GetBalance(addr)
		e.state.AddBalance(params.DAORefundContract, balance)
		e.state.SetBalance(addr, uint256.NewInt(0))
	}
}

func receiptStatus(succeeded bool) uint64 {
	if succeeded {
		return types.ReceiptStatusSuccessful
	}
	return types.ReceiptStatusFailed
}
