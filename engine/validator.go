package engine

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/DeluxeRaph/bera-reth/bera"
	"github.com/DeluxeRaph/bera-reth/evmcore"
	"github.com/DeluxeRaph/bera-reth/inter"
)

// Validator checks untrusted payloads from the consensus client before they
// reach execution.
type Validator struct {
	spec *bera.ChainSpec
}

func NewValidator(spec *bera.ChainSpec) *Validator {
	return &Validator{spec: spec}
}

// EnsureWellFormedPayload turns a payload plus sidecar into a recovered
// block, or fails with a typed error. The order is deliberate: parse, block
// hash, fork-structural fields, PoL shape, and sender recovery last (it is
// the expensive step, so everything cheap rejects first).
func (v *Validator) EnsureWellFormedPayload(payload *ExecutionPayload, sidecar *PayloadSidecar) (*inter.RecoveredBlock, error) {
	if sidecar == nil {
		sidecar = &PayloadSidecar{}
	}
	block, err := v.parsePayload(payload, sidecar)
	if err != nil {
		return nil, err
	}

	if computed := block.Hash(); computed != payload.BlockHash {
		return nil, &BlockHashMismatchError{Expected: payload.BlockHash, Computed: computed}
	}

	if err := v.validateForkFields(block, sidecar); err != nil {
		return nil, err
	}
	if err := v.validatePolShape(block); err != nil {
		return nil, err
	}

	return inter.RecoverBlock(block, types.LatestSignerForChainID(v.spec.ChainID))
}

// parsePayload assembles the extended block. The proposer pubkey is injected
// from the sidecar: the payload body has no field for it, yet it is part of
// the header and therefore of the block hash.
func (v *Validator) parsePayload(payload *ExecutionPayload, sidecar *PayloadSidecar) (*inter.Block, error) {
	txs := make(inter.Transactions, len(payload.Transactions))
	for i, enc := range payload.Transactions {
		tx := new(inter.Transaction)
		if err := tx.UnmarshalBinary(enc); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs[i] = tx
	}

	header := &inter.Header{
		ParentHash:  payload.ParentHash,
		UncleHash:   types.EmptyUncleHash,
		Coinbase:    payload.FeeRecipient,
		Root:        payload.StateRoot,
		TxHash:      inter.CalcTransactionsRoot(txs),
		ReceiptHash: payload.ReceiptsRoot,
		Bloom:       types.BytesToBloom(payload.LogsBloom),
		Difficulty:  new(big.Int),
		Number:      new(big.Int).SetUint64(uint64(payload.Number)),
		GasLimit:    uint64(payload.GasLimit),
		GasUsed:     uint64(payload.GasUsed),
		Time:        uint64(payload.Timestamp),
		Extra:       payload.ExtraData,
		MixDigest:   payload.PrevRandao,
		BaseFee:     (*big.Int)(payload.BaseFeePerGas),
	}
	if payload.Withdrawals != nil {
		root := inter.CalcWithdrawalsRoot(payload.Withdrawals)
		header.WithdrawalsRoot = &root
	}
	header.BlobGasUsed = (*uint64)(payload.BlobGasUsed)
	header.ExcessBlobGas = (*uint64)(payload.ExcessBlobGas)
	if sidecar.Cancun != nil {
		header.ParentBeaconRoot = sidecar.Cancun.ParentBeaconBlockRoot
	}
	if sidecar.Prague != nil {
		requests := make([][]byte, len(sidecar.Prague.Requests))
		for i, r := range sidecar.Prague.Requests {
			requests[i] = r
		}
		hash := types.CalcRequestsHash(requests)
		header.RequestsHash = &hash
	}
	header.PrevProposerPubkey = sidecar.ParentProposerPubkey

	return &inter.Block{
		Header: header,
		Body: inter.Body{
			Transactions: txs,
			Withdrawals:  payload.Withdrawals,
		},
	}, nil
}

// validateForkFields checks that every fork-gated field is present exactly
// when its fork is active at the block's timestamp.
func (v *Validator) validateForkFields(block *inter.Block, sidecar *PayloadSidecar) error {
	h := block.Header
	t := h.Time

	if v.spec.IsShanghaiActiveAtTimestamp(t) {
		if h.WithdrawalsRoot == nil {
			return invalidParams("withdrawals missing post-shanghai")
		}
	} else if h.WithdrawalsRoot != nil {
		return invalidParams("withdrawals present pre-shanghai")
	}

	if v.spec.IsCancunActiveAtTimestamp(t) {
		if h.BlobGasUsed == nil || h.ExcessBlobGas == nil {
			return invalidParams("blob gas fields missing post-cancun")
		}
		if sidecar.Cancun == nil || h.ParentBeaconRoot == nil {
			return invalidParams("parent beacon block root missing post-cancun")
		}
	} else if h.BlobGasUsed != nil || h.ExcessBlobGas != nil || sidecar.Cancun != nil {
		return invalidParams("cancun fields present pre-cancun")
	}

	if v.spec.IsPragueActiveAtTimestamp(t) {
		if sidecar.Prague == nil || h.RequestsHash == nil {
			return invalidParams("execution requests missing post-prague")
		}
	} else if sidecar.Prague != nil {
		return invalidParams("execution requests present pre-prague")
	}

	if v.spec.IsPrague1ActiveAtTimestamp(t) {
		if sidecar.ParentProposerPubkey == nil || h.PrevProposerPubkey == nil {
			return evmcore.ErrMissingProposerPubkey
		}
		if *h.PrevProposerPubkey != *sidecar.ParentProposerPubkey {
			return invalidParams("proposer pubkey differs between header and sidecar")
		}
	} else if sidecar.ParentProposerPubkey != nil || h.PrevProposerPubkey != nil {
		return evmcore.ErrProposerPubkeyNotAllowed
	}

	return nil
}

// validatePolShape enforces the PoL sequencing rules on the transaction
// list: post-fork the block opens with exactly the canonical PoL transaction
// and contains no other; pre-fork it contains none.
func (v *Validator) validatePolShape(block *inter.Block) error {
	txs := block.Body.Transactions

	if !v.spec.IsPrague1ActiveAtTimestamp(block.Header.Time) {
		for i, tx := range txs {
			if tx.IsPol() {
				return fmt.Errorf("%w (index %d)", evmcore.ErrPolTransactionBeforePrague1, i)
			}
		}
		return nil
	}

	if len(txs) == 0 || !txs[0].IsPol() {
		return ErrMissingPolTransaction
	}
	expected, err := v.spec.PolTransaction(
		block.Header.PrevProposerPubkey.Bytes(),
		block.NumberU64(),
		block.Header.BaseFee,
	)
	if err != nil {
		return err
	}
	if got := txs[0].Hash(); got != expected.Hash() {
		return &evmcore.PolTransactionHashMismatchError{
			Expected: expected.Hash(),
			Received: got,
		}
	}
	for i := 1; i < len(txs); i++ {
		if txs[i].IsPol() {
			return &evmcore.PolTransactionInvalidIndexError{Expected: 0, Actual: i}
		}
	}
	return nil
}

// ValidateVersionSpecificFields checks a payload's or attribute set's
// fork-gated fields against the engine-API version it arrived with.
func (v *Validator) ValidateVersionSpecificFields(version Version, f VersionedFields) error {
	shanghai := v.spec.IsShanghaiActiveAtTimestamp(f.Timestamp)
	cancun := v.spec.IsCancunActiveAtTimestamp(f.Timestamp)

	switch version {
	case V1:
		if f.Withdrawals != nil {
			return invalidParams("withdrawals not supported in V1")
		}
		if shanghai {
			return invalidParams("V1 used post-shanghai")
		}
	case V2:
		if shanghai && f.Withdrawals == nil {
			return invalidParams("withdrawals missing post-shanghai")
		}
		if !shanghai && f.Withdrawals != nil {
			return invalidParams("withdrawals present pre-shanghai")
		}
		if f.ParentBeaconBlockRoot != nil {
			return invalidParams("parent beacon block root not supported in V2")
		}
		if cancun {
			return invalidParams("V2 used post-cancun")
		}
	case V3, V4:
		if !cancun {
			return invalidParams("V3+ used pre-cancun")
		}
		if version == V4 && !v.spec.IsPragueActiveAtTimestamp(f.Timestamp) {
			return invalidParams("V4 used pre-prague")
		}
		if f.Withdrawals == nil {
			return invalidParams("withdrawals missing post-shanghai")
		}
		if f.ParentBeaconBlockRoot == nil {
			return invalidParams("parent beacon block root missing post-cancun")
		}
	default:
		return errUnsupportedVersion
	}
	return nil
}

// NextBlockBaseFee exposes the chain's base-fee rule at the engine boundary,
// where payload building starts from a parent header.
func (v *Validator) NextBlockBaseFee(parent *inter.Header, timestamp uint64) *big.Int {
	return v.spec.NextBaseFee(parent, timestamp)
}
