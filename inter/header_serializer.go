package inter

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/DeluxeRaph/bera-reth/inter/validatorpk"
	"github.com/DeluxeRaph/bera-reth/utils/cser"
)

// MaxExtraDataSize bounds the header extra-data field when decoding.
const MaxExtraDataSize = 1024 * 1024

// HeaderMarshalCSER writes the canonical storage form of a header: fixed
// fields positionally, one presence bit per optional field, extra data last.
// The 8-byte nonce is stored at full width so pre- and post-merge headers
// share one layout.
func HeaderMarshalCSER(w *cser.Writer, h *Header) error {
	w.FixedBytes(h.ParentHash.Bytes())
	w.FixedBytes(h.UncleHash.Bytes())
	w.FixedBytes(h.Coinbase.Bytes())
	w.FixedBytes(h.Root.Bytes())
	w.FixedBytes(h.TxHash.Bytes())
	w.FixedBytes(h.ReceiptHash.Bytes())
	w.FixedBytes(h.Bloom.Bytes())
	w.BigInt(bigOrZero(h.Difficulty))
	w.BigInt(bigOrZero(h.Number))
	w.U64(h.GasLimit)
	w.U64(h.GasUsed)
	w.U64(h.Time)
	w.FixedBytes(h.MixDigest.Bytes())
	w.FixedBytes(h.Nonce[:])

	w.Bool(h.BaseFee != nil)
	if h.BaseFee != nil {
		w.BigInt(h.BaseFee)
	}
	w.Bool(h.WithdrawalsRoot != nil)
	if h.WithdrawalsRoot != nil {
		w.FixedBytes(h.WithdrawalsRoot.Bytes())
	}
	w.Bool(h.BlobGasUsed != nil)
	if h.BlobGasUsed != nil {
		w.U64(*h.BlobGasUsed)
	}
	w.Bool(h.ExcessBlobGas != nil)
	if h.ExcessBlobGas != nil {
		w.U64(*h.ExcessBlobGas)
	}
	w.Bool(h.ParentBeaconRoot != nil)
	if h.ParentBeaconRoot != nil {
		w.FixedBytes(h.ParentBeaconRoot.Bytes())
	}
	w.Bool(h.RequestsHash != nil)
	if h.RequestsHash != nil {
		w.FixedBytes(h.RequestsHash.Bytes())
	}
	w.Bool(h.PrevProposerPubkey != nil)
	if h.PrevProposerPubkey != nil {
		w.FixedBytes(h.PrevProposerPubkey.Bytes())
	}

	w.SliceBytes(h.Extra)
	return nil
}

// HeaderUnmarshalCSER reads a header written by HeaderMarshalCSER.
func HeaderUnmarshalCSER(r *cser.Reader) (*Header, error) {
	h := &Header{}
	r.FixedBytes(h.ParentHash[:])
	r.FixedBytes(h.UncleHash[:])
	r.FixedBytes(h.Coinbase[:])
	r.FixedBytes(h.Root[:])
	r.FixedBytes(h.TxHash[:])
	r.FixedBytes(h.ReceiptHash[:])
	r.FixedBytes(h.Bloom[:])
	h.Difficulty = r.BigInt()
	h.Number = r.BigInt()
	h.GasLimit = r.U64()
	h.GasUsed = r.U64()
	h.Time = r.U64()
	r.FixedBytes(h.MixDigest[:])
	r.FixedBytes(h.Nonce[:])

	if r.Bool() {
		h.BaseFee = r.BigInt()
	}
	if r.Bool() {
		var root common.Hash
		r.FixedBytes(root[:])
		h.WithdrawalsRoot = &root
	}
	if r.Bool() {
		used := r.U64()
		h.BlobGasUsed = &used
	}
	if r.Bool() {
		excess := r.U64()
		h.ExcessBlobGas = &excess
	}
	if r.Bool() {
		var root common.Hash
		r.FixedBytes(root[:])
		h.ParentBeaconRoot = &root
	}
	if r.Bool() {
		var hash common.Hash
		r.FixedBytes(hash[:])
		h.RequestsHash = &hash
	}
	if r.Bool() {
		var pk validatorpk.PubKey
		r.FixedBytes(pk[:])
		h.PrevProposerPubkey = &pk
	}

	h.Extra = r.SliceBytes(MaxExtraDataSize)
	return h, nil
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
