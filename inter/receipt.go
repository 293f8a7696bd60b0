package inter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/DeluxeRaph/bera-reth/utils/cser"
)

// Receipt is the execution outcome of one transaction. The PoL transaction
// produces one too, with zero gas, so receipt indices stay aligned with
// transaction indices.
type Receipt struct {
	Type              uint8
	Status            uint64
	CumulativeGasUsed uint64
	Logs              []*types.Log
}

// Receipts is a block's receipt list, index-aligned with its transactions.
type Receipts []*Receipt

// GasUsed returns the gas consumed by the whole list.
func (rs Receipts) GasUsed() uint64 {
	if len(rs) == 0 {
		return 0
	}
	return rs[len(rs)-1].CumulativeGasUsed
}

// EthReceipts converts to go-ethereum receipts for bloom and trie-root
// derivation. The PoL type byte is carried through unchanged.
func (rs Receipts) EthReceipts() types.Receipts {
	out := make(types.Receipts, len(rs))
	for i, r := range rs {
		out[i] = &types.Receipt{
			Type:              r.Type,
			Status:            r.Status,
			CumulativeGasUsed: r.CumulativeGasUsed,
			Logs:              r.Logs,
		}
	}
	return out
}

// ReceiptMarshalCSER writes the canonical storage form of a receipt. Log
// topics and data are stored verbatim; bloom and derived fields are
// recomputed on load.
func ReceiptMarshalCSER(w *cser.Writer, r *Receipt) error {
	w.U8(r.Type)
	w.U64(r.Status)
	w.U64(r.CumulativeGasUsed)
	w.U32(uint32(len(r.Logs)))
	for _, l := range r.Logs {
		w.FixedBytes(l.Address.Bytes())
		w.U32(uint32(len(l.Topics)))
		for _, t := range l.Topics {
			w.FixedBytes(t.Bytes())
		}
		w.SliceBytes(l.Data)
	}
	return nil
}

// ReceiptUnmarshalCSER reads a receipt written by ReceiptMarshalCSER.
func ReceiptUnmarshalCSER(r *cser.Reader) (*Receipt, error) {
	rec := &Receipt{
		Type:              r.U8(),
		Status:            r.U64(),
		CumulativeGasUsed: r.U64(),
	}
	num := r.U32()
	if num > ProtocolMaxMsgSize/32 {
		return nil, cser.ErrTooLargeAlloc
	}
	rec.Logs = make([]*types.Log, num)
	for i := range rec.Logs {
		log := &types.Log{}
		r.FixedBytes(log.Address[:])
		topics := r.U32()
		if topics > ProtocolMaxMsgSize/32 {
			return nil, cser.ErrTooLargeAlloc
		}
		log.Topics = make([]common.Hash, topics)
		for j := range log.Topics {
			r.FixedBytes(log.Topics[j][:])
		}
		log.Data = r.SliceBytes(ProtocolMaxMsgSize)
		rec.Logs[i] = log
	}
	return rec, nil
}
