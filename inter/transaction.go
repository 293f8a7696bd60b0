package inter

import (
	"bytes"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var errEmptyTransaction = errors.New("empty transaction bytes")

// Transaction is the envelope over the kinds a block may contain: the five
// Ethereum typed-transaction kinds, carried as a go-ethereum transaction so
// their wire encodings stay bit-exact with upstream, or the synthetic PoL
// distribution kind.
//
// Exactly one of the two branches is set.
type Transaction struct {
	eth *types.Transaction
	pol *PolTx
}

// NewEthTransaction wraps an ordinary Ethereum transaction.
func NewEthTransaction(tx *types.Transaction) *Transaction {
	return &Transaction{eth: tx}
}

// NewPolTransaction wraps a PoL distribution transaction.
func NewPolTransaction(tx *PolTx) *Transaction {
	return &Transaction{pol: tx}
}

// IsPol reports whether this is the synthetic PoL kind.
func (t *Transaction) IsPol() bool {
	return t.pol != nil
}

// Pol returns the PoL branch, nil for ordinary transactions.
func (t *Transaction) Pol() *PolTx {
	return t.pol
}

// Eth returns the Ethereum branch, nil for PoL transactions.
func (t *Transaction) Eth() *types.Transaction {
	return t.eth
}

// Type returns the envelope type byte (0x00 for legacy).
func (t *Transaction) Type() uint8 {
	if t.pol != nil {
		return PolTxType
	}
	return t.eth.Type()
}

// Hash returns the transaction hash: keccak of the wire encoding.
func (t *Transaction) Hash() common.Hash {
	if t.pol != nil {
		return t.pol.Hash()
	}
	return t.eth.Hash()
}

// Gas returns the gas limit.
func (t *Transaction) Gas() uint64 {
	if t.pol != nil {
		return t.pol.GasLimit
	}
	return t.eth.Gas()
}

// GasPrice returns the (effective cap) gas price.
func (t *Transaction) GasPrice() *big.Int {
	if t.pol != nil {
		return new(big.Int).Set(t.pol.GasPrice)
	}
	return t.eth.GasPrice()
}

// Sender recovers the transaction sender. The PoL kind is unsigned and
// always recovers to the system address; ordinary kinds go through ECDSA
// recovery with the given signer.
func (t *Transaction) Sender(signer types.Signer) (common.Address, error) {
	if t.pol != nil {
		return PolTxSender, nil
	}
	return types.Sender(signer, t.eth)
}

// MarshalBinary encodes the wire form: go-ethereum's canonical encoding for
// ordinary kinds, the 0x7E envelope for PoL.
func (t *Transaction) MarshalBinary() ([]byte, error) {
	if t.pol != nil {
		return t.pol.MarshalBinary()
	}
	return t.eth.MarshalBinary()
}

// UnmarshalBinary decodes a wire-form transaction of any kind.
func (t *Transaction) UnmarshalBinary(b []byte) error {
	if len(b) == 0 {
		return errEmptyTransaction
	}
	if b[0] == PolTxType {
		var pol PolTx
		if err := pol.UnmarshalBinary(b); err != nil {
			return err
		}
		*t = Transaction{pol: &pol}
		return nil
	}
	var eth types.Transaction
	if err := eth.UnmarshalBinary(b); err != nil {
		return err
	}
	*t = Transaction{eth: &eth}
	return nil
}

// Transactions is a list of envelopes, derivable into a transactions root.
type Transactions []*Transaction

// Len implements types.DerivableList.
func (ts Transactions) Len() int {
	return len(ts)
}

// EncodeIndex implements types.DerivableList over the wire encoding.
func (ts Transactions) EncodeIndex(i int, w *bytes.Buffer) {
	enc, err := ts[i].MarshalBinary()
	if err != nil {
		// Marshaling only fails for malformed big ints; a transaction that
		// decoded cannot hit this.
		panic(err)
	}
	w.Write(enc)
}
