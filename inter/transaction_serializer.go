package inter

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/DeluxeRaph/bera-reth/utils/cser"
)

// ProtocolMaxMsgSize bounds allocations while decoding untrusted bytes (10 MB).
const ProtocolMaxMsgSize = 10 * 1024 * 1024

// Compact type identifiers. The common kinds fit 2 bits in the bit stream;
// code 3 is an escape meaning the full envelope type byte follows in the
// byte stream. The split keeps legacy-heavy storage dense while leaving the
// whole one-byte type space reachable.
const (
	compactLegacy     = 0
	compactAccessList = 1
	compactDynamicFee = 2
	compactExtended   = 3
)

var (
	// ErrUnknownTxType is returned for an envelope type byte outside the
	// supported set.
	ErrUnknownTxType = errors.New("unknown tx type")
	// ErrPolTxNotAllowed is returned by the base-set decoder when it meets
	// the PoL identifier.
	ErrPolTxNotAllowed = errors.New("pol tx type not allowed here")

	errValueOverflow = errors.New("tx field overflows 256 bits")
)

// encodeSig packs R and S into the fixed 64-byte RS form; the recovery value
// is stored separately.
func encodeSig(r, s *big.Int) (sig [64]byte) {
	copy(sig[0:], cser.PaddedBytes(r.Bytes(), 32)[:32])
	copy(sig[32:], cser.PaddedBytes(s.Bytes(), 32)[:32])
	return sig
}

func decodeSig(sig [64]byte) (r, s *big.Int) {
	r = new(big.Int).SetBytes(sig[:32])
	s = new(big.Int).SetBytes(sig[32:64])
	return
}

func writeAccessList(w *cser.Writer, list types.AccessList) {
	w.U32(uint32(len(list)))
	for _, tuple := range list {
		w.FixedBytes(tuple.Address.Bytes())
		w.U32(uint32(len(tuple.StorageKeys)))
		for _, h := range tuple.StorageKeys {
			w.FixedBytes(h.Bytes())
		}
	}
}

func readAccessList(r *cser.Reader) (types.AccessList, error) {
	num := r.U32()
	if num > ProtocolMaxMsgSize/24 {
		return nil, cser.ErrTooLargeAlloc
	}
	list := make(types.AccessList, num)
	for i := range list {
		r.FixedBytes(list[i].Address[:])
		keys := r.U32()
		if keys > ProtocolMaxMsgSize/32 {
			return nil, cser.ErrTooLargeAlloc
		}
		list[i].StorageKeys = make([]common.Hash, keys)
		for j := range list[i].StorageKeys {
			r.FixedBytes(list[i].StorageKeys[j][:])
		}
	}
	return list, nil
}

func writeU256(w *cser.Writer, v *uint256.Int) {
	if v == nil {
		w.BigInt(new(big.Int))
		return
	}
	w.BigInt(v.ToBig())
}

func readU256(r *cser.Reader) (*uint256.Int, error) {
	v, overflow := uint256.FromBig(r.BigInt())
	if overflow {
		return nil, errValueOverflow
	}
	return v, nil
}

// compactCode maps an envelope type byte to its identifier code.
func compactCode(txType uint8) (uint, error) {
	switch txType {
	case types.LegacyTxType:
		return compactLegacy, nil
	case types.AccessListTxType:
		return compactAccessList, nil
	case types.DynamicFeeTxType:
		return compactDynamicFee, nil
	case types.BlobTxType, types.SetCodeTxType, PolTxType:
		return compactExtended, nil
	default:
		return 0, ErrUnknownTxType
	}
}

// TransactionMarshalCSER serializes any supported transaction kind into the
// canonical storage form.
func TransactionMarshalCSER(w *cser.Writer, tx *Transaction) error {
	code, err := compactCode(tx.Type())
	if err != nil {
		return err
	}
	w.BitsW.Write(2, code)
	if code == compactExtended {
		w.U8(tx.Type())
	}

	if tx.IsPol() {
		pol := tx.Pol()
		w.BigInt(pol.ChainID)
		w.FixedBytes(pol.From.Bytes())
		w.FixedBytes(pol.To.Bytes())
		w.U64(pol.Nonce)
		w.U64(pol.GasLimit)
		w.BigInt(pol.GasPrice)
		w.SliceBytes(pol.Input)
		return nil
	}

	eth := tx.Eth()
	v, r, s := eth.RawSignatureValues()
	sig := encodeSig(r, s)

	switch eth.Type() {
	case types.LegacyTxType:
		w.U64(eth.Nonce())
		w.U64(eth.Gas())
		w.BigInt(eth.GasPrice())
		w.BigInt(eth.Value())
		w.Bool(eth.To() != nil)
		if eth.To() != nil {
			w.FixedBytes(eth.To().Bytes())
		}
		w.SliceBytes(eth.Data())
		w.BigInt(v)
		w.FixedBytes(sig[:])

	case types.AccessListTxType:
		w.BigInt(eth.ChainId())
		w.U64(eth.Nonce())
		w.U64(eth.Gas())
		w.BigInt(eth.GasPrice())
		w.BigInt(eth.Value())
		w.Bool(eth.To() != nil)
		if eth.To() != nil {
			w.FixedBytes(eth.To().Bytes())
		}
		w.SliceBytes(eth.Data())
		writeAccessList(w, eth.AccessList())
		w.BigInt(v)
		w.FixedBytes(sig[:])

	case types.DynamicFeeTxType:
		w.BigInt(eth.ChainId())
		w.U64(eth.Nonce())
		w.U64(eth.Gas())
		w.BigInt(eth.GasTipCap())
		w.BigInt(eth.GasFeeCap())
		w.BigInt(eth.Value())
		w.Bool(eth.To() != nil)
		if eth.To() != nil {
			w.FixedBytes(eth.To().Bytes())
		}
		w.SliceBytes(eth.Data())
		writeAccessList(w, eth.AccessList())
		w.BigInt(v)
		w.FixedBytes(sig[:])

	case types.BlobTxType:
		// Blob txs always have a recipient; no presence flag.
		w.BigInt(eth.ChainId())
		w.U64(eth.Nonce())
		w.U64(eth.Gas())
		w.BigInt(eth.GasTipCap())
		w.BigInt(eth.GasFeeCap())
		w.BigInt(eth.BlobGasFeeCap())
		w.BigInt(eth.Value())
		w.FixedBytes(eth.To().Bytes())
		w.SliceBytes(eth.Data())
		writeAccessList(w, eth.AccessList())
		hashes := eth.BlobHashes()
		w.U32(uint32(len(hashes)))
		for _, h := range hashes {
			w.FixedBytes(h.Bytes())
		}
		w.BigInt(v)
		w.FixedBytes(sig[:])

	case types.SetCodeTxType:
		w.BigInt(eth.ChainId())
		w.U64(eth.Nonce())
		w.U64(eth.Gas())
		w.BigInt(eth.GasTipCap())
		w.BigInt(eth.GasFeeCap())
		w.BigInt(eth.Value())
		w.FixedBytes(eth.To().Bytes())
		w.SliceBytes(eth.Data())
		writeAccessList(w, eth.AccessList())
		auths := eth.SetCodeAuthorizations()
		w.U32(uint32(len(auths)))
		for _, a := range auths {
			w.BigInt(a.ChainID.ToBig())
			w.FixedBytes(a.Address.Bytes())
			w.U64(a.Nonce)
			w.U8(a.V)
			authSig := encodeSig(a.R.ToBig(), a.S.ToBig())
			w.FixedBytes(authSig[:])
		}
		w.BigInt(v)
		w.FixedBytes(sig[:])
	}
	return nil
}

// readTypeIdentifier consumes the compact identifier and returns the full
// envelope type byte.
func readTypeIdentifier(r *cser.Reader) (uint8, error) {
	switch r.BitsR.Read(2) {
	case compactLegacy:
		return types.LegacyTxType, nil
	case compactAccessList:
		return types.AccessListTxType, nil
	case compactDynamicFee:
		return types.DynamicFeeTxType, nil
	}
	txType := r.U8()
	switch txType {
	case types.BlobTxType, types.SetCodeTxType, PolTxType:
		return txType, nil
	}
	return 0, ErrUnknownTxType
}

// TransactionUnmarshalCSER deserializes any supported transaction kind.
func TransactionUnmarshalCSER(r *cser.Reader) (*Transaction, error) {
	txType, err := readTypeIdentifier(r)
	if err != nil {
		return nil, err
	}
	if txType == PolTxType {
		pol := &PolTx{
			ChainID: r.BigInt(),
		}
		r.FixedBytes(pol.From[:])
		r.FixedBytes(pol.To[:])
		pol.Nonce = r.U64()
		pol.GasLimit = r.U64()
		pol.GasPrice = r.BigInt()
		pol.Input = r.SliceBytes(ProtocolMaxMsgSize)
		return NewPolTransaction(pol), nil
	}
	eth, err := ethTransactionBodyUnmarshalCSER(r, txType)
	if err != nil {
		return nil, err
	}
	return NewEthTransaction(eth), nil
}

// EthTransactionUnmarshalCSER deserializes the Ethereum kinds only. It reads
// the identical byte layout as TransactionUnmarshalCSER for those kinds and
// rejects the PoL identifier.
func EthTransactionUnmarshalCSER(r *cser.Reader) (*types.Transaction, error) {
	txType, err := readTypeIdentifier(r)
	if err != nil {
		return nil, err
	}
	if txType == PolTxType {
		return nil, ErrPolTxNotAllowed
	}
	return ethTransactionBodyUnmarshalCSER(r, txType)
}

func ethTransactionBodyUnmarshalCSER(r *cser.Reader, txType uint8) (*types.Transaction, error) {
	readOptionalTo := func() *common.Address {
		if !r.Bool() {
			return nil
		}
		var to common.Address
		r.FixedBytes(to[:])
		return &to
	}
	readTo := func() common.Address {
		var to common.Address
		r.FixedBytes(to[:])
		return to
	}
	readSig := func() (v *big.Int, rr, s *big.Int) {
		v = r.BigInt()
		var sig [64]byte
		r.FixedBytes(sig[:])
		rr, s = decodeSig(sig)
		return
	}

	switch txType {
	case types.LegacyTxType:
		nonce := r.U64()
		gas := r.U64()
		gasPrice := r.BigInt()
		value := r.BigInt()
		to := readOptionalTo()
		data := r.SliceBytes(ProtocolMaxMsgSize)
		v, rr, s := readSig()
		return types.NewTx(&types.LegacyTx{
			Nonce: nonce, GasPrice: gasPrice, Gas: gas,
			To: to, Value: value, Data: data,
			V: v, R: rr, S: s,
		}), nil

	case types.AccessListTxType:
		chainID := r.BigInt()
		nonce := r.U64()
		gas := r.U64()
		gasPrice := r.BigInt()
		value := r.BigInt()
		to := readOptionalTo()
		data := r.SliceBytes(ProtocolMaxMsgSize)
		list, err := readAccessList(r)
		if err != nil {
			return nil, err
		}
		v, rr, s := readSig()
		return types.NewTx(&types.AccessListTx{
			ChainID: chainID, Nonce: nonce, GasPrice: gasPrice, Gas: gas,
			To: to, Value: value, Data: data, AccessList: list,
			V: v, R: rr, S: s,
		}), nil

	case types.DynamicFeeTxType:
		chainID := r.BigInt()
		nonce := r.U64()
		gas := r.U64()
		tip := r.BigInt()
		feeCap := r.BigInt()
		value := r.BigInt()
		to := readOptionalTo()
		data := r.SliceBytes(ProtocolMaxMsgSize)
		list, err := readAccessList(r)
		if err != nil {
			return nil, err
		}
		v, rr, s := readSig()
		return types.NewTx(&types.DynamicFeeTx{
			ChainID: chainID, Nonce: nonce, GasTipCap: tip, GasFeeCap: feeCap,
			Gas: gas, To: to, Value: value, Data: data, AccessList: list,
			V: v, R: rr, S: s,
		}), nil

	case types.BlobTxType:
		chainID, err := readU256(r)
		if err != nil {
			return nil, err
		}
		nonce := r.U64()
		gas := r.U64()
		var tip, feeCap, blobFeeCap, value *uint256.Int
		if tip, err = readU256(r); err != nil {
			return nil, err
		}
		if feeCap, err = readU256(r); err != nil {
			return nil, err
		}
		if blobFeeCap, err = readU256(r); err != nil {
			return nil, err
		}
		if value, err = readU256(r); err != nil {
			return nil, err
		}
		to := readTo()
		data := r.SliceBytes(ProtocolMaxMsgSize)
		list, err := readAccessList(r)
		if err != nil {
			return nil, err
		}
		num := r.U32()
		if num > ProtocolMaxMsgSize/32 {
			return nil, cser.ErrTooLargeAlloc
		}
		hashes := make([]common.Hash, num)
		for i := range hashes {
			r.FixedBytes(hashes[i][:])
		}
		v, rr, s := readSig()
		vu, err := readU256FromBig(v)
		if err != nil {
			return nil, err
		}
		ru, err := readU256FromBig(rr)
		if err != nil {
			return nil, err
		}
		su, err := readU256FromBig(s)
		if err != nil {
			return nil, err
		}
		return types.NewTx(&types.BlobTx{
			ChainID: chainID, Nonce: nonce, GasTipCap: tip, GasFeeCap: feeCap,
			Gas: gas, To: to, Value: value, Data: data, AccessList: list,
			BlobFeeCap: blobFeeCap, BlobHashes: hashes,
			V: vu, R: ru, S: su,
		}), nil

	case types.SetCodeTxType:
		chainID, err := readU256(r)
		if err != nil {
			return nil, err
		}
		nonce := r.U64()
		gas := r.U64()
		var tip, feeCap, value *uint256.Int
		if tip, err = readU256(r); err != nil {
			return nil, err
		}
		if feeCap, err = readU256(r); err != nil {
			return nil, err
		}
		if value, err = readU256(r); err != nil {
			return nil, err
		}
		to := readTo()
		data := r.SliceBytes(ProtocolMaxMsgSize)
		list, err := readAccessList(r)
		if err != nil {
			return nil, err
		}
		num := r.U32()
		if num > ProtocolMaxMsgSize/128 {
			return nil, cser.ErrTooLargeAlloc
		}
		auths := make([]types.SetCodeAuthorization, num)
		for i := range auths {
			authChainID, err := readU256(r)
			if err != nil {
				return nil, err
			}
			auths[i].ChainID = *authChainID
			r.FixedBytes(auths[i].Address[:])
			auths[i].Nonce = r.U64()
			auths[i].V = r.U8()
			var sig [64]byte
			r.FixedBytes(sig[:])
			ar, as := decodeSig(sig)
			aru, err := readU256FromBig(ar)
			if err != nil {
				return nil, err
			}
			asu, err := readU256FromBig(as)
			if err != nil {
				return nil, err
			}
			auths[i].R = *aru
			auths[i].S = *asu
		}
		v, rr, s := readSig()
		vu, err := readU256FromBig(v)
		if err != nil {
			return nil, err
		}
		ru, err := readU256FromBig(rr)
		if err != nil {
			return nil, err
		}
		su, err := readU256FromBig(s)
		if err != nil {
			return nil, err
		}
		return types.NewTx(&types.SetCodeTx{
			ChainID: chainID, Nonce: nonce, GasTipCap: tip, GasFeeCap: feeCap,
			Gas: gas, To: to, Value: value, Data: data, AccessList: list,
			AuthList: auths,
			V: vu, R: ru, S: su,
		}), nil
	}
	return nil, ErrUnknownTxType
}

func readU256FromBig(v *big.Int) (*uint256.Int, error) {
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, errValueOverflow
	}
	return u, nil
}
