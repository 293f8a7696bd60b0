package inter

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/DeluxeRaph/bera-reth/bera/contracts/distributor"
	"github.com/DeluxeRaph/bera-reth/inter/validatorpk"
)

// PolTxType is the envelope type byte of the proof-of-liquidity distribution
// transaction. It deliberately collides with nothing in the Ethereum typed
// transaction space (0x7E is the deposit-style range).
const PolTxType = 0x7E

// PolTxGasLimit is the fixed gas limit every PoL transaction carries. The
// call itself runs as a system call and consumes none of the block's gas.
const PolTxGasLimit = 30_000_000

// PolTxSender is the sender every PoL transaction recovers to. No private
// key exists for it; the transaction is unsigned and derived, not submitted.
var PolTxSender = params.SystemAddress

var errPolGenesisBlock = errors.New("pol transaction cannot be built for the genesis block")

// PolTx is the synthetic transaction that distributes proof-of-liquidity
// rewards for the previous block's proposer. It is fully derived from the
// chain spec and the enclosing block; equal inputs always produce identical
// bytes and therefore an identical hash.
type PolTx struct {
	ChainID  *big.Int
	From     common.Address
	To       common.Address
	Nonce    uint64
	GasLimit uint64
	GasPrice *big.Int
	Input    []byte

	hash atomic.Pointer[common.Hash]
}

// NewPolTx derives the canonical PoL transaction of the block at blockNumber.
// The nonce is the previous block's number, so no PoL transaction exists for
// genesis. The gas price is the enclosing block's base fee.
func NewPolTx(chainID *big.Int, to common.Address, pubkey []byte, blockNumber uint64, baseFee *big.Int) (*PolTx, error) {
	if blockNumber == 0 {
		return nil, errPolGenesisBlock
	}
	if len(pubkey) != validatorpk.Size {
		return nil, fmt.Errorf("pol transaction: proposer pubkey must be %d bytes, got %d",
			validatorpk.Size, len(pubkey))
	}
	input, err := distributor.PackDistributeFor(pubkey)
	if err != nil {
		return nil, err
	}
	return &PolTx{
		ChainID:  new(big.Int).Set(chainID),
		From:     PolTxSender,
		To:       to,
		Nonce:    blockNumber - 1,
		GasLimit: PolTxGasLimit,
		GasPrice: new(big.Int).Set(baseFee),
		Input:    input,
	}, nil
}

// polTxPayload is the RLP body following the 0x7E type byte. Field order is
// consensus.
type polTxPayload struct {
	ChainID  *big.Int
	From     common.Address
	To       common.Address
	Nonce    uint64
	GasLimit uint64
	GasPrice *big.Int
	Input    []byte
}

// MarshalBinary encodes the type byte followed by the RLP payload.
func (tx *PolTx) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(PolTxType)
	err := rlp.Encode(&buf, &polTxPayload{
		ChainID:  tx.ChainID,
		From:     tx.From,
		To:       tx.To,
		Nonce:    tx.Nonce,
		GasLimit: tx.GasLimit,
		GasPrice: tx.GasPrice,
		Input:    tx.Input,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes the 0x7E envelope.
func (tx *PolTx) UnmarshalBinary(b []byte) error {
	if len(b) == 0 || b[0] != PolTxType {
		return fmt.Errorf("not a pol transaction envelope")
	}
	var payload polTxPayload
	if err := rlp.DecodeBytes(b[1:], &payload); err != nil {
		return err
	}
	*tx = PolTx{
		ChainID:  payload.ChainID,
		From:     payload.From,
		To:       payload.To,
		Nonce:    payload.Nonce,
		GasLimit: payload.GasLimit,
		GasPrice: payload.GasPrice,
		Input:    payload.Input,
	}
	return nil
}

// Hash is the keccak256 of the full envelope (type byte included), cached.
func (tx *PolTx) Hash() common.Hash {
	if cached := tx.hash.Load(); cached != nil {
		return *cached
	}
	enc, err := tx.MarshalBinary()
	if err != nil {
		panic(err)
	}
	hash := crypto.Keccak256Hash(enc)
	tx.hash.Store(&hash)
	return hash
}
