// Package inter defines the consensus record types exchanged between the
// beacon client and this execution layer: the extended block header, the
// transaction envelope (including the synthetic PoL distribution kind),
// receipts and block containers. Every type carries two encodings: the RLP
// wire/hash form shared with upstream Ethereum, and a flat canonical form
// for storage.
package inter

import (
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/DeluxeRaph/bera-reth/inter/validatorpk"
)

// Header is the block header with the chain's extension: the previous
// proposer's BLS public key as the last optional field. Hashing is identical
// to upstream (keccak256 of the RLP encoding), so a header without the
// extension field hashes exactly like an Ethereum one.
//
// The optional tail must keep its order; inserting a field in the middle
// would change the hash of every block that carries a later field.
type Header struct {
	ParentHash  common.Hash      `json:"parentHash"`
	UncleHash   common.Hash      `json:"sha3Uncles"`
	Coinbase    common.Address   `json:"miner"`
	Root        common.Hash      `json:"stateRoot"`
	TxHash      common.Hash      `json:"transactionsRoot"`
	ReceiptHash common.Hash      `json:"receiptsRoot"`
	Bloom       types.Bloom      `json:"logsBloom"`
	Difficulty  *big.Int         `json:"difficulty"`
	Number      *big.Int         `json:"number"`
	GasLimit    uint64           `json:"gasLimit"`
	GasUsed     uint64           `json:"gasUsed"`
	Time        uint64           `json:"timestamp"`
	Extra       []byte           `json:"extraData"`
	MixDigest   common.Hash      `json:"mixHash"`
	Nonce       types.BlockNonce `json:"nonce"`

	BaseFee            *big.Int            `json:"baseFeePerGas"         rlp:"optional"`
	WithdrawalsRoot    *common.Hash        `json:"withdrawalsRoot"       rlp:"optional"`
	BlobGasUsed        *uint64             `json:"blobGasUsed"           rlp:"optional"`
	ExcessBlobGas      *uint64             `json:"excessBlobGas"         rlp:"optional"`
	ParentBeaconRoot   *common.Hash        `json:"parentBeaconBlockRoot" rlp:"optional"`
	RequestsHash       *common.Hash        `json:"requestsHash"          rlp:"optional"`
	PrevProposerPubkey *validatorpk.PubKey `json:"prevProposerPubkey"    rlp:"optional"`

	hash atomic.Pointer[common.Hash]
}

// Hash returns the keccak256 of the header's RLP encoding, cached after the
// first call. Callers must not mutate a header once its hash was taken.
func (h *Header) Hash() common.Hash {
	if cached := h.hash.Load(); cached != nil {
		return *cached
	}
	enc, err := rlp.EncodeToBytes(h)
	if err != nil {
		panic(err) // all field types are encodable
	}
	hash := crypto.Keccak256Hash(enc)
	h.hash.Store(&hash)
	return hash
}

// NumberU64 returns the block number, 0 for a nil number.
func (h *Header) NumberU64() uint64 {
	if h.Number == nil {
		return 0
	}
	return h.Number.Uint64()
}

// EthHeader converts to the go-ethereum header, dropping the proposer pubkey.
// Used where a library API wants the upstream type; the result hashes
// differently from h whenever the pubkey is set.
func (h *Header) EthHeader() *types.Header {
	return &types.Header{
		ParentHash:       h.ParentHash,
		UncleHash:        h.UncleHash,
		Coinbase:         h.Coinbase,
		Root:             h.Root,
		TxHash:           h.TxHash,
		ReceiptHash:      h.ReceiptHash,
		Bloom:            h.Bloom,
		Difficulty:       h.Difficulty,
		Number:           h.Number,
		GasLimit:         h.GasLimit,
		GasUsed:          h.GasUsed,
		Time:             h.Time,
		Extra:            h.Extra,
		MixDigest:        h.MixDigest,
		Nonce:            h.Nonce,
		BaseFee:          h.BaseFee,
		WithdrawalsHash:  h.WithdrawalsRoot,
		BlobGasUsed:      h.BlobGasUsed,
		ExcessBlobGas:    h.ExcessBlobGas,
		ParentBeaconRoot: h.ParentBeaconRoot,
		RequestsHash:     h.RequestsHash,
	}
}

// Copy deep-copies the header. The cached hash is not carried over; copying
// the atomic field would also trip vet.
func (h *Header) Copy() *Header {
	cpy := &Header{
		ParentHash:  h.ParentHash,
		UncleHash:   h.UncleHash,
		Coinbase:    h.Coinbase,
		Root:        h.Root,
		TxHash:      h.TxHash,
		ReceiptHash: h.ReceiptHash,
		Bloom:       h.Bloom,
		Difficulty:  h.Difficulty,
		Number:      h.Number,
		GasLimit:    h.GasLimit,
		GasUsed:     h.GasUsed,
		Time:        h.Time,
		MixDigest:   h.MixDigest,
		Nonce:       h.Nonce,
	}
	if h.Difficulty != nil {
		cpy.Difficulty = new(big.Int).Set(h.Difficulty)
	}
	if h.Number != nil {
		cpy.Number = new(big.Int).Set(h.Number)
	}
	if h.BaseFee != nil {
		cpy.BaseFee = new(big.Int).Set(h.BaseFee)
	}
	cpy.Extra = common.CopyBytes(h.Extra)
	if h.WithdrawalsRoot != nil {
		root := *h.WithdrawalsRoot
		cpy.WithdrawalsRoot = &root
	}
	if h.BlobGasUsed != nil {
		used := *h.BlobGasUsed
		cpy.BlobGasUsed = &used
	}
	if h.ExcessBlobGas != nil {
		excess := *h.ExcessBlobGas
		cpy.ExcessBlobGas = &excess
	}
	if h.ParentBeaconRoot != nil {
		root := *h.ParentBeaconRoot
		cpy.ParentBeaconRoot = &root
	}
	if h.RequestsHash != nil {
		hash := *h.RequestsHash
		cpy.RequestsHash = &hash
	}
	if h.PrevProposerPubkey != nil {
		pk := *h.PrevProposerPubkey
		cpy.PrevProposerPubkey = &pk
	}
	return cpy
}
