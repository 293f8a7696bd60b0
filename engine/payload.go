// Package engine is the boundary to the consensus client: the engine-API
// payload structures extended with the chain's sidecar, and the validator
// that turns an untrusted payload into a recovered block.
package engine

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/DeluxeRaph/bera-reth/inter/validatorpk"
)

// Version is the engine-API method version a payload or attribute set came
// in with.
type Version int

const (
	V1 Version = iota + 1
	V2
	V3
	V4
)

// ExecutionPayload is the engine-API block body. Field coverage spans V1
// through V4; later-fork fields stay nil on older payloads.
type ExecutionPayload struct {
	ParentHash    common.Hash     `json:"parentHash"`
	FeeRecipient  common.Address  `json:"feeRecipient"`
	StateRoot     common.Hash     `json:"stateRoot"`
	ReceiptsRoot  common.Hash     `json:"receiptsRoot"`
	LogsBloom     hexutil.Bytes   `json:"logsBloom"`
	PrevRandao    common.Hash     `json:"prevRandao"`
	Number        hexutil.Uint64  `json:"blockNumber"`
	GasLimit      hexutil.Uint64  `json:"gasLimit"`
	GasUsed       hexutil.Uint64  `json:"gasUsed"`
	Timestamp     hexutil.Uint64  `json:"timestamp"`
	ExtraData     hexutil.Bytes   `json:"extraData"`
	BaseFeePerGas *hexutil.Big    `json:"baseFeePerGas"`
	BlockHash     common.Hash     `json:"blockHash"`
	Transactions  []hexutil.Bytes `json:"transactions"`

	Withdrawals   types.Withdrawals `json:"withdrawals,omitempty"`   // V2
	BlobGasUsed   *hexutil.Uint64   `json:"blobGasUsed,omitempty"`   // V3
	ExcessBlobGas *hexutil.Uint64   `json:"excessBlobGas,omitempty"` // V3
}

// CancunFields travel beside a V3+ payload rather than inside it.
type CancunFields struct {
	ParentBeaconBlockRoot *common.Hash  `json:"parentBeaconBlockRoot"`
	VersionedHashes       []common.Hash `json:"versionedHashes"`
}

// PragueFields carry the EIP-7685 execution requests of a V4 payload.
type PragueFields struct {
	Requests []hexutil.Bytes `json:"executionRequests"`
}

// PayloadSidecar is everything delivered alongside the payload body: the
// upstream Cancun and Prague side fields plus the parent proposer's pubkey,
// which the consensus client alone knows.
type PayloadSidecar struct {
	Cancun *CancunFields
	Prague *PragueFields

	// ParentProposerPubkey is required once Prague1 is active and
	// forbidden before.
	ParentProposerPubkey *validatorpk.PubKey
}

// PayloadAttributes is the block-building request of forkchoiceUpdated.
type PayloadAttributes struct {
	Timestamp             hexutil.Uint64    `json:"timestamp"`
	PrevRandao            common.Hash       `json:"prevRandao"`
	SuggestedFeeRecipient common.Address    `json:"suggestedFeeRecipient"`
	Withdrawals           types.Withdrawals `json:"withdrawals,omitempty"`           // V2
	ParentBeaconBlockRoot *common.Hash      `json:"parentBeaconBlockRoot,omitempty"` // V3
}

// VersionedFields is the fork-gated subset shared by payloads and payload
// attributes, used by the version checks.
type VersionedFields struct {
	Timestamp             uint64
	Withdrawals           types.Withdrawals
	ParentBeaconBlockRoot *common.Hash
}

// VersionedFields extracts the fork-gated fields of a payload; the beacon
// root lives in the sidecar (which may be nil).
func (p *ExecutionPayload) VersionedFields(sidecar *PayloadSidecar) VersionedFields {
	f := VersionedFields{
		Timestamp:   uint64(p.Timestamp),
		Withdrawals: p.Withdrawals,
	}
	if sidecar != nil && sidecar.Cancun != nil {
		f.ParentBeaconBlockRoot = sidecar.Cancun.ParentBeaconBlockRoot
	}
	return f
}

// VersionedFields extracts the fork-gated fields of a payload-attributes set.
func (a *PayloadAttributes) VersionedFields() VersionedFields {
	return VersionedFields{
		Timestamp:             uint64(a.Timestamp),
		Withdrawals:           a.Withdrawals,
		ParentBeaconBlockRoot: a.ParentBeaconBlockRoot,
	}
}
