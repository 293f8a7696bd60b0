package engine

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// BlockHashMismatchError reports a payload whose declared block hash does
// not match the hash computed from its contents.
type BlockHashMismatchError struct {
	Expected common.Hash
	Computed common.Hash
}

func (e *BlockHashMismatchError) Error() string {
	return fmt.Sprintf("block hash mismatch: expected %s, computed %s", e.Expected, e.Computed)
}

var (
	// ErrMissingPolTransaction marks a post-Prague1 payload whose first
	// transaction is not the PoL distribution transaction (or which has
	// no transactions at all).
	ErrMissingPolTransaction = errors.New("post-prague1 block must start with the pol transaction")

	errUnsupportedVersion = errors.New("unsupported engine API version")
)

// InvalidParamsError wraps a structural violation of the engine-API version
// rules (field present or absent against the active fork).
type InvalidParamsError struct {
	Reason string
}

func (e *InvalidParamsError) Error() string {
	return "invalid params: " + e.Reason
}

func invalidParams(format string, args ...any) error {
	return &InvalidParamsError{Reason: fmt.Sprintf(format, args...)}
}
