// Package distributor binds the proof-of-liquidity distributor contract.
// Every post-Prague1 block starts with a synthetic transaction calling
// distributeFor with the previous proposer's BLS public key; this package
// packs that calldata.
package distributor

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ContractABI covers the single method the execution layer calls.
const ContractABI = "[{\"inputs\":[{\"internalType\":\"bytes\",\"name\":\"pubkey\",\"type\":\"bytes\"}],\"name\":\"distributeFor\",\"outputs\":[],\"stateMutability\":\"nonpayable\",\"type\":\"function\"}]"

var (
	parsedABI abi.ABI

	// DistributeForMethodID is the 4-byte selector of distributeFor(bytes).
	DistributeForMethodID []byte
)

func init() {
	var err error
	parsedABI, err = abi.JSON(strings.NewReader(ContractABI))
	if err != nil {
		panic(err)
	}
	DistributeForMethodID = parsedABI.Methods["distributeFor"].ID
}

// PackDistributeFor ABI-encodes the distributeFor(pubkey) call.
func PackDistributeFor(pubkey []byte) ([]byte, error) {
	data, err := parsedABI.Pack("distributeFor", pubkey)
	if err != nil {
		return nil, fmt.Errorf("pack distributeFor: %w", err)
	}
	return data, nil
}
