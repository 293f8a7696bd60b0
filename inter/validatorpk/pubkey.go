// Package validatorpk defines the BLS public key of a block proposer as it
// appears in extended headers and engine-API sidecars.
package validatorpk

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Size is the length of a compressed BLS12-381 public key.
const Size = 48

// PubKey is a proposer's compressed BLS public key. The fixed width matters:
// headers carrying a key of any other length are invalid.
type PubKey [Size]byte

// FromBytes converts a raw key, rejecting wrong lengths.
func FromBytes(b []byte) (PubKey, error) {
	var pk PubKey
	if len(b) != Size {
		return pk, fmt.Errorf("validator pubkey must be %d bytes, got %d", Size, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// FromString parses a 0x-prefixed hex key.
func FromString(s string) (PubKey, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return PubKey{}, err
	}
	return FromBytes(b)
}

// Bytes returns the raw 48-byte key.
func (pk PubKey) Bytes() []byte {
	return pk[:]
}

func (pk PubKey) String() string {
	return hexutil.Encode(pk[:])
}

// Equal reports byte equality with a raw key.
func (pk PubKey) Equal(b []byte) bool {
	return bytes.Equal(pk[:], b)
}

// MarshalText implements encoding.TextMarshaler (0x-prefixed hex).
func (pk PubKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PubKey) UnmarshalText(text []byte) error {
	got, err := FromString(string(text))
	if err != nil {
		return err
	}
	*pk = got
	return nil
}
