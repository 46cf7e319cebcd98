// Package addr implements the fixed-width account address used as the
// primary key for every typed state record the actuator core touches.
package addr

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Length is the fixed byte width of an Address: one network prefix byte
// plus a 20-byte identifier.
const Length = 21

// Prefix is the network byte every valid Address must start with.
const Prefix = 0x41

// ErrInvalidAddress is the sentinel wrapped by every address parsing failure.
var ErrInvalidAddress = errors.New("invalid address")

// Address is a fixed-width byte identifier for accounts and witnesses.
type Address [Length]byte

// Zero is the all-zero address. It never names a real account but is a
// convenient sentinel for "no address" in call sites that don't want to
// carry a pointer.
var Zero Address

// FromBytes constructs an Address from its raw byte form, rejecting any
// slice that isn't exactly Length bytes long or doesn't carry the expected
// network prefix.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Length {
		return a, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, Length, len(b))
	}
	if b[0] != Prefix {
		return a, fmt.Errorf("%w: unexpected network prefix 0x%02x", ErrInvalidAddress, b[0])
	}
	copy(a[:], b)
	return a, nil
}

// Bytes returns the address's raw 21-byte form.
func (a Address) Bytes() []byte {
	out := make([]byte, Length)
	copy(out, a[:])
	return out
}

// IsZero reports whether a equals the zero Address.
func (a Address) IsZero() bool {
	return a == Zero
}

// String renders the address as Base58Check, matching the reference
// protocol's human-readable form. It is for display only; lookups always
// use the raw byte form.
func (a Address) String() string {
	payload := a.Bytes()
	checksum := doubleSHA256(payload)[:4]
	return base58.Encode(append(payload, checksum...))
}

func doubleSHA256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}
