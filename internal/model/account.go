// Package model holds the plain data types the actuator core reads and
// writes: accounts, witnesses, permissions, and the built-in contract
// payloads the two account actuators execute.
package model

import (
	"errors"
	"fmt"

	"github.com/opentron-go/opentron/internal/addr"
	"github.com/opentron-go/opentron/internal/params"
)

// ErrInsufficientBalance names the panic AdjustBalance raises when a debit
// would take the account negative.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Account is the on-chain record keyed by Address. Only the fields this
// actuator core touches are modeled; asset balances, votes, and frozen
// resources the full node also tracks are out of scope here.
type Account struct {
	Name              []byte
	Balance           int64
	OwnerPermission   *Permission
	ActivePermissions []Permission
}

// NameExceedsLimit reports whether a.Name is longer than the protocol's
// maximum account name length.
func (a *Account) NameExceedsLimit() bool {
	return len(a.Name) > params.MaxAccountNameBytes
}

// AdjustBalance applies delta to the account's balance. A negative delta
// that would take the balance below zero is a programmer-precondition
// violation: callers (the permission-update actuator) must have already
// verified sufficiency during validate, so this path panics rather than
// returning a recoverable error.
func (a *Account) AdjustBalance(delta int64) {
	next := a.Balance + delta
	if next < 0 {
		panic(fmt.Sprintf("%v: balance %d adjusted by %d would go negative", ErrInsufficientBalance, a.Balance, delta))
	}
	a.Balance = next
}

// Witness is the auxiliary record marking an account as a
// super-representative. Only SignatureKey is modeled; block-production
// bookkeeping the full node also tracks is out of scope here.
type Witness struct {
	Address      addr.Address
	SignatureKey addr.Address
}
