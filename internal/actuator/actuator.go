// Package actuator defines the validate/execute/fee contract every
// built-in contract variant implements, and the per-transaction scratch
// space (TransactionContext) an actuator invocation populates.
package actuator

import (
	"github.com/google/uuid"
	"github.com/opentron-go/opentron/internal/model"
	"github.com/opentron-go/opentron/internal/statedb"
)

// StateReader is the read-only view an actuator's Validate sees.
type StateReader interface {
	Tx() *statedb.Tx
}

// StateWriter is the mutable view an actuator's Execute sees. It embeds
// StateReader since execute may still need to read state it hasn't
// already cached from validate.
type StateWriter interface {
	StateReader
	AddToBlackhole(amount int64) error
}

// TransactionContext is per-transaction mutable scratch: the fee accrued
// by the active contract, its eventual result, and a short diagnostic
// trace useful for CLI output and tests. Exactly one actuator invocation
// borrows a TransactionContext at a time (SPEC_FULL.md §3).
type TransactionContext struct {
	ID           string
	ContractFee  int64
	Result       model.TransactionResult
	Trace        []string
}

// NewTransactionContext creates a fresh, empty context tagged with a
// random request ID for trace correlation.
func NewTransactionContext() *TransactionContext {
	return &TransactionContext{ID: uuid.NewString()}
}

// Log appends one line to the context's diagnostic trace.
func (c *TransactionContext) Log(line string) {
	c.Trace = append(c.Trace, line)
}

// Actuator is the three-operation capability every built-in contract
// variant implements: validate is pure with respect to state, execute
// mutates it, and fee reports the contract's price in the smallest
// on-chain unit (SPEC_FULL.md §4.3).
type Actuator interface {
	// Validate checks all protocol-level preconditions against a
	// read-only state view, populating ctx.ContractFee when the contract
	// carries one. A non-nil return aborts before Execute is ever called.
	Validate(state StateReader, ctx *TransactionContext) error
	// Execute mutates state. It must assume every invariant Validate
	// checked still holds; any rejection surfacing here is a programmer
	// error, not a recoverable condition.
	Execute(state StateWriter, ctx *TransactionContext) (model.TransactionResult, error)
	// Fee reports the contract's price given a read-only state view onto
	// current chain parameters. Actuators that don't charge a fee return 0.
	Fee(state StateReader) int64
}
