// Package account implements the two account-family actuators:
// AccountUpdateContract (rename) and AccountPermissionUpdateContract
// (multisig permission replacement). See SPEC_FULL.md §4.4-4.5.
package account

import (
	"bytes"
	"fmt"

	"github.com/opentron-go/opentron/internal/actuator"
	"github.com/opentron-go/opentron/internal/addr"
	"github.com/opentron-go/opentron/internal/model"
	"github.com/opentron-go/opentron/internal/params"
	"github.com/opentron-go/opentron/internal/statedb"
)

// UpdateActuator implements AccountUpdateContract: setting an account's
// display name.
type UpdateActuator struct {
	Contract *model.AccountUpdateContract
}

var _ actuator.Actuator = (*UpdateActuator)(nil)

// Fee implements actuator.Actuator. Renaming an account carries no fee.
func (a *UpdateActuator) Fee(actuator.StateReader) int64 { return 0 }

// Validate implements actuator.Actuator per SPEC_FULL.md §4.4.
func (a *UpdateActuator) Validate(state actuator.StateReader, ctx *actuator.TransactionContext) error {
	c := a.Contract
	tx := state.Tx()

	if len(c.AccountName) > params.MaxAccountNameBytes {
		return fmt.Errorf("%w: invalid account name", actuator.ErrStructural)
	}

	owner, err := addr.FromBytes(c.OwnerAddress)
	if err != nil {
		return fmt.Errorf("%w: invalid owner_address", actuator.ErrStructural)
	}

	acct, ok, err := statedb.Get(tx, statedb.AccountKey{Addr: owner})
	if err != nil {
		return fmt.Errorf("%w: %v", actuator.ErrStorage, err)
	}
	if !ok {
		return fmt.Errorf("%w: account not exists", actuator.ErrNotFound)
	}

	allowRename, err := allowUpdateAccountName(tx)
	if err != nil {
		return err
	}

	if len(acct.Name) != 0 && !allowRename {
		return fmt.Errorf("%w: account name already exists", actuator.ErrPolicy)
	}

	if !allowRename {
		taken, err := nameTaken(tx, c.AccountName)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: the same account name already exists", actuator.ErrPolicy)
		}
	}

	return nil
}

// Execute implements actuator.Actuator per SPEC_FULL.md §4.4.
func (a *UpdateActuator) Execute(state actuator.StateWriter, ctx *actuator.TransactionContext) (model.TransactionResult, error) {
	c := a.Contract
	tx := state.Tx()

	owner, err := addr.FromBytes(c.OwnerAddress)
	if err != nil {
		// validate has already guaranteed this parses; reaching here
		// means validate and execute disagree, a programmer error.
		panic(fmt.Sprintf("account update execute: owner address no longer parses: %v", err))
	}

	key := statedb.AccountKey{Addr: owner}
	acct := statedb.MustGet(tx, key)
	acct.Name = c.AccountName

	if err := statedb.Put(tx, key, acct); err != nil {
		return model.TransactionResult{}, fmt.Errorf("%w: %v", actuator.ErrStorage, err)
	}
	return model.Success(), nil
}

func allowUpdateAccountName(tx *statedb.Tx) (bool, error) {
	v, ok, err := statedb.Get(tx, statedb.ChainParameterKey{Param: params.AllowUpdateAccountName})
	if err != nil {
		return false, fmt.Errorf("%w: %v", actuator.ErrStorage, err)
	}
	if !ok {
		return false, nil
	}
	return v != 0, nil
}

// nameTaken performs the full account-table scan SPEC_FULL.md §4.4 and §9
// call out by name: acceptable because it only runs under the legacy
// AllowUpdateAccountName=0 gate.
func nameTaken(tx *statedb.Tx, name []byte) (bool, error) {
	var found bool
	err := statedb.ForEachAccount(tx, func(_ addr.Address, acct model.Account) bool {
		if bytes.Equal(acct.Name, name) {
			found = true
			return false
		}
		return true
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", actuator.ErrStorage, err)
	}
	return found, nil
}
