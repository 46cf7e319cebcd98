package account

import (
	"fmt"

	"github.com/opentron-go/opentron/internal/actuator"
	"github.com/opentron-go/opentron/internal/addr"
	"github.com/opentron-go/opentron/internal/model"
	"github.com/opentron-go/opentron/internal/params"
	"github.com/opentron-go/opentron/internal/permission"
	"github.com/opentron-go/opentron/internal/statedb"
)

// PermissionUpdateActuator implements AccountPermissionUpdateContract:
// replacing an account's owner, active, and (for witnesses) witness
// permissions in one shot, charging a chain-parameter fee.
type PermissionUpdateActuator struct {
	Contract *model.AccountPermissionUpdateContract
}

var _ actuator.Actuator = (*PermissionUpdateActuator)(nil)

// Fee implements actuator.Actuator per SPEC_FULL.md §4.5.
func (a *PermissionUpdateActuator) Fee(state actuator.StateReader) int64 {
	v, ok, err := statedb.Get(state.Tx(), statedb.ChainParameterKey{Param: params.AccountPermissionUpdateFee})
	if err != nil || !ok {
		return 0
	}
	return v
}

// Validate implements actuator.Actuator per SPEC_FULL.md §4.5.
func (a *PermissionUpdateActuator) Validate(state actuator.StateReader, ctx *actuator.TransactionContext) error {
	c := a.Contract
	tx := state.Tx()

	allowMultisig, ok, err := statedb.Get(tx, statedb.ChainParameterKey{Param: params.AllowMultisig})
	if err != nil {
		return fmt.Errorf("%w: %v", actuator.ErrStorage, err)
	}
	if !ok || allowMultisig == 0 {
		return fmt.Errorf("%w: multisig is disabled on chain", actuator.ErrPolicy)
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

	if c.Owner == nil {
		return fmt.Errorf("%w: missing owner permission", actuator.ErrStructural)
	}

	_, isWitness, err := statedb.Get(tx, statedb.WitnessKey{Addr: owner})
	if err != nil {
		return fmt.Errorf("%w: %v", actuator.ErrStorage, err)
	}
	if isWitness {
		if c.Witness == nil {
			return fmt.Errorf("%w: missing witness permission", actuator.ErrStructural)
		}
		if err := permission.Check(c.Witness, model.Witness); err != nil {
			return fmt.Errorf("%w: %v", actuator.ErrStructural, err)
		}
	} else if c.Witness != nil {
		return fmt.Errorf("%w: account is not a witness", actuator.ErrPolicy)
	}

	if len(c.Actives) == 0 {
		return fmt.Errorf("%w: missing active permissions", actuator.ErrStructural)
	}
	if len(c.Actives) > params.MaxActivePermissions {
		return fmt.Errorf("%w: too many active permissions", actuator.ErrStructural)
	}

	if err := permission.Check(c.Owner, model.Owner); err != nil {
		return fmt.Errorf("%w: %v", actuator.ErrStructural, err)
	}
	for i := range c.Actives {
		if err := permission.Check(&c.Actives[i], model.Active); err != nil {
			return fmt.Errorf("%w: %v", actuator.ErrStructural, err)
		}
	}

	fee := a.Fee(state)
	if acct.Balance < fee {
		return fmt.Errorf("%w: insufficient balance to set account permission", actuator.ErrPolicy)
	}
	ctx.ContractFee = fee

	return nil
}

// Execute implements actuator.Actuator per SPEC_FULL.md §4.5.
func (a *PermissionUpdateActuator) Execute(state actuator.StateWriter, ctx *actuator.TransactionContext) (model.TransactionResult, error) {
	c := a.Contract
	tx := state.Tx()

	owner, err := addr.FromBytes(c.OwnerAddress)
	if err != nil {
		panic(fmt.Sprintf("account permission update execute: owner address no longer parses: %v", err))
	}

	key := statedb.AccountKey{Addr: owner}
	acct := statedb.MustGet(tx, key)

	acct.OwnerPermission = c.Owner
	acct.ActivePermissions = c.Actives

	if c.Witness != nil {
		wkey := statedb.WitnessKey{Addr: owner}
		wit := statedb.MustGet(tx, wkey)
		sigKey, err := addr.FromBytes(c.Witness.Keys[0].Address)
		if err != nil {
			panic(fmt.Sprintf("account permission update execute: witness key address no longer parses: %v", err))
		}
		wit.SignatureKey = sigKey
		if err := statedb.Put(tx, wkey, wit); err != nil {
			return model.TransactionResult{}, fmt.Errorf("%w: %v", actuator.ErrStorage, err)
		}
	}

	if ctx.ContractFee > 0 {
		acct.AdjustBalance(-ctx.ContractFee)
		if err := state.AddToBlackhole(ctx.ContractFee); err != nil {
			return model.TransactionResult{}, fmt.Errorf("%w: %v", actuator.ErrStorage, err)
		}
	}

	if err := statedb.Put(tx, key, acct); err != nil {
		return model.TransactionResult{}, fmt.Errorf("%w: %v", actuator.ErrStorage, err)
	}
	return model.Success(), nil
}
