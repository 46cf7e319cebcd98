package account

import (
	"errors"
	"testing"

	"github.com/opentron-go/opentron/internal/actuator"
	"github.com/opentron-go/opentron/internal/model"
	"github.com/opentron-go/opentron/internal/params"
	"github.com/opentron-go/opentron/internal/statedb"
	"github.com/stretchr/testify/require"
)

func basicPermission(t *testing.T, typ model.PermissionType, keyAddr []byte) *model.Permission {
	t.Helper()
	p := &model.Permission{
		Type:      typ,
		Threshold: 1,
		Keys:      []model.PermissionKey{{Address: keyAddr, Weight: 1}},
	}
	if typ == model.Active {
		p.Name = "active"
		p.Operations = make([]byte, params.PermissionOperationsBytes)
	}
	return p
}

func runPermissionUpdate(t *testing.T, store *statedb.Store, act *PermissionUpdateActuator) error {
	t.Helper()
	return store.Update(func(tx *statedb.Tx) error {
		state := &fakeState{tx: tx, blackhole: testAddr(t, 0xff)}
		ctx := actuator.NewTransactionContext()
		if err := act.Validate(state, ctx); err != nil {
			return err
		}
		_, err := act.Execute(state, ctx)
		return err
	})
}

func TestPermissionUpdate_SuccessWithFee(t *testing.T) {
	store := newStore(t)
	setChainParam(t, store, params.AllowMultisig, 1)
	setChainParam(t, store, params.AccountPermissionUpdateFee, 100)

	owner := testAddr(t, 0x10)
	putAccount(t, store, statedb.AccountKey{Addr: owner}, model.Account{
		Balance:         1000,
		OwnerPermission: basicPermission(t, model.Owner, owner.Bytes()),
	})

	newOwnerKey := testAddr(t, 0x11)
	act := &PermissionUpdateActuator{Contract: &model.AccountPermissionUpdateContract{
		OwnerAddress: owner.Bytes(),
		Owner:        basicPermission(t, model.Owner, newOwnerKey.Bytes()),
		Actives:      []model.Permission{*basicPermission(t, model.Active, newOwnerKey.Bytes())},
	}}

	err := runPermissionUpdate(t, store, act)
	require.NoError(t, err)

	acct := getAccount(t, store, statedb.AccountKey{Addr: owner})
	require.Equal(t, int64(900), acct.Balance)
	require.Equal(t, newOwnerKey.Bytes(), acct.OwnerPermission.Keys[0].Address)

	blackhole := getAccount(t, store, statedb.AccountKey{Addr: testAddr(t, 0xff)})
	require.Equal(t, int64(100), blackhole.Balance)
}

func TestPermissionUpdate_MultisigDisabled(t *testing.T) {
	store := newStore(t)
	owner := testAddr(t, 0x12)
	putAccount(t, store, statedb.AccountKey{Addr: owner}, model.Account{Balance: 1000})

	act := &PermissionUpdateActuator{Contract: &model.AccountPermissionUpdateContract{
		OwnerAddress: owner.Bytes(),
		Owner:        basicPermission(t, model.Owner, owner.Bytes()),
		Actives:      []model.Permission{*basicPermission(t, model.Active, owner.Bytes())},
	}}

	err := runPermissionUpdate(t, store, act)
	require.Error(t, err)
	require.True(t, errors.Is(err, actuator.ErrPolicy))
}

func TestPermissionUpdate_MissingWitnessPermission(t *testing.T) {
	store := newStore(t)
	setChainParam(t, store, params.AllowMultisig, 1)

	owner := testAddr(t, 0x13)
	putAccount(t, store, statedb.AccountKey{Addr: owner}, model.Account{Balance: 1000})
	err := store.Update(func(tx *statedb.Tx) error {
		return statedb.Put(tx, statedb.WitnessKey{Addr: owner}, model.Witness{Address: owner})
	})
	require.NoError(t, err)

	act := &PermissionUpdateActuator{Contract: &model.AccountPermissionUpdateContract{
		OwnerAddress: owner.Bytes(),
		Owner:        basicPermission(t, model.Owner, owner.Bytes()),
		Actives:      []model.Permission{*basicPermission(t, model.Active, owner.Bytes())},
	}}

	err = runPermissionUpdate(t, store, act)
	require.Error(t, err)
	require.True(t, errors.Is(err, actuator.ErrStructural))
}

func TestPermissionUpdate_AccountIsNotAWitness(t *testing.T) {
	store := newStore(t)
	setChainParam(t, store, params.AllowMultisig, 1)

	owner := testAddr(t, 0x14)
	putAccount(t, store, statedb.AccountKey{Addr: owner}, model.Account{Balance: 1000})

	act := &PermissionUpdateActuator{Contract: &model.AccountPermissionUpdateContract{
		OwnerAddress: owner.Bytes(),
		Owner:        basicPermission(t, model.Owner, owner.Bytes()),
		Witness:      basicPermission(t, model.Witness, owner.Bytes()),
		Actives:      []model.Permission{*basicPermission(t, model.Active, owner.Bytes())},
	}}

	err := runPermissionUpdate(t, store, act)
	require.Error(t, err)
	require.True(t, errors.Is(err, actuator.ErrPolicy))
}

func TestPermissionUpdate_InsufficientBalanceForFee(t *testing.T) {
	store := newStore(t)
	setChainParam(t, store, params.AllowMultisig, 1)
	setChainParam(t, store, params.AccountPermissionUpdateFee, 500)

	owner := testAddr(t, 0x15)
	putAccount(t, store, statedb.AccountKey{Addr: owner}, model.Account{Balance: 10})

	act := &PermissionUpdateActuator{Contract: &model.AccountPermissionUpdateContract{
		OwnerAddress: owner.Bytes(),
		Owner:        basicPermission(t, model.Owner, owner.Bytes()),
		Actives:      []model.Permission{*basicPermission(t, model.Active, owner.Bytes())},
	}}

	err := runPermissionUpdate(t, store, act)
	require.Error(t, err)
	require.True(t, errors.Is(err, actuator.ErrPolicy))

	acct := getAccount(t, store, statedb.AccountKey{Addr: owner})
	require.Equal(t, int64(10), acct.Balance)
}

func TestPermissionUpdate_DuplicateKeyInPermission(t *testing.T) {
	store := newStore(t)
	setChainParam(t, store, params.AllowMultisig, 1)

	owner := testAddr(t, 0x16)
	putAccount(t, store, statedb.AccountKey{Addr: owner}, model.Account{Balance: 1000})

	dup := testAddr(t, 0x17).Bytes()
	ownerPerm := &model.Permission{
		Type:      model.Owner,
		Threshold: 2,
		Keys: []model.PermissionKey{
			{Address: dup, Weight: 1},
			{Address: dup, Weight: 1},
		},
	}

	act := &PermissionUpdateActuator{Contract: &model.AccountPermissionUpdateContract{
		OwnerAddress: owner.Bytes(),
		Owner:        ownerPerm,
		Actives:      []model.Permission{*basicPermission(t, model.Active, owner.Bytes())},
	}}

	err := runPermissionUpdate(t, store, act)
	require.Error(t, err)
	require.True(t, errors.Is(err, actuator.ErrStructural))
}

func TestPermissionUpdate_TooManyActivePermissions(t *testing.T) {
	store := newStore(t)
	setChainParam(t, store, params.AllowMultisig, 1)

	owner := testAddr(t, 0x18)
	putAccount(t, store, statedb.AccountKey{Addr: owner}, model.Account{Balance: 1000})

	actives := make([]model.Permission, params.MaxActivePermissions+1)
	for i := range actives {
		actives[i] = *basicPermission(t, model.Active, owner.Bytes())
	}

	act := &PermissionUpdateActuator{Contract: &model.AccountPermissionUpdateContract{
		OwnerAddress: owner.Bytes(),
		Owner:        basicPermission(t, model.Owner, owner.Bytes()),
		Actives:      actives,
	}}

	err := runPermissionUpdate(t, store, act)
	require.Error(t, err)
	require.True(t, errors.Is(err, actuator.ErrStructural))
}
