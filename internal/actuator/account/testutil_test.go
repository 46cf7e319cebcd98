package account

import (
	"path/filepath"
	"testing"

	"github.com/opentron-go/opentron/internal/addr"
	"github.com/opentron-go/opentron/internal/model"
	"github.com/opentron-go/opentron/internal/params"
	"github.com/opentron-go/opentron/internal/statedb"
	"github.com/stretchr/testify/require"
)

// fakeState is a minimal actuator.StateReader/StateWriter used to drive
// Validate/Execute directly in tests, bypassing the Manager.
type fakeState struct {
	tx        *statedb.Tx
	blackhole addr.Address
}

func (s *fakeState) Tx() *statedb.Tx { return s.tx }

func (s *fakeState) AddToBlackhole(amount int64) error {
	key := statedb.AccountKey{Addr: s.blackhole}
	acct, ok, err := statedb.Get(s.tx, key)
	if err != nil {
		return err
	}
	if !ok {
		acct = model.Account{}
	}
	acct.AdjustBalance(amount)
	return statedb.Put(s.tx, key, acct)
}

func newStore(t *testing.T) *statedb.Store {
	t.Helper()
	store, err := statedb.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func setChainParam(t *testing.T, store *statedb.Store, p params.ChainParameter, v int64) {
	t.Helper()
	err := store.Update(func(tx *statedb.Tx) error {
		return statedb.Put(tx, statedb.ChainParameterKey{Param: p}, v)
	})
	require.NoError(t, err)
}

func testAddr(t *testing.T, tail byte) addr.Address {
	t.Helper()
	raw := make([]byte, addr.Length)
	raw[0] = addr.Prefix
	raw[addr.Length-1] = tail
	a, err := addr.FromBytes(raw)
	require.NoError(t, err)
	return a
}
