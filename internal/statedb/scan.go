package statedb

import (
	"github.com/opentron-go/opentron/internal/addr"
	"github.com/opentron-go/opentron/internal/model"
)

// ForEachAccount scans every account record in the accounts bucket. Order
// is bolt's native lexicographic byte order on the address, which is
// deterministic but not insertion order. Malformed keys (which should
// never occur, since every key this facade ever wrote was produced by
// Address.Bytes) are skipped rather than failing the whole scan.
//
// This is the facade-level primitive behind the name-uniqueness check in
// SPEC_FULL.md §4.4; it is a full table scan by design (see §9's note on
// a future name→address secondary index).
func ForEachAccount(tx *Tx, visit func(a addr.Address, acct model.Account) bool) error {
	return ForEach[model.Account](tx, bucketAccounts, nil, func(key []byte, acct model.Account) bool {
		a, err := addr.FromBytes(key)
		if err != nil {
			return true
		}
		return visit(a, acct)
	})
}
