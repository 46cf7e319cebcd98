package statedb

import (
	"github.com/opentron-go/opentron/internal/addr"
	"github.com/opentron-go/opentron/internal/model"
	"github.com/opentron-go/opentron/internal/params"
)

var (
	bucketAccounts        = []byte("accounts")
	bucketWitnesses       = []byte("witnesses")
	bucketChainParameters = []byte("chain_parameters")
)

// allBuckets lists every bucket Open must ensure exists.
func allBuckets() [][]byte {
	return [][]byte{bucketAccounts, bucketWitnesses, bucketChainParameters}
}

// Key is implemented by every typed key family. V is the value type the
// key resolves to; Bucket/Encode/Decode together give Get/Put/MustGet a
// compile-time-checked projection from a key to its expected value type,
// per the heterogeneous typed key/value store design in SPEC_FULL.md §4.1.
//
// Decode must mention V in its signature: a concrete key type whose
// methods never refer to V would satisfy Key[V] for every V at once,
// leaving nothing for type inference to anchor on at call sites like
// statedb.Get(tx, AccountKey{...}).
type Key[V any] interface {
	Bucket() []byte
	Encode() []byte
	Decode(raw []byte) (V, error)
}

// AccountKey addresses the account record for Addr.
type AccountKey struct {
	Addr addr.Address
}

// Bucket implements Key[model.Account].
func (k AccountKey) Bucket() []byte { return bucketAccounts }

// Encode implements Key[model.Account].
func (k AccountKey) Encode() []byte { return k.Addr.Bytes() }

// Decode implements Key[model.Account].
func (k AccountKey) Decode(raw []byte) (model.Account, error) {
	var v model.Account
	err := decodeValue(raw, &v)
	return v, err
}

// WitnessKey addresses the witness record for Addr.
type WitnessKey struct {
	Addr addr.Address
}

// Bucket implements Key[model.Witness].
func (k WitnessKey) Bucket() []byte { return bucketWitnesses }

// Encode implements Key[model.Witness].
func (k WitnessKey) Encode() []byte { return k.Addr.Bytes() }

// Decode implements Key[model.Witness].
func (k WitnessKey) Decode(raw []byte) (model.Witness, error) {
	var v model.Witness
	err := decodeValue(raw, &v)
	return v, err
}

// ChainParameterKey addresses the current integer value of Param.
type ChainParameterKey struct {
	Param params.ChainParameter
}

// Bucket implements Key[int64].
func (k ChainParameterKey) Bucket() []byte { return bucketChainParameters }

// Encode implements Key[int64].
func (k ChainParameterKey) Encode() []byte { return []byte{byte(k.Param)} }

// Decode implements Key[int64].
func (k ChainParameterKey) Decode(raw []byte) (int64, error) {
	var v int64
	err := decodeValue(raw, &v)
	return v, err
}
