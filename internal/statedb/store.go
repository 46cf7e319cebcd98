// Package statedb is the state database facade: a typed, transactional
// get/put/scan layer over a single bolt-backed key/value store, fronted
// by a small read cache. See SPEC_FULL.md §4.1.
package statedb

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/boltdb/bolt"
)

// ErrNotOpen is returned by any Store operation attempted before Open or
// after Close.
var ErrNotOpen = errors.New("statedb: store is not open")

// ErrStorage wraps failures from the underlying bolt engine.
var ErrStorage = errors.New("statedb: storage error")

// ErrInvariant is the panic value used by MustGet when the caller's
// documented precondition (the record exists) doesn't hold. It signals a
// programmer error in the caller, not a recoverable runtime condition.
var ErrInvariant = errors.New("statedb: must_get precondition violated")

// cacheBytes sizes the read-through fastcache fronting bolt reads. Account
// and witness records are small; a few megabytes comfortably covers a
// block's worth of repeat reads without meaningfully growing the
// process's resident memory.
const cacheBytes = 8 * 1024 * 1024

// Store is the state database facade. It owns the bolt file handle
// exclusively; callers reach it only through the Manager (SPEC_FULL.md
// §3's ownership rule).
type Store struct {
	db    *bolt.DB
	cache *fastcache.Cache
}

// Open creates or opens the bolt-backed state database at path, ensuring
// every known bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrStorage, path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range allBuckets() {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: initializing buckets: %v", ErrStorage, err)
	}
	return &Store{db: db, cache: fastcache.New(cacheBytes)}, nil
}

// Close releases the underlying bolt file handle.
func (s *Store) Close() error {
	if s.db == nil {
		return ErrNotOpen
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// View runs fn against a read-only transaction. State observed inside fn
// is a consistent snapshot for the duration of the call.
func (s *Store) View(fn func(tx *Tx) error) error {
	if s.db == nil {
		return ErrNotOpen
	}
	return s.db.View(func(btx *bolt.Tx) error {
		return fn(&Tx{btx: btx, cache: s.cache})
	})
}

// Update runs fn against a read-write transaction. If fn returns an error
// the whole transaction — every Put made through tx — is discarded, which
// is how this facade satisfies "no partial state mutation escapes a
// failed actuator" (SPEC_FULL.md §4.3) without any manual undo log.
//
// Writes made through a Tx only reach the shared read cache after bolt
// confirms the commit: caching them eagerly would let a rolled-back
// transaction poison reads from every other transaction.
func (s *Store) Update(fn func(tx *Tx) error) error {
	if s.db == nil {
		return ErrNotOpen
	}
	t := &Tx{cache: s.cache, writable: true}
	err := s.db.Update(func(btx *bolt.Tx) error {
		t.btx = btx
		return fn(t)
	})
	if err == nil {
		for _, w := range t.pending {
			s.cache.Set(w.key, w.value)
		}
	}
	return err
}

// Tx is a transaction-scoped view of the Store, bound to one underlying
// bolt transaction. All generic Get/Put/ForEach helpers operate on a Tx
// rather than the Store directly so that validate and execute always see
// (and, for execute, mutate) the same snapshot.
type Tx struct {
	btx      *bolt.Tx
	cache    *fastcache.Cache
	writable bool
	pending  []cacheWrite
}

type cacheWrite struct {
	key   []byte
	value []byte
}

func cacheKey(bucket, key []byte) []byte {
	out := make([]byte, 0, len(bucket)+1+len(key))
	out = append(out, bucket...)
	out = append(out, ':')
	out = append(out, key...)
	return out
}

// Get fetches the value for k, reporting whether it was present. Inside a
// writable transaction the read cache is bypassed entirely: bolt's own
// bucket already merges this transaction's uncommitted writes, and the
// shared cache must not observe them until (and unless) the transaction
// commits.
func Get[V any](tx *Tx, k Key[V]) (V, bool, error) {
	var zero V
	ck := cacheKey(k.Bucket(), k.Encode())
	if !tx.writable {
		if raw, ok := tx.cache.HasGet(nil, ck); ok {
			v, err := k.Decode(raw)
			if err != nil {
				return zero, false, fmt.Errorf("%w: decoding cached value: %v", ErrStorage, err)
			}
			return v, true, nil
		}
	}

	b := tx.btx.Bucket(k.Bucket())
	if b == nil {
		return zero, false, fmt.Errorf("%w: unknown bucket %q", ErrStorage, k.Bucket())
	}
	raw := b.Get(k.Encode())
	if raw == nil {
		return zero, false, nil
	}
	v, err := k.Decode(raw)
	if err != nil {
		return zero, false, fmt.Errorf("%w: decoding value: %v", ErrStorage, err)
	}
	if !tx.writable {
		tx.cache.Set(ck, raw)
	}
	return v, true, nil
}

// MustGet fetches the value for k, panicking if it is absent. Callers use
// this only once validate has already established the record exists —
// per SPEC_FULL.md §4.1 this is an assertion, not a recoverable error
// path.
func MustGet[V any](tx *Tx, k Key[V]) V {
	v, ok, err := Get(tx, k)
	if err != nil {
		panic(fmt.Sprintf("%v: %v", ErrInvariant, err))
	}
	if !ok {
		panic(fmt.Sprintf("%v: no value for key in bucket %q", ErrInvariant, k.Bucket()))
	}
	return v
}

// Put writes v under k. The write lands in the bolt transaction only;
// nothing is durable until the enclosing Store.Update call returns nil.
func Put[V any](tx *Tx, k Key[V], v V) error {
	b := tx.btx.Bucket(k.Bucket())
	if b == nil {
		return fmt.Errorf("%w: unknown bucket %q", ErrStorage, k.Bucket())
	}
	raw, err := encodeValue(v)
	if err != nil {
		return fmt.Errorf("%w: encoding value: %v", ErrStorage, err)
	}
	if err := b.Put(k.Encode(), raw); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	tx.pending = append(tx.pending, cacheWrite{key: cacheKey(k.Bucket(), k.Encode()), value: raw})
	return nil
}

// ForEach scans every entry of one bucket, calling visit with the decoded
// key and value. Iteration order is bolt's native lexicographic byte
// order on the encoded key — deterministic, as SPEC_FULL.md §4.1
// requires, though not necessarily insertion order. visit returning false
// stops the scan early.
func ForEach[V any](tx *Tx, bucket []byte, decodeKey func([]byte) []byte, visit func(key []byte, v V) bool) error {
	b := tx.btx.Bucket(bucket)
	if b == nil {
		return fmt.Errorf("%w: unknown bucket %q", ErrStorage, bucket)
	}
	err := b.ForEach(func(k, raw []byte) error {
		var v V
		if err := decodeValue(raw, &v); err != nil {
			return fmt.Errorf("%w: decoding scanned value: %v", ErrStorage, err)
		}
		keep := true
		if decodeKey != nil {
			keep = visit(decodeKey(k), v)
		} else {
			keep = visit(k, v)
		}
		if !keep {
			return errStopIteration
		}
		return nil
	})
	if errors.Is(err, errStopIteration) {
		return nil
	}
	return err
}

var errStopIteration = errors.New("statedb: stop iteration")

func encodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeValue(raw []byte, out any) error {
	return gob.NewDecoder(bytes.NewReader(raw)).Decode(out)
}
