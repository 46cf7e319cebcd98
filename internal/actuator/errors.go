package actuator

import "errors"

// Sentinel errors naming the taxonomy from SPEC_FULL.md §7. Every
// rejection an actuator returns wraps exactly one of these via fmt.Errorf("%w: ...", sentinel), so callers can distinguish
// rejection classes with errors.Is without parsing the (consensus-
// compatible, string-stable) message itself.
var (
	// ErrStructural marks a malformed input: a bad address, an oversized
	// field, a permission descriptor that fails internal structural rules.
	ErrStructural = errors.New("structural rejection")
	// ErrPolicy marks a protocol-rule violation: a disabled feature gate,
	// an insufficient balance, a fee the payer can't cover.
	ErrPolicy = errors.New("policy rejection")
	// ErrNotFound marks a missing prerequisite state record.
	ErrNotFound = errors.New("not-found rejection")
	// ErrStorage marks a failure from the underlying key/value engine.
	ErrStorage = errors.New("storage error")
)
