package model

// PermissionType distinguishes the three permission roles an account
// descriptor can fill.
type PermissionType int

const (
	// Owner permissions authorize the full set of account operations and
	// may replace any other permission.
	Owner PermissionType = iota
	// Witness permissions authorize block-production-related operations;
	// only accounts with a Witness record may carry one.
	Witness
	// Active permissions authorize a configurable subset of contract
	// types, selected by an operations bitmask.
	Active
)

// String renders the permission type's canonical name for diagnostics.
func (t PermissionType) String() string {
	switch t {
	case Owner:
		return "Owner"
	case Witness:
		return "Witness"
	case Active:
		return "Active"
	default:
		return "Unknown"
	}
}

// PermissionKey is one weighted signer inside a Permission descriptor.
// Address is kept as raw wire bytes rather than a parsed addr.Address
// because Check itself is responsible for rejecting malformed addresses
// (rule 6); by the time execute runs, validate has already guaranteed
// every key address parses.
type PermissionKey struct {
	Address []byte
	Weight  int64
}

// Permission is a multisig capability descriptor: a weighted-key quorum
// plus, for Active permissions, the set of contract types it authorizes.
type Permission struct {
	Type       PermissionType
	ID         int32
	Name       string
	Threshold  int64
	ParentID   int32
	Operations []byte
	Keys       []PermissionKey
}
