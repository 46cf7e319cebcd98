// Package permission implements the pure structural and semantic
// validation of a Permission descriptor: SPEC_FULL.md §4.2's
// check_permission algebra.
package permission

import (
	"fmt"

	"github.com/opentron-go/opentron/internal/addr"
	"github.com/opentron-go/opentron/internal/model"
	"github.com/opentron-go/opentron/internal/params"
)

// Check validates perm under the expected permission type, returning a
// descriptive error on the first violated rule. Rule order is part of
// the consensus-compatible surface: it must match SPEC_FULL.md §4.2
// exactly so rejection messages agree with reference nodes.
func Check(perm *model.Permission, permType model.PermissionType) error {
	if len(perm.Keys) > params.MaxKeysPerPermission {
		return fmt.Errorf("number of keys in permission should not be greater than %d", params.MaxKeysPerPermission)
	}
	if len(perm.Keys) == 0 {
		return fmt.Errorf("no permission key provided")
	}
	if perm.Threshold <= 0 {
		return fmt.Errorf("permission threshold should be greater than 0")
	}
	if len(perm.Name) > params.PermissionNameMaxBytes {
		return fmt.Errorf("permission name is too long")
	}
	if perm.ParentID != 0 {
		return fmt.Errorf("parent_id must be 0(owner)")
	}

	var weightSum int64
	seen := make(map[addr.Address]struct{}, len(perm.Keys))
	for _, key := range perm.Keys {
		parsed, err := addr.FromBytes(key.Address)
		if err != nil {
			return fmt.Errorf("invalid key address")
		}
		if key.Weight <= 0 {
			return fmt.Errorf("weight of key should be greater than 0")
		}

		sum, overflowed := addOverflowing(weightSum, key.Weight)
		if overflowed {
			return fmt.Errorf("math overflow")
		}
		weightSum = sum

		if _, dup := seen[parsed]; dup {
			return fmt.Errorf("duplicated address in keys")
		}
		seen[parsed] = struct{}{}
	}

	if weightSum < perm.Threshold {
		return fmt.Errorf("sum of all weights should be greater than threshold")
	}

	switch permType {
	case model.Owner, model.Witness:
		if len(perm.Operations) != 0 {
			return fmt.Errorf("no operations vec needed")
		}
	case model.Active:
		if len(perm.Operations) == 0 || len(perm.Operations) != params.PermissionOperationsBytes {
			return fmt.Errorf("operations vec length must be 32")
		}
		// NOTE: walks all 256 bit positions of the mask regardless of
		// MaxDefinedContractTypeCode, a known quirk of the reference
		// implementation preserved bit-for-bit for consensus compatibility
		// (SPEC_FULL.md §9). Do not "optimize" this to stop early.
		for typeCode := 0; typeCode < 256; typeCode++ {
			mask := (perm.Operations[typeCode/8] >> uint(typeCode%8)) & 1
			if mask != 0 && !params.IsDefinedContractTypeCode(typeCode) {
				return fmt.Errorf("operation of %d is undefined", typeCode)
			}
		}
	}

	return nil
}

// addOverflowing adds a and b as signed 64-bit integers, reporting whether
// the result overflowed.
func addOverflowing(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, true
	}
	return sum, false
}
