package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
)

// SubnetID identifies a subnet by its position in the hierarchical network:
// the anchor of the root network and the ordered path of subnet contract
// addresses leading from the root down to the subnet itself. The root network
// has an empty path.
type SubnetID struct {
	// Root is the magic number of the root network.
	Root int
	// Path is an ordered list of subnet addresses, topmost parent first.
	Path []interop.Hash160
}

// ErrInvalidSubnet is thrown when a subnet identifier is malformed.
const ErrInvalidSubnet = "invalid subnet identifier"

// ValidateSubnetID panics with ErrInvalidSubnet if id has a non-positive root
// anchor or a path element that is not a valid script hash.
func ValidateSubnetID(id SubnetID) {
	if id.Root <= 0 {
		panic(ErrInvalidSubnet)
	}

	for i := range id.Path {
		if len(id.Path[i]) != interop.Hash160Len {
			panic(ErrInvalidSubnet)
		}
	}
}

// SubnetEquals reports whether two subnet identifiers are structurally equal:
// same root anchor and the same path, element by element.
func SubnetEquals(a, b SubnetID) bool {
	if a.Root != b.Root {
		return false
	}

	if len(a.Path) != len(b.Path) {
		return false
	}

	for i := range a.Path {
		if !a.Path[i].Equals(b.Path[i]) {
			return false
		}
	}

	return true
}

// SubnetIsChildOf reports whether sub sits directly under parent in the
// hierarchy, that is, sub's path is parent's path plus exactly one element.
func SubnetIsChildOf(sub, parent SubnetID) bool {
	if sub.Root != parent.Root {
		return false
	}

	if len(sub.Path) != len(parent.Path)+1 {
		return false
	}

	for i := range parent.Path {
		if !sub.Path[i].Equals(parent.Path[i]) {
			return false
		}
	}

	return true
}
