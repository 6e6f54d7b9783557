package prompt

import "fmt"

// InvalidAssignmentError reports a value of an unsupported shape assigned
// to an address. There is no silent coercion: only item sequences, whole
// sections, and single text values are accepted.
type InvalidAssignmentError struct {
	Address string
	Kind    string
}

// Error implements the error interface.
func (e *InvalidAssignmentError) Error() string {
	return fmt.Sprintf("invalid assignment at %q: %s", e.Address, e.Kind)
}

// UnresolvedAddressError reports a malformed or inconsistent address, such
// as a child segment that is not a descendant of the handle it was resolved
// against.
type UnresolvedAddressError struct {
	Address string
	Reason  string
}

// Error implements the error interface.
func (e *UnresolvedAddressError) Error() string {
	return fmt.Sprintf("unresolved address %q: %s", e.Address, e.Reason)
}
