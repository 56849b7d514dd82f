package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateEntry indicates a uniqueness constraint violation,
	// e.g. two rows claiming the same remote identifier.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidEntity indicates a domain-rule violation during entity creation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidEnumValue indicates a value outside an enumeration's domain.
	ErrInvalidEnumValue = errors.New("invalid enum value")

	// ErrInvalidPhoneNumber indicates a value that is not a valid E.164 number.
	ErrInvalidPhoneNumber = errors.New("invalid E.164 phone number")
)
