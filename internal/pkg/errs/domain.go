package errs

import "errors"

// Domain-level sentinels shared across use cases.
var (
	// ErrAlreadyHandled signals that a state transition lost a race: the
	// object moved out of the expected status before the update landed.
	ErrAlreadyHandled = errors.New("already handled")

	// ErrPermissionDenied signals that the caller is not allowed to perform
	// the requested operation on the target object.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrDriverLocationUnknown signals that an operation needs the driver's
	// last reported coordinate and none is on record.
	ErrDriverLocationUnknown = errors.New("driver location unknown")
)
