package booking

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrPackageNotFound = errors.New("package not found")
	ErrNotFound        = errors.New("booking not found")
	ErrForbidden       = errors.New("requester does not own this booking")
	ErrAlreadyFinal    = errors.New("booking is already completed or cancelled")
	ErrActiveDelete    = errors.New("active bookings cannot be deleted")
)
