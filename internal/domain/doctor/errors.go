package doctor

import "errors"

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrDoctorUnavailable = errors.New("doctor is not accepting bookings")
	ErrEmailTaken        = errors.New("doctor with this email already exists")
)
