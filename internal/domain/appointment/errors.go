package appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotTaken           = errors.New("slot is already booked")
	ErrAlreadyCancelled    = errors.New("appointment is already cancelled")
	ErrNotOwner            = errors.New("appointment does not belong to this principal")
	ErrInvalidSlotDate     = errors.New("slot date must be in YYYY-MM-DD format")
	ErrInvalidSlotTime     = errors.New("slot time is not a valid booking slot")
	ErrInvalidAmount       = errors.New("amount must be a positive number")
)
