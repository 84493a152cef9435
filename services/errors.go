package services

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrBookingNotFound  = errors.New("booking not found")

	ErrCheckInPast      = errors.New("check-in date cannot be in the past")
	ErrInvalidDateRange = errors.New("check-out date must be after check-in date")
	ErrRoomRequired     = errors.New("room ID is required for hotel bookings")
	ErrInvalidRoom      = errors.New("invalid room type")

	ErrCheckOutPassed = errors.New("cannot cancel booking as the check-out date has already passed")
)

// UnsupportedPropertyTypeError is returned when a property is neither an
// apartment nor a hotel.
type UnsupportedPropertyTypeError struct {
	PropertyType string
}

func (e *UnsupportedPropertyTypeError) Error() string {
	return fmt.Sprintf("this booking API is only for apartments and hotels. Property type: %s", e.PropertyType)
}

// ConflictError carries the requested days that are already reserved. The
// message truncates to the first three days so callers can adjust dates
// without being flooded.
type ConflictError struct {
	Kind  string // apartment or hotel
	Dates []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("the %s is already booked for these dates: %s. Please choose different dates.",
		e.Kind, FormatConflictDates(e.Dates))
}

// TransitionError reports an illegal booking status change. It states the
// current status verbatim so the caller knows why the change was rejected.
type TransitionError struct {
	Current string
	Target  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking is already %s. Cannot change status to %s.", e.Current, e.Target)
}
