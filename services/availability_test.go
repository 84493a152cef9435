package services

import (
	"testing"

	"github.com/Hood-Codivo/restar-africa/models"

	"github.com/stretchr/testify/require"
)

func TestFindConflicts(t *testing.T) {
	reserved := []string{"2024-06-02", "2024-06-03", "2024-06-10"}

	conflicts := FindConflicts([]string{"2024-06-01", "2024-06-02", "2024-06-03"}, reserved)
	require.Equal(t, []string{"2024-06-02", "2024-06-03"}, conflicts)

	require.Empty(t, FindConflicts([]string{"2024-06-04", "2024-06-05"}, reserved))
	require.Empty(t, FindConflicts(nil, reserved))
	require.Empty(t, FindConflicts([]string{"2024-06-01"}, nil))
}

func TestFormatConflictDates(t *testing.T) {
	require.Equal(t, "2024-06-01", FormatConflictDates([]string{"2024-06-01"}))
	require.Equal(t, "2024-06-01, 2024-06-02, 2024-06-03",
		FormatConflictDates([]string{"2024-06-01", "2024-06-02", "2024-06-03"}))

	// more than three days collapse to the first three plus a count
	require.Equal(t, "2024-06-01, 2024-06-02, 2024-06-03 and 2 more dates",
		FormatConflictDates([]string{"2024-06-01", "2024-06-02", "2024-06-03", "2024-06-04", "2024-06-05"}))
}

func TestConflictErrorMessage(t *testing.T) {
	err := &ConflictError{Kind: "apartment", Dates: []string{"2024-06-02", "2024-06-03"}}
	require.Equal(t,
		"the apartment is already booked for these dates: 2024-06-02, 2024-06-03. Please choose different dates.",
		err.Error())
}

func TestResolveBookingTargetApartment(t *testing.T) {
	property := &models.Property{PropertyType: models.PropertyTypeApartment}
	property.ReservedDates = encodeDays([]string{"2024-06-01"})

	target, err := ResolveBookingTarget(property, nil)
	require.NoError(t, err)
	require.Equal(t, models.PropertyTypeApartment, target.Kind())
	require.Nil(t, target.RoomTypeID())
	require.Equal(t, []string{"2024-06-01"}, target.ReservedDays())
}

func TestResolveBookingTargetHotel(t *testing.T) {
	property := &models.Property{PropertyType: models.PropertyTypeHotel}
	room := models.RoomType{Name: "Deluxe"}
	room.ID = 7
	room.ReservedDates = encodeDays([]string{"2024-06-05"})
	property.RoomTypes = []models.RoomType{room}

	_, err := ResolveBookingTarget(property, nil)
	require.ErrorIs(t, err, ErrRoomRequired)

	missing := uint(99)
	_, err = ResolveBookingTarget(property, &missing)
	require.ErrorIs(t, err, ErrInvalidRoom)

	id := uint(7)
	target, err := ResolveBookingTarget(property, &id)
	require.NoError(t, err)
	require.Equal(t, models.PropertyTypeHotel, target.Kind())
	require.Equal(t, []string{"2024-06-05"}, target.ReservedDays())
}

func TestResolveBookingTargetUnsupportedType(t *testing.T) {
	property := &models.Property{PropertyType: "office"}

	_, err := ResolveBookingTarget(property, nil)
	var unsupported *UnsupportedPropertyTypeError
	require.ErrorAs(t, err, &unsupported)
	require.Contains(t, unsupported.Error(), "office")
}

func TestDaySetHelpers(t *testing.T) {
	require.Nil(t, decodeDays(nil))
	require.Nil(t, decodeDays(encodeDays(nil)))

	days := []string{"2024-06-01", "2024-06-02"}
	require.Equal(t, days, decodeDays(encodeDays(days)))

	union := unionDays([]string{"2024-06-01"}, []string{"2024-06-01", "2024-06-02"})
	require.Equal(t, []string{"2024-06-01", "2024-06-02"}, union)

	left := removeDays([]string{"2024-06-01", "2024-06-02", "2024-06-03"}, []string{"2024-06-02"})
	require.Equal(t, []string{"2024-06-01", "2024-06-03"}, left)
}
