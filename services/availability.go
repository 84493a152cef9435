package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Hood-Codivo/restar-africa/models"

	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BookingTarget is the availability list a booking reserves against: the
// property-level day-set for apartments, or a specific room type's day-set
// for hotels.
type BookingTarget interface {
	Kind() string
	RoomTypeID() *uint
	ReservedDays() []string
	Reserve(tx *gorm.DB, days []string) error
	Release(tx *gorm.DB, days []string) error
}

// ResolveBookingTarget picks the availability list for a property, requiring
// a valid room type for hotel properties. RoomTypes must be preloaded.
func ResolveBookingTarget(property *models.Property, roomTypeID *uint) (BookingTarget, error) {
	switch property.PropertyType {
	case models.PropertyTypeApartment:
		return &apartmentTarget{property: property}, nil
	case models.PropertyTypeHotel:
		if roomTypeID == nil {
			return nil, ErrRoomRequired
		}
		for i := range property.RoomTypes {
			if property.RoomTypes[i].ID == *roomTypeID {
				return &roomTarget{room: &property.RoomTypes[i]}, nil
			}
		}
		return nil, ErrInvalidRoom
	default:
		return nil, &UnsupportedPropertyTypeError{PropertyType: property.PropertyType}
	}
}

type apartmentTarget struct {
	property *models.Property
}

func (t *apartmentTarget) Kind() string      { return models.PropertyTypeApartment }
func (t *apartmentTarget) RoomTypeID() *uint { return nil }

func (t *apartmentTarget) ReservedDays() []string {
	return decodeDays(t.property.ReservedDates)
}

func (t *apartmentTarget) Reserve(tx *gorm.DB, days []string) error {
	next := unionDays(t.ReservedDays(), days)
	enc := encodeDays(next)
	t.property.ReservedDates = enc
	return tx.Model(&models.Property{}).Where("id = ?", t.property.ID).
		Update("reserved_dates", enc).Error
}

func (t *apartmentTarget) Release(tx *gorm.DB, days []string) error {
	next := removeDays(t.ReservedDays(), days)
	enc := encodeDays(next)
	t.property.ReservedDates = enc
	return tx.Model(&models.Property{}).Where("id = ?", t.property.ID).
		Update("reserved_dates", enc).Error
}

type roomTarget struct {
	room *models.RoomType
}

func (t *roomTarget) Kind() string      { return models.PropertyTypeHotel }
func (t *roomTarget) RoomTypeID() *uint { id := t.room.ID; return &id }

func (t *roomTarget) ReservedDays() []string {
	return decodeDays(t.room.ReservedDates)
}

func (t *roomTarget) Reserve(tx *gorm.DB, days []string) error {
	next := unionDays(t.ReservedDays(), days)
	enc := encodeDays(next)
	t.room.ReservedDates = enc
	return tx.Model(&models.RoomType{}).Where("id = ?", t.room.ID).
		Update("reserved_dates", enc).Error
}

func (t *roomTarget) Release(tx *gorm.DB, days []string) error {
	next := removeDays(t.ReservedDays(), days)
	enc := encodeDays(next)
	t.room.ReservedDates = enc
	return tx.Model(&models.RoomType{}).Where("id = ?", t.room.ID).
		Update("reserved_dates", enc).Error
}

// FindConflicts returns the requested days already present in the reserved
// list, in requested order. Any non-empty result is a hard conflict.
func FindConflicts(requested, reserved []string) []string {
	var conflicts []string
	for _, day := range requested {
		if slices.Contains(reserved, day) {
			conflicts = append(conflicts, day)
		}
	}
	return conflicts
}

// FormatConflictDates renders a conflict list for user-facing messages:
// more than three days collapse to the first three plus a count.
func FormatConflictDates(dates []string) string {
	if len(dates) > 3 {
		return fmt.Sprintf("%s and %d more dates", strings.Join(dates[:3], ", "), len(dates)-3)
	}
	return strings.Join(dates, ", ")
}

func decodeDays(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var days []string
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil
	}
	return days
}

func encodeDays(days []string) datatypes.JSON {
	if days == nil {
		days = []string{}
	}
	b, err := json.Marshal(days)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

// unionDays appends only the missing days (add-if-absent; the conflict check
// already guarantees disjointness under the row lock).
func unionDays(current, days []string) []string {
	next := slices.Clone(current)
	for _, d := range days {
		if !slices.Contains(next, d) {
			next = append(next, d)
		}
	}
	return next
}

func removeDays(current, days []string) []string {
	next := make([]string, 0, len(current))
	for _, d := range current {
		if !slices.Contains(days, d) {
			next = append(next, d)
		}
	}
	return next
}
