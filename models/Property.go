package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PropertyTypeApartment = "apartment"
	PropertyTypeHotel     = "hotel"
)

type Property struct {
	gorm.Model
	HostID       uint    `json:"hostID" gorm:"index"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	PropertyType string  `json:"propertyType" gorm:"type:varchar(20);index"` // apartment, hotel
	AddressLine1 string  `json:"addressLine1"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
	Lat          float32 `json:"lat"`
	Lng          float32 `json:"lng"`
	NightlyPrice float64 `json:"nightlyPrice"`
	Currency     string  `json:"currency" gorm:"type:varchar(8);default:'NGN'"`
	IsActive     *bool   `json:"isActive"`

	// ReservedDates holds the apartment-level day-set: every YYYY-MM-DD string
	// occupied by a non-cancelled booking. Hotel properties keep per-room
	// day-sets on RoomType instead.
	ReservedDates datatypes.JSON `json:"reservedDates" gorm:"type:jsonb"`

	// Revenue accumulates the gross amount of completed bookings.
	Revenue float64 `json:"revenue" gorm:"default:0"`

	RoomTypes []RoomType `json:"roomTypes" gorm:"foreignKey:PropertyID"`
	Reviews   []Review   `json:"reviews"`
	Bookings  []Booking  `json:"bookings"`
	Host      User       `json:"host" gorm:"foreignKey:HostID;references:ID"`

	// Admin moderation fields
	Status     string `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, approved, rejected
	IsFlagged  bool   `json:"isFlagged" gorm:"default:false;index"`
	FlagReason string `json:"flagReason" gorm:"type:text"`
}

type RoomType struct {
	gorm.Model
	PropertyID    uint    `json:"propertyID" gorm:"not null;index"`
	Name          string  `json:"name"`
	PricePerNight float64 `json:"pricePerNight"`
	Capacity      int     `json:"capacity" gorm:"default:2"`
	TotalRooms    int     `json:"totalRooms" gorm:"default:1"`

	// ReservedDates is the per-room-type day-set, same shape as the
	// apartment-level one on Property.
	ReservedDates datatypes.JSON `json:"reservedDates" gorm:"type:jsonb"`
}

// Custom JSON marshaling to avoid circular host references
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Host *User `json:"host,omitempty"`
		*Alias
	}{
		Host:  nil,
		Alias: (*Alias)(p),
	}

	if p.Host.ID > 0 {
		hostCopy := p.Host
		hostCopy.Properties = nil
		aux.Host = &hostCopy
	}

	return json.Marshal(aux)
}
