package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"

	BookingMeansOnline  = "online"
	BookingMeansOffline = "offline"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Booking models one reservation of an apartment property or a hotel room
// type for a contiguous date range.
type Booking struct {
	gorm.Model
	// UserID is nil for offline/guest bookings taken at the desk.
	UserID     *uint  `json:"userID" gorm:"index"`
	HostID     uint   `json:"hostID" gorm:"index"`
	PropertyID uint   `json:"propertyID" gorm:"not null;index"`
	RoomTypeID *uint  `json:"roomTypeID" gorm:"index"` // required for hotel bookings
	RoomName   string `json:"roomName"`

	GuestName   string `json:"guestName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`

	CheckIn     time.Time `json:"checkIn"`
	CheckOut    time.Time `json:"checkOut"`
	Guests      int       `json:"guests"`
	TotalNights int       `json:"totalNights"`
	TotalAmount float64   `json:"totalAmount"`

	Type         string `json:"type" gorm:"type:varchar(20)"`                          // apartment, hotel
	BookingMeans string `json:"bookingMeans" gorm:"type:varchar(10);default:'online'"` // online, offline

	PaymentStatus string `json:"paymentStatus" gorm:"type:varchar(12);default:'pending'"`
	PaymentMethod string `json:"paymentMethod" gorm:"type:varchar(20)"`
	PaymentRef    string `json:"paymentRef"`

	BookingStatus string `json:"bookingStatus" gorm:"type:varchar(12);default:'pending';index"`

	CancellationReason string     `json:"cancellationReason"`
	WhoCancelled       string     `json:"whoCancelled"`
	WhoCancelledRole   string     `json:"whoCancelledRole"`
	CancelledAt        *time.Time `json:"cancelledAt"`

	RefundableAmount   float64 `json:"refundableAmount" gorm:"default:0"`
	RewardPointsEarned int     `json:"rewardPointsEarned" gorm:"default:0"`

	// Relationships
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Host     *User     `json:"host,omitempty" gorm:"foreignKey:HostID"`
	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

// Terminal reports whether the booking status permits no further transitions.
func (b *Booking) Terminal() bool {
	return b.BookingStatus == BookingStatusCancelled || b.BookingStatus == BookingStatusCompleted
}
