package models

import "gorm.io/gorm"

// Refund records a refund owed to a registered user for a cancelled online
// booking. It is created at most once per booking, and only when the refund
// policy yields a non-zero amount.
type Refund struct {
	gorm.Model
	UserID    uint    `json:"userID" gorm:"not null;index"`
	BookingID uint    `json:"bookingID" gorm:"not null;uniqueIndex"`
	Amount    float64 `json:"amount" gorm:"not null"`
	Currency  string  `json:"currency" gorm:"type:varchar(8);default:'NGN'"`
	Method    string  `json:"method"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status" gorm:"type:varchar(12);default:'completed'"` // pending, completed, failed

	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

// OfflineRefund records a refund for an offline/guest booking. There is no
// payment method on file, so it stays pending until settled manually.
type OfflineRefund struct {
	gorm.Model
	Email     string  `json:"email" gorm:"not null"`
	BookingID uint    `json:"bookingID" gorm:"not null;uniqueIndex"`
	Amount    float64 `json:"amount" gorm:"not null"`
	Currency  string  `json:"currency" gorm:"type:varchar(8);default:'NGN'"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status" gorm:"type:varchar(12);default:'pending'"`

	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}
