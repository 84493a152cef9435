package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName           string         `json:"firstName"`
	LastName            string         `json:"lastName"`
	Email               string         `json:"email" gorm:"uniqueIndex"`
	PhoneNumber         string         `json:"phoneNumber"`
	AvatarURL           string         `json:"avatarURL"`
	Properties          []Property     `json:"properties" gorm:"foreignKey:HostID;references:ID"`
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	// PayoutsRevenue accumulates the host's 85% share of completed bookings.
	PayoutsRevenue float64 `json:"payoutsRevenue" gorm:"default:0"`
	Role           string  `json:"role" gorm:"type:varchar(20);default:user;index"` // user, host, admin, super_admin
}

// Custom JSON marshaling to expose PushTokens as an array
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		PushTokens []string `json:"pushTokens,omitempty"`
		*Alias
	}{
		PushTokens: []string{},
		Alias:      (*Alias)(u),
	}

	if u.PushTokens != nil {
		var pushTokens []string
		if err := json.Unmarshal(u.PushTokens, &pushTokens); err == nil {
			aux.PushTokens = pushTokens
		}
	}

	// Note: Properties field is excluded to prevent circular reference
	aux.Properties = nil

	return json.Marshal(aux)
}
