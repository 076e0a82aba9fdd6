package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FullName            string         `json:"fullName"`
	Email               string         `json:"email" gorm:"uniqueIndex"`
	Password            string         `json:"password"`
	PhoneNumber         string         `json:"phoneNumber"`
	Nationality         string         `json:"nationality"`
	Age                 *int           `json:"age"`
	Gender              string         `json:"gender"` // male, female, other
	Profession          string         `json:"profession"`
	AvatarURL           string         `json:"avatarURL"`
	Role                string         `json:"role" gorm:"type:varchar(20);default:user;index"` // user, admin
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	Units               []Unit         `json:"units" gorm:"foreignKey:OwnerID;references:ID"`
}

// Custom JSON marshaling to hide the password hash and expose push tokens as an array
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Password   string   `json:"password,omitempty"`
		PushTokens []string `json:"pushTokens,omitempty"`
		Units      []Unit   `json:"units,omitempty"`
		*Alias
	}{
		Password:   "",
		PushTokens: []string{},
		Alias:      (*Alias)(u),
	}

	if u.PushTokens != nil {
		var tokens []string
		if err := json.Unmarshal(u.PushTokens, &tokens); err == nil {
			aux.PushTokens = tokens
		}
	}

	// Units are excluded to prevent circular references
	return json.Marshal(aux)
}
