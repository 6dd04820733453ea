package models

import "time"

// User types stored on a profile
const (
	UserTypeParent = "parent"
	UserTypeChild  = "child"
)

// Age groups a child can be assigned. A profile with an empty age group has
// not been configured yet; parents never carry one.
var AgeGroups = []string{"8-10", "10-12", "13-15", "15+"}

// Profile represents a user of the app beyond bare login capability.
// Its id is the same opaque identifier the identity store uses.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	UserType  string    `json:"user_type"`
	AgeGroup  string    `json:"age_group,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsParent reports whether the profile belongs to a parent account
func (p *Profile) IsParent() bool {
	return p.UserType == UserTypeParent
}

// IsChild reports whether the profile belongs to a child account
func (p *Profile) IsChild() bool {
	return p.UserType == UserTypeChild
}

// ValidAgeGroup reports whether s names a known age group
func ValidAgeGroup(s string) bool {
	for _, g := range AgeGroups {
		if g == s {
			return true
		}
	}
	return false
}
