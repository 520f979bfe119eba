// internal/domain/models/user.go
package models

import (
	"strings"
	"time"
)

// User is a customer or staff account as reported by the upstream API.
//
// NOTE:
//   - The upstream has no account-creation timestamp. BirthDate is the only
//     date it carries, so it is what recency windows are evaluated against.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Image     string `json:"image,omitempty"`
	Age       int    `json:"age"`
	Gender    string `json:"gender,omitempty"`
	BirthDate string `json:"birthDate,omitempty"` // e.g. 1996-5-30
	Role      string `json:"role"`                // admin | moderator | user
}

// User roles reported by the upstream API.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// RecordID implements the identity used for de-duplication.
func (u User) RecordID() int { return u.ID }

// FullName joins first and last name, skipping empty parts.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Born parses BirthDate. The upstream omits zero padding ("1996-5-30"),
// so both padded and unpadded layouts are accepted.
func (u User) Born() (time.Time, bool) {
	if u.BirthDate == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-1-2", "2006-01-02"} {
		if t, err := time.Parse(layout, u.BirthDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
