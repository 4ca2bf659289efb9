// Package role defines the permission levels of Foodgram accounts.
package role

import "github.com/matt-dz/foodgram/internal/database"

// Role is ordered: a higher role holds every permission of a lower one.
type Role int

const (
	RoleUnknown Role = iota
	RoleUser
	RoleAdmin
)

var names = map[Role]string{
	RoleUser:  string(database.RoleUser),
	RoleAdmin: string(database.RoleAdmin),
}

func (r Role) String() string {
	if name, ok := names[r]; ok {
		return name
	}
	return "unknown"
}

// Parse returns the role named s, as carried in access token claims.
func Parse(s string) Role {
	for r, name := range names {
		if name == s {
			return r
		}
	}
	return RoleUnknown
}

// FromDatabase converts the stored enum.
func FromDatabase(r database.Role) Role {
	return Parse(string(r))
}

// Satisfies reports whether r grants at least the permissions of required.
func (r Role) Satisfies(required Role) bool {
	return r != RoleUnknown && r >= required
}
