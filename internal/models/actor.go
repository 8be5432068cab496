package models

import "strconv"

// Actor is the authenticated user behind a request
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ActorFromUser builds the request actor for a stored user
func ActorFromUser(u *User) Actor {
	role := u.Role
	if role == "" {
		role = RoleMember
	}
	return Actor{
		ID:   strconv.FormatUint(uint64(u.ID), 10),
		Name: u.Name,
		Role: role,
	}
}

// CanModerate reports whether the actor may change content written by someone else
func (a Actor) CanModerate() bool {
	return a.Role == RoleAdmin || a.Role == RoleModerator
}

// Owns reports whether the actor wrote the content or is allowed to moderate it
func (a Actor) Owns(authorID string) bool {
	return a.ID == authorID || a.CanModerate()
}
