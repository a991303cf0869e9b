package users

import (
	"time"

	"github.com/2beens/fitnesstracker/internal/docstore"
)

// CollectionName is the users collection.
const CollectionName = "users"

type User struct {
	ID             docstore.ID `bson:"_id" json:"_id"`
	Username       string      `bson:"username" json:"username"`
	Email          string      `bson:"email,omitempty" json:"email,omitempty"`
	FullName       string      `bson:"full_name,omitempty" json:"full_name,omitempty"`
	HashedPassword string      `bson:"hashed_password" json:"hashed_password"`
	CreatedAt      time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `bson:"updated_at" json:"updated_at"`
	// Active is nil for accounts stored before the flag existed.
	Active *bool `bson:"is_active" json:"is_active"`
}

func (u *User) DocumentID() docstore.ID {
	return u.ID
}

// IsActive reports whether the account may log in; a missing flag means active.
func (u *User) IsActive() bool {
	return u.Active == nil || *u.Active
}

// Response is the client facing shape of a user; it never carries the hash.
type Response struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email"`
	FullName  *string   `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsActive  bool      `json:"is_active"`
}

func (u *User) Response() Response {
	resp := Response{
		ID:        u.ID.String(),
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		IsActive:  u.IsActive(),
	}
	if u.Email != "" {
		email := u.Email
		resp.Email = &email
	}
	if u.FullName != "" {
		fullName := u.FullName
		resp.FullName = &fullName
	}
	return resp
}
