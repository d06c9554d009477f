package models

import "gorm.io/gorm"

// User represents a developer profile together with its relationship state.
//
// The three ID sets mirror each other across records: a pending edge A->B is
// stored both in A.SentRequests and B.ConnectionRequests, and an accepted
// connection is stored in both users' Connections. They are persisted as
// JSON columns on the user row so a single record read yields the complete
// relationship view.
type User struct {
	gorm.Model
	FirstName    string   `gorm:"size:255;not null"`
	LastName     string   `gorm:"size:255;not null"`
	Email        string   `gorm:"size:255;unique;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	PhotoURL     string   `gorm:"size:512"`
	About        string
	Skills       []string `gorm:"serializer:json;type:jsonb"`
	Age          int
	Gender       string   `gorm:"size:50"`

	SentRequests       IDSet `gorm:"serializer:json;type:jsonb"`
	ConnectionRequests IDSet `gorm:"serializer:json;type:jsonb"`
	Connections        IDSet `gorm:"serializer:json;type:jsonb"`
}

// Clone returns a deep copy so callers can mutate a record without touching
// the stored one.
func (u *User) Clone() *User {
	out := *u
	out.Skills = append([]string(nil), u.Skills...)
	out.SentRequests = u.SentRequests.Clone()
	out.ConnectionRequests = u.ConnectionRequests.Clone()
	out.Connections = u.Connections.Clone()
	return &out
}
