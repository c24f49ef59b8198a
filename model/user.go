package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTutor || r == RoleAdmin
}

var Genders = []string{"Male", "Female", "Other", ""}

var Occupations = []string{"Student", "Fresher", "Graduate", "Working Professional", ""}

type User struct {
	Id             primitive.ObjectID `json:"_id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	HashedPassword string             `json:"-" bson:"password"`
	Active         bool               `json:"active" bson:"active"`
	Contact        string             `json:"contact" bson:"contact"`
	Gender         string             `json:"gender" bson:"gender"`
	Occupation     string             `json:"occupation" bson:"occupation"`
	Role           Role               `json:"role" bson:"role"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type UserSummary struct {
	Id    primitive.ObjectID `json:"_id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
}

func (u User) Summary() UserSummary {
	return UserSummary{Id: u.Id, Name: u.Name, Email: u.Email}
}

// ProfileUpdate lists the user fields a caller may change on themselves.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name       *string `json:"name" bson:"name,omitempty"`
	Contact    *string `json:"contact" bson:"contact,omitempty"`
	Gender     *string `json:"gender" bson:"gender,omitempty"`
	Occupation *string `json:"occupation" bson:"occupation,omitempty"`
}

func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Contact == nil && p.Gender == nil && p.Occupation == nil
}
