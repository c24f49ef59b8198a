package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Availability struct {
	Id        primitive.ObjectID `json:"_id" bson:"_id"`
	Tutor     primitive.ObjectID `json:"tutor" bson:"tutor"`
	Day       string             `json:"day" bson:"day"`
	StartTime string             `json:"startTime" bson:"startTime"`
	EndTime   string             `json:"endTime" bson:"endTime"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Slot is the public projection of an availability entry.
type Slot struct {
	Id        primitive.ObjectID `json:"_id"`
	Day       string             `json:"day"`
	StartTime string             `json:"startTime"`
	EndTime   string             `json:"endTime"`
}

func (a Availability) Slot() Slot {
	return Slot{Id: a.Id, Day: a.Day, StartTime: a.StartTime, EndTime: a.EndTime}
}
