package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	Id        primitive.ObjectID  `json:"_id" bson:"_id"`
	Student   primitive.ObjectID  `json:"student" bson:"student"`
	Tutor     primitive.ObjectID  `json:"tutor" bson:"tutor"`
	Recording *primitive.ObjectID `json:"recording" bson:"recording"`
	Rating    float64             `json:"rating" bson:"rating"`
	Comment   string              `json:"comment" bson:"comment"`
	Reply     string              `json:"reply" bson:"reply"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type ReviewView struct {
	Review        `bson:",inline"`
	StudentInfo   *UserSummary `json:"studentInfo,omitempty" bson:"-"`
	RecordingName string       `json:"recordingName,omitempty" bson:"-"`
}

type RatingStats struct {
	Tutor   primitive.ObjectID `bson:"_id"`
	Average float64            `bson:"average"`
	Count   int                `bson:"count"`
}
