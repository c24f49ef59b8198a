package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TutorProfile struct {
	Id                 primitive.ObjectID `json:"_id" bson:"_id"`
	User               primitive.ObjectID `json:"user" bson:"user"`
	Headline           string             `json:"headline" bson:"headline"`
	Bio                string             `json:"bio" bson:"bio"`
	Subjects           []string           `json:"subjects" bson:"subjects"`
	HourlyRate         float64            `json:"hourlyRate" bson:"hourlyRate"`
	Languages          []string           `json:"languages" bson:"languages"`
	ExperienceYears    int                `json:"experienceYears" bson:"experienceYears"`
	IsProfileCompleted bool               `json:"isProfileCompleted" bson:"isProfileCompleted"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// TutorListing is the public card shown on the student dashboard.
type TutorListing struct {
	ProfileId       primitive.ObjectID `json:"profileId"`
	UserId          primitive.ObjectID `json:"userId"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Headline        string             `json:"headline"`
	Subjects        []string           `json:"subjects"`
	HourlyRate      float64            `json:"hourlyRate"`
	ExperienceYears int                `json:"experienceYears"`
	Languages       []string           `json:"languages"`
	AvgRating       float64            `json:"avgRating"`
	ReviewsCount    int                `json:"reviewsCount"`
}
