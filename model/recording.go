package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Recording struct {
	Id               primitive.ObjectID `json:"_id" bson:"_id"`
	Tutor            primitive.ObjectID `json:"tutor" bson:"tutor"`
	OriginalFileName string             `json:"originalFileName" bson:"originalFileName"`
	FilePath         string             `json:"filePath" bson:"filePath"`
	Description      string             `json:"description" bson:"description"`
	Subject          string             `json:"subject" bson:"subject"`
	Price            float64            `json:"price" bson:"price"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type RecordingView struct {
	Recording `bson:",inline"`
	TutorInfo *UserSummary `json:"tutorInfo,omitempty" bson:"-"`
}
