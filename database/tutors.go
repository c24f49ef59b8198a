package database

import (
	"context"
	"time"

	apperr "tutor-marketplace/errors"
	"tutor-marketplace/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TutorRepository struct {
	collection *mongo.Collection
}

func (r *TutorRepository) List(ctx context.Context) ([]model.TutorProfile, error) {
	return findAll[model.TutorProfile](ctx, r.collection, bson.M{})
}

func (r *TutorRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*model.TutorProfile, error) {
	var profile model.TutorProfile
	if err := findOne(ctx, r.collection, bson.M{"user": userID}, &profile, "Tutor profile not found"); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert writes the editable fields of profile for its user, creating the
// profile on first save.
func (r *TutorRepository) Upsert(ctx context.Context, profile *model.TutorProfile) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"headline":           profile.Headline,
			"bio":                profile.Bio,
			"subjects":           profile.Subjects,
			"hourlyRate":         profile.HourlyRate,
			"languages":          profile.Languages,
			"experienceYears":    profile.ExperienceYears,
			"isProfileCompleted": profile.IsProfileCompleted,
			"updatedAt":          now,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "createdAt": now},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"user": profile.User}, update, options.Update().SetUpsert(true))
	if err != nil {
		return apperr.Persistence("failed to save tutor profile", err)
	}
	return nil
}
