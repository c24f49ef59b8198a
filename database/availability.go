package database

import (
	"context"

	"tutor-marketplace/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AvailabilityRepository struct {
	collection *mongo.Collection
}

func (r *AvailabilityRepository) Create(ctx context.Context, slot *model.Availability) error {
	return insertOne(ctx, r.collection, slot)
}

func (r *AvailabilityRepository) ListByTutor(ctx context.Context, tutorID primitive.ObjectID) ([]model.Availability, error) {
	return findAll[model.Availability](ctx, r.collection, bson.M{"tutor": tutorID})
}

func (r *AvailabilityRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Availability, error) {
	var slot model.Availability
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &slot, "Availability not found"); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, r.collection, bson.M{"_id": id}, "Availability not found")
}
