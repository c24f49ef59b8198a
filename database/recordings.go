package database

import (
	"context"

	"tutor-marketplace/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecordingRepository struct {
	collection *mongo.Collection
}

func (r *RecordingRepository) Create(ctx context.Context, rec *model.Recording) error {
	return insertOne(ctx, r.collection, rec)
}

// List returns every recording, or only tutorID's when it is not nil.
func (r *RecordingRepository) List(ctx context.Context, tutorID *primitive.ObjectID) ([]model.Recording, error) {
	filter := bson.M{}
	if tutorID != nil {
		filter["tutor"] = *tutorID
	}
	return findAll[model.Recording](ctx, r.collection, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *RecordingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Recording, error) {
	var rec model.Recording
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &rec, "Not found"); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecordingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, r.collection, bson.M{"_id": id}, "Not found")
}

// Names maps recording ids to their original file names.
func (r *RecordingRepository) Names(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := map[primitive.ObjectID]string{}
	if len(ids) == 0 {
		return names, nil
	}
	recs, err := findAll[model.Recording](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"originalFileName": 1}))
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		names[rec.Id] = rec.OriginalFileName
	}
	return names, nil
}
