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

type ReviewRepository struct {
	collection *mongo.Collection
}

func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return insertOne(ctx, r.collection, review)
}

func (r *ReviewRepository) ListByTutor(ctx context.Context, tutorID primitive.ObjectID) ([]model.Review, error) {
	return findAll[model.Review](ctx, r.collection, bson.M{"tutor": tutorID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *ReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	var review model.Review
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &review, "Review not found"); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) Exists(ctx context.Context, studentID, recordingID primitive.ObjectID) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"student": studentID, "recording": recordingID},
		options.Count().SetLimit(1))
	if err != nil {
		return false, apperr.Persistence("failed to check review", err)
	}
	return count > 0, nil
}

func (r *ReviewRepository) SetReply(ctx context.Context, id primitive.ObjectID, reply string) error {
	return updateOne(ctx, r.collection, bson.M{"_id": id},
		bson.M{"$set": bson.M{"reply": reply, "updatedAt": time.Now().UTC()}}, "Review not found")
}

// RatingStats aggregates average rating and review count per tutor.
func (r *ReviewRepository) RatingStats(ctx context.Context, tutorIDs []primitive.ObjectID) (map[primitive.ObjectID]model.RatingStats, error) {
	stats := map[primitive.ObjectID]model.RatingStats{}
	if len(tutorIDs) == 0 {
		return stats, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tutor": bson.M{"$in": tutorIDs}}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$tutor",
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Persistence("failed to aggregate ratings", err)
	}
	defer cur.Close(ctx)

	var rows []model.RatingStats
	if err := cur.All(ctx, &rows); err != nil {
		return nil, apperr.Persistence("failed to decode ratings", err)
	}
	for _, row := range rows {
		stats[row.Tutor] = row
	}
	return stats, nil
}
