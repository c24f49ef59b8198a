package database

import (
	"context"

	"tutor-marketplace/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentRepository struct {
	collection *mongo.Collection
}

func (r *PaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return insertOne(ctx, r.collection, payment)
}

func (r *PaymentRepository) ListByTutor(ctx context.Context, tutorID primitive.ObjectID) ([]model.Payment, error) {
	return findAll[model.Payment](ctx, r.collection, bson.M{"tutor": tutorID})
}

func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]model.Payment, error) {
	return findAll[model.Payment](ctx, r.collection, bson.M{"student": studentID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}
