package database

import (
	"context"

	apperr "tutor-marketplace/errors"
	"tutor-marketplace/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingRepository struct {
	collection *mongo.Collection
}

var bookingListOrder = bson.D{{Key: "date", Value: -1}, {Key: "time", Value: 1}}

func (r *BookingRepository) Insert(ctx context.Context, b *model.Booking) error {
	return insertOne(ctx, r.collection, b)
}

func (r *BookingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Booking, error) {
	var b model.Booking
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &b, "Booking not found"); err != nil {
		return nil, err
	}
	return &b, nil
}

// Update overwrites the stored booking. Concurrent updates race; the last write
// wins.
func (r *BookingRepository) Update(ctx context.Context, b *model.Booking) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": b.Id}, b)
	if err != nil {
		return apperr.Persistence("failed to update booking", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Booking not found")
	}
	return nil
}

func (r *BookingRepository) ListByTutor(ctx context.Context, tutorID primitive.ObjectID) ([]model.Booking, error) {
	return findAll[model.Booking](ctx, r.collection, bson.M{"tutorId": tutorID}, options.Find().SetSort(bookingListOrder))
}

func (r *BookingRepository) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]model.Booking, error) {
	return findAll[model.Booking](ctx, r.collection, bson.M{"studentId": studentID}, options.Find().SetSort(bookingListOrder))
}

func (r *BookingRepository) UpsertRecordingPurchase(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{"studentId": b.StudentId, "recording": b.Recording}
	update := bson.M{
		"$set": bson.M{
			"tutorId":       b.TutorId,
			"amount":        b.Amount,
			"paymentStatus": b.PaymentStatus,
			"updatedAt":     b.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"subject":         b.Subject,
			"date":            b.Date,
			"time":            b.Time,
			"status":          b.Status,
			"tutorStatus":     b.TutorStatus,
			"studentNotified": false,
			"createdAt":       b.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored model.Booking
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if err != nil {
		return nil, apperr.Persistence("failed to store recording purchase", err)
	}
	return &stored, nil
}

func (r *BookingRepository) ListPaidRecordings(ctx context.Context, studentID primitive.ObjectID) ([]model.PaidRecording, error) {
	return findAll[model.PaidRecording](ctx, r.collection,
		bson.M{"studentId": studentID, "paymentStatus": model.PaymentPaid, "recording": bson.M{"$ne": nil}},
		options.Find().SetProjection(bson.M{"recording": 1}))
}

func (r *BookingRepository) HasPaidRecording(ctx context.Context, studentID, recordingID primitive.ObjectID) (bool, error) {
	var found model.PaidRecording
	err := findOne(ctx, r.collection,
		bson.M{"studentId": studentID, "recording": recordingID, "paymentStatus": model.PaymentPaid},
		&found, "no paid booking")
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
