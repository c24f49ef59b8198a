package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperr "tutor-marketplace/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	USERS_COLLECTION        string = "users"
	TUTORS_COLLECTION       string = "tutorprofiles"
	AVAILABILITY_COLLECTION string = "availabilities"
	BOOKINGS_COLLECTION     string = "bookings"
	RECORDINGS_COLLECTION   string = "recordings"
	REVIEWS_COLLECTION      string = "reviews"
	PAYMENTS_COLLECTION     string = "payments"

	opTimeout = 5 * time.Second
)

// Database owns the client connection and one repository per collection.
type Database struct {
	client *mongo.Client
	db     *mongo.Database

	Users        *UserRepository
	Tutors       *TutorRepository
	Availability *AvailabilityRepository
	Bookings     *BookingRepository
	Recordings   *RecordingRepository
	Reviews      *ReviewRepository
	Payments     *PaymentRepository
}

func Connect(ctx context.Context, uri, name string) (*Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("db is not available: %w", err)
	}

	return New(client, name), nil
}

func New(client *mongo.Client, name string) *Database {
	db := client.Database(name)
	return &Database{
		client:       client,
		db:           db,
		Users:        &UserRepository{collection: db.Collection(USERS_COLLECTION)},
		Tutors:       &TutorRepository{collection: db.Collection(TUTORS_COLLECTION)},
		Availability: &AvailabilityRepository{collection: db.Collection(AVAILABILITY_COLLECTION)},
		Bookings:     &BookingRepository{collection: db.Collection(BOOKINGS_COLLECTION)},
		Recordings:   &RecordingRepository{collection: db.Collection(RECORDINGS_COLLECTION)},
		Reviews:      &ReviewRepository{collection: db.Collection(REVIEWS_COLLECTION)},
		Payments:     &PaymentRepository{collection: db.Collection(PAYMENTS_COLLECTION)},
	}
}

// EnsureIndexes creates the unique email index and the lookup indexes used by
// the per-user listings.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		USERS_COLLECTION: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		TUTORS_COLLECTION: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		AVAILABILITY_COLLECTION: {
			{Keys: bson.D{{Key: "tutor", Value: 1}}},
		},
		BOOKINGS_COLLECTION: {
			{Keys: bson.D{{Key: "tutorId", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "recording", Value: 1}}},
		},
		RECORDINGS_COLLECTION: {
			{Keys: bson.D{{Key: "tutor", Value: 1}}},
		},
		REVIEWS_COLLECTION: {
			{Keys: bson.D{{Key: "tutor", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "student", Value: 1}, {Key: "recording", Value: 1}}},
		},
		PAYMENTS_COLLECTION: {
			{Keys: bson.D{{Key: "tutor", Value: 1}}},
			{Keys: bson.D{{Key: "student", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := d.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

func (d *Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

// findOne decodes the single match of filter into out, classifying a miss as
// NotFound with notFoundMsg.
func findOne(ctx context.Context, collection *mongo.Collection, filter interface{}, out interface{}, notFoundMsg string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := collection.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(notFoundMsg)
	}
	if err != nil {
		return apperr.Persistence(fmt.Sprintf("failed to read %s", collection.Name()), err)
	}
	return nil
}

func findAll[T any](ctx context.Context, collection *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, apperr.Persistence(fmt.Sprintf("failed to read %s", collection.Name()), err)
	}
	defer cur.Close(ctx)

	items := []T{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, apperr.Persistence(fmt.Sprintf("failed to decode %s", collection.Name()), err)
	}
	return items, nil
}

func insertOne(ctx context.Context, collection *mongo.Collection, doc interface{}) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("record already exists")
		}
		return apperr.Persistence(fmt.Sprintf("failed to write %s", collection.Name()), err)
	}
	return nil
}

// updateOne applies update to the document matching filter; no match is
// reported as NotFound with notFoundMsg.
func updateOne(ctx context.Context, collection *mongo.Collection, filter, update interface{}, notFoundMsg string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return apperr.Persistence(fmt.Sprintf("failed to update %s", collection.Name()), err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(notFoundMsg)
	}
	return nil
}

func deleteOne(ctx context.Context, collection *mongo.Collection, filter interface{}, notFoundMsg string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := collection.DeleteOne(ctx, filter)
	if err != nil {
		return apperr.Persistence(fmt.Sprintf("failed to delete from %s", collection.Name()), err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound(notFoundMsg)
	}
	return nil
}
