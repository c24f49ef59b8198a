package database

import (
	"context"
	"strings"
	"time"

	apperr "tutor-marketplace/errors"
	"tutor-marketplace/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = NormalizeEmail(user.Email)
	err := insertOne(ctx, r.collection, user)
	if apperr.Is(err, apperr.KindConflict) {
		return apperr.Conflict("Email already exists")
	}
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := findOne(ctx, r.collection, bson.M{"email": NormalizeEmail(email)}, &user, "User not found"); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &user, "User not found"); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) (*model.User, error) {
	if !update.Empty() {
		set := bson.M{"updatedAt": time.Now().UTC()}
		if update.Name != nil {
			set["name"] = *update.Name
		}
		if update.Contact != nil {
			set["contact"] = *update.Contact
		}
		if update.Gender != nil {
			set["gender"] = *update.Gender
		}
		if update.Occupation != nil {
			set["occupation"] = *update.Occupation
		}
		if err := updateOne(ctx, r.collection, bson.M{"_id": id}, bson.M{"$set": set}, "User not found"); err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	return findAll[model.User](ctx, r.collection, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *UserRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return updateOne(ctx, r.collection, bson.M{"_id": id},
		bson.M{"$set": bson.M{"active": active, "updatedAt": time.Now().UTC()}}, "User not found")
}

func (r *UserRepository) SetRole(ctx context.Context, id primitive.ObjectID, role model.Role) (*model.User, error) {
	err := updateOne(ctx, r.collection, bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}}, "User not found")
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Summaries resolves ids to {id, name, email}; ids without a user are omitted.
func (r *UserRepository) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.UserSummary, error) {
	summaries := map[primitive.ObjectID]model.UserSummary{}
	if len(ids) == 0 {
		return summaries, nil
	}

	found, err := findAll[model.UserSummary](ctx, r.collection,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1}))
	if err != nil {
		return nil, err
	}
	for _, s := range found {
		summaries[s.Id] = s
	}
	return summaries, nil
}
