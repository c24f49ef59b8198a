package handlers

import (
	"context"
	"mime/multipart"
	"time"

	"tutor-marketplace/booking"
	apperr "tutor-marketplace/errors"
	"tutor-marketplace/middleware"
	"tutor-marketplace/model"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	SetRole(ctx context.Context, id primitive.ObjectID, role model.Role) (*model.User, error)
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.UserSummary, error)
}

type TutorStore interface {
	List(ctx context.Context) ([]model.TutorProfile, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*model.TutorProfile, error)
	Upsert(ctx context.Context, profile *model.TutorProfile) error
}

type AvailabilityStore interface {
	Create(ctx context.Context, slot *model.Availability) error
	ListByTutor(ctx context.Context, tutorID primitive.ObjectID) ([]model.Availability, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Availability, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type RecordingStore interface {
	Create(ctx context.Context, rec *model.Recording) error
	// List returns every recording, or only tutorID's when it is non-nil.
	List(ctx context.Context, tutorID *primitive.ObjectID) ([]model.Recording, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Recording, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Names(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

type ReviewStore interface {
	Create(ctx context.Context, review *model.Review) error
	ListByTutor(ctx context.Context, tutorID primitive.ObjectID) ([]model.Review, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error)
	Exists(ctx context.Context, studentID, recordingID primitive.ObjectID) (bool, error)
	SetReply(ctx context.Context, id primitive.ObjectID, reply string) error
	RatingStats(ctx context.Context, tutorIDs []primitive.ObjectID) (map[primitive.ObjectID]model.RatingStats, error)
}

type PaymentStore interface {
	Create(ctx context.Context, payment *model.Payment) error
	ListByTutor(ctx context.Context, tutorID primitive.ObjectID) ([]model.Payment, error)
	ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]model.Payment, error)
}

type FileStore interface {
	SaveRecording(header *multipart.FileHeader) (string, error)
	Remove(publicPath string) error
}

type Deps struct {
	Users        UserStore
	Tutors       TutorStore
	Availability AvailabilityStore
	Recordings   RecordingStore
	Reviews      ReviewStore
	Payments     PaymentStore
	Files        FileStore
	Bookings     *booking.Service
	Revoker      middleware.Revoker
	Logger       *zap.Logger
	TokenSecret  string
	TokenTTL     time.Duration
}

type Handler struct {
	users        UserStore
	tutors       TutorStore
	availability AvailabilityStore
	recordings   RecordingStore
	reviews      ReviewStore
	payments     PaymentStore
	files        FileStore
	bookings     *booking.Service
	revoker      middleware.Revoker
	logger       *zap.Logger
	secret       string
	tokenTTL     time.Duration
	now          func() time.Time
}

func New(d Deps) *Handler {
	revoker := d.Revoker
	if revoker == nil {
		revoker = middleware.NoopRevoker{}
	}
	return &Handler{
		users:        d.Users,
		tutors:       d.Tutors,
		availability: d.Availability,
		recordings:   d.Recordings,
		reviews:      d.Reviews,
		payments:     d.Payments,
		files:        d.Files,
		bookings:     d.Bookings,
		revoker:      revoker,
		logger:       d.Logger,
		secret:       d.TokenSecret,
		tokenTTL:     d.TokenTTL,
		now:          time.Now,
	}
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data})
}

// fail logs server-side failures and writes the error envelope.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindPersistence, apperr.KindUnknown:
		h.logger.Error("request failed",
			zap.String("request_id", middleware.RequestID(c)),
			zap.String("path", c.Path()),
			zap.Error(err))
	}
	return apperr.Raise(c, err)
}

func caller(c *fiber.Ctx) middleware.Identity {
	identity, _ := middleware.Caller(c)
	return identity
}

func paramID(c *fiber.Ctx, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid " + name)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}

func uniqueIDs(ids ...primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func summaryPtr(summaries map[primitive.ObjectID]model.UserSummary, id primitive.ObjectID) *model.UserSummary {
	if s, ok := summaries[id]; ok {
		return &s
	}
	return nil
}
