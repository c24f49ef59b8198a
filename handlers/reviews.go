package handlers

import (
	"strings"

	apperr "tutor-marketplace/errors"
	"tutor-marketplace/model"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) CreateReview(c *fiber.Ctx) error {
	type ReviewForm struct {
		TutorId     string  `json:"tutorId"`
		RecordingId string  `json:"recordingId"`
		Rating      float64 `json:"rating"`
		Comment     string  `json:"comment"`
	}

	var form ReviewForm
	if err := parseBody(c, &form); err != nil {
		return h.fail(c, err)
	}
	if form.TutorId == "" || form.Rating == 0 || strings.TrimSpace(form.Comment) == "" {
		return h.fail(c, apperr.Validation("Missing required fields"))
	}
	if form.Rating < 1 || form.Rating > 5 {
		return h.fail(c, apperr.Validation("Rating must be between 1 and 5"))
	}
	tutorID, err := primitive.ObjectIDFromHex(form.TutorId)
	if err != nil {
		return h.fail(c, apperr.Validation("Invalid tutorId"))
	}

	now := h.now().UTC()
	review := &model.Review{
		Id:        primitive.NewObjectID(),
		Student:   caller(c).ID,
		Tutor:     tutorID,
		Rating:    form.Rating,
		Comment:   strings.TrimSpace(form.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if form.RecordingId != "" {
		recordingID, err := primitive.ObjectIDFromHex(form.RecordingId)
		if err != nil {
			return h.fail(c, apperr.Validation("Invalid recordingId"))
		}
		review.Recording = &recordingID
	}

	if err := h.reviews.Create(c.UserContext(), review); err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "Review submitted", review)
}

func (h *Handler) MyTutorReviews(c *fiber.Ctx) error {
	return h.tutorReviews(c, caller(c).ID)
}

func (h *Handler) TutorReviews(c *fiber.Ctx) error {
	tutorID, err := paramID(c, "tutorId")
	if err != nil {
		return h.fail(c, err)
	}
	return h.tutorReviews(c, tutorID)
}

func (h *Handler) tutorReviews(c *fiber.Ctx, tutorID primitive.ObjectID) error {
	ctx := c.UserContext()

	reviews, err := h.reviews.ListByTutor(ctx, tutorID)
	if err != nil {
		return h.fail(c, err)
	}

	students := make([]primitive.ObjectID, 0, len(reviews))
	recordings := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		students = append(students, r.Student)
		if r.Recording != nil {
			recordings = append(recordings, *r.Recording)
		}
	}

	summaries, err := h.users.Summaries(ctx, uniqueIDs(students...))
	if err != nil {
		return h.fail(c, err)
	}
	names, err := h.recordings.Names(ctx, uniqueIDs(recordings...))
	if err != nil {
		return h.fail(c, err)
	}

	views := make([]model.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		view := model.ReviewView{Review: r, StudentInfo: summaryPtr(summaries, r.Student)}
		if r.Recording != nil {
			view.RecordingName = names[*r.Recording]
		}
		views = append(views, view)
	}
	return respond(c, fiber.StatusOK, "Reviews", views)
}

func (h *Handler) CheckReviewed(c *fiber.Ctx) error {
	raw := c.Query("recordingId")
	if raw == "" {
		return respond(c, fiber.StatusOK, "Review status", fiber.Map{"reviewed": false})
	}
	recordingID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return h.fail(c, apperr.Validation("Invalid recordingId"))
	}

	reviewed, err := h.reviews.Exists(c.UserContext(), caller(c).ID, recordingID)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Review status", fiber.Map{"reviewed": reviewed})
}

// ReplyToReview lets the reviewed tutor answer a review.
func (h *Handler) ReplyToReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var form struct {
		Reply string `json:"reply"`
	}
	if err := parseBody(c, &form); err != nil {
		return h.fail(c, err)
	}
	if strings.TrimSpace(form.Reply) == "" {
		return h.fail(c, apperr.Validation("Reply is required"))
	}

	review, err := h.reviews.FindByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if review.Tutor != caller(c).ID {
		return h.fail(c, apperr.Forbidden("Not allowed"))
	}

	review.Reply = strings.TrimSpace(form.Reply)
	if err := h.reviews.SetReply(c.UserContext(), id, review.Reply); err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Reply saved", review)
}
