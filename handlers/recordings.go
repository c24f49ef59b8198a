package handlers

import (
	"strconv"
	"strings"

	apperr "tutor-marketplace/errors"
	"tutor-marketplace/model"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const RECORDING_FIELD string = "recording"

func (h *Handler) ListRecordings(c *fiber.Ctx) error {
	var tutorID *primitive.ObjectID
	if raw := c.Query("tutorId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return h.fail(c, apperr.Validation("Invalid tutorId"))
		}
		tutorID = &id
	}

	recs, err := h.recordings.List(c.UserContext(), tutorID)
	if err != nil {
		return h.fail(c, err)
	}
	views, err := h.recordingViews(c, recs)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Recordings", views)
}

func (h *Handler) MyRecordings(c *fiber.Ctx) error {
	id := caller(c).ID
	recs, err := h.recordings.List(c.UserContext(), &id)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Recordings", recs)
}

func (h *Handler) UploadRecording(c *fiber.Ctx) error {
	header, err := c.FormFile(RECORDING_FIELD)
	if err != nil {
		return h.fail(c, apperr.Validation("Recording file is required"))
	}

	subject := strings.TrimSpace(c.FormValue("subject"))
	rawPrice := strings.TrimSpace(c.FormValue("price"))
	if subject == "" || rawPrice == "" {
		return h.fail(c, apperr.Validation("Subject and price are required"))
	}
	price, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil || price < 0 {
		return h.fail(c, apperr.Validation("Invalid price"))
	}

	publicPath, err := h.files.SaveRecording(header)
	if err != nil {
		return h.fail(c, apperr.Persistence("failed to store recording", err))
	}

	now := h.now().UTC()
	rec := &model.Recording{
		Id:               primitive.NewObjectID(),
		Tutor:            caller(c).ID,
		OriginalFileName: header.Filename,
		FilePath:         publicPath,
		Description:      c.FormValue("description"),
		Subject:          subject,
		Price:            price,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := h.recordings.Create(c.UserContext(), rec); err != nil {
		if rmErr := h.files.Remove(publicPath); rmErr != nil {
			h.logger.Warn("failed to remove orphaned upload", zap.String("path", publicPath), zap.Error(rmErr))
		}
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "Recording uploaded", rec)
}

// RecordingURL hands out the file URL to the owning tutor and to students who
// paid for the recording.
func (h *Handler) RecordingURL(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	rec, err := h.recordings.FindByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}

	identity := caller(c)
	if rec.Tutor != identity.ID {
		paid, err := h.bookings.HasPaidRecording(c.UserContext(), identity.ID, rec.Id)
		if err != nil {
			return h.fail(c, err)
		}
		if !paid {
			return h.fail(c, apperr.Forbidden("Please purchase this recording"))
		}
	}

	return respond(c, fiber.StatusOK, "Recording URL", fiber.Map{"url": rec.FilePath})
}

func (h *Handler) DeleteRecording(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	rec, err := h.recordings.FindByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if rec.Tutor != caller(c).ID {
		return h.fail(c, apperr.Forbidden("Not allowed"))
	}

	if err := h.files.Remove(rec.FilePath); err != nil {
		h.logger.Warn("failed to remove recording file", zap.String("path", rec.FilePath), zap.Error(err))
	}
	if err := h.recordings.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Recording deleted", nil)
}

func (h *Handler) recordingViews(c *fiber.Ctx, recs []model.Recording) ([]model.RecordingView, error) {
	ids := make([]primitive.ObjectID, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.Tutor)
	}
	summaries, err := h.users.Summaries(c.UserContext(), uniqueIDs(ids...))
	if err != nil {
		return nil, err
	}

	views := make([]model.RecordingView, 0, len(recs))
	for _, r := range recs {
		views = append(views, model.RecordingView{Recording: r, TutorInfo: summaryPtr(summaries, r.Tutor)})
	}
	return views, nil
}
