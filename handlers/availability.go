package handlers

import (
	"strings"

	apperr "tutor-marketplace/errors"
	"tutor-marketplace/model"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) CreateSlot(c *fiber.Ctx) error {
	type SlotForm struct {
		Day       string `json:"day"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
	}

	var form SlotForm
	if err := parseBody(c, &form); err != nil {
		return h.fail(c, err)
	}
	if strings.TrimSpace(form.Day) == "" || strings.TrimSpace(form.StartTime) == "" || strings.TrimSpace(form.EndTime) == "" {
		return h.fail(c, apperr.Validation("All fields are required"))
	}

	now := h.now().UTC()
	slot := &model.Availability{
		Id:        primitive.NewObjectID(),
		Tutor:     caller(c).ID,
		Day:       form.Day,
		StartTime: form.StartTime,
		EndTime:   form.EndTime,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.availability.Create(c.UserContext(), slot); err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "Slot created", slot)
}

func (h *Handler) MySlots(c *fiber.Ctx) error {
	slots, err := h.availability.ListByTutor(c.UserContext(), caller(c).ID)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Availability", slots)
}

// ListSlots is the public view of a tutor's availability.
func (h *Handler) ListSlots(c *fiber.Ctx) error {
	tutorID, err := paramID(c, "tutorId")
	if err != nil {
		return h.fail(c, err)
	}

	slots, err := h.availability.ListByTutor(c.UserContext(), tutorID)
	if err != nil {
		return h.fail(c, err)
	}

	out := make([]model.Slot, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Slot())
	}
	return respond(c, fiber.StatusOK, "Availability", out)
}

func (h *Handler) DeleteSlot(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	slot, err := h.availability.FindByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if slot.Tutor != caller(c).ID {
		return h.fail(c, apperr.Forbidden("Not allowed"))
	}

	if err := h.availability.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Slot deleted", nil)
}
