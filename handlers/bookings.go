package handlers

import (
	"tutor-marketplace/booking"
	"tutor-marketplace/model"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	var req booking.CreateRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	view, err := h.bookings.Create(c.UserContext(), caller(c).ID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "Booking created", view)
}

func (h *Handler) TutorBookings(c *fiber.Ctx) error {
	views, err := h.bookings.ListForTutor(c.UserContext(), caller(c).ID)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Bookings", views)
}

func (h *Handler) StudentBookings(c *fiber.Ctx) error {
	views, err := h.bookings.ListForStudent(c.UserContext(), caller(c).ID)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Bookings", views)
}

type bookingOp func(c *fiber.Ctx, id, callerID primitive.ObjectID) (*model.Booking, error)

// lifecycle adapts one booking transition to a PATCH /:id route.
func (h *Handler) lifecycle(message string, op bookingOp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return h.fail(c, err)
		}
		b, err := op(c, id, caller(c).ID)
		if err != nil {
			return h.fail(c, err)
		}
		return respond(c, fiber.StatusOK, message, b)
	}
}

type scheduleForm struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (h *Handler) AcceptBooking() fiber.Handler {
	return h.lifecycle("Booking accepted", func(c *fiber.Ctx, id, callerID primitive.ObjectID) (*model.Booking, error) {
		return h.bookings.Accept(c.UserContext(), id, callerID)
	})
}

func (h *Handler) DeclineBooking() fiber.Handler {
	return h.lifecycle("Booking declined", func(c *fiber.Ctx, id, callerID primitive.ObjectID) (*model.Booking, error) {
		return h.bookings.Decline(c.UserContext(), id, callerID)
	})
}

func (h *Handler) CancelBooking() fiber.Handler {
	return h.lifecycle("Booking cancelled", func(c *fiber.Ctx, id, callerID primitive.ObjectID) (*model.Booking, error) {
		return h.bookings.Cancel(c.UserContext(), id, callerID)
	})
}

func (h *Handler) RescheduleBooking() fiber.Handler {
	return h.lifecycle("Booking rescheduled", func(c *fiber.Ctx, id, callerID primitive.ObjectID) (*model.Booking, error) {
		var form scheduleForm
		if err := parseBody(c, &form); err != nil {
			return nil, err
		}
		return h.bookings.Reschedule(c.UserContext(), id, callerID, form.Date, form.Time)
	})
}

func (h *Handler) TutorRescheduleBooking() fiber.Handler {
	return h.lifecycle("Booking rescheduled", func(c *fiber.Ctx, id, callerID primitive.ObjectID) (*model.Booking, error) {
		var form scheduleForm
		if err := parseBody(c, &form); err != nil {
			return nil, err
		}
		return h.bookings.TutorReschedule(c.UserContext(), id, callerID, form.Date, form.Time)
	})
}
