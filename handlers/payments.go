package handlers

import (
	"strings"

	apperr "tutor-marketplace/errors"
	"tutor-marketplace/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ORDER_CURRENCY string = "INR"
	ORDER_CREATED  string = "created"
	BOOKING_TYPE   string = "booking"
)

// CreateOrder mimics the gateway order call; amounts are in minor units.
func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	var form struct {
		Amount *float64 `json:"amount"`
	}
	if err := parseBody(c, &form); err != nil {
		return h.fail(c, err)
	}
	if form.Amount == nil {
		return h.fail(c, apperr.Validation("Amount required"))
	}
	if *form.Amount < 0 {
		return h.fail(c, apperr.Validation("Amount must not be negative"))
	}

	order := model.Order{
		Id:       "order_" + uuid.NewString(),
		Amount:   *form.Amount * 100,
		Currency: ORDER_CURRENCY,
		Status:   ORDER_CREATED,
	}
	return respond(c, fiber.StatusOK, "Order created", order)
}

// VerifyPayment stores a payment with placeholder gateway ids.
func (h *Handler) VerifyPayment(c *fiber.Ctx) error {
	var form struct {
		TutorId   string   `json:"tutorId"`
		Amount    *float64 `json:"amount"`
		Recording string   `json:"recording"`
		Email     string   `json:"email"`
		Type      string   `json:"type"`
	}
	if err := parseBody(c, &form); err != nil {
		return h.fail(c, err)
	}
	if form.TutorId == "" || form.Amount == nil {
		return h.fail(c, apperr.Validation("Missing required fields"))
	}
	tutorID, err := primitive.ObjectIDFromHex(form.TutorId)
	if err != nil {
		return h.fail(c, apperr.Validation("Invalid tutorId"))
	}
	if *form.Amount < 0 {
		return h.fail(c, apperr.Validation("Amount must not be negative"))
	}

	now := h.now().UTC()
	payment := &model.Payment{
		Id:        primitive.NewObjectID(),
		Tutor:     tutorID,
		Student:   caller(c).ID,
		Amount:    *form.Amount,
		Email:     strings.TrimSpace(form.Email),
		OrderId:   model.FakeGatewayValue,
		PaymentId: model.FakeGatewayValue,
		Signature: model.FakeGatewayValue,
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if form.Type != BOOKING_TYPE && form.Recording != "" {
		recordingID, err := primitive.ObjectIDFromHex(form.Recording)
		if err != nil {
			return h.fail(c, apperr.Validation("Invalid recording"))
		}
		payment.Recording = &recordingID
	}

	if err := h.payments.Create(c.UserContext(), payment); err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "Payment verified", payment)
}

func (h *Handler) TutorPayments(c *fiber.Ctx) error {
	payments, err := h.payments.ListByTutor(c.UserContext(), caller(c).ID)
	if err != nil {
		return h.fail(c, err)
	}
	return h.paymentViews(c, payments)
}

func (h *Handler) StudentPayments(c *fiber.Ctx) error {
	payments, err := h.payments.ListByStudent(c.UserContext(), caller(c).ID)
	if err != nil {
		return h.fail(c, err)
	}
	return h.paymentViews(c, payments)
}

func (h *Handler) paymentViews(c *fiber.Ctx, payments []model.Payment) error {
	ctx := c.UserContext()

	tutors := make([]primitive.ObjectID, 0, len(payments))
	recordings := make([]primitive.ObjectID, 0, len(payments))
	for _, p := range payments {
		tutors = append(tutors, p.Tutor)
		if p.Recording != nil {
			recordings = append(recordings, *p.Recording)
		}
	}

	summaries, err := h.users.Summaries(ctx, uniqueIDs(tutors...))
	if err != nil {
		return h.fail(c, err)
	}
	names, err := h.recordings.Names(ctx, uniqueIDs(recordings...))
	if err != nil {
		return h.fail(c, err)
	}

	views := make([]model.PaymentView, 0, len(payments))
	for _, p := range payments {
		view := model.PaymentView{Payment: p, TutorName: summaries[p.Tutor].Name}
		if p.Recording != nil {
			view.RecordingName = names[*p.Recording]
		}
		views = append(views, view)
	}
	return respond(c, fiber.StatusOK, "Payments", views)
}

// FakePay completes a purchase without a gateway: a recording id buys the
// recording, a tutor id acknowledges a session payment.
func (h *Handler) FakePay(c *fiber.Ctx) error {
	var form struct {
		RecordingId string   `json:"recordingId"`
		TutorId     string   `json:"tutorId"`
		Amount      *float64 `json:"amount"`
	}
	if err := parseBody(c, &form); err != nil {
		return h.fail(c, err)
	}

	switch {
	case form.RecordingId != "":
		recordingID, err := primitive.ObjectIDFromHex(form.RecordingId)
		if err != nil {
			return h.fail(c, apperr.Validation("Invalid recordingId"))
		}
		purchase, err := h.bookings.PurchaseRecording(c.UserContext(), caller(c).ID, recordingID, form.Amount)
		if err != nil {
			return h.fail(c, err)
		}
		return respond(c, fiber.StatusOK, "Recording purchased", purchase)
	case form.TutorId != "":
		return respond(c, fiber.StatusOK, "Tutor booking payment successful", nil)
	}
	return h.fail(c, apperr.Validation("No valid payment type"))
}

func (h *Handler) PaidList(c *fiber.Ctx) error {
	paid, err := h.bookings.PaidRecordings(c.UserContext(), caller(c).ID)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Paid recordings", paid)
}
