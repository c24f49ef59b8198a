package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperr "tutor-marketplace/errors"
	"tutor-marketplace/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Store interface {
	Insert(ctx context.Context, b *model.Booking) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	ListByTutor(ctx context.Context, tutorID primitive.ObjectID) ([]model.Booking, error)
	ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]model.Booking, error)
	// UpsertRecordingPurchase inserts or updates the booking keyed by
	// (StudentId, Recording) and returns the stored document.
	UpsertRecordingPurchase(ctx context.Context, b *model.Booking) (*model.Booking, error)
	ListPaidRecordings(ctx context.Context, studentID primitive.ObjectID) ([]model.PaidRecording, error)
	HasPaidRecording(ctx context.Context, studentID, recordingID primitive.ObjectID) (bool, error)
}

// Directory resolves user ids to display summaries. Unknown ids are omitted.
type Directory interface {
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.UserSummary, error)
}

type Recordings interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Recording, error)
}

type Publisher interface {
	Publish(ctx context.Context, event any) error
}

type Options struct {
	// EnforceTutorOwnership restricts accept and decline to the booking's tutor.
	EnforceTutorOwnership bool
}

type Service struct {
	store      Store
	users      Directory
	recordings Recordings
	publisher  Publisher
	logger     *zap.Logger
	opts       Options
	now        func() time.Time
}

func NewService(store Store, users Directory, recordings Recordings, publisher Publisher, logger *zap.Logger, opts Options) *Service {
	return &Service{
		store:      store,
		users:      users,
		recordings: recordings,
		publisher:  publisher,
		logger:     logger,
		opts:       opts,
		now:        time.Now,
	}
}

type CreateRequest struct {
	TutorId       string   `json:"tutorId"`
	Subject       string   `json:"subject"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	Amount        *float64 `json:"amount"`
	PaymentStatus string   `json:"paymentStatus"`
}

func (r CreateRequest) validate() (primitive.ObjectID, model.PaymentStatus, error) {
	if strings.TrimSpace(r.TutorId) == "" || strings.TrimSpace(r.Subject) == "" ||
		strings.TrimSpace(r.Date) == "" || strings.TrimSpace(r.Time) == "" || r.Amount == nil {
		return primitive.NilObjectID, "", apperr.Validation("Missing required fields")
	}
	tutorID, err := primitive.ObjectIDFromHex(r.TutorId)
	if err != nil {
		return primitive.NilObjectID, "", apperr.Validation("Invalid tutorId")
	}
	if *r.Amount < 0 {
		return primitive.NilObjectID, "", apperr.Validation("Amount must not be negative")
	}
	payment := model.PaymentPaid
	if r.PaymentStatus != "" {
		payment = model.PaymentStatus(r.PaymentStatus)
		if !payment.Valid() {
			return primitive.NilObjectID, "", apperr.Validation("Invalid paymentStatus")
		}
	}
	return tutorID, payment, nil
}

// Create stores a new session request from studentID.
func (s *Service) Create(ctx context.Context, studentID primitive.ObjectID, req CreateRequest) (*model.BookingView, error) {
	tutorID, payment, err := req.validate()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b := &model.Booking{
		Id:            primitive.NewObjectID(),
		StudentId:     studentID,
		TutorId:       tutorID,
		Subject:       strings.TrimSpace(req.Subject),
		Date:          req.Date,
		Time:          req.Time,
		Amount:        *req.Amount,
		PaymentStatus: payment,
		Status:        model.StatusScheduled,
		TutorStatus:   model.TutorStatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	views, err := s.withSummaries(ctx, []model.Booking{*b}, true, true)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) Accept(ctx context.Context, id, callerID primitive.ObjectID) (*model.Booking, error) {
	return s.mutate(ctx, id, callerID, s.tutorResponse(acceptTransition))
}

func (s *Service) Decline(ctx context.Context, id, callerID primitive.ObjectID) (*model.Booking, error) {
	return s.mutate(ctx, id, callerID, s.tutorResponse(declineTransition))
}

func (s *Service) Reschedule(ctx context.Context, id, callerID primitive.ObjectID, date, clock string) (*model.Booking, error) {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(clock) == "" {
		return nil, apperr.Validation("Date & time required")
	}
	return s.mutate(ctx, id, callerID, rescheduleTransition(date, clock))
}

// TutorReschedule does not validate date and time; empty values overwrite the
// stored ones.
func (s *Service) TutorReschedule(ctx context.Context, id, callerID primitive.ObjectID, date, clock string) (*model.Booking, error) {
	return s.mutate(ctx, id, callerID, tutorRescheduleTransition(date, clock))
}

func (s *Service) Cancel(ctx context.Context, id, callerID primitive.ObjectID) (*model.Booking, error) {
	return s.mutate(ctx, id, callerID, cancelTransition)
}

func (s *Service) tutorResponse(t transition) transition {
	if s.opts.EnforceTutorOwnership {
		t.owner = tutorOwner
	}
	return t
}

func (s *Service) mutate(ctx context.Context, id, callerID primitive.ObjectID, t transition) (*model.Booking, error) {
	b, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s booking: %w", t.name, err)
	}

	switch t.owner {
	case studentOwner:
		if b.StudentId != callerID {
			return nil, apperr.Forbidden("Not allowed")
		}
	case tutorOwner:
		if b.TutorId != callerID {
			return nil, apperr.Forbidden("Not allowed")
		}
	}

	t.apply(b)
	b.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("%s booking: %w", t.name, err)
	}

	s.publish(ctx, t.name, b)
	return b, nil
}

// publish reports the change; the mutation is already stored, so a failed
// publish is logged and not returned.
func (s *Service) publish(ctx context.Context, operation string, b *model.Booking) {
	if s.publisher == nil {
		return
	}
	event := model.BookingChanged{
		BookingId:       b.Id.Hex(),
		StudentId:       b.StudentId.Hex(),
		TutorId:         b.TutorId.Hex(),
		Operation:       operation,
		Status:          b.Status,
		TutorStatus:     b.TutorStatus,
		StudentNotified: b.StudentNotified,
		OccurredAt:      b.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, &event); err != nil {
		s.logger.Warn("failed to publish booking change",
			zap.String("booking_id", event.BookingId),
			zap.String("operation", operation),
			zap.Error(err))
	}
}

func (s *Service) ListForTutor(ctx context.Context, tutorID primitive.ObjectID) ([]model.BookingView, error) {
	bookings, err := s.store.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list tutor bookings: %w", err)
	}
	return s.withSummaries(ctx, bookings, true, false)
}

func (s *Service) ListForStudent(ctx context.Context, studentID primitive.ObjectID) ([]model.BookingView, error) {
	bookings, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list student bookings: %w", err)
	}
	return s.withSummaries(ctx, bookings, false, true)
}

// PurchaseRecording records a paid recording purchase as a booking. A nil
// amount charges the recording's price.
func (s *Service) PurchaseRecording(ctx context.Context, studentID, recordingID primitive.ObjectID, amount *float64) (*model.Booking, error) {
	rec, err := s.recordings.FindByID(ctx, recordingID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Recording not found")
		}
		return nil, fmt.Errorf("purchase recording: %w", err)
	}

	charge := rec.Price
	if amount != nil {
		if *amount < 0 {
			return nil, apperr.Validation("Amount must not be negative")
		}
		charge = *amount
	}

	now := s.now().UTC()
	b, err := s.store.UpsertRecordingPurchase(ctx, &model.Booking{
		StudentId:     studentID,
		TutorId:       rec.Tutor,
		Recording:     &rec.Id,
		Subject:       rec.Subject,
		Amount:        charge,
		PaymentStatus: model.PaymentPaid,
		Status:        model.StatusScheduled,
		TutorStatus:   model.TutorStatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("purchase recording: %w", err)
	}
	return b, nil
}

func (s *Service) PaidRecordings(ctx context.Context, studentID primitive.ObjectID) ([]model.PaidRecording, error) {
	paid, err := s.store.ListPaidRecordings(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list paid recordings: %w", err)
	}
	return paid, nil
}

func (s *Service) HasPaidRecording(ctx context.Context, studentID, recordingID primitive.ObjectID) (bool, error) {
	return s.store.HasPaidRecording(ctx, studentID, recordingID)
}

func (s *Service) withSummaries(ctx context.Context, bookings []model.Booking, student, tutor bool) ([]model.BookingView, error) {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, b := range bookings {
		for _, id := range []primitive.ObjectID{b.StudentId, b.TutorId} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	summaries := map[primitive.ObjectID]model.UserSummary{}
	if len(ids) > 0 {
		var err error
		if summaries, err = s.users.Summaries(ctx, ids); err != nil {
			return nil, fmt.Errorf("load booking participants: %w", err)
		}
	}

	views := make([]model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		view := model.BookingView{Booking: b}
		if summary, ok := summaries[b.StudentId]; ok && student {
			view.Student = &summary
		}
		if summary, ok := summaries[b.TutorId]; ok && tutor {
			view.Tutor = &summary
		}
		views = append(views, view)
	}
	return views, nil
}
