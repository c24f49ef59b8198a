package events

import (
	"context"

	"tutor-marketplace/model"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"go.uber.org/zap"
)

// StudentNotificationHandler records booking changes the student has not been
// notified about yet.
func StudentNotificationHandler(logger *zap.Logger) cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"student_notification_handler",
		func(ctx context.Context, event *model.BookingChanged) error {
			if event.StudentNotified {
				return nil
			}
			logger.Info("booking changed, student notification pending",
				zap.String("booking_id", event.BookingId),
				zap.String("student_id", event.StudentId),
				zap.String("operation", event.Operation),
				zap.String("status", string(event.Status)),
				zap.String("tutor_status", string(event.TutorStatus)),
			)
			return nil
		},
	)
}
