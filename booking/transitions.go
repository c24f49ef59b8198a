package booking

import "tutor-marketplace/model"

type owner int

const (
	anyCaller owner = iota
	studentOwner
	tutorOwner
)

// transition is one lifecycle operation: who may apply it and which fields it
// overwrites. Transitions never look at the current status.
type transition struct {
	name  string
	owner owner
	apply func(b *model.Booking)
}

var (
	acceptTransition = transition{
		name:  "accept",
		owner: anyCaller,
		apply: func(b *model.Booking) {
			b.TutorStatus = model.TutorStatusAccepted
			b.Status = model.StatusScheduled
			b.StudentNotified = false
		},
	}

	// status is left as is, so a declined booking stays nominally scheduled.
	declineTransition = transition{
		name:  "decline",
		owner: anyCaller,
		apply: func(b *model.Booking) {
			b.TutorStatus = model.TutorStatusDeclined
			b.StudentNotified = false
		},
	}

	cancelTransition = transition{
		name:  "cancel",
		owner: studentOwner,
		apply: func(b *model.Booking) {
			b.Status = model.StatusCancelled
			b.TutorStatus = model.TutorStatusDeclined
		},
	}
)

func rescheduleTransition(date, time string) transition {
	return transition{
		name:  "reschedule",
		owner: studentOwner,
		apply: func(b *model.Booking) {
			b.Date = date
			b.Time = time
			b.Status = model.StatusScheduled
			b.TutorStatus = model.TutorStatusScheduled
			b.StudentNotified = false
		},
	}
}

// tutorRescheduleTransition keeps the tutor's previous response.
func tutorRescheduleTransition(date, time string) transition {
	return transition{
		name:  "tutor-reschedule",
		owner: tutorOwner,
		apply: func(b *model.Booking) {
			b.Date = date
			b.Time = time
			b.Status = model.StatusScheduled
			b.StudentNotified = false
		},
	}
}
