package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	StatusScheduled BookingStatus = "scheduled"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

type TutorStatus string

const (
	TutorStatusScheduled TutorStatus = "scheduled"
	TutorStatusAccepted  TutorStatus = "accepted"
	TutorStatusDeclined  TutorStatus = "declined"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentPending || p == PaymentPaid
}

// Booking is a live tutoring session request, or a recording purchase when
// Recording is set. Status and TutorStatus are independent axes.
type Booking struct {
	Id              primitive.ObjectID  `json:"_id" bson:"_id"`
	StudentId       primitive.ObjectID  `json:"studentId" bson:"studentId"`
	TutorId         primitive.ObjectID  `json:"tutorId" bson:"tutorId"`
	Subject         string              `json:"subject" bson:"subject"`
	Date            string              `json:"date" bson:"date"`
	Time            string              `json:"time" bson:"time"`
	Status          BookingStatus       `json:"status" bson:"status"`
	TutorStatus     TutorStatus         `json:"tutorStatus" bson:"tutorStatus"`
	StudentNotified bool                `json:"studentNotified" bson:"studentNotified"`
	Amount          float64             `json:"amount" bson:"amount"`
	PaymentStatus   PaymentStatus       `json:"paymentStatus" bson:"paymentStatus"`
	Recording       *primitive.ObjectID `json:"recording,omitempty" bson:"recording,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// BookingView is a booking with the display summaries of its participants.
type BookingView struct {
	Booking `bson:",inline"`
	Student *UserSummary `json:"student,omitempty" bson:"-"`
	Tutor   *UserSummary `json:"tutor,omitempty" bson:"-"`
}

type PaidRecording struct {
	Id        primitive.ObjectID `json:"_id" bson:"_id"`
	Recording primitive.ObjectID `json:"recording" bson:"recording"`
}

// BookingChanged is published after every lifecycle mutation.
type BookingChanged struct {
	BookingId       string        `json:"bookingId"`
	StudentId       string        `json:"studentId"`
	TutorId         string        `json:"tutorId"`
	Operation       string        `json:"operation"`
	Status          BookingStatus `json:"status"`
	TutorStatus     TutorStatus   `json:"tutorStatus"`
	StudentNotified bool          `json:"studentNotified"`
	OccurredAt      time.Time     `json:"occurredAt"`
}
