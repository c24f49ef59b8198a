package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const FakeGatewayValue = "FAKE"

type Payment struct {
	Id        primitive.ObjectID  `json:"_id" bson:"_id"`
	Tutor     primitive.ObjectID  `json:"tutor" bson:"tutor"`
	Student   primitive.ObjectID  `json:"student" bson:"student"`
	Recording *primitive.ObjectID `json:"recording" bson:"recording"`
	Amount    float64             `json:"amount" bson:"amount"`
	Email     string              `json:"email" bson:"email"`
	OrderId   string              `json:"razorpay_order_id" bson:"razorpay_order_id"`
	PaymentId string              `json:"razorpay_payment_id" bson:"razorpay_payment_id"`
	Signature string              `json:"razorpay_signature" bson:"razorpay_signature"`
	Date      time.Time           `json:"date" bson:"date"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type PaymentView struct {
	Payment       `bson:",inline"`
	TutorName     string `json:"tutorName,omitempty" bson:"-"`
	RecordingName string `json:"recordingName,omitempty" bson:"-"`
}

// Order is the mocked gateway order returned before payment.
type Order struct {
	Id       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Status   string  `json:"status"`
}
