package handlers_tests

import (
	"testing"

	"tutor-marketplace/booking"
	"tutor-marketplace/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func createBooking(t *testing.T, env *testEnv, token string, tutorID primitive.ObjectID) model.BookingView {
	t.Helper()
	code, res := env.request(t, "POST", "/api/bookings", token, map[string]interface{}{
		"tutorId": tutorID.Hex(),
		"subject": "Math",
		"date":    "2024-06-01",
		"time":    "10:00",
		"amount":  500,
	})
	require.Equalf(t, 201, code, res.Message)

	var view model.BookingView
	decode(t, res, &view)
	return view
}

func TestBookingLifecycle(t *testing.T) {
	env := newTestEnv(t)
	student, studentToken := env.addUser(t, "stu", model.RoleStudent)
	tutor, tutorToken := env.addUser(t, "tut", model.RoleTutor)

	created := createBooking(t, env, studentToken, tutor.Id)
	assert.Equal(t, model.StatusScheduled, created.Status)
	assert.Equal(t, model.TutorStatusScheduled, created.TutorStatus)
	assert.Equal(t, model.PaymentPaid, created.PaymentStatus)
	assert.Equal(t, student.Id, created.StudentId)
	require.NotNil(t, created.Tutor)
	assert.Equal(t, "tut", created.Tutor.Name)

	route := "/api/bookings/accept/" + created.Id.Hex()
	code, res := env.request(t, "PATCH", route, tutorToken, nil)
	require.Equal(t, 200, code)
	var accepted model.Booking
	decode(t, res, &accepted)
	assert.Equal(t, model.TutorStatusAccepted, accepted.TutorStatus)
	assert.False(t, accepted.StudentNotified)

	code, res = env.request(t, "PATCH", "/api/bookings/reschedule/"+created.Id.Hex(), studentToken,
		map[string]string{"date": "2024-06-02", "time": "11:00"})
	require.Equal(t, 200, code)
	var rescheduled model.Booking
	decode(t, res, &rescheduled)
	assert.Equal(t, "2024-06-02", rescheduled.Date)
	assert.Equal(t, model.TutorStatusScheduled, rescheduled.TutorStatus)

	code, res = env.request(t, "PATCH", "/api/bookings/cancel/"+created.Id.Hex(), studentToken, nil)
	require.Equal(t, 200, code)
	var cancelled model.Booking
	decode(t, res, &cancelled)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, model.TutorStatusDeclined, cancelled.TutorStatus)

	stored := env.bookings.bookings[created.Id]
	assert.Equal(t, model.StatusCancelled, stored.Status)
}

func TestBookingTutorResponses(t *testing.T) {
	env := newTestEnv(t)
	_, studentToken := env.addUser(t, "stu", model.RoleStudent)
	tutor, tutorToken := env.addUser(t, "tut", model.RoleTutor)
	created := createBooking(t, env, studentToken, tutor.Id)

	code, res := env.request(t, "PATCH", "/api/bookings/decline/"+created.Id.Hex(), tutorToken, nil)
	require.Equal(t, 200, code)
	var declined model.Booking
	decode(t, res, &declined)
	assert.Equal(t, model.TutorStatusDeclined, declined.TutorStatus)
	assert.Equal(t, model.StatusScheduled, declined.Status)

	code, res = env.request(t, "PATCH", "/api/bookings/tutor-reschedule/"+created.Id.Hex(), tutorToken,
		map[string]string{"date": "2024-07-01", "time": "09:00"})
	require.Equal(t, 200, code)
	var moved model.Booking
	decode(t, res, &moved)
	assert.Equal(t, "2024-07-01", moved.Date)
	assert.Equal(t, "09:00", moved.Time)
	assert.Equal(t, model.TutorStatusDeclined, moved.TutorStatus)
}

func TestBookingOwnershipErrors(t *testing.T) {
	env := newTestEnv(t)
	_, studentToken := env.addUser(t, "stu", model.RoleStudent)
	_, otherToken := env.addUser(t, "other", model.RoleStudent)
	tutor, _ := env.addUser(t, "tut", model.RoleTutor)
	created := createBooking(t, env, studentToken, tutor.Id)
	id := created.Id.Hex()

	tests := []struct {
		description  string
		method       string
		route        string
		token        string
		body         interface{}
		expectedCode int
	}{
		{"cancel by another student", "PATCH", "/api/bookings/cancel/" + id, otherToken, nil, 403},
		{"reschedule by another student", "PATCH", "/api/bookings/reschedule/" + id, otherToken, map[string]string{"date": "d", "time": "t"}, 403},
		{"tutor reschedule by a student", "PATCH", "/api/bookings/tutor-reschedule/" + id, studentToken, map[string]string{"date": "d", "time": "t"}, 403},
		{"reschedule without time", "PATCH", "/api/bookings/reschedule/" + id, studentToken, map[string]string{"date": "d"}, 400},
		{"unknown booking", "PATCH", "/api/bookings/accept/" + primitive.NewObjectID().Hex(), studentToken, nil, 404},
		{"malformed id", "PATCH", "/api/bookings/cancel/xyz", studentToken, nil, 400},
		{"no token", "PATCH", "/api/bookings/cancel/" + id, "", nil, 401},
		{"accept by anyone", "PATCH", "/api/bookings/accept/" + id, otherToken, nil, 200},
	}

	for _, test := range tests {
		code, _ := env.request(t, test.method, test.route, test.token, test.body)
		assert.Equalf(t, test.expectedCode, code, test.description)
	}

	stored := env.bookings.bookings[created.Id]
	assert.Equal(t, "2024-06-01", stored.Date)
	assert.Equal(t, model.StatusScheduled, stored.Status)
}

func TestBookingAcceptWithOwnershipEnforced(t *testing.T) {
	env := newTestEnvWithOptions(t, booking.Options{EnforceTutorOwnership: true})
	_, studentToken := env.addUser(t, "stu", model.RoleStudent)
	tutor, tutorToken := env.addUser(t, "tut", model.RoleTutor)
	_, otherTutorToken := env.addUser(t, "tut2", model.RoleTutor)
	created := createBooking(t, env, studentToken, tutor.Id)

	code, _ := env.request(t, "PATCH", "/api/bookings/accept/"+created.Id.Hex(), otherTutorToken, nil)
	assert.Equal(t, 403, code)
	assert.Equal(t, model.TutorStatusScheduled, env.bookings.bookings[created.Id].TutorStatus)

	code, _ = env.request(t, "PATCH", "/api/bookings/accept/"+created.Id.Hex(), tutorToken, nil)
	assert.Equal(t, 200, code)
}

func TestCreateBookingValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "stu", model.RoleStudent)
	tutorID := primitive.NewObjectID().Hex()

	tests := []struct {
		description string
		body        map[string]interface{}
	}{
		{"missing subject", map[string]interface{}{"tutorId": tutorID, "date": "d", "time": "t", "amount": 1}},
		{"missing amount", map[string]interface{}{"tutorId": tutorID, "subject": "s", "date": "d", "time": "t"}},
		{"invalid tutor id", map[string]interface{}{"tutorId": "nope", "subject": "s", "date": "d", "time": "t", "amount": 1}},
		{"invalid payment status", map[string]interface{}{"tutorId": tutorID, "subject": "s", "date": "d", "time": "t", "amount": 1, "paymentStatus": "refunded"}},
	}

	for _, test := range tests {
		code, res := env.request(t, "POST", "/api/bookings", token, test.body)
		assert.Equalf(t, 400, code, test.description)
		assert.Equalf(t, "error", res.Status, test.description)
	}
	assert.Empty(t, env.bookings.bookings)

	code, res := env.request(t, "POST", "/api/bookings", token,
		map[string]interface{}{"tutorId": tutorID, "subject": "s", "date": "d", "time": "t", "amount": 0, "paymentStatus": "pending"})
	require.Equal(t, 201, code)
	var view model.BookingView
	decode(t, res, &view)
	assert.Equal(t, model.PaymentPending, view.PaymentStatus)
}

func TestBookingListings(t *testing.T) {
	env := newTestEnv(t)
	_, studentToken := env.addUser(t, "stu", model.RoleStudent)
	tutor, tutorToken := env.addUser(t, "tut", model.RoleTutor)
	createBooking(t, env, studentToken, tutor.Id)
	createBooking(t, env, studentToken, primitive.NewObjectID())

	code, res := env.request(t, "GET", "/api/bookings/tutor", tutorToken, nil)
	require.Equal(t, 200, code)
	var forTutor []model.BookingView
	decode(t, res, &forTutor)
	require.Len(t, forTutor, 1)
	require.NotNil(t, forTutor[0].Student)
	assert.Equal(t, "stu", forTutor[0].Student.Name)
	assert.Nil(t, forTutor[0].Tutor)

	code, res = env.request(t, "GET", "/api/bookings/student", studentToken, nil)
	require.Equal(t, 200, code)
	var forStudent []model.BookingView
	decode(t, res, &forStudent)
	assert.Len(t, forStudent, 2)
}
