package handlers_tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"tutor-marketplace/booking"
	"tutor-marketplace/handlers"
	"tutor-marketplace/middleware"
	"tutor-marketplace/model"
	"tutor-marketplace/router"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-secret"
	testPassword = "secret123"
)

type testEnv struct {
	app          *fiber.App
	users        *memUsers
	tutors       *memTutors
	availability *memAvailability
	recordings   *memRecordings
	reviews      *memReviews
	payments     *memPayments
	bookings     *memBookings
	files        *memFiles
	revoker      *memRevoker
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithOptions(t, booking.Options{})
}

func newTestEnvWithOptions(t *testing.T, opts booking.Options) *testEnv {
	t.Helper()
	env := &testEnv{
		users:        &memUsers{users: map[primitive.ObjectID]model.User{}},
		tutors:       &memTutors{profiles: map[primitive.ObjectID]model.TutorProfile{}},
		availability: &memAvailability{slots: map[primitive.ObjectID]model.Availability{}},
		recordings:   &memRecordings{recs: map[primitive.ObjectID]model.Recording{}},
		reviews:      &memReviews{reviews: map[primitive.ObjectID]model.Review{}},
		payments:     &memPayments{},
		bookings:     &memBookings{bookings: map[primitive.ObjectID]model.Booking{}},
		files:        &memFiles{files: map[string]int64{}},
		revoker:      &memRevoker{revoked: map[string]time.Time{}},
	}

	logger := zap.NewNop()
	service := booking.NewService(env.bookings, env.users, env.recordings, nil, logger, opts)
	h := handlers.New(handlers.Deps{
		Users:        env.users,
		Tutors:       env.tutors,
		Availability: env.availability,
		Recordings:   env.recordings,
		Reviews:      env.reviews,
		Payments:     env.payments,
		Files:        env.files,
		Bookings:     service,
		Revoker:      env.revoker,
		Logger:       logger,
		TokenSecret:  testSecret,
		TokenTTL:     time.Hour,
	})

	env.app = fiber.New()
	router.SetupRoutes(env.app, h, router.Options{
		Guard: middleware.NewGuard(testSecret, env.revoker),
	})
	return env
}

// addUser stores an active user and returns it with a valid bearer token.
func (e *testEnv) addUser(t *testing.T, name string, role model.Role) (*model.User, string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Id:             primitive.NewObjectID(),
		Name:           name,
		Email:          name + "@example.com",
		HashedPassword: string(hashed),
		Active:         true,
		Role:           role,
	}
	e.users.users[user.Id] = *user

	token, err := middleware.IssueToken(testSecret, user, time.Hour, time.Now())
	require.NoError(t, err)
	return user, token
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) request(t *testing.T, method, route, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, route, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(t, req, token)
}

func (e *testEnv) send(t *testing.T, req *http.Request, token string) (int, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	var env envelope
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoErrorf(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return res.StatusCode, env
}

func decode(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoErrorf(t, json.Unmarshal(env.Data, out), "data: %s", env.Data)
}
