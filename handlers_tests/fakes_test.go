package handlers_tests

import (
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"sync"
	"time"

	apperr "tutor-marketplace/errors"
	"tutor-marketplace/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]model.User
}

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperr.Conflict("Email already exists")
		}
	}
	m.users[user.Id] = *user
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return &u, nil
}

func (m *memUsers) UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) (*model.User, error) {
	m.mu.Lock()
	u, ok := m.users[id]
	if !ok {
		m.mu.Unlock()
		return nil, apperr.NotFound("User not found")
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Contact != nil {
		u.Contact = *update.Contact
	}
	if update.Gender != nil {
		u.Gender = *update.Gender
	}
	if update.Occupation != nil {
		u.Occupation = *update.Occupation
	}
	m.users[id] = u
	m.mu.Unlock()
	return m.FindByID(ctx, id)
}

func (m *memUsers) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.User{}
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperr.NotFound("User not found")
	}
	u.Active = active
	m.users[id] = u
	return nil
}

func (m *memUsers) SetRole(ctx context.Context, id primitive.ObjectID, role model.Role) (*model.User, error) {
	m.mu.Lock()
	u, ok := m.users[id]
	if !ok {
		m.mu.Unlock()
		return nil, apperr.NotFound("User not found")
	}
	u.Role = role
	m.users[id] = u
	m.mu.Unlock()
	return m.FindByID(ctx, id)
}

func (m *memUsers) Summaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[primitive.ObjectID]model.UserSummary{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

type memTutors struct {
	mu       sync.Mutex
	profiles map[primitive.ObjectID]model.TutorProfile
}

func (m *memTutors) List(_ context.Context) ([]model.TutorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.TutorProfile{}
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (m *memTutors) FindByUser(_ context.Context, userID primitive.ObjectID) (*model.TutorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, apperr.NotFound("Tutor profile not found")
	}
	return &p, nil
}

func (m *memTutors) Upsert(_ context.Context, profile *model.TutorProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.profiles[profile.User]
	if ok {
		profile.Id = existing.Id
	} else {
		profile.Id = primitive.NewObjectID()
	}
	m.profiles[profile.User] = *profile
	return nil
}

type memAvailability struct {
	mu    sync.Mutex
	slots map[primitive.ObjectID]model.Availability
}

func (m *memAvailability) Create(_ context.Context, slot *model.Availability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot.Id] = *slot
	return nil
}

func (m *memAvailability) ListByTutor(_ context.Context, tutorID primitive.ObjectID) ([]model.Availability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Availability{}
	for _, s := range m.slots {
		if s.Tutor == tutorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memAvailability) FindByID(_ context.Context, id primitive.ObjectID) (*model.Availability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return nil, apperr.NotFound("Slot not found")
	}
	return &s, nil
}

func (m *memAvailability) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[id]; !ok {
		return apperr.NotFound("Slot not found")
	}
	delete(m.slots, id)
	return nil
}

type memRecordings struct {
	mu   sync.Mutex
	recs map[primitive.ObjectID]model.Recording
}

func (m *memRecordings) Create(_ context.Context, rec *model.Recording) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.Id] = *rec
	return nil
}

func (m *memRecordings) List(_ context.Context, tutorID *primitive.ObjectID) ([]model.Recording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Recording{}
	for _, r := range m.recs {
		if tutorID == nil || r.Tutor == *tutorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRecordings) FindByID(_ context.Context, id primitive.ObjectID) (*model.Recording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok {
		return nil, apperr.NotFound("Not found")
	}
	return &r, nil
}

func (m *memRecordings) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[id]; !ok {
		return apperr.NotFound("Not found")
	}
	delete(m.recs, id)
	return nil
}

func (m *memRecordings) Names(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[primitive.ObjectID]string{}
	for _, id := range ids {
		if r, ok := m.recs[id]; ok {
			out[id] = r.OriginalFileName
		}
	}
	return out, nil
}

type memReviews struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]model.Review
}

func (m *memReviews) Create(_ context.Context, review *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[review.Id] = *review
	return nil
}

func (m *memReviews) ListByTutor(_ context.Context, tutorID primitive.ObjectID) ([]model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Review{}
	for _, r := range m.reviews {
		if r.Tutor == tutorID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memReviews) FindByID(_ context.Context, id primitive.ObjectID) (*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, apperr.NotFound("Review not found")
	}
	return &r, nil
}

func (m *memReviews) Exists(_ context.Context, studentID, recordingID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.Student == studentID && r.Recording != nil && *r.Recording == recordingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memReviews) SetReply(_ context.Context, id primitive.ObjectID, reply string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return apperr.NotFound("Review not found")
	}
	r.Reply = reply
	m.reviews[id] = r
	return nil
}

func (m *memReviews) RatingStats(_ context.Context, tutorIDs []primitive.ObjectID) (map[primitive.ObjectID]model.RatingStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[primitive.ObjectID]model.RatingStats{}
	for _, id := range tutorIDs {
		total, count := 0.0, 0
		for _, r := range m.reviews {
			if r.Tutor == id {
				total += r.Rating
				count++
			}
		}
		if count > 0 {
			out[id] = model.RatingStats{Tutor: id, Average: total / float64(count), Count: count}
		}
	}
	return out, nil
}

type memPayments struct {
	mu       sync.Mutex
	payments []model.Payment
}

func (m *memPayments) Create(_ context.Context, payment *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, *payment)
	return nil
}

func (m *memPayments) ListByTutor(_ context.Context, tutorID primitive.ObjectID) ([]model.Payment, error) {
	return m.filter(func(p model.Payment) bool { return p.Tutor == tutorID }), nil
}

func (m *memPayments) ListByStudent(_ context.Context, studentID primitive.ObjectID) ([]model.Payment, error) {
	return m.filter(func(p model.Payment) bool { return p.Student == studentID }), nil
}

func (m *memPayments) filter(keep func(model.Payment) bool) []model.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Payment{}
	for i := len(m.payments) - 1; i >= 0; i-- {
		if keep(m.payments[i]) {
			out = append(out, m.payments[i])
		}
	}
	return out
}

type memBookings struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]model.Booking
}

func (m *memBookings) Insert(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.Id] = *b
	return nil
}

func (m *memBookings) FindByID(_ context.Context, id primitive.ObjectID) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, apperr.NotFound("Booking not found")
	}
	return &b, nil
}

func (m *memBookings) Update(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.Id]; !ok {
		return apperr.NotFound("Booking not found")
	}
	m.bookings[b.Id] = *b
	return nil
}

func (m *memBookings) ListByTutor(_ context.Context, tutorID primitive.ObjectID) ([]model.Booking, error) {
	return m.filter(func(b model.Booking) bool { return b.TutorId == tutorID }), nil
}

func (m *memBookings) ListByStudent(_ context.Context, studentID primitive.ObjectID) ([]model.Booking, error) {
	return m.filter(func(b model.Booking) bool { return b.StudentId == studentID }), nil
}

func (m *memBookings) filter(keep func(model.Booking) bool) []model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Booking{}
	for _, b := range m.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out
}

func (m *memBookings) UpsertRecordingPurchase(_ context.Context, b *model.Booking) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.bookings {
		if existing.StudentId == b.StudentId && existing.Recording != nil && *existing.Recording == *b.Recording {
			existing.Amount = b.Amount
			existing.PaymentStatus = b.PaymentStatus
			existing.UpdatedAt = b.UpdatedAt
			m.bookings[id] = existing
			return &existing, nil
		}
	}
	stored := *b
	stored.Id = primitive.NewObjectID()
	m.bookings[stored.Id] = stored
	return &stored, nil
}

func (m *memBookings) ListPaidRecordings(_ context.Context, studentID primitive.ObjectID) ([]model.PaidRecording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.PaidRecording{}
	for _, b := range m.bookings {
		if b.StudentId == studentID && b.Recording != nil && b.PaymentStatus == model.PaymentPaid {
			out = append(out, model.PaidRecording{Id: b.Id, Recording: *b.Recording})
		}
	}
	return out, nil
}

func (m *memBookings) HasPaidRecording(_ context.Context, studentID, recordingID primitive.ObjectID) (bool, error) {
	paid, _ := m.ListPaidRecordings(context.Background(), studentID)
	for _, p := range paid {
		if p.Recording == recordingID {
			return true, nil
		}
	}
	return false, nil
}

type memFiles struct {
	mu    sync.Mutex
	files map[string]int64
}

func (m *memFiles) SaveRecording(header *multipart.FileHeader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := "/uploads/recordings/" + header.Filename
	m.files[path] = header.Size
	return path, nil
}

func (m *memFiles) Remove(publicPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, publicPath)
	return nil
}

type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (m *memRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = until
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}
