package handlers

import (
	apperr "tutor-marketplace/errors"
	"tutor-marketplace/model"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListTutors is the public tutor directory with rating statistics.
func (h *Handler) ListTutors(c *fiber.Ctx) error {
	ctx := c.UserContext()

	profiles, err := h.tutors.List(ctx)
	if err != nil {
		return h.fail(c, err)
	}

	userIDs := make([]primitive.ObjectID, 0, len(profiles))
	for _, p := range profiles {
		userIDs = append(userIDs, p.User)
	}
	userIDs = uniqueIDs(userIDs...)

	summaries, err := h.users.Summaries(ctx, userIDs)
	if err != nil {
		return h.fail(c, err)
	}
	stats, err := h.reviews.RatingStats(ctx, userIDs)
	if err != nil {
		return h.fail(c, err)
	}

	listings := make([]model.TutorListing, 0, len(profiles))
	for _, p := range profiles {
		listing := model.TutorListing{
			ProfileId:       p.Id,
			UserId:          p.User,
			Headline:        p.Headline,
			Subjects:        p.Subjects,
			HourlyRate:      p.HourlyRate,
			ExperienceYears: p.ExperienceYears,
			Languages:       p.Languages,
		}
		if s, ok := summaries[p.User]; ok {
			listing.Name = s.Name
			listing.Email = s.Email
		}
		if st, ok := stats[p.User]; ok {
			listing.AvgRating = st.Average
			listing.ReviewsCount = st.Count
		}
		listings = append(listings, listing)
	}

	return respond(c, fiber.StatusOK, "Tutors", listings)
}

func (h *Handler) MyTutorProfile(c *fiber.Ctx) error {
	profile, err := h.tutors.FindByUser(c.UserContext(), caller(c).ID)
	if apperr.Is(err, apperr.KindNotFound) {
		return respond(c, fiber.StatusOK, "Tutor profile", fiber.Map{"profile": nil, "isProfileCompleted": false})
	}
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Tutor profile", fiber.Map{"profile": profile, "isProfileCompleted": profile.IsProfileCompleted})
}

func (h *Handler) TutorProfileStatus(c *fiber.Ctx) error {
	profile, err := h.tutors.FindByUser(c.UserContext(), caller(c).ID)
	if apperr.Is(err, apperr.KindNotFound) {
		return respond(c, fiber.StatusOK, "Profile status", fiber.Map{"completed": false})
	}
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Profile status", fiber.Map{"completed": profile.IsProfileCompleted})
}

func (h *Handler) UpdateTutorProfile(c *fiber.Ctx) error {
	type ProfileForm struct {
		Headline        string   `json:"headline"`
		Bio             string   `json:"bio"`
		Subjects        []string `json:"subjects"`
		HourlyRate      float64  `json:"hourlyRate"`
		Languages       []string `json:"languages"`
		ExperienceYears int      `json:"experienceYears"`
	}

	var form ProfileForm
	if err := parseBody(c, &form); err != nil {
		return h.fail(c, err)
	}
	if form.HourlyRate < 0 || form.ExperienceYears < 0 {
		return h.fail(c, apperr.Validation("Rate and experience must not be negative"))
	}

	profile := &model.TutorProfile{
		User:               caller(c).ID,
		Headline:           form.Headline,
		Bio:                form.Bio,
		Subjects:           form.Subjects,
		HourlyRate:         form.HourlyRate,
		Languages:          form.Languages,
		ExperienceYears:    form.ExperienceYears,
		IsProfileCompleted: true,
	}
	if err := h.tutors.Upsert(c.UserContext(), profile); err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Profile updated successfully!", nil)
}
