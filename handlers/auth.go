package handlers

import (
	"strings"

	apperr "tutor-marketplace/errors"
	"tutor-marketplace/middleware"
	"tutor-marketplace/model"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const PASSWORD_COST int = 10

func isPasswordHashCorrect(dbHash, pass string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(dbHash), []byte(pass))
	return err == nil
}

func (h *Handler) Register(c *fiber.Ctx) error {
	type Registration struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	var req Registration
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return h.fail(c, apperr.Validation("All fields are required"))
	}

	role := model.RoleStudent
	if req.Role != "" {
		role = model.Role(req.Role)
		if role != model.RoleStudent && role != model.RoleTutor {
			return h.fail(c, apperr.Validation("Invalid role"))
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), PASSWORD_COST)
	if err != nil {
		return h.fail(c, apperr.New(apperr.KindUnknown, "failed to hash password"))
	}

	now := h.now().UTC()
	user := &model.User{
		Id:             primitive.NewObjectID(),
		Name:           strings.TrimSpace(req.Name),
		Email:          req.Email,
		HashedPassword: string(hashed),
		Active:         true,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.users.Create(c.UserContext(), user); err != nil {
		return h.fail(c, err)
	}

	return respond(c, fiber.StatusCreated, "Registered", fiber.Map{"userId": user.Id})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	type Credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var creds Credentials
	if err := parseBody(c, &creds); err != nil {
		return h.fail(c, err)
	}
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return h.fail(c, apperr.Validation("Email and password are required"))
	}

	user, err := h.users.FindByEmail(c.UserContext(), creds.Email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return h.fail(c, apperr.Unauthorized("Invalid credentials"))
		}
		return h.fail(c, err)
	}
	if !isPasswordHashCorrect(user.HashedPassword, creds.Password) {
		return h.fail(c, apperr.Unauthorized("Invalid credentials"))
	}
	if !user.Active {
		return h.fail(c, apperr.Forbidden("Account is deactivated"))
	}

	token, err := middleware.IssueToken(h.secret, user, h.tokenTTL, h.now())
	if err != nil {
		return h.fail(c, apperr.New(apperr.KindUnknown, "failed to sign token"))
	}

	return respond(c, fiber.StatusOK, "Login successful", fiber.Map{"token": token, "user": user})
}

func (h *Handler) Profile(c *fiber.Ctx) error {
	user, err := h.users.FindByID(c.UserContext(), caller(c).ID)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Profile", user)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var update model.ProfileUpdate
	if err := parseBody(c, &update); err != nil {
		return h.fail(c, err)
	}
	if err := validateProfileUpdate(update); err != nil {
		return h.fail(c, err)
	}

	user, err := h.users.UpdateProfile(c.UserContext(), caller(c).ID, update)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Profile updated", user)
}

func validateProfileUpdate(update model.ProfileUpdate) error {
	if update.Empty() {
		return apperr.Validation("Nothing to update")
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return apperr.Validation("Name must not be empty")
	}
	if update.Gender != nil && !oneOf(*update.Gender, model.Genders) {
		return apperr.Validation("Invalid gender")
	}
	if update.Occupation != nil && !oneOf(*update.Occupation, model.Occupations) {
		return apperr.Validation("Invalid occupation")
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	identity := caller(c)
	if identity.TokenID != "" {
		if err := h.revoker.Revoke(c.UserContext(), identity.TokenID, identity.ExpiresAt); err != nil {
			return h.fail(c, apperr.Persistence("failed to revoke token", err))
		}
	}
	return respond(c, fiber.StatusOK, "Logged out", nil)
}
