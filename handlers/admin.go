package handlers

import (
	apperr "tutor-marketplace/errors"
	"tutor-marketplace/model"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Users", users)
}

func (h *Handler) ToggleActive(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	user, err := h.users.FindByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	active := !user.Active
	if err := h.users.SetActive(c.UserContext(), id, active); err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "User status updated", fiber.Map{"active": active})
}

func (h *Handler) ChangeRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var form struct {
		Role string `json:"role"`
	}
	if err := parseBody(c, &form); err != nil {
		return h.fail(c, err)
	}
	if form.Role == "" {
		return h.fail(c, apperr.Validation("Role is required"))
	}
	role := model.Role(form.Role)
	if !role.Valid() {
		return h.fail(c, apperr.Validation("Invalid role"))
	}

	user, err := h.users.SetRole(c.UserContext(), id, role)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Role updated", user)
}
