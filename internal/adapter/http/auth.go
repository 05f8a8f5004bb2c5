package http

import (
	"strings"

	"resume-builder/internal/identity"

	"github.com/gofiber/fiber/v2"
)

const identityLocalKey = "identity"

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type confirmation struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// requireAuth resolves the bearer token to a session and stores it in locals.
func (h *Handler) requireAuth(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return identityError(c, identity.ErrNotAuthenticated)
	}
	sess, err := h.identity.CurrentSession(c.UserContext(), token)
	if err != nil {
		return identityError(c, err)
	}
	c.Locals(identityLocalKey, sess)
	return c.Next()
}

func currentSession(c *fiber.Ctx) identity.Session {
	sess, _ := c.Locals(identityLocalKey).(identity.Session)
	return sess
}

func userID(c *fiber.Ctx) string { return currentSession(c).User.Username }

func (h *Handler) SignIn(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload")
	}
	sess, err := h.identity.SignIn(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return identityError(c, err)
	}
	return c.JSON(sess)
}

func (h *Handler) SignUp(c *fiber.Ctx) error {
	var req identity.SignUpInput
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload")
	}
	if err := req.Validate(); err != nil {
		return identityError(c, err)
	}
	res, err := h.identity.SignUp(c.UserContext(), req)
	if err != nil {
		return identityError(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) ConfirmSignUp(c *fiber.Ctx) error {
	var req confirmation
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload")
	}
	if err := h.identity.ConfirmSignUp(c.UserContext(), req.Username, req.Code); err != nil {
		return identityError(c, err)
	}
	return c.JSON(fiber.Map{"confirmed": true})
}

func (h *Handler) ResendCode(c *fiber.Ctx) error {
	var req confirmation
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload")
	}
	if err := h.identity.ResendConfirmationCode(c.UserContext(), req.Username); err != nil {
		return identityError(c, err)
	}
	return c.JSON(fiber.Map{"sent": true})
}

// SignOut ends the identity session and closes the user's open editors.
func (h *Handler) SignOut(c *fiber.Ctx) error {
	if err := h.identity.SignOut(c.UserContext(), currentSession(c).Token); err != nil {
		return identityError(c, err)
	}
	h.sessions.EndUser(userID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	return c.JSON(currentSession(c).User)
}
