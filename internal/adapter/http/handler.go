package http

import (
	"errors"

	"resume-builder/internal/identity"
	"resume-builder/internal/model"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	sessions *usecase.Sessions
	library  *usecase.Library
	exporter *usecase.Exporter
	identity identity.Provider
	gatherer prometheus.Gatherer
}

func NewHandler(s *usecase.Sessions, l *usecase.Library, e *usecase.Exporter, p identity.Provider, g prometheus.Gatherer) *Handler {
	return &Handler{sessions: s, library: l, exporter: e, identity: p, gatherer: g}
}

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if h.gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	app.Get("/templates", h.Templates)
	app.Get("/palette", h.Palette)

	auth := app.Group("/auth")
	auth.Post("/signin", h.SignIn)
	auth.Post("/signup", h.SignUp)
	auth.Post("/confirm", h.ConfirmSignUp)
	auth.Post("/resend", h.ResendCode)
	auth.Post("/signout", h.requireAuth, h.SignOut)
	auth.Get("/me", h.requireAuth, h.Me)

	resumes := app.Group("/resumes", h.requireAuth)
	resumes.Get("/", h.ListResumes)
	resumes.Post("/", h.StartResume)
	resumes.Post("/import", h.ImportResume)
	resumes.Post("/:id/edit", h.OpenResume)

	s := app.Group("/sessions", h.requireAuth)
	s.Get("/:id", h.GetSession)
	s.Delete("/:id", h.EndSession)
	s.Patch("/:id/fields/:field", h.UpdateField)
	s.Post("/:id/lists/:list", h.AddListItem)
	s.Patch("/:id/lists/:list/:itemId", h.UpdateListItem)
	s.Delete("/:id/lists/:list/:itemId", h.RemoveListItem)
	s.Post("/:id/skills", h.AddSkill)
	s.Delete("/:id/skills/:skill", h.RemoveSkill)
	s.Post("/:id/richtext", h.RichText)
	s.Get("/:id/preview", h.Preview)
	s.Post("/:id/export", h.Export)
	s.Post("/:id/save", h.Save)
}

func (h *Handler) Templates(c *fiber.Ctx) error {
	return c.JSON(model.Templates)
}

func (h *Handler) Palette(c *fiber.Ctx) error {
	return c.JSON(model.ThemePalette)
}

func (h *Handler) ListResumes(c *fiber.Ctx) error {
	return c.JSON(h.library.List(c.UserContext(), userID(c)))
}

type startReq struct {
	Template model.TemplateID `json:"template"`
}

func (h *Handler) StartResume(c *fiber.Ctx) error {
	var req startReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload")
		}
	}
	if req.Template == "" {
		req.Template = model.TemplateModern
	}
	s := h.sessions.Start(userID(c), req.Template)
	return c.Status(fiber.StatusCreated).JSON(s.Snapshot())
}

func (h *Handler) ImportResume(c *fiber.Ctx) error {
	s, err := h.sessions.Import(userID(c), c.Body())
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_DOCUMENT", err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(s.Snapshot())
}

func (h *Handler) OpenResume(c *fiber.Ctx) error {
	s, err := h.sessions.Open(c.UserContext(), userID(c), c.Params("id"))
	if errors.Is(err, usecase.ErrResumeNotFound) {
		return writeError(c, fiber.StatusNotFound, "RESUME_NOT_FOUND", err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(s.Snapshot())
}
