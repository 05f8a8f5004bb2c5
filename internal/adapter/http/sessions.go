package http

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// session resolves the open editor named by :id for the caller. On failure
// the 404 response has already been written and ok is false.
func (h *Handler) session(c *fiber.Ctx) (s *usecase.Session, ok bool, err error) {
	s, err = h.sessions.Get(userID(c), c.Params("id"))
	if errors.Is(err, usecase.ErrSessionNotFound) {
		return nil, false, writeError(c, fiber.StatusNotFound, "SESSION_NOT_FOUND", err.Error())
	}
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// editError maps rejected edits to 400; the document is left unchanged.
func editError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrUnknownField), errors.Is(err, model.ErrImmutableField):
		return writeError(c, fiber.StatusBadRequest, "UNKNOWN_FIELD", err.Error())
	case errors.Is(err, model.ErrUnknownList):
		return writeError(c, fiber.StatusBadRequest, "UNKNOWN_LIST", err.Error())
	case errors.Is(err, model.ErrInvalidValue):
		return writeError(c, fiber.StatusBadRequest, "INVALID_VALUE", err.Error())
	case errors.Is(err, usecase.ErrUnknownRichField),
		errors.Is(err, usecase.ErrUnknownCommand),
		errors.Is(err, usecase.ErrUnknownEvent):
		return writeError(c, fiber.StatusBadRequest, "INVALID_EDIT", err.Error())
	}
	return err
}

func (h *Handler) GetSession(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	return c.JSON(s.Snapshot())
}

func (h *Handler) EndSession(c *fiber.Ctx) error {
	if !h.sessions.End(userID(c), c.Params("id")) {
		return writeError(c, fiber.StatusNotFound, "SESSION_NOT_FOUND", usecase.ErrSessionNotFound.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateField takes the new value of the field as the raw JSON body.
func (h *Handler) UpdateField(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	body := c.Body()
	if !json.Valid(body) {
		return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "body must be a JSON value")
	}
	doc, err := s.UpdateField(c.Params("field"), json.RawMessage(body))
	if err != nil {
		return editError(c, err)
	}
	return c.JSON(doc)
}

func (h *Handler) listParam(c *fiber.Ctx) (model.List, error) {
	return model.ParseList(c.Params("list"))
}

// AddListItem appends the item in the body, or a blank entry for an empty body.
func (h *Handler) AddListItem(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	list, err := h.listParam(c)
	if err != nil {
		return editError(c, err)
	}
	var item any
	if body := c.Body(); len(body) > 0 {
		if !json.Valid(body) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "body must be a JSON object")
		}
		item = json.RawMessage(body)
	}
	doc, err := s.AddListItem(list, item)
	if err != nil {
		return editError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

type itemFieldReq struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *Handler) UpdateListItem(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	list, err := h.listParam(c)
	if err != nil {
		return editError(c, err)
	}
	var req itemFieldReq
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload")
	}
	doc, err := s.UpdateListItem(list, c.Params("itemId"), req.Field, req.Value)
	if err != nil {
		return editError(c, err)
	}
	return c.JSON(doc)
}

func (h *Handler) RemoveListItem(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	list, err := h.listParam(c)
	if err != nil {
		return editError(c, err)
	}
	doc, err := s.RemoveListItem(list, c.Params("itemId"))
	if err != nil {
		return editError(c, err)
	}
	return c.JSON(doc)
}

type skillReq struct {
	Skill string `json:"skill"`
}

func (h *Handler) AddSkill(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	var req skillReq
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload")
	}
	return c.JSON(s.AddSkill(req.Skill))
}

func (h *Handler) RemoveSkill(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	skill, err := url.PathUnescape(c.Params("skill"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_SKILL", "invalid skill")
	}
	return c.JSON(s.RemoveSkill(skill))
}

type richReq struct {
	Target usecase.RichTarget `json:"target"`
	Event  usecase.RichEvent  `json:"event"`
}

func (h *Handler) RichText(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	var req richReq
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload")
	}
	doc, err := s.Rich(req.Target, req.Event)
	if err != nil {
		return editError(c, err)
	}
	return c.JSON(doc)
}

const previewCSP = "script-src 'none'; object-src 'none'; base-uri 'none'"

// Preview returns the live preview page; ?mode=export shows the page as it
// will be captured.
func (h *Handler) Preview(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	mode := render.ModePreview
	if c.Query("mode") == "export" {
		mode = render.ModeExport
	}
	_, page, err := render.Page(s.Snapshot(), render.Options{Mode: mode})
	if err != nil {
		return err
	}
	// Rich fields are stored as authored; the preview never runs their scripts.
	c.Set("Content-Security-Policy", previewCSP)
	c.Type("html", "utf-8")
	return c.SendString(page)
}

func (h *Handler) Export(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	doc := s.Snapshot()
	out, err := h.exporter.Export(c.UserContext(), usecase.SessionKey(s.UserID(), doc.ID), s.UserID(), doc)
	if err != nil {
		return exportError(c, err)
	}

	c.Attachment(out.FileName)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set("X-Export-Truncated", strconv.FormatBool(out.Truncated))
	if out.ArchiveKey != "" {
		c.Set("X-Archive-Key", out.ArchiveKey)
	}
	return c.Send(out.PDF)
}

type saveResp struct {
	Saved    bool   `json:"saved"`
	Inserted bool   `json:"inserted"`
	Warning  string `json:"warning,omitempty"`
}

// Save always succeeds locally; a remote failure comes back as a warning.
func (h *Handler) Save(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	res := s.Save(c.UserContext())
	return c.JSON(saveResp{Saved: true, Inserted: res.Inserted, Warning: res.Warning})
}
