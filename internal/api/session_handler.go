package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tutordesk/tutordesk/internal/model"
	"github.com/tutordesk/tutordesk/internal/service"
)

type SessionHandler struct {
	sessions *service.SessionService
	validate *validator.Validate
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions, validate: validator.New()}
}

func (h *SessionHandler) History(c *fiber.Ctx) error {
	entries, err := h.sessions.History(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

func (h *SessionHandler) PendingFeedback(c *fiber.Ctx) error {
	items, err := h.sessions.PendingFeedback(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

type enqueueFeedbackRequest struct {
	RoomID      string `json:"room_id" validate:"required"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name" validate:"required"`
	Subject     string `json:"subject"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
}

// EnqueueFeedback is the external session-concluded signal for lessons
// whose feedback was not captured at session end.
func (h *SessionHandler) EnqueueFeedback(c *fiber.Ctx) error {
	var req enqueueFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
	}

	err := h.sessions.EnqueuePendingFeedback(c.Context(), model.PendingFeedback{
		RoomID:      req.RoomID,
		StudentID:   req.StudentID,
		StudentName: req.StudentName,
		Subject:     req.Subject,
		Date:        req.Date,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

type completeFeedbackRequest struct {
	RoomID    string `json:"room_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Topic     string `json:"topic" validate:"required"`
	WentWell  string `json:"went_well" validate:"required"`
	ToImprove string `json:"to_improve" validate:"required"`
	Focus     string `json:"focus"`
	NextSteps string `json:"next_steps"`
}

func (h *SessionHandler) CompleteFeedback(c *fiber.Ctx) error {
	var req completeFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
	}

	entry, err := h.sessions.CompleteFeedback(c.Context(), req.RoomID, req.Date, service.FeedbackInput{
		Topic:     req.Topic,
		WentWell:  req.WentWell,
		ToImprove: req.ToImprove,
		Focus:     req.Focus,
		NextSteps: req.NextSteps,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *SessionHandler) SetPayment(c *fiber.Ctx) error {
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
	}

	if err := h.sessions.SetPayment(c.Context(), c.Params("id"), model.PaymentStatus(req.Status)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
