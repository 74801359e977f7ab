package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tutordesk/tutordesk/internal/model"
	"github.com/tutordesk/tutordesk/internal/service"
)

type BookingHandler struct {
	bookings    *service.BookingService
	reschedules *service.RescheduleService
	validate    *validator.Validate
}

func NewBookingHandler(bookings *service.BookingService, reschedules *service.RescheduleService) *BookingHandler {
	return &BookingHandler{
		bookings:    bookings,
		reschedules: reschedules,
		validate:    validator.New(),
	}
}

func (h *BookingHandler) List(c *fiber.Ctx) error {
	bookings, err := h.bookings.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookings)
}

type createBookingRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"required,datetime=15:04"`
	Subject   string `json:"subject" validate:"required"`
	Type      string `json:"type" validate:"omitempty,oneof=lesson consultation"`
	Weeks     int    `json:"weeks" validate:"omitempty,min=1,max=52"`
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
	}

	in := service.CreateBookingInput{
		StudentID: req.StudentID,
		Date:      req.Date,
		Time:      req.Time,
		Subject:   req.Subject,
		Type:      model.BookingType(req.Type),
	}

	if req.Weeks > 1 {
		series, err := h.bookings.CreateSeries(c.Context(), in, req.Weeks)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(series)
	}

	booking, err := h.bookings.CreateSingle(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

type cancelRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=single series"`
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	var req cancelRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
	}

	mode := service.CancelSingle
	if req.Mode == "series" {
		mode = service.CancelSeries
	}

	if err := h.bookings.Cancel(c.Context(), c.Params("id"), mode); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type paymentRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *BookingHandler) SetPayment(c *fiber.Ctx) error {
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
	}

	if err := h.bookings.SetPayment(c.Context(), c.Params("id"), model.PaymentStatus(req.Status)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BookingHandler) Earnings(c *fiber.Ctx) error {
	summary, err := h.bookings.Summary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

type rescheduleRequest struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Time  string `json:"time" validate:"required,datetime=15:04"`
	Scope string `json:"scope" validate:"omitempty,oneof=single series"`
}

// Propose is the teacher proposing a new time, for one booking or the
// whole remaining series.
func (h *BookingHandler) Propose(c *fiber.Ctx) error {
	var req rescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
	}

	if req.Scope == "series" {
		affected, err := h.reschedules.ProposeSeries(c.Context(), c.Params("id"), req.Date, req.Time)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(affected)
	}

	booking, err := h.reschedules.ProposeSingle(c.Context(), c.Params("id"), req.Date, req.Time)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

// Request is the student-initiated reschedule intake.
func (h *BookingHandler) Request(c *fiber.Ctx) error {
	var req rescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
	}

	booking, err := h.reschedules.Request(c.Context(), c.Params("id"), req.Date, req.Time)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

func (h *BookingHandler) Approve(c *fiber.Ctx) error {
	booking, err := h.reschedules.Approve(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

func (h *BookingHandler) Deny(c *fiber.Ctx) error {
	booking, err := h.reschedules.Deny(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

func (h *BookingHandler) AcceptProposal(c *fiber.Ctx) error {
	booking, err := h.reschedules.AcceptProposal(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

func (h *BookingHandler) DeclineProposal(c *fiber.Ctx) error {
	booking, err := h.reschedules.DeclineProposal(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}
