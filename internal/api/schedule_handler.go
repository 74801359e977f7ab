package api

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tutordesk/tutordesk/internal/service"
)

type ScheduleHandler struct {
	schedule *service.ScheduleService
	slots    *service.SlotService
	validate *validator.Validate
}

func NewScheduleHandler(schedule *service.ScheduleService, slots *service.SlotService) *ScheduleHandler {
	return &ScheduleHandler{
		schedule: schedule,
		slots:    slots,
		validate: validator.New(),
	}
}

func (h *ScheduleHandler) GetSchedule(c *fiber.Ctx) error {
	schedule, err := h.schedule.Get(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(schedule)
}

func (h *ScheduleHandler) ToggleDay(c *fiber.Ctx) error {
	schedule, err := h.schedule.ToggleDayActive(c.Context(), c.Params("day"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(schedule)
}

func (h *ScheduleHandler) AddInterval(c *fiber.Ctx) error {
	schedule, err := h.schedule.AddInterval(c.Context(), c.Params("day"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(schedule)
}

type updateIntervalRequest struct {
	Field string `json:"field" validate:"required,oneof=start end"`
	Value string `json:"value" validate:"required"`
}

func (h *ScheduleHandler) UpdateInterval(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid interval index"})
	}

	var req updateIntervalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
	}

	schedule, err := h.schedule.UpdateInterval(c.Context(), c.Params("day"), index, req.Field, req.Value)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(schedule)
}

func (h *ScheduleHandler) RemoveInterval(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid interval index"})
	}

	schedule, err := h.schedule.RemoveInterval(c.Context(), c.Params("day"), index)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(schedule)
}

func (h *ScheduleHandler) ListSlots(c *fiber.Ctx) error {
	slots, err := h.slots.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(slots)
}

type addSlotRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,datetime=15:04"`
}

func (h *ScheduleHandler) AddSlot(c *fiber.Ctx) error {
	var req addSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
	}

	slot, err := h.slots.AddManual(c.Context(), req.Date, req.Time)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}

func (h *ScheduleHandler) RemoveSlot(c *fiber.Ctx) error {
	if err := h.slots.RemoveManual(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
