package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tutordesk/tutordesk/internal/service"
)

type StudentHandler struct {
	students *service.StudentService
	validate *validator.Validate
}

func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students, validate: validator.New()}
}

func (h *StudentHandler) List(c *fiber.Ctx) error {
	students, err := h.students.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(students)
}

type createStudentRequest struct {
	Name    string `json:"name" validate:"required,min=1"`
	Email   string `json:"email" validate:"omitempty,email"`
	Subject string `json:"subject"`
}

func (h *StudentHandler) Create(c *fiber.Ctx) error {
	var req createStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
	}

	student, err := h.students.Create(c.Context(), req.Name, req.Email, req.Subject)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(student)
}

type renameStudentRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

func (h *StudentHandler) Rename(c *fiber.Ctx) error {
	var req renameStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
	}

	student, err := h.students.Rename(c.Context(), c.Params("id"), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(student)
}

type linkChatRequest struct {
	ChatID int64 `json:"chat_id" validate:"required"`
}

func (h *StudentHandler) LinkChat(c *fiber.Ctx) error {
	var req linkChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input", "details": err.Error()})
	}

	if err := h.students.LinkChat(c.Context(), c.Params("id"), req.ChatID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
