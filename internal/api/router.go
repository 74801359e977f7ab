package api

import "github.com/gofiber/fiber/v2"

// Register mounts all dashboard routes. Everything under /v1 sits
// behind the shared access code; /health does not.
func Register(app *fiber.App, accessCode string, schedule *ScheduleHandler, bookings *BookingHandler, sessions *SessionHandler, students *StudentHandler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "tutordesk"})
	})

	v1 := app.Group("/v1", AccessCodeMiddleware(accessCode))

	v1.Get("/schedule", schedule.GetSchedule)
	v1.Post("/schedule/:day/toggle", schedule.ToggleDay)
	v1.Post("/schedule/:day/intervals", schedule.AddInterval)
	v1.Put("/schedule/:day/intervals/:index", schedule.UpdateInterval)
	v1.Delete("/schedule/:day/intervals/:index", schedule.RemoveInterval)

	v1.Get("/slots", schedule.ListSlots)
	v1.Post("/slots", schedule.AddSlot)
	v1.Delete("/slots/:id", schedule.RemoveSlot)

	v1.Get("/bookings", bookings.List)
	v1.Post("/bookings", bookings.Create)
	v1.Post("/bookings/:id/cancel", bookings.Cancel)
	v1.Put("/bookings/:id/payment", bookings.SetPayment)
	v1.Post("/bookings/:id/reschedule", bookings.Propose)
	v1.Post("/bookings/:id/reschedule/request", bookings.Request)
	v1.Post("/bookings/:id/reschedule/approve", bookings.Approve)
	v1.Post("/bookings/:id/reschedule/deny", bookings.Deny)
	v1.Post("/bookings/:id/reschedule/accept", bookings.AcceptProposal)
	v1.Post("/bookings/:id/reschedule/decline", bookings.DeclineProposal)
	v1.Get("/earnings", bookings.Earnings)

	v1.Get("/sessions", sessions.History)
	v1.Put("/sessions/:id/payment", sessions.SetPayment)
	v1.Get("/feedback/pending", sessions.PendingFeedback)
	v1.Post("/feedback/pending", sessions.EnqueueFeedback)
	v1.Post("/feedback/complete", sessions.CompleteFeedback)

	v1.Get("/students", students.List)
	v1.Post("/students", students.Create)
	v1.Put("/students/:id/name", students.Rename)
	v1.Put("/students/:id/chat", students.LinkChat)
}
