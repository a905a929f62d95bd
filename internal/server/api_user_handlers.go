package server

import (
	"github.com/gofiber/fiber/v2"
)

// APILoggedUser handles GET /api/logged-user. Reaching it at all proves the
// session is valid; the body carries nothing.
func (s *Server) APILoggedUser(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{})
}

// APICurrentUser handles GET /api/current-user and returns the session
// user's public identity.
func (s *Server) APICurrentUser(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":   user.ID,
		"name": user.Name,
	})
}
