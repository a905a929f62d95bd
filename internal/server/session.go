// Package server contains the HTTP handlers for the application's HTML pages and JSON API.
package server

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "inkwell_session"
	sessionIssuer     = "inkwell"
	sessionAudience   = "inkwell-web"

	sessionLifetime  = 24 * time.Hour
	rememberLifetime = 30 * 24 * time.Hour
)

// issueSession signs a session token for the user and sets it as an
// HTTP-only cookie. With remember the cookie lives 30 days instead of 24h.
func (s *Server) issueSession(c *fiber.Ctx, user *models.User, remember bool) error {
	lifetime := sessionLifetime
	if remember {
		lifetime = rememberLifetime
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"name": user.Name,
		"iss":  sessionIssuer,
		"aud":  sessionAudience,
		"exp":  now.Add(lifetime).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SessionSecret))
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(lifetime),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// clearSession expires the session cookie.
func (s *Server) clearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// parseSession validates the session cookie and returns the user ID it
// identifies. The second return value is false for absent or invalid cookies.
func (s *Server) parseSession(c *fiber.Ctx) (uint, bool) {
	tokenString := c.Cookies(sessionCookieName)
	if tokenString == "" {
		return 0, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.config.SessionSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != sessionIssuer {
		return 0, false
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != sessionAudience {
		return 0, false
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(userID), true
}

// CurrentUser resolves the session cookie to a user on every request.
// Absence of a valid cookie means the request proceeds anonymously.
func (s *Server) CurrentUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := s.parseSession(c)
		if !ok {
			return c.Next()
		}

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			// Stale cookie for a user the store no longer knows; treat as anonymous.
			return c.Next()
		}

		c.Locals("currentUser", user)
		c.Locals("userID", user.ID)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// LoginRequired redirects anonymous requests to the unauthorized page,
// mirroring the login gate on the HTML surface.
func (s *Server) LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			return c.Redirect("/unauthorized", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// currentUser returns the authenticated user for this request, or nil.
func currentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals("currentUser").(*models.User); ok {
		return user
	}
	return nil
}

// generateJTI creates a unique token ID to make sessions distinguishable.
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
