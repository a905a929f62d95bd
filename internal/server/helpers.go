package server

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// respondNotFoundRoute writes the 404 body used for unmatched routes. Also
// used when a path parameter fails to parse as an integer, since such paths
// never match an API resource.
func respondNotFoundRoute(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
}

// parseIDParam extracts a numeric path parameter. Returns false for
// non-numeric values, which callers treat as an unmatched route.
func parseIDParam(c *fiber.Ctx, name string) (uint, bool) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// parseJSONBody decodes the request body into a generic map so handlers can
// distinguish an absent body from a present-but-incomplete one. The second
// return value is false when the body is empty or not valid JSON, which the
// API reports as an emptyRequest outcome.
func parseJSONBody(c *fiber.Ctx) (map[string]any, bool) {
	raw := bytes.TrimSpace(c.Body())
	if len(raw) == 0 {
		return nil, false
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, false
	}
	return body, true
}

// hasKeys reports whether every named key is present in the body. Presence
// is what matters here; empty values are caught by field validation later.
func hasKeys(body map[string]any, keys ...string) bool {
	for _, key := range keys {
		if _, ok := body[key]; !ok {
			return false
		}
	}
	return true
}

// stringField reads a string value from a decoded JSON body. Non-string
// values come back empty and fail field validation downstream.
func stringField(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

// uintField reads a numeric value from a decoded JSON body. JSON numbers
// decode as float64; anything else yields zero.
func uintField(body map[string]any, key string) uint {
	switch v := body[key].(type) {
	case float64:
		if v < 0 {
			return 0
		}
		return uint(v)
	case string:
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return 0
		}
		return uint(n)
	}
	return 0
}
