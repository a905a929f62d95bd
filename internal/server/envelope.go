package server

import (
	"errors"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// envelopeKind enumerates the outcome shapes of the JSON API. Every outcome
// is serialized with HTTP 200; the key in the body tells the caller apart.
type envelopeKind int

const (
	envelopeOK envelopeKind = iota
	envelopeNotFound
	envelopeEmptyList
	envelopeEmptyRequest
	envelopeNotAllData
)

// envelope is a tagged API outcome. It is converted to a wire body only at
// the response boundary so handlers deal in outcomes, not maps.
type envelope struct {
	kind    envelopeKind
	payload fiber.Map
}

func okEnvelope(payload fiber.Map) envelope {
	return envelope{kind: envelopeOK, payload: payload}
}

func notFoundEnvelope() envelope     { return envelope{kind: envelopeNotFound} }
func emptyListEnvelope() envelope    { return envelope{kind: envelopeEmptyList} }
func emptyRequestEnvelope() envelope { return envelope{kind: envelopeEmptyRequest} }
func notAllDataEnvelope() envelope   { return envelope{kind: envelopeNotAllData} }

// body builds the wire representation. For ok outcomes the payload fields
// ride alongside the marker key.
func (e envelope) body() fiber.Map {
	switch e.kind {
	case envelopeNotFound:
		return fiber.Map{"notFound": true}
	case envelopeEmptyList:
		return fiber.Map{"emptyList": true}
	case envelopeEmptyRequest:
		return fiber.Map{"emptyRequest": true}
	case envelopeNotAllData:
		return fiber.Map{"notAllData": true}
	}

	body := fiber.Map{"ok": true}
	for k, v := range e.payload {
		body[k] = v
	}
	return body
}

// respondEnvelope writes an envelope as a 200 JSON response.
func respondEnvelope(c *fiber.Ctx, e envelope) error {
	return c.Status(fiber.StatusOK).JSON(e.body())
}

// envelopeForError maps domain errors onto API outcomes. Errors outside the
// API's outcome vocabulary return false and are handled as server failures.
func envelopeForError(err error) (envelope, bool) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return envelope{}, false
	}

	switch appErr.Code {
	case models.CodeNotFound:
		return notFoundEnvelope(), true
	case models.CodeEmptyRequest:
		return emptyRequestEnvelope(), true
	case models.CodeNotAllData:
		return notAllDataEnvelope(), true
	}
	return envelope{}, false
}

// respondAPIError translates a service error into the matching envelope, or
// a 500 when the error has no envelope representation.
func respondAPIError(c *fiber.Ctx, err error) error {
	if env, ok := envelopeForError(err); ok {
		return respondEnvelope(c, env)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}
