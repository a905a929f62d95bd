package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

func commentPayload(comment *models.Comment) fiber.Map {
	return fiber.Map{
		"id":          comment.ID,
		"author_name": comment.AuthorName,
		"text":        comment.Text,
		"date":        comment.Date,
		"article_id":  comment.ArticleID,
	}
}

// APIListComments handles GET /api/comment. An empty store yields an ok
// envelope with an empty list, unlike the per-article listing.
func (s *Server) APIListComments(c *fiber.Ctx) error {
	comments, err := s.commentService.List(c.UserContext())
	if err != nil {
		return respondAPIError(c, err)
	}

	payload := make([]fiber.Map, 0, len(comments))
	for _, comment := range comments {
		payload = append(payload, commentPayload(comment))
	}
	return respondEnvelope(c, okEnvelope(fiber.Map{"comments": payload}))
}

// APIGetComment handles GET /api/comment/:id.
func (s *Server) APIGetComment(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return respondNotFoundRoute(c)
	}

	comment, err := s.commentService.Get(c.UserContext(), id)
	if err != nil {
		return respondAPIError(c, err)
	}
	return respondEnvelope(c, okEnvelope(fiber.Map{"comment": commentPayload(comment)}))
}

// APICreateComment handles POST /api/comment.
func (s *Server) APICreateComment(c *fiber.Ctx) error {
	body, ok := parseJSONBody(c)
	if !ok {
		return respondEnvelope(c, emptyRequestEnvelope())
	}
	if !hasKeys(body, "author_name", "text", "article_id") {
		return respondEnvelope(c, notAllDataEnvelope())
	}

	_, err := s.commentService.Create(c.UserContext(), service.CreateCommentInput{
		AuthorName: stringField(body, "author_name"),
		Text:       stringField(body, "text"),
		ArticleID:  uintField(body, "article_id"),
	})
	if err != nil {
		return respondAPIError(c, err)
	}
	return respondEnvelope(c, okEnvelope(nil))
}

// APIUpdateComment handles PUT /api/comment/:id. Existence first, then the
// body, same ordering as article replacement.
func (s *Server) APIUpdateComment(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return respondNotFoundRoute(c)
	}

	if _, err := s.commentService.Get(c.UserContext(), id); err != nil {
		return respondAPIError(c, err)
	}

	body, ok := parseJSONBody(c)
	if !ok {
		return respondEnvelope(c, emptyRequestEnvelope())
	}
	if !hasKeys(body, "author_name", "text", "article_id") {
		return respondEnvelope(c, notAllDataEnvelope())
	}

	_, err := s.commentService.Update(c.UserContext(), service.UpdateCommentInput{
		CommentID:  id,
		AuthorName: stringField(body, "author_name"),
		Text:       stringField(body, "text"),
		ArticleID:  uintField(body, "article_id"),
	})
	if err != nil {
		return respondAPIError(c, err)
	}
	return respondEnvelope(c, okEnvelope(nil))
}

// APIDeleteComment handles DELETE /api/comment/:id.
func (s *Server) APIDeleteComment(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return respondNotFoundRoute(c)
	}

	if err := s.commentService.Delete(c.UserContext(), id); err != nil {
		return respondAPIError(c, err)
	}
	return respondEnvelope(c, okEnvelope(nil))
}
