package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// articleSummary is the list representation of an article.
func articleSummary(article *models.Article) fiber.Map {
	return fiber.Map{
		"id":           article.ID,
		"title":        article.Title,
		"category":     article.Category,
		"created_date": article.CreatedDate,
	}
}

// articleDetail is the single-article representation, owner included. A
// missing owner row serializes as null rather than a zero-valued user.
func articleDetail(article *models.Article) fiber.Map {
	var user any
	if article.User.ID != 0 {
		user = fiber.Map{"id": article.User.ID, "name": article.User.Name}
	}
	return fiber.Map{
		"id":           article.ID,
		"title":        article.Title,
		"category":     article.Category,
		"text":         article.Text,
		"created_date": article.CreatedDate,
		"user":         user,
	}
}

// APIListArticles handles GET /api/articles. Category filters by exact
// match; sort is applied only when explicitly requested.
func (s *Server) APIListArticles(c *fiber.Ctx) error {
	category := c.Query("category")
	sort := c.Query("sort")

	articles, err := s.articleService.List(c.UserContext(), category, sort)
	if err != nil {
		return respondAPIError(c, err)
	}
	if len(articles) == 0 {
		return respondEnvelope(c, emptyListEnvelope())
	}

	payload := make([]fiber.Map, 0, len(articles))
	for _, article := range articles {
		payload = append(payload, articleSummary(article))
	}
	return respondEnvelope(c, okEnvelope(fiber.Map{"articles": payload}))
}

// APIGetArticle handles GET /api/articles/:id.
func (s *Server) APIGetArticle(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return respondNotFoundRoute(c)
	}

	article, err := s.articleService.Get(c.UserContext(), id)
	if err != nil {
		return respondAPIError(c, err)
	}

	belongsToCurrentUser := false
	if user := currentUser(c); user != nil && article.UserID == user.ID {
		belongsToCurrentUser = true
	}

	return respondEnvelope(c, okEnvelope(fiber.Map{
		"article":              articleDetail(article),
		"belongsToCurrentUser": belongsToCurrentUser,
	}))
}

// APICreateArticle handles POST /api/articles. The owner comes from the
// request body, not the session.
func (s *Server) APICreateArticle(c *fiber.Ctx) error {
	body, ok := parseJSONBody(c)
	if !ok {
		return respondEnvelope(c, emptyRequestEnvelope())
	}
	if !hasKeys(body, "title", "text", "category", "user_id") {
		return respondEnvelope(c, notAllDataEnvelope())
	}

	_, err := s.articleService.Create(c.UserContext(), service.CreateArticleInput{
		UserID:   uintField(body, "user_id"),
		Title:    stringField(body, "title"),
		Category: stringField(body, "category"),
		Text:     stringField(body, "text"),
	})
	if err != nil {
		return respondAPIError(c, err)
	}
	return respondEnvelope(c, okEnvelope(nil))
}

// APIReplaceArticle handles PUT /api/articles/:id. Existence is checked
// before the body, so a missing article wins over a missing payload.
func (s *Server) APIReplaceArticle(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return respondNotFoundRoute(c)
	}

	if _, err := s.articleService.Get(c.UserContext(), id); err != nil {
		return respondAPIError(c, err)
	}

	body, ok := parseJSONBody(c)
	if !ok {
		return respondEnvelope(c, emptyRequestEnvelope())
	}
	if !hasKeys(body, "title", "text", "category", "user_id") {
		return respondEnvelope(c, notAllDataEnvelope())
	}

	_, err := s.articleService.Replace(c.UserContext(), service.ReplaceArticleInput{
		ArticleID: id,
		UserID:    uintField(body, "user_id"),
		Title:     stringField(body, "title"),
		Category:  stringField(body, "category"),
		Text:      stringField(body, "text"),
	})
	if err != nil {
		return respondAPIError(c, err)
	}
	return respondEnvelope(c, okEnvelope(nil))
}

// APIDeleteArticle handles DELETE /api/articles/:id. The article's comments
// go with it.
func (s *Server) APIDeleteArticle(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return respondNotFoundRoute(c)
	}

	if err := s.articleService.Remove(c.UserContext(), id); err != nil {
		return respondAPIError(c, err)
	}
	return respondEnvelope(c, okEnvelope(nil))
}

// APIListArticleComments handles GET /api/article-comments/:article_id.
func (s *Server) APIListArticleComments(c *fiber.Ctx) error {
	articleID, ok := parseIDParam(c, "article_id")
	if !ok {
		return respondNotFoundRoute(c)
	}

	comments, err := s.commentService.ListByArticle(c.UserContext(), articleID)
	if err != nil {
		return respondAPIError(c, err)
	}
	if len(comments) == 0 {
		return respondEnvelope(c, emptyListEnvelope())
	}

	payload := make([]fiber.Map, 0, len(comments))
	for _, comment := range comments {
		payload = append(payload, commentPayload(comment))
	}
	return respondEnvelope(c, okEnvelope(fiber.Map{"comments": payload}))
}
