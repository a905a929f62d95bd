package server

import (
	"fmt"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// HomePage renders the four newest articles.
func (s *Server) HomePage(c *fiber.Ctx) error {
	articles, err := s.articleService.Home(c.UserContext())
	if err != nil {
		return err
	}
	return renderPage(c, "index", fiber.Map{
		"Title":    "Home",
		"Articles": articles,
		"Today":    time.Now().Format("January 2, 2006"),
	})
}

// AboutPage renders the static about page.
func (s *Server) AboutPage(c *fiber.Ctx) error {
	return renderPage(c, "about", fiber.Map{"Title": "About"})
}

// ContactPage renders the static contact page.
func (s *Server) ContactPage(c *fiber.Ctx) error {
	return renderPage(c, "contact", fiber.Map{"Title": "Contact"})
}

// FeedbackPage renders the feedback form.
func (s *Server) FeedbackPage(c *fiber.Ctx) error {
	return renderPage(c, "feedback", fiber.Map{"Title": "Feedback"})
}

// SubmitFeedback validates the feedback form and echoes the sender's details
// back on success. Nothing is stored.
func (s *Server) SubmitFeedback(c *fiber.Ctx) error {
	name := c.FormValue("name")
	email := c.FormValue("email")
	message := c.FormValue("message")

	data := fiber.Map{
		"Title":   "Feedback",
		"Name":    name,
		"Email":   email,
		"Message": message,
	}

	if missing := validation.FirstMissing(map[string]string{
		"name": name, "email": email, "message": message,
	}, "name", "email", "message"); missing != "" {
		data["Error"] = fmt.Sprintf("Please fill in the %s field", missing)
		return renderPage(c, "feedback", data)
	}
	if err := validation.ValidateEmail(email); err != nil {
		data["Error"] = "Please enter a valid email address"
		return renderPage(c, "feedback", data)
	}

	data["Submitted"] = true
	return renderPage(c, "feedback", data)
}

// ArticlesPage renders the article catalog. Unlike the API listing, the page
// defaults to newest-first when no sort is chosen.
func (s *Server) ArticlesPage(c *fiber.Ctx) error {
	category := c.Query("category")
	sort := c.Query("sort")
	if sort == "" {
		sort = "newer"
	}

	articles, err := s.articleService.List(c.UserContext(), category, sort)
	if err != nil {
		return err
	}
	return renderPage(c, "articles", fiber.Map{
		"Title":    "Articles",
		"Articles": articles,
		"Category": category,
		"Sort":     sort,
	})
}

func (s *Server) renderArticlePage(c *fiber.Ctx, article *models.Article, formError string) error {
	comments, err := s.commentService.ListByArticle(c.UserContext(), article.ID)
	if err != nil {
		return err
	}

	author := ""
	if article.User.ID != 0 {
		author = article.User.Name
	}
	isOwner := false
	if user := currentUser(c); user != nil && article.UserID == user.ID {
		isOwner = true
	}

	return renderPage(c, "article", fiber.Map{
		"Title":    article.Title,
		"Article":  article,
		"Author":   author,
		"IsOwner":  isOwner,
		"Comments": comments,
		"Error":    formError,
	})
}

// ArticlePage renders one article with its comments and a comment form.
func (s *Server) ArticlePage(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return respondNotFoundRoute(c)
	}

	article, err := s.articleService.Get(c.UserContext(), id)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return renderArticleNotFound(c)
		}
		return err
	}
	return s.renderArticlePage(c, article, "")
}

// SubmitComment posts a comment on an article and redirects back to it.
func (s *Server) SubmitComment(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return respondNotFoundRoute(c)
	}

	article, err := s.articleService.Get(c.UserContext(), id)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return renderArticleNotFound(c)
		}
		return err
	}

	_, err = s.commentService.Create(c.UserContext(), service.CreateCommentInput{
		AuthorName: c.FormValue("author_name"),
		Text:       c.FormValue("comment_text"),
		ArticleID:  article.ID,
	})
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotAllData {
			return s.renderArticlePage(c, article, "Both a name and a comment are required")
		}
		return err
	}

	return c.Redirect(fmt.Sprintf("/article/%d", article.ID), fiber.StatusSeeOther)
}

// CreateArticlePage renders the empty authoring form.
func (s *Server) CreateArticlePage(c *fiber.Ctx) error {
	return renderPage(c, "article_form", fiber.Map{
		"Title":   "New article",
		"Heading": "New article",
		"Action":  "/create-article",
	})
}

// CreateArticle persists a new article owned by the session user.
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	title := c.FormValue("title")
	category := c.FormValue("category")
	text := c.FormValue("text")

	_, err := s.articleService.Create(c.UserContext(), service.CreateArticleInput{
		UserID:   currentUser(c).ID,
		Title:    title,
		Category: category,
		Text:     text,
	})
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotAllData {
			return renderPage(c, "article_form", fiber.Map{
				"Title":        "New article",
				"Heading":      "New article",
				"Action":       "/create-article",
				"FormTitle":    title,
				"FormCategory": category,
				"FormText":     text,
				"Error":        "Title, category and text are all required",
			})
		}
		return err
	}
	return c.Redirect("/create-article/success", fiber.StatusSeeOther)
}

// CreateArticleSuccess confirms a created article.
func (s *Server) CreateArticleSuccess(c *fiber.Ctx) error {
	return renderPage(c, "success", fiber.Map{
		"Title":   "Article created",
		"Message": "Your article has been published",
	})
}

// EditArticlePage renders the authoring form prefilled with the article.
// Only the owner may reach the form.
func (s *Server) EditArticlePage(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return respondNotFoundRoute(c)
	}

	article, err := s.articleService.Get(c.UserContext(), id)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return renderArticleNotFound(c)
		}
		return err
	}
	if article.UserID != currentUser(c).ID {
		return c.Redirect("/not-allowed", fiber.StatusSeeOther)
	}

	return renderPage(c, "article_form", fiber.Map{
		"Title":        "Edit article",
		"Heading":      "Edit article",
		"Action":       fmt.Sprintf("/edit-article/%d", article.ID),
		"FormTitle":    article.Title,
		"FormCategory": article.Category,
		"FormText":     article.Text,
	})
}

// EditArticle applies the owner's edits.
func (s *Server) EditArticle(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return respondNotFoundRoute(c)
	}

	title := c.FormValue("title")
	category := c.FormValue("category")
	text := c.FormValue("text")

	_, err := s.articleService.Update(c.UserContext(), service.UpdateArticleInput{
		ActorID:   currentUser(c).ID,
		ArticleID: id,
		Title:     title,
		Category:  category,
		Text:      text,
	})
	if err != nil {
		switch models.ErrorCode(err) {
		case models.CodeNotFound:
			return renderArticleNotFound(c)
		case models.CodeForbidden:
			return c.Redirect("/not-allowed", fiber.StatusSeeOther)
		case models.CodeNotAllData:
			return renderPage(c, "article_form", fiber.Map{
				"Title":        "Edit article",
				"Heading":      "Edit article",
				"Action":       fmt.Sprintf("/edit-article/%d", id),
				"FormTitle":    title,
				"FormCategory": category,
				"FormText":     text,
				"Error":        "Title, category and text are all required",
			})
		}
		return err
	}
	return c.Redirect(fmt.Sprintf("/edit-article/%d/success", id), fiber.StatusSeeOther)
}

// EditArticleSuccess confirms an edited article.
func (s *Server) EditArticleSuccess(c *fiber.Ctx) error {
	return renderPage(c, "success", fiber.Map{
		"Title":   "Article updated",
		"Message": "Your changes have been saved",
	})
}

// DeleteArticle removes the owner's article together with its comments.
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return respondNotFoundRoute(c)
	}

	err := s.articleService.Delete(c.UserContext(), currentUser(c).ID, id)
	if err != nil {
		switch models.ErrorCode(err) {
		case models.CodeNotFound:
			return renderArticleNotFound(c)
		case models.CodeForbidden:
			return c.Redirect("/not-allowed", fiber.StatusSeeOther)
		}
		return err
	}
	return c.Redirect("/delete-article/success", fiber.StatusSeeOther)
}

// DeleteArticleSuccess confirms a deleted article.
func (s *Server) DeleteArticleSuccess(c *fiber.Ctx) error {
	return renderPage(c, "success", fiber.Map{
		"Title":   "Article deleted",
		"Message": "The article and its comments have been removed",
	})
}

// LoginPage renders the login form. A logged-in user is sent home.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return renderPage(c, "login", fiber.Map{"Title": "Log in"})
}

// Login verifies credentials and starts a session.
func (s *Server) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")
	remember := c.FormValue("remember") != ""

	user, err := s.authService.Login(c.UserContext(), email, password)
	if err != nil {
		if models.ErrorCode(err) == models.CodeInvalidCredentials {
			return renderPage(c, "login", fiber.Map{
				"Title": "Log in",
				"Email": email,
				"Error": "Wrong email or password",
			})
		}
		return err
	}

	if err := s.issueSession(c, user, remember); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// RegisterPage renders the registration form.
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return renderPage(c, "register", fiber.Map{"Title": "Register"})
}

// Register creates an account and sends the new user to the login page.
func (s *Server) Register(c *fiber.Ctx) error {
	name := c.FormValue("name")
	email := c.FormValue("email")
	password := c.FormValue("password")

	_, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		data := fiber.Map{"Title": "Register", "Name": name, "Email": email}
		switch models.ErrorCode(err) {
		case models.CodeNotAllData:
			data["Error"] = "Name, email and password are all required"
			return renderPage(c, "register", data)
		case models.CodeValidation:
			data["Error"] = "Please enter a valid email address"
			return renderPage(c, "register", data)
		case models.CodeDuplicateUser:
			data["Error"] = "That email is already registered"
			return renderPage(c, "register", data)
		}
		return err
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// Logout ends the session and sends the user home.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearSession(c)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// UnauthorizedPage is where anonymous users land when a page needs a login.
func (s *Server) UnauthorizedPage(c *fiber.Ctx) error {
	return renderPage(c, "message", fiber.Map{
		"Title":   "Unauthorized",
		"Message": "You cannot create, edit or delete articles without logging in",
	})
}

// NotAllowedPage is where users land when they touch someone else's article.
func (s *Server) NotAllowedPage(c *fiber.Ctx) error {
	return renderPage(c, "message", fiber.Map{
		"Title":   "Not allowed",
		"Message": "You cannot edit or delete other users' articles",
	})
}

// renderArticleNotFound renders the article-not-found page with a 404 status.
func renderArticleNotFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return renderPage(c, "not_found", fiber.Map{"Title": "Not found"})
}
