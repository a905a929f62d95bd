package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// homeArticleCount is how many of the newest articles the home page shows.
const homeArticleCount = 4

// ArticleService handles article listing, creation and owner-gated mutation.
type ArticleService struct {
	articleRepo repository.ArticleRepository
}

// CreateArticleInput carries the fields for authoring a new article.
// UserID is the owner; the creation timestamp is assigned by the store.
type CreateArticleInput struct {
	UserID   uint
	Title    string
	Category string
	Text     string
}

// UpdateArticleInput mutates an article on behalf of ActorID, which must be
// the article's owner. The creation timestamp is left untouched.
type UpdateArticleInput struct {
	ActorID   uint
	ArticleID uint
	Title     string
	Category  string
	Text      string
}

// ReplaceArticleInput is the API variant of update: all four fields are
// replaced verbatim, including the owner, with no ownership gate.
type ReplaceArticleInput struct {
	ArticleID uint
	UserID    uint
	Title     string
	Category  string
	Text      string
}

// NewArticleService returns a new ArticleService.
func NewArticleService(articleRepo repository.ArticleRepository) *ArticleService {
	return &ArticleService{articleRepo: articleRepo}
}

func validateArticleFields(title, category, text string) error {
	switch {
	case title == "":
		return models.NewNotAllDataError("title")
	case category == "":
		return models.NewNotAllDataError("category")
	case text == "":
		return models.NewNotAllDataError("text")
	}
	return nil
}

// List returns articles filtered by exact category match (empty category
// means all) and ordered by the sort value: "older" ascending, "newer"
// descending, anything else fetch order. Equal timestamps tie-break on id.
func (s *ArticleService) List(ctx context.Context, category, sort string) ([]*models.Article, error) {
	return s.articleRepo.List(ctx, category, sort)
}

// Home returns the newest articles for the home page, capped at four.
func (s *ArticleService) Home(ctx context.Context) ([]*models.Article, error) {
	return s.articleRepo.Latest(ctx, homeArticleCount)
}

// Get returns a single article with its owner populated.
func (s *ArticleService) Get(ctx context.Context, id uint) (*models.Article, error) {
	return s.articleRepo.GetByID(ctx, id)
}

// Create validates the three content fields and persists a new article owned
// by in.UserID.
func (s *ArticleService) Create(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	if in.UserID == 0 {
		return nil, models.NewNotAllDataError("user_id")
	}
	if err := validateArticleFields(in.Title, in.Category, in.Text); err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:    in.Title,
		Category: in.Category,
		Text:     in.Text,
		UserID:   in.UserID,
	}
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Update applies owner-gated edits: non-owners get FORBIDDEN regardless of
// payload validity.
func (s *ArticleService) Update(ctx context.Context, in UpdateArticleInput) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, in.ArticleID)
	if err != nil {
		return nil, err
	}

	if article.UserID != in.ActorID {
		return nil, models.NewForbiddenError("You can only edit your own articles")
	}

	if err := validateArticleFields(in.Title, in.Category, in.Text); err != nil {
		return nil, err
	}

	article.Title = in.Title
	article.Category = in.Category
	article.Text = in.Text
	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Replace overwrites all mutable fields including the owner. Used by the
// JSON API, whose update contract carries user_id in the body.
func (s *ArticleService) Replace(ctx context.Context, in ReplaceArticleInput) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, in.ArticleID)
	if err != nil {
		return nil, err
	}

	if in.UserID == 0 {
		return nil, models.NewNotAllDataError("user_id")
	}
	if err := validateArticleFields(in.Title, in.Category, in.Text); err != nil {
		return nil, err
	}

	article.Title = in.Title
	article.Category = in.Category
	article.Text = in.Text
	article.UserID = in.UserID
	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Delete removes an article owned by actorID along with all its comments in
// one transaction.
func (s *ArticleService) Delete(ctx context.Context, actorID, articleID uint) error {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return err
	}

	if article.UserID != actorID {
		return models.NewForbiddenError("You can only delete your own articles")
	}

	return s.articleRepo.DeleteWithComments(ctx, articleID)
}

// Remove deletes an article (and its comments) without an ownership gate.
// Used by the JSON API, which carries no session identity for deletes.
func (s *ArticleService) Remove(ctx context.Context, articleID uint) error {
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return err
	}
	return s.articleRepo.DeleteWithComments(ctx, articleID)
}
