package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// CommentService handles visitor comments. Comments carry no ownership:
// any caller may edit or delete any comment.
type CommentService struct {
	commentRepo repository.CommentRepository
}

// CreateCommentInput carries the fields for a new comment. The article is
// referenced by id only; its existence is not verified at creation time.
type CreateCommentInput struct {
	AuthorName string
	Text       string
	ArticleID  uint
}

// UpdateCommentInput replaces all mutable fields of an existing comment.
type UpdateCommentInput struct {
	CommentID  uint
	AuthorName string
	Text       string
	ArticleID  uint
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

func validateCommentFields(authorName, text string, articleID uint) error {
	switch {
	case authorName == "":
		return models.NewNotAllDataError("author_name")
	case text == "":
		return models.NewNotAllDataError("text")
	case articleID == 0:
		return models.NewNotAllDataError("article_id")
	}
	return nil
}

// Create persists a comment. The referenced article is only checked
// syntactically (non-zero id), matching the store's lenient behavior.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validateCommentFields(in.AuthorName, in.Text, in.ArticleID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		AuthorName: in.AuthorName,
		Text:       in.Text,
		ArticleID:  in.ArticleID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// List returns every comment in the store.
func (s *CommentService) List(ctx context.Context) ([]*models.Comment, error) {
	return s.commentRepo.List(ctx)
}

// ListByArticle returns the comments on an article, oldest first. A zero
// result is an empty slice, not an error.
func (s *CommentService) ListByArticle(ctx context.Context, articleID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByArticle(ctx, articleID)
}

// Get returns a single comment by id.
func (s *CommentService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// Update replaces the comment's fields after the same validation as Create.
func (s *CommentService) Update(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if err := validateCommentFields(in.AuthorName, in.Text, in.ArticleID); err != nil {
		return nil, err
	}

	comment.AuthorName = in.AuthorName
	comment.Text = in.Text
	comment.ArticleID = in.ArticleID
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment by id.
func (s *CommentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.commentRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, id)
}
