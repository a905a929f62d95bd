package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Sort values accepted by ArticleRepository.List. Anything else preserves
// fetch order (primary key ascending).
const (
	SortOlder = "older"
	SortNewer = "newer"
)

// ArticleRepository defines persistence operations for articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	List(ctx context.Context, category, sort string) ([]*models.Article, error)
	Latest(ctx context.Context, n int) ([]*models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	DeleteWithComments(ctx context.Context, id uint) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository returns a new ArticleRepository implementation.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateLatest(ctx)
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := cache.Aside(ctx, cache.ArticleKey(id), &article, cache.ArticleTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("User").First(&article, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Article", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// applySort appends the ORDER BY clause for the requested sort value.
// A secondary id ASC key keeps equal-timestamp ordering deterministic.
func (r *articleRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortOlder:
		return db.Order("created_date ASC, id ASC")
	case SortNewer:
		return db.Order("created_date DESC, id ASC")
	default: // unspecified and anything unrecognized: fetch order
		return db.Order("id ASC")
	}
}

func (r *articleRepository) List(ctx context.Context, category, sort string) ([]*models.Article, error) {
	var articles []*models.Article
	base := r.db.WithContext(ctx).Preload("User")
	if category != "" {
		base = base.Where("category = ?", category)
	}
	if err := r.applySort(base, sort).Find(&articles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

// Latest returns the n most recent articles, newest first. The result backs
// the home page and is served through the cache when Redis is available.
func (r *articleRepository) Latest(ctx context.Context, n int) ([]*models.Article, error) {
	var articles []*models.Article
	err := cache.Aside(ctx, cache.LatestArticlesKey, &articles, cache.LatestTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("User").
			Order("created_date DESC, id ASC").
			Limit(n).
			Find(&articles).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Save(article).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateArticle(ctx, article.ID)
	return nil
}

// DeleteWithComments removes the article and every comment referencing it in
// a single transaction, so no orphaned comment survives a committed delete.
func (r *articleRepository) DeleteWithComments(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Article{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateArticle(ctx, id)
	return nil
}
