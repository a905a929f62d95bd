package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ArticleKeyPrefix  = "article:%d"
	LatestArticlesKey = "articles:latest"
)

const (
	ArticleTTL = 10 * time.Minute
	LatestTTL  = 2 * time.Minute
)

func ArticleKey(articleID uint) string {
	return fmt.Sprintf(ArticleKeyPrefix, articleID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateArticle drops the per-article entry and the home-page list,
// which embeds article titles and dates.
func InvalidateArticle(ctx context.Context, articleID uint) {
	Invalidate(ctx, ArticleKey(articleID))
	Invalidate(ctx, LatestArticlesKey)
}

func InvalidateLatest(ctx context.Context) {
	Invalidate(ctx, LatestArticlesKey)
}
