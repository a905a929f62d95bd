// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumArticles int
	NumComments int
	ShouldClean bool
}

// DefaultPassword is the password every seeded user gets, so developers can
// log in as any of them.
const DefaultPassword = "password123"

var categories = []string{
	"Technology", "Travel", "Food", "Science", "Music",
	"Books", "Sports", "Health", "Finance", "Art",
}

// Run populates the database with fake users, articles and comments.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("cleaning database: %w", err)
		}
	}

	users, err := seedUsers(db, opts.NumUsers)
	if err != nil {
		return err
	}
	articles, err := seedArticles(db, users, opts.NumArticles)
	if err != nil {
		return err
	}
	if err := seedComments(db, articles, opts.NumComments); err != nil {
		return err
	}

	log.Printf("Seeded %d users, %d articles, %d comments",
		len(users), len(articles), opts.NumComments)
	return nil
}

func clean(db *gorm.DB) error {
	// Children first so the wipe works even with FK enforcement on.
	for _, model := range []any{&models.Comment{}, &models.Article{}, &models.User{}} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(db *gorm.DB, n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Name:     gofakeit.Name(),
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: string(hashed),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("creating user %d: %w", i, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func seedArticles(db *gorm.DB, users []*models.User, n int) ([]*models.Article, error) {
	if len(users) == 0 {
		return nil, nil
	}

	articles := make([]*models.Article, 0, n)
	for i := 0; i < n; i++ {
		owner := users[rand.Intn(len(users))]
		article := &models.Article{
			Title:    gofakeit.Sentence(rand.Intn(5) + 3),
			Category: categories[rand.Intn(len(categories))],
			Text:     gofakeit.Paragraph(2, 4, 8, "\n\n"),
			UserID:   owner.ID,
		}
		if err := db.Create(article).Error; err != nil {
			return nil, fmt.Errorf("creating article %d: %w", i, err)
		}

		// Spread creation dates over the past 90 days so sorting is visible.
		createdDate := time.Now().AddDate(0, 0, -rand.Intn(90))
		if err := db.Model(article).Update("created_date", createdDate).Error; err != nil {
			return nil, err
		}
		article.CreatedDate = createdDate
		articles = append(articles, article)
	}
	return articles, nil
}

func seedComments(db *gorm.DB, articles []*models.Article, n int) error {
	if len(articles) == 0 {
		return nil
	}

	for i := 0; i < n; i++ {
		article := articles[rand.Intn(len(articles))]
		comment := &models.Comment{
			AuthorName: gofakeit.FirstName(),
			Text:       gofakeit.Sentence(rand.Intn(10) + 3),
			ArticleID:  article.ID,
		}
		if err := db.Create(comment).Error; err != nil {
			return fmt.Errorf("creating comment %d: %w", i, err)
		}
	}
	return nil
}
