package server

import (
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func TestHomePageShowsLatestArticles(t *testing.T) {
	app, mocks, _ := newTestApp(t)
	mocks.articles.On("Latest", mock.Anything, 4).Return([]*models.Article{
		{ID: 2, Title: "Newest", Category: "Tech", CreatedDate: time.Now()},
		{ID: 1, Title: "Older", Category: "Travel", CreatedDate: time.Now().Add(-time.Hour)},
	}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	require.Contains(t, body, "Newest")
	require.Contains(t, body, "Older")
	mocks.articles.AssertExpectations(t)
}

func TestArticlesPageDefaultsToNewestFirst(t *testing.T) {
	app, mocks, _ := newTestApp(t)
	mocks.articles.On("List", mock.Anything, "", "newer").
		Return([]*models.Article{{ID: 1, Title: "Only", CreatedDate: time.Now()}}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/articles", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mocks.articles.AssertExpectations(t)
}

func TestArticlesPagePassesFilters(t *testing.T) {
	app, mocks, _ := newTestApp(t)
	mocks.articles.On("List", mock.Anything, "Tech", "older").
		Return([]*models.Article{}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/articles?category=Tech&sort=older", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mocks.articles.AssertExpectations(t)
}

func TestArticlePage(t *testing.T) {
	t.Run("renders article with comments", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("GetByID", mock.Anything, uint(7)).Return(&models.Article{
			ID: 7, Title: "Hello", Category: "Tech", Text: "Body",
			UserID: 3, User: models.User{ID: 3, Name: "Ann"}, CreatedDate: time.Now(),
		}, nil)
		mocks.comments.On("ListByArticle", mock.Anything, uint(7)).Return([]*models.Comment{
			{ID: 1, AuthorName: "Bob", Text: "Nice read", ArticleID: 7, Date: time.Now()},
		}, nil)

		req, _ := http.NewRequest(http.MethodGet, "/article/7", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := readBody(t, resp)
		require.Contains(t, body, "Hello")
		require.Contains(t, body, "Nice read")
	})

	t.Run("missing article renders 404 page", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("GetByID", mock.Anything, uint(7)).
			Return(nil, models.NewNotFoundError("article", 7))

		req, _ := http.NewRequest(http.MethodGet, "/article/7", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.Contains(t, readBody(t, resp), "Article not found")
	})
}

func TestSubmitComment(t *testing.T) {
	t.Run("valid comment redirects back to the article", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("GetByID", mock.Anything, uint(7)).
			Return(&models.Article{ID: 7, Title: "Hello"}, nil)
		mocks.comments.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
			return c.AuthorName == "Bob" && c.Text == "Hi there" && c.ArticleID == 7
		})).Return(nil)

		resp, err := app.Test(formRequest(t, "/article/7", url.Values{
			"author_name":  {"Bob"},
			"comment_text": {"Hi there"},
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/article/7", resp.Header.Get("Location"))
		mocks.comments.AssertExpectations(t)
	})

	t.Run("blank comment re-renders the page with an error", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("GetByID", mock.Anything, uint(7)).
			Return(&models.Article{ID: 7, Title: "Hello"}, nil)
		mocks.comments.On("ListByArticle", mock.Anything, uint(7)).
			Return([]*models.Comment{}, nil)

		resp, err := app.Test(formRequest(t, "/article/7", url.Values{
			"author_name": {"Bob"},
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, readBody(t, resp), "name and a comment")
	})
}

func TestAuthoringRequiresLogin(t *testing.T) {
	app, _, _ := newTestApp(t)

	paths := []string{"/create-article", "/edit-article/1", "/delete-article/1"}
	for _, path := range paths {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		require.Equal(t, "/unauthorized", resp.Header.Get("Location"), path)
	}
}

func TestCreateArticle(t *testing.T) {
	t.Run("owner comes from the session", func(t *testing.T) {
		app, mocks, s := newTestApp(t)
		mocks.users.On("GetByID", mock.Anything, uint(3)).
			Return(&models.User{ID: 3, Name: "Ann"}, nil)
		mocks.articles.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Article) bool {
			return a.UserID == 3 && a.Title == "My article"
		})).Return(nil)

		req := formRequest(t, "/create-article", url.Values{
			"title":    {"My article"},
			"category": {"Tech"},
			"text":     {"Some text"},
		})
		req.AddCookie(signedSessionCookie(t, s, 3))

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/create-article/success", resp.Header.Get("Location"))
		mocks.articles.AssertExpectations(t)
	})

	t.Run("blank field re-renders the form", func(t *testing.T) {
		app, mocks, s := newTestApp(t)
		mocks.users.On("GetByID", mock.Anything, uint(3)).
			Return(&models.User{ID: 3, Name: "Ann"}, nil)

		req := formRequest(t, "/create-article", url.Values{
			"title": {"My article"},
			"text":  {"Some text"},
		})
		req.AddCookie(signedSessionCookie(t, s, 3))

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, readBody(t, resp), "required")
	})
}

func TestEditArticleOwnership(t *testing.T) {
	t.Run("non-owner is redirected to not-allowed", func(t *testing.T) {
		app, mocks, s := newTestApp(t)
		mocks.users.On("GetByID", mock.Anything, uint(3)).
			Return(&models.User{ID: 3, Name: "Ann"}, nil)
		mocks.articles.On("GetByID", mock.Anything, uint(7)).
			Return(&models.Article{ID: 7, UserID: 4}, nil)

		req, _ := http.NewRequest(http.MethodGet, "/edit-article/7", nil)
		req.AddCookie(signedSessionCookie(t, s, 3))

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/not-allowed", resp.Header.Get("Location"))
	})

	t.Run("owner gets the prefilled form", func(t *testing.T) {
		app, mocks, s := newTestApp(t)
		mocks.users.On("GetByID", mock.Anything, uint(3)).
			Return(&models.User{ID: 3, Name: "Ann"}, nil)
		mocks.articles.On("GetByID", mock.Anything, uint(7)).Return(&models.Article{
			ID: 7, UserID: 3, Title: "Mine", Category: "Tech", Text: "Body",
		}, nil)

		req, _ := http.NewRequest(http.MethodGet, "/edit-article/7", nil)
		req.AddCookie(signedSessionCookie(t, s, 3))

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, readBody(t, resp), "Mine")
	})

	t.Run("non-owner edit submission is blocked", func(t *testing.T) {
		app, mocks, s := newTestApp(t)
		mocks.users.On("GetByID", mock.Anything, uint(3)).
			Return(&models.User{ID: 3, Name: "Ann"}, nil)
		mocks.articles.On("GetByID", mock.Anything, uint(7)).
			Return(&models.Article{ID: 7, UserID: 4}, nil)

		req := formRequest(t, "/edit-article/7", url.Values{
			"title": {"Hijack"}, "category": {"Tech"}, "text": {"x"},
		})
		req.AddCookie(signedSessionCookie(t, s, 3))

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/not-allowed", resp.Header.Get("Location"))
	})
}

func TestDeleteArticle(t *testing.T) {
	t.Run("owner delete cascades and redirects", func(t *testing.T) {
		app, mocks, s := newTestApp(t)
		mocks.users.On("GetByID", mock.Anything, uint(3)).
			Return(&models.User{ID: 3, Name: "Ann"}, nil)
		mocks.articles.On("GetByID", mock.Anything, uint(7)).
			Return(&models.Article{ID: 7, UserID: 3}, nil)
		mocks.articles.On("DeleteWithComments", mock.Anything, uint(7)).Return(nil)

		req, _ := http.NewRequest(http.MethodGet, "/delete-article/7", nil)
		req.AddCookie(signedSessionCookie(t, s, 3))

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/delete-article/success", resp.Header.Get("Location"))
		mocks.articles.AssertExpectations(t)
	})

	t.Run("non-owner is redirected to not-allowed", func(t *testing.T) {
		app, mocks, s := newTestApp(t)
		mocks.users.On("GetByID", mock.Anything, uint(3)).
			Return(&models.User{ID: 3, Name: "Ann"}, nil)
		mocks.articles.On("GetByID", mock.Anything, uint(7)).
			Return(&models.Article{ID: 7, UserID: 4}, nil)

		req, _ := http.NewRequest(http.MethodGet, "/delete-article/7", nil)
		req.AddCookie(signedSessionCookie(t, s, 3))

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/not-allowed", resp.Header.Get("Location"))
	})
}

func TestRegister(t *testing.T) {
	t.Run("success redirects to login", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.users.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, nil)
		mocks.users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "new@example.com" && u.Password != "secret123"
		})).Return(nil)

		resp, err := app.Test(formRequest(t, "/register", url.Values{
			"name":     {"New User"},
			"email":    {"new@example.com"},
			"password": {"secret123"},
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/login", resp.Header.Get("Location"))
		mocks.users.AssertExpectations(t)
	})

	t.Run("duplicate email re-renders with an error", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.users.On("GetByEmail", mock.Anything, "taken@example.com").
			Return(&models.User{ID: 1, Email: "taken@example.com"}, nil)

		resp, err := app.Test(formRequest(t, "/register", url.Values{
			"name":     {"New User"},
			"email":    {"taken@example.com"},
			"password": {"secret123"},
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, readBody(t, resp), "already registered")
	})
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, mocks, _ := newTestApp(t)
	mocks.users.On("GetByEmail", mock.Anything, "ann@example.com").Return(nil, nil)

	resp, err := app.Test(formRequest(t, "/login", url.Values{
		"email":    {"ann@example.com"},
		"password": {"wrong"},
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, readBody(t, resp), "Wrong email or password")
	require.Nil(t, sessionCookieFrom(t, resp))
}

func TestFeedback(t *testing.T) {
	t.Run("echoes the sender on success", func(t *testing.T) {
		app, _, _ := newTestApp(t)

		resp, err := app.Test(formRequest(t, "/feedback", url.Values{
			"name":    {"Bob"},
			"email":   {"bob@example.com"},
			"message": {"Great blog"},
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := readBody(t, resp)
		require.Contains(t, body, "Thank you, Bob")
		require.Contains(t, body, "bob@example.com")
	})

	t.Run("rejects a bad email", func(t *testing.T) {
		app, _, _ := newTestApp(t)

		resp, err := app.Test(formRequest(t, "/feedback", url.Values{
			"name":    {"Bob"},
			"email":   {"not-an-email"},
			"message": {"Great blog"},
		}))
		require.NoError(t, err)
		require.Contains(t, readBody(t, resp), "valid email")
	})
}

func TestStaticPages(t *testing.T) {
	app, _, _ := newTestApp(t)

	for path, want := range map[string]string{
		"/about":        "About",
		"/contact":      "Contact",
		"/unauthorized": "without logging in",
		"/not-allowed":  "other users",
	} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Contains(t, readBody(t, resp), want, path)
	}
}
