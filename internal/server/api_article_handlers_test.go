package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jsonRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()

	var body *bytes.Buffer
	if payload == nil {
		body = bytes.NewBuffer(nil)
	} else {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAPIListArticles(t *testing.T) {
	t.Run("returns articles under the ok key", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("List", mock.Anything, "", "").Return([]*models.Article{
			{ID: 1, Title: "First", Category: "Tech", CreatedDate: time.Now()},
			{ID: 2, Title: "Second", Category: "Travel", CreatedDate: time.Now()},
		}, nil)

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/articles", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeJSONBody(t, resp)
		require.Equal(t, true, body["ok"])
		require.Len(t, body["articles"], 2)
	})

	t.Run("empty store yields emptyList", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("List", mock.Anything, "", "").Return([]*models.Article{}, nil)

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/articles", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, map[string]any{"emptyList": true}, decodeJSONBody(t, resp))
	})

	t.Run("category and sort pass through", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("List", mock.Anything, "Tech", "older").Return([]*models.Article{
			{ID: 1, Title: "Only", Category: "Tech"},
		}, nil)

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/articles?category=Tech&sort=older", nil))
		require.NoError(t, err)
		require.Equal(t, true, decodeJSONBody(t, resp)["ok"])
		mocks.articles.AssertExpectations(t)
	})
}

func TestAPIGetArticle(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("GetByID", mock.Anything, uint(7)).Return(&models.Article{
			ID: 7, Title: "Hello", Category: "Tech", Text: "Body",
			UserID: 3, User: models.User{ID: 3, Name: "Ann"},
		}, nil)

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/articles/7", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeJSONBody(t, resp)
		require.Equal(t, true, body["ok"])
		require.Equal(t, false, body["belongsToCurrentUser"])

		article := body["article"].(map[string]any)
		require.Equal(t, "Hello", article["title"])
		require.Equal(t, "Ann", article["user"].(map[string]any)["name"])
	})

	t.Run("missing article yields notFound", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("GetByID", mock.Anything, uint(999)).
			Return(nil, models.NewNotFoundError("article", 999))

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/articles/999", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, map[string]any{"notFound": true}, decodeJSONBody(t, resp))
	})

	t.Run("owner session flips belongsToCurrentUser", func(t *testing.T) {
		app, mocks, s := newTestApp(t)
		mocks.users.On("GetByID", mock.Anything, uint(3)).
			Return(&models.User{ID: 3, Name: "Ann"}, nil)
		mocks.articles.On("GetByID", mock.Anything, uint(7)).Return(&models.Article{
			ID: 7, Title: "Hello", UserID: 3, User: models.User{ID: 3, Name: "Ann"},
		}, nil)

		req := jsonRequest(t, http.MethodGet, "/api/articles/7", nil)
		req.AddCookie(signedSessionCookie(t, s, 3))

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, true, decodeJSONBody(t, resp)["belongsToCurrentUser"])
	})

	t.Run("orphaned article serializes user as null", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("GetByID", mock.Anything, uint(8)).Return(&models.Article{
			ID: 8, Title: "Orphan", UserID: 42,
		}, nil)

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/articles/8", nil))
		require.NoError(t, err)

		body := decodeJSONBody(t, resp)
		article := body["article"].(map[string]any)
		require.Nil(t, article["user"])
	})
}

func TestAPICreateArticle(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/articles", map[string]any{
			"title": "T", "text": "X", "category": "C", "user_id": 1,
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, map[string]any{"ok": true}, decodeJSONBody(t, resp))
	})

	t.Run("missing body yields emptyRequest", func(t *testing.T) {
		app, _, _ := newTestApp(t)

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/articles", nil))
		require.NoError(t, err)
		require.Equal(t, map[string]any{"emptyRequest": true}, decodeJSONBody(t, resp))
	})

	t.Run("missing key yields notAllData", func(t *testing.T) {
		app, _, _ := newTestApp(t)

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/articles", map[string]any{
			"title": "T", "text": "X", "category": "C",
		}))
		require.NoError(t, err)
		require.Equal(t, map[string]any{"notAllData": true}, decodeJSONBody(t, resp))
	})

	t.Run("present but empty field yields notAllData", func(t *testing.T) {
		app, _, _ := newTestApp(t)

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/articles", map[string]any{
			"title": "", "text": "X", "category": "C", "user_id": 1,
		}))
		require.NoError(t, err)
		require.Equal(t, map[string]any{"notAllData": true}, decodeJSONBody(t, resp))
	})
}

func TestAPIReplaceArticle(t *testing.T) {
	t.Run("missing article beats missing body", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("GetByID", mock.Anything, uint(5)).
			Return(nil, models.NewNotFoundError("article", 5))

		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/articles/5", nil))
		require.NoError(t, err)
		require.Equal(t, map[string]any{"notFound": true}, decodeJSONBody(t, resp))
	})

	t.Run("existing article with no body yields emptyRequest", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Article{ID: 5, UserID: 1}, nil)

		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/articles/5", nil))
		require.NoError(t, err)
		require.Equal(t, map[string]any{"emptyRequest": true}, decodeJSONBody(t, resp))
	})

	t.Run("replaces owner from body without a session", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		article := &models.Article{ID: 5, Title: "Old", Category: "Tech", Text: "Old", UserID: 1}
		mocks.articles.On("GetByID", mock.Anything, uint(5)).Return(article, nil)
		mocks.articles.On("Update", mock.Anything, mock.MatchedBy(func(a *models.Article) bool {
			return a.UserID == 2 && a.Title == "New"
		})).Return(nil)

		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/articles/5", map[string]any{
			"title": "New", "text": "New body", "category": "Tech", "user_id": 2,
		}))
		require.NoError(t, err)
		require.Equal(t, map[string]any{"ok": true}, decodeJSONBody(t, resp))
		mocks.articles.AssertExpectations(t)
	})
}

func TestAPIDeleteArticle(t *testing.T) {
	t.Run("cascades without ownership check", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Article{ID: 5, UserID: 1}, nil)
		mocks.articles.On("DeleteWithComments", mock.Anything, uint(5)).Return(nil)

		resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/articles/5", nil))
		require.NoError(t, err)
		require.Equal(t, map[string]any{"ok": true}, decodeJSONBody(t, resp))
		mocks.articles.AssertExpectations(t)
	})

	t.Run("missing article yields notFound", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.articles.On("GetByID", mock.Anything, uint(5)).
			Return(nil, models.NewNotFoundError("article", 5))

		resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/articles/5", nil))
		require.NoError(t, err)
		require.Equal(t, map[string]any{"notFound": true}, decodeJSONBody(t, resp))
	})
}

func TestAPIListArticleComments(t *testing.T) {
	t.Run("comments in oldest-first order", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.comments.On("ListByArticle", mock.Anything, uint(3)).Return([]*models.Comment{
			{ID: 1, AuthorName: "A", Text: "first", ArticleID: 3},
			{ID: 2, AuthorName: "B", Text: "second", ArticleID: 3},
		}, nil)

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/article-comments/3", nil))
		require.NoError(t, err)

		body := decodeJSONBody(t, resp)
		require.Equal(t, true, body["ok"])
		require.Len(t, body["comments"], 2)
	})

	t.Run("no comments yields emptyList", func(t *testing.T) {
		app, mocks, _ := newTestApp(t)
		mocks.comments.On("ListByArticle", mock.Anything, uint(3)).
			Return([]*models.Comment{}, nil)

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/article-comments/3", nil))
		require.NoError(t, err)
		require.Equal(t, map[string]any{"emptyList": true}, decodeJSONBody(t, resp))
	})
}
