package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nahid-dev/studyhive/backend/internal/models"
	"github.com/nahid-dev/studyhive/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPostRepo embeds the interface so only the methods a test exercises
// need overriding; anything else panics with a nil receiver.
type stubPostRepo struct {
	repositories.PostRepository
	created *models.Post
}

func (s *stubPostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	s.created = post
	return nil
}

type stubUserRepo struct {
	repositories.UserRepository
	incrementedFor []uint
	incrementErr   error
}

func (s *stubUserRepo) IncrementPostsCount(userID uint) error {
	s.incrementedFor = append(s.incrementedFor, userID)
	return s.incrementErr
}

func newCreatePostContext(e *echo.Echo, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &models.JwtCustomClaims{UserID: userID})
	return c, rec
}

func TestCreatePost(t *testing.T) {
	e := echo.New()
	body := `{"title":"Pointers in Go","content":"Notes on pointer semantics.","subject":"programming","post_type":"note"}`

	t.Run("increments the author's posts count before responding", func(t *testing.T) {
		posts := &stubPostRepo{}
		users := &stubUserRepo{}
		h := NewPostHandler(posts, users, nil)

		c, rec := newCreatePostContext(e, body, 7)
		require.NoError(t, h.CreatePost(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, posts.created)
		assert.Equal(t, uint(7), posts.created.AuthorID)
		// The counter update happens on the request goroutine, so it is
		// already recorded by the time the handler returns.
		assert.Equal(t, []uint{7}, users.incrementedFor)
	})

	t.Run("counter failure does not fail the request", func(t *testing.T) {
		posts := &stubPostRepo{}
		users := &stubUserRepo{incrementErr: errors.New("postgres down")}
		h := NewPostHandler(posts, users, nil)

		c, rec := newCreatePostContext(e, body, 7)
		require.NoError(t, h.CreatePost(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, posts.created)
		assert.Equal(t, []uint{7}, users.incrementedFor)
	})
}
