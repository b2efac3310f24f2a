package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/postpulse/internal/domain"
	apperrors "github.com/pscheid92/postpulse/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleGetPost_WithoutViewer(t *testing.T) {
	postID := uuid.New()
	kind := domain.ReactionLike

	posts := &mockPostService{
		getPostFn: func(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*domain.PostView, error) {
			assert.Equal(t, postID, id)
			assert.Nil(t, viewerID)
			// Even if a reaction exists in storage, an anonymous view never
			// carries one.
			_ = kind
			return testPostView(postID, 3, 1, nil), nil
		},
	}
	srv := newTestServer(t, posts, &mockUserService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(postID.String())

	err := srv.handleGetPost(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"likeCount":3`)
	assert.Contains(t, rec.Body.String(), `"dislikeCount":1`)
	assert.Contains(t, rec.Body.String(), `"viewerReaction":null`)
}

func TestHandleGetPost_WithViewerReaction(t *testing.T) {
	postID := uuid.New()
	userID := uuid.New()
	kind := domain.ReactionDislike

	posts := &mockPostService{
		getPostFn: func(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*domain.PostView, error) {
			require.NotNil(t, viewerID)
			assert.Equal(t, userID, *viewerID)
			return testPostView(postID, 0, 1, &kind), nil
		},
	}
	srv := newTestServer(t, posts, &mockUserService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(postID.String())
	c.Set("userID", userID)

	err := srv.handleGetPost(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"viewerReaction":"DISLIKE"`)
}

func TestHandleGetPost_InvalidID(t *testing.T) {
	srv := newTestServer(t, &mockPostService{}, &mockUserService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := srv.handleGetPost(c)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
}

func TestHandleGetPost_NotFound(t *testing.T) {
	posts := &mockPostService{
		getPostFn: func(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*domain.PostView, error) {
			return nil, domain.ErrPostNotFound
		},
	}
	srv := newTestServer(t, posts, &mockUserService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := srv.handleGetPost(c)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus())
}

func TestHandleToggleLike(t *testing.T) {
	postID := uuid.New()
	userID := uuid.New()
	kind := domain.ReactionLike

	posts := &mockPostService{
		toggleReactionFn: func(ctx context.Context, pID, uID uuid.UUID, k domain.ReactionKind) (*domain.PostView, error) {
			assert.Equal(t, postID, pID)
			assert.Equal(t, userID, uID)
			assert.Equal(t, domain.ReactionLike, k)
			return testPostView(postID, 1, 0, &kind), nil
		},
	}
	srv := newTestServer(t, posts, &mockUserService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(postID.String())
	c.Set("userID", userID)

	err := srv.handleToggleLike(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"likeCount":1`)
	assert.Contains(t, rec.Body.String(), `"viewerReaction":"LIKE"`)
}

func TestHandleToggleDislike_RemovalReturnsNullReaction(t *testing.T) {
	postID := uuid.New()
	userID := uuid.New()

	posts := &mockPostService{
		toggleReactionFn: func(ctx context.Context, pID, uID uuid.UUID, k domain.ReactionKind) (*domain.PostView, error) {
			assert.Equal(t, domain.ReactionDislike, k)
			return testPostView(postID, 0, 0, nil), nil
		},
	}
	srv := newTestServer(t, posts, &mockUserService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(postID.String())
	c.Set("userID", userID)

	err := srv.handleToggleDislike(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"viewerReaction":null`)
}

func TestHandleToggle_MissingIdentity(t *testing.T) {
	srv := newTestServer(t, &mockPostService{}, &mockUserService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	// userID never set - middleware was bypassed

	err := srv.handleToggleLike(c)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus())
}

func TestHandleToggle_Conflict(t *testing.T) {
	posts := &mockPostService{
		toggleReactionFn: func(ctx context.Context, pID, uID uuid.UUID, k domain.ReactionKind) (*domain.PostView, error) {
			return nil, domain.ErrToggleConflict
		},
	}
	srv := newTestServer(t, posts, &mockUserService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	c.Set("userID", uuid.New())

	err := srv.handleToggleLike(c)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus())
}

func TestHandleCreatePost(t *testing.T) {
	userID := uuid.New()

	posts := &mockPostService{
		createPostFn: func(ctx context.Context, authorID uuid.UUID, content string) (*domain.Post, error) {
			assert.Equal(t, userID, authorID)
			assert.Equal(t, "hello world", content)
			return &domain.Post{ID: uuid.New(), AuthorID: authorID, Content: content}, nil
		},
	}
	srv := newTestServer(t, posts, &mockUserService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":"hello world"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", userID)

	err := srv.handleCreatePost(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"content":"hello world"`)
}

func TestHandleCreatePost_EmptyContent(t *testing.T) {
	posts := &mockPostService{
		createPostFn: func(ctx context.Context, authorID uuid.UUID, content string) (*domain.Post, error) {
			return nil, domain.ErrInvalidReference
		},
	}
	srv := newTestServer(t, posts, &mockUserService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", uuid.New())

	err := srv.handleCreatePost(c)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
}

func TestHandleRegisterUser(t *testing.T) {
	users := &mockUserService{
		registerUserFn: func(ctx context.Context, username string) (*domain.User, error) {
			assert.Equal(t, "carol", username)
			return &domain.User{ID: uuid.New(), Username: username}, nil
		},
	}
	srv := newTestServer(t, &mockPostService{}, users)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"carol"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := srv.handleRegisterUser(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"carol"`)
	assert.Contains(t, rec.Body.String(), `"token":`)
}

func TestHandleRegisterUser_UsernameTaken(t *testing.T) {
	users := &mockUserService{
		registerUserFn: func(ctx context.Context, username string) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	srv := newTestServer(t, &mockPostService{}, users)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"dave"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := srv.handleRegisterUser(c)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus())
}
